package engagements_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tendline/tendline/internal/engagements"
	"github.com/tendline/tendline/pkg/routes"
)

func newTestServer(t *testing.T, sys engagements.System) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHandlerRecompute(t *testing.T) {
	store := newFakeStore()
	id := store.add(prospectState("2024-02-19T15:30:00Z"))
	server := newTestServer(t, newService(t, store, "2024-02-21T12:00:00Z"))

	resp, err := http.Post(
		fmt.Sprintf("%s/engagements/contacts/%s/recompute", server.URL, id),
		"application/json",
		nil,
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var result engagements.RecomputeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !result.Updated {
		t.Error("first recompute should report an update")
	}
}

func TestHandlerRecomputeUnknownContact(t *testing.T) {
	server := newTestServer(t, newService(t, newFakeStore(), "2024-02-21T12:00:00Z"))

	resp, err := http.Post(
		fmt.Sprintf("%s/engagements/contacts/%s/recompute", server.URL, uuid.New()),
		"application/json",
		nil,
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestHandlerRecomputeInvalidID(t *testing.T) {
	server := newTestServer(t, newService(t, newFakeStore(), "2024-02-21T12:00:00Z"))

	resp, err := http.Post(
		server.URL+"/engagements/contacts/not-a-uuid/recompute",
		"application/json",
		nil,
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandlerSchedule(t *testing.T) {
	store := newFakeStore()
	id := store.add(prospectState(""))
	server := newTestServer(t, newService(t, store, "2024-02-21T12:00:00Z"))

	body := `{"date": "2024-03-15", "purpose": "quarterly check-in"}`
	resp, err := http.Post(
		fmt.Sprintf("%s/engagements/contacts/%s/schedule", server.URL, id),
		"application/json",
		strings.NewReader(body),
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}
}

func TestHandlerScheduleOptedOut(t *testing.T) {
	store := newFakeStore()
	st := prospectState("")
	st.DoNotContact = true
	id := store.add(st)
	server := newTestServer(t, newService(t, store, "2024-02-21T12:00:00Z"))

	resp, err := http.Post(
		fmt.Sprintf("%s/engagements/contacts/%s/schedule", server.URL, id),
		"application/json",
		strings.NewReader(`{"date": "2024-03-15"}`),
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status: got %d, want 409", resp.StatusCode)
	}
}

func TestHandlerRecalculate(t *testing.T) {
	store := newFakeStore()
	for range 3 {
		store.add(prospectState("2024-02-19T15:30:00Z"))
	}
	server := newTestServer(t, newService(t, store, "2024-02-21T12:00:00Z"))

	resp, err := http.Post(server.URL+"/engagements/recalculate", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var result engagements.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Total != 3 || result.Updated != 3 || result.Errors != 0 {
		t.Errorf("unexpected batch result: %+v", result)
	}
}

func TestHandlerRecalculateBadTenant(t *testing.T) {
	server := newTestServer(t, newService(t, newFakeStore(), "2024-02-21T12:00:00Z"))

	resp, err := http.Post(
		server.URL+"/engagements/recalculate?tenant_id=nope",
		"application/json",
		nil,
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandlerUpcoming(t *testing.T) {
	store := newFakeStore()
	tenant := uuid.New()

	st := prospectState("2024-02-19T15:30:00Z")
	st.TenantID = tenant
	id := store.add(st)

	sys := newService(t, store, "2024-02-21T12:00:00Z")
	if _, err := sys.Recompute(t.Context(), id); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	server := newTestServer(t, sys)

	resp, err := http.Get(server.URL + "/engagements/reminders?tenant_id=" + tenant.String())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var items []engagements.Reminder
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	if items[0].NextEngagementDate.String() != "2024-02-26" {
		t.Errorf("date: got %s, want 2024-02-26", items[0].NextEngagementDate)
	}
}

func TestHandlerUpcomingRequiresTenant(t *testing.T) {
	server := newTestServer(t, newService(t, newFakeStore(), "2024-02-21T12:00:00Z"))

	resp, err := http.Get(server.URL + "/engagements/reminders")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestHandlerDigest(t *testing.T) {
	store := newFakeStore()
	tenant := uuid.New()

	st := prospectState("2024-02-19T15:30:00Z")
	st.TenantID = tenant
	id := store.add(st)

	sys := newService(t, store, "2024-02-21T12:00:00Z")
	if _, err := sys.Recompute(t.Context(), id); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	server := newTestServer(t, sys)

	resp, err := http.Get(server.URL + "/engagements/digest?tenant_id=" + tenant.String())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var digest engagements.Digest
	if err := json.NewDecoder(resp.Body).Decode(&digest); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(digest.Upcoming) != 1 {
		t.Errorf("upcoming: got %d, want 1", len(digest.Upcoming))
	}
	if len(digest.Overdue) != 0 || len(digest.DueToday) != 0 {
		t.Errorf("unexpected buckets: %+v", digest)
	}
}
