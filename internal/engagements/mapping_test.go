package engagements_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/tendline/tendline/internal/engagements"
)

func TestUpcomingQueryFromValues(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "10")
	values.Set("date_from", "2024-03-01")
	values.Set("date_to", "2024-03-15")

	q, err := engagements.UpcomingQueryFromValues(values)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if q.Limit != 10 {
		t.Errorf("limit: got %d, want 10", q.Limit)
	}
	if q.DateFrom == nil || q.DateFrom.String() != "2024-03-01" {
		t.Errorf("date_from: got %v, want 2024-03-01", q.DateFrom)
	}
	if q.DateTo == nil || q.DateTo.String() != "2024-03-15" {
		t.Errorf("date_to: got %v, want 2024-03-15", q.DateTo)
	}
}

func TestUpcomingQueryFromValuesEmpty(t *testing.T) {
	q, err := engagements.UpcomingQueryFromValues(url.Values{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if q.Limit != 0 {
		t.Errorf("limit: got %d, want 0", q.Limit)
	}
	if q.DateFrom != nil || q.DateTo != nil {
		t.Error("unset bounds should be nil")
	}
}

func TestUpcomingQueryFromValuesInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"bad limit", url.Values{"limit": {"ten"}}},
		{"bad date_from", url.Values{"date_from": {"03/01/2024"}}},
		{"bad date_to", url.Values{"date_to": {"soon"}}},
		{"inverted window", url.Values{
			"date_from": {"2024-03-15"},
			"date_to":   {"2024-03-01"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engagements.UpcomingQueryFromValues(tt.values)
			if !errors.Is(err, engagements.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
