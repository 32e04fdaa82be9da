package engagements

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/handlers"
	"github.com/tendline/tendline/pkg/routes"
)

// Handler provides HTTP endpoints for engagement operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "engagements"),
	}
}

// Routes returns the route group definition for engagement endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/engagements",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/contacts/{id}/recompute", Handler: h.Recompute},
			{Method: "POST", Pattern: "/contacts/{id}/schedule", Handler: h.Schedule},
			{Method: "POST", Pattern: "/recalculate", Handler: h.Recalculate},
			{Method: "GET", Pattern: "/reminders", Handler: h.Upcoming},
			{Method: "GET", Pattern: "/due-today", Handler: h.DueToday},
			{Method: "GET", Pattern: "/digest", Handler: h.Digest},
		},
	}
}

// Recompute recalculates one contact's next engagement date.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	result, err := h.sys.Recompute(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Schedule sets an explicit engagement date for one contact.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	var cmd ScheduleCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := h.sys.Schedule(r.Context(), id, cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Recalculate runs a reconciliation batch, scoped to one tenant when the
// tenant_id query parameter is present.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var tenantID *uuid.UUID
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
			return
		}
		tenantID = &id
	}

	result, err := h.sys.RecalculateAll(r.Context(), tenantID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upcoming lists scheduled reminders for a tenant, soonest first.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	q, err := UpcomingQueryFromValues(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := h.sys.Upcoming(r.Context(), tenantID, q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// DueToday lists reminders falling on today's civil date.
func (h *Handler) DueToday(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	items, err := h.sys.DueToday(r.Context(), tenantID, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Digest returns reminders bucketed into overdue, due-today, and upcoming.
func (h *Handler) Digest(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}

	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	digest, err := h.sys.Digest(r.Context(), tenantID, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, digest)
}

func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return 0, false
	}
	return limit, true
}
