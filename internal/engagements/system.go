package engagements

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/civil"
)

// System defines the public contract of the cadence engine.
type System interface {
	Handler() *Handler

	// Recompute derives and persists one contact's next engagement date.
	// Opted-out contacts get their schedule cleared and report
	// Updated: false. "Nothing to do" is success, never an error.
	Recompute(ctx context.Context, contactID uuid.UUID) (RecomputeResult, error)

	// RecalculateAll reconciles every eligible contact, scoped to one
	// tenant when tenantID is non-nil. Per-contact failures are counted;
	// only a store-level failure aborts.
	RecalculateAll(ctx context.Context, tenantID *uuid.UUID) (BatchResult, error)

	// Schedule sets an explicit date with purpose and note through the
	// same write path the scheduler uses.
	Schedule(ctx context.Context, contactID uuid.UUID, cmd ScheduleCommand) error

	// Upcoming projects scheduled contacts ordered soonest-first.
	Upcoming(ctx context.Context, tenantID uuid.UUID, q UpcomingQuery) ([]Reminder, error)

	// DueToday restricts the projection to today's civil date.
	DueToday(ctx context.Context, tenantID uuid.UUID, limit int) ([]Reminder, error)

	// Digest buckets the projection into overdue, due-today, and upcoming.
	Digest(ctx context.Context, tenantID uuid.UUID, limit int) (*Digest, error)
}

// Store is the persistence boundary of the engine. The production
// implementation runs over PostgreSQL; tests substitute an in-memory fake.
type Store interface {
	// ScheduleState loads the scheduling slice of one contact.
	// Returns ErrNotFound when the contact does not exist.
	ScheduleState(ctx context.Context, contactID uuid.UUID) (*ScheduleState, error)

	// CandidateIDs selects contacts eligible for reconciliation
	// (do_not_contact = false), tenant-scoped when tenantID is non-nil,
	// in stable primary-key order.
	CandidateIDs(ctx context.Context, tenantID *uuid.UUID) ([]uuid.UUID, error)

	// SetNextEngagement persists the computed date only when it differs
	// from the stored value, reporting whether a write occurred.
	SetNextEngagement(ctx context.Context, contactID uuid.UUID, date civil.Date) (bool, error)

	// ClearNextEngagement nulls the date, purpose, and note, reporting
	// whether anything was cleared.
	ClearNextEngagement(ctx context.Context, contactID uuid.UUID) (bool, error)

	// WriteSchedule persists an explicit date with purpose and note.
	// Returns ErrNotFound when the contact does not exist.
	WriteSchedule(ctx context.Context, contactID uuid.UUID, cmd ScheduleCommand) error

	// Reminders projects scheduled contacts for one tenant, bounded and
	// ordered by (next_engagement_date, id) ascending.
	Reminders(ctx context.Context, tenantID uuid.UUID, q UpcomingQuery) ([]Reminder, error)
}
