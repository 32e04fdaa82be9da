// Package engagements implements the contact engagement cadence engine.
// It owns the next_engagement_date column: the scheduler computes and
// persists it, the batch reconciles it, and the query side projects it.
// No other component writes that field.
package engagements

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/civil"
)

// RecomputeResult reports the outcome of a single recompute.
// Updated is true only when the stored date actually changed.
type RecomputeResult struct {
	Updated bool `json:"updated"`
}

// BatchResult aggregates a reconciliation pass. Updated counts contacts
// whose stored date changed, Errors counts per-contact failures, and
// Total is the candidate set size.
type BatchResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// ScheduleCommand carries a manual scheduling request: an explicit date
// with the purpose and note that travel alongside it.
type ScheduleCommand struct {
	Date    civil.Date `json:"date"`
	Purpose *string    `json:"purpose,omitempty"`
	Note    *string    `json:"note,omitempty"`
}

// UpcomingQuery bounds the reminder projection. A nil DateFrom/DateTo
// leaves that side of the window open. Limit is normalized against the
// configured maximum.
type UpcomingQuery struct {
	Limit    int
	DateFrom *civil.Date
	DateTo   *civil.Date
}

// Reminder is the consumer-agnostic projection of one scheduled contact.
type Reminder struct {
	ContactID          uuid.UUID  `json:"contact_id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	NextEngagementDate civil.Date `json:"next_engagement_date"`
	Purpose            *string    `json:"next_engagement_purpose"`
	Note               *string    `json:"next_contact_note"`
	LastContactedAt    *time.Time `json:"last_contacted_at"`
	LastRespondedAt    *time.Time `json:"last_responded_at"`
}

// DigestEntry decorates a Reminder with its relative label
// ("Today", "Tomorrow", or a formatted date).
type DigestEntry struct {
	Reminder
	Label string `json:"label"`
}

// Digest buckets reminders for dashboards and digest emails. All three
// buckets come from one underlying query, so they always agree with the
// other read shapes.
type Digest struct {
	Overdue  []DigestEntry `json:"overdue"`
	DueToday []DigestEntry `json:"due_today"`
	Upcoming []DigestEntry `json:"upcoming"`
}

// ScheduleState is the slice of a contact the scheduler needs: opt-out
// flag, classification axes as stored, interaction timestamps, and the
// currently persisted date.
type ScheduleState struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	DoNotContact       bool
	Nature             string
	Recency            string
	Awareness          string
	LastContactedAt    *time.Time
	LastRespondedAt    *time.Time
	NextEngagementDate *civil.Date
}
