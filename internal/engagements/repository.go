package engagements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/civil"
	"github.com/tendline/tendline/pkg/query"
	"github.com/tendline/tendline/pkg/repository"
)

type store struct {
	db *sql.DB
}

// NewStore creates the PostgreSQL-backed Store over the contacts table.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) ScheduleState(ctx context.Context, contactID uuid.UUID) (*ScheduleState, error) {
	q, args := query.NewBuilder(stateProjection).BuildSingle("ID", contactID)

	st, err := repository.QueryOne(ctx, s.db, q, args, scanScheduleState)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load schedule state: %w", err)
	}
	return &st, nil
}

func (s *store) CandidateIDs(ctx context.Context, tenantID *uuid.UUID) ([]uuid.UUID, error) {
	q := "SELECT id FROM contacts WHERE do_not_contact = false"
	args := make([]any, 0, 1)

	if tenantID != nil {
		q += " AND tenant_id = $1"
		args = append(args, *tenantID)
	}
	q += " ORDER BY id"

	ids, err := repository.QueryMany(ctx, s.db, q, args, scanID)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	return ids, nil
}

// SetNextEngagement writes conditionally: the IS DISTINCT FROM guard makes
// the statement a no-op when the stored date already matches, so a repeated
// recompute reports Updated: false without a read-compare round trip.
func (s *store) SetNextEngagement(ctx context.Context, contactID uuid.UUID, date civil.Date) (bool, error) {
	const q = `
		UPDATE contacts
		SET next_engagement_date = $2::date, updated_at = now()
		WHERE id = $1
		  AND do_not_contact = false
		  AND next_engagement_date IS DISTINCT FROM $2::date`

	changed, err := repository.ExecReportChange(ctx, s.db, q, contactID, date.String())
	if err != nil {
		return false, fmt.Errorf("set next engagement: %w", err)
	}
	return changed, nil
}

func (s *store) ClearNextEngagement(ctx context.Context, contactID uuid.UUID) (bool, error) {
	const q = `
		UPDATE contacts
		SET next_engagement_date = NULL,
			next_engagement_purpose = NULL,
			next_contact_note = NULL,
			updated_at = now()
		WHERE id = $1
		  AND (next_engagement_date IS NOT NULL
			OR next_engagement_purpose IS NOT NULL
			OR next_contact_note IS NOT NULL)`

	changed, err := repository.ExecReportChange(ctx, s.db, q, contactID)
	if err != nil {
		return false, fmt.Errorf("clear next engagement: %w", err)
	}
	return changed, nil
}

func (s *store) WriteSchedule(ctx context.Context, contactID uuid.UUID, cmd ScheduleCommand) error {
	const q = `
		UPDATE contacts
		SET next_engagement_date = $2::date,
			next_engagement_purpose = $3,
			next_contact_note = $4,
			updated_at = now()
		WHERE id = $1 AND do_not_contact = false`

	changed, err := repository.ExecReportChange(ctx, s.db, q,
		contactID, cmd.Date.String(), cmd.Purpose, cmd.Note)
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	if changed {
		return nil
	}

	// Zero rows means the contact is missing or opted out; one more
	// lookup tells the caller which.
	var optedOut bool
	err = s.db.QueryRowContext(ctx,
		"SELECT do_not_contact FROM contacts WHERE id = $1", contactID,
	).Scan(&optedOut)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	if optedOut {
		return ErrOptedOut
	}
	return ErrNotFound
}

func (s *store) Reminders(ctx context.Context, tenantID uuid.UUID, rq UpcomingQuery) ([]Reminder, error) {
	qb := query.
		NewBuilder(reminderProjection, reminderSort...).
		WhereEquals("TenantID", tenantID).
		WhereEquals("DoNotContact", false).
		WhereNotNull("NextEngagementDate")

	if rq.DateFrom != nil {
		qb.WhereGte("NextEngagementDate", rq.DateFrom.String())
	}
	if rq.DateTo != nil {
		qb.WhereLte("NextEngagementDate", rq.DateTo.String())
	}

	q, args := qb.BuildLimited(rq.Limit)

	items, err := repository.QueryMany(ctx, s.db, q, args, scanReminder)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	return items, nil
}

func scanID(s repository.Scanner) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.Scan(&id)
	return id, err
}
