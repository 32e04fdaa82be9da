package engagements

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tendline/tendline/internal/cadence"
	"github.com/tendline/tendline/pkg/civil"
	"github.com/tendline/tendline/pkg/locks"
	"github.com/tendline/tendline/pkg/repository"
)

// Settings tunes the engine. Zero values fall back to the defaults below.
type Settings struct {
	// Workers bounds batch concurrency.
	Workers int
	// DefaultReminderLimit applies when a query carries no limit.
	DefaultReminderLimit int
	// MaxReminderLimit caps any requested limit.
	MaxReminderLimit int
	// LockTTL bounds how long a batch advisory lock may outlive its holder.
	LockTTL time.Duration
}

const (
	defaultWorkers       = 8
	defaultReminderLimit = 50
	maxReminderLimit     = 200
	defaultLockTTL       = 10 * time.Minute
)

func (s *Settings) finalize() {
	if s.Workers <= 0 {
		s.Workers = defaultWorkers
	}
	if s.DefaultReminderLimit <= 0 {
		s.DefaultReminderLimit = defaultReminderLimit
	}
	if s.MaxReminderLimit <= 0 {
		s.MaxReminderLimit = maxReminderLimit
	}
	if s.LockTTL <= 0 {
		s.LockTTL = defaultLockTTL
	}
}

type service struct {
	store    Store
	clock    *civil.Clock
	table    *cadence.Table
	locks    locks.System
	settings Settings
	logger   *slog.Logger
}

// New creates the engagement engine. lockSys may be nil, in which case
// batch runs are not guarded against overlap.
func New(
	store Store,
	clock *civil.Clock,
	table *cadence.Table,
	lockSys locks.System,
	settings Settings,
	logger *slog.Logger,
) System {
	settings.finalize()

	return &service{
		store:    store,
		clock:    clock,
		table:    table,
		locks:    lockSys,
		settings: settings,
		logger:   logger.With("system", "engagements"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Recompute(ctx context.Context, contactID uuid.UUID) (RecomputeResult, error) {
	st, err := s.store.ScheduleState(ctx, contactID)
	if err != nil {
		return RecomputeResult{}, storeErr(err)
	}

	// Opted-out contacts never carry a schedule. Clearing here is the
	// backstop for rows opted out before the engine owned the column.
	if st.DoNotContact {
		if _, err := s.store.ClearNextEngagement(ctx, contactID); err != nil {
			return RecomputeResult{}, storeErr(err)
		}
		return RecomputeResult{Updated: false}, nil
	}

	class, err := cadence.NewClassification(st.Nature, st.Recency, st.Awareness)
	if err != nil {
		return RecomputeResult{}, err
	}

	days, err := s.table.Resolve(class, st.LastRespondedAt != nil)
	if err != nil {
		return RecomputeResult{}, err
	}

	anchor := s.clock.Today()
	if st.LastContactedAt != nil {
		anchor = s.clock.DateOf(*st.LastContactedAt)
	}
	next := anchor.AddDays(days)

	changed, err := s.store.SetNextEngagement(ctx, contactID, next)
	if err != nil {
		return RecomputeResult{}, storeErr(err)
	}

	return RecomputeResult{Updated: changed}, nil
}

func (s *service) RecalculateAll(ctx context.Context, tenantID *uuid.UUID) (BatchResult, error) {
	scope := "recalculate:all"
	if tenantID != nil {
		scope = "recalculate:" + tenantID.String()
	}

	release, err := s.acquireLock(ctx, scope)
	if err != nil {
		return BatchResult{}, err
	}
	defer release()

	ids, err := s.store.CandidateIDs(ctx, tenantID)
	if err != nil {
		return BatchResult{}, storeErr(err)
	}

	var updated, faults atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Workers)

	for _, id := range ids {
		g.Go(func() error {
			res, err := s.Recompute(gctx, id)
			if err != nil {
				if contactFault(err) {
					faults.Add(1)
					s.logger.Warn("contact skipped during recalculation",
						"contact_id", id, "error", err)
					return nil
				}
				return err
			}
			if res.Updated {
				updated.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{
		Updated: int(updated.Load()),
		Errors:  int(faults.Load()),
		Total:   len(ids),
	}

	s.logger.Info("recalculation complete",
		"scope", scope,
		"total", result.Total,
		"updated", result.Updated,
		"errors", result.Errors)

	return result, nil
}

func (s *service) Schedule(ctx context.Context, contactID uuid.UUID, cmd ScheduleCommand) error {
	if cmd.Date.IsZero() {
		return fmt.Errorf("%w: date required", ErrInvalidInput)
	}

	if err := s.store.WriteSchedule(ctx, contactID, cmd); err != nil {
		return storeErr(err)
	}

	s.logger.Info("engagement scheduled", "contact_id", contactID, "date", cmd.Date)
	return nil
}

func (s *service) Upcoming(ctx context.Context, tenantID uuid.UUID, q UpcomingQuery) ([]Reminder, error) {
	q.Limit = s.normalizeLimit(q.Limit)

	// An unbounded query means "from today on"; overdue rows surface
	// through the digest, not here.
	if q.DateFrom == nil && q.DateTo == nil {
		today := s.clock.Today()
		q.DateFrom = &today
	}

	items, err := s.store.Reminders(ctx, tenantID, q)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

func (s *service) DueToday(ctx context.Context, tenantID uuid.UUID, limit int) ([]Reminder, error) {
	today := s.clock.Today()

	items, err := s.store.Reminders(ctx, tenantID, UpcomingQuery{
		Limit:    s.normalizeLimit(limit),
		DateFrom: &today,
		DateTo:   &today,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// Digest buckets one open-window projection, so overdue, due-today, and
// upcoming entries always come from the same snapshot.
func (s *service) Digest(ctx context.Context, tenantID uuid.UUID, limit int) (*Digest, error) {
	items, err := s.store.Reminders(ctx, tenantID, UpcomingQuery{
		Limit: s.normalizeLimit(limit),
	})
	if err != nil {
		return nil, storeErr(err)
	}

	today := s.clock.Today()
	digest := &Digest{
		Overdue:  make([]DigestEntry, 0),
		DueToday: make([]DigestEntry, 0),
		Upcoming: make([]DigestEntry, 0),
	}

	for _, rem := range items {
		entry := DigestEntry{
			Reminder: rem,
			Label:    s.clock.RelativeLabel(today, rem.NextEngagementDate),
		}

		switch rem.NextEngagementDate.Compare(today) {
		case -1:
			digest.Overdue = append(digest.Overdue, entry)
		case 0:
			digest.DueToday = append(digest.DueToday, entry)
		default:
			digest.Upcoming = append(digest.Upcoming, entry)
		}
	}

	return digest, nil
}

// acquireLock takes the batch advisory lock when a lock system is
// configured. A lock held elsewhere rejects the run; an unreachable lock
// backend degrades to running unguarded, since recompute is idempotent.
func (s *service) acquireLock(ctx context.Context, scope string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}

	held, err := s.locks.TryAcquire(ctx, scope, s.settings.LockTTL)
	if err != nil {
		s.logger.Warn("lock backend unavailable, running unguarded",
			"scope", scope, "error", err)
		return func() {}, nil
	}
	if !held {
		return nil, ErrBatchInProgress
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.locks.Release(releaseCtx, scope); err != nil {
			s.logger.Warn("lock release failed, will expire by ttl",
				"scope", scope, "error", err)
		}
	}, nil
}

func (s *service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.settings.DefaultReminderLimit
	}
	if limit > s.settings.MaxReminderLimit {
		return s.settings.MaxReminderLimit
	}
	return limit
}

func storeErr(err error) error {
	if repository.Unavailable(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
