package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendline/tendline/internal/cadence"
	"github.com/tendline/tendline/internal/contacts"
	"github.com/tendline/tendline/internal/engagements"
	"github.com/tendline/tendline/pkg/civil"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Contacts    contacts.System
	Engagements engagements.System
}

// NewDomain creates all domain systems from the API runtime. It loads the
// cadence policy table and reference clock the engine depends on, so an
// invalid policy file fails startup rather than the first request.
func NewDomain(runtime *Runtime) (*Domain, error) {
	clock, err := civil.NewClock(runtime.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("clock init failed: %w", err)
	}

	table, err := cadence.LoadTable(runtime.Engine.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("cadence policy load failed: %w", err)
	}

	engagementsSystem := engagements.New(
		engagements.NewStore(runtime.Database.Connection()),
		clock,
		table,
		runtime.Locks,
		engagements.Settings{
			Workers:              runtime.Engine.BatchWorkers,
			DefaultReminderLimit: runtime.Engine.ReminderDefaultLimit,
			MaxReminderLimit:     runtime.Engine.ReminderMaxLimit,
			LockTTL:              runtime.LockTTL,
		},
		runtime.Logger,
	)

	contactsSystem := contacts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Contacts:    contactsSystem,
		Engagements: engagementsSystem,
	}, nil
}

// rescheduler adapts the engagement engine to the contact module's
// recompute trigger.
type rescheduler struct {
	sys engagements.System
}

func (r rescheduler) Recompute(ctx context.Context, contactID uuid.UUID) error {
	_, err := r.sys.Recompute(ctx, contactID)
	return err
}
