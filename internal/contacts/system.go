package contacts

import (
	"context"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/pagination"
)

// Rescheduler requests recomputation of a contact's next engagement date
// after a scheduling trigger fires (classification change, new touch).
// Implemented by the engagements system.
type Rescheduler interface {
	Recompute(ctx context.Context, contactID uuid.UUID) error
}

// System defines the public contract for contact domain operations.
type System interface {
	Handler(rescheduler Rescheduler) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Contact], error)

	Find(ctx context.Context, id uuid.UUID) (*Contact, error)
	Create(ctx context.Context, cmd CreateCommand) (*Contact, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Contact, error)
	RecordTouch(ctx context.Context, id uuid.UUID, cmd TouchCommand) (*Contact, error)
	OptOut(ctx context.Context, id uuid.UUID) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
