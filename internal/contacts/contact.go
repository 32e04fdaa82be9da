// Package contacts implements the contact domain for Tendline.
// It provides types, data access, and business logic for the tenant-scoped
// address book whose rows carry the engagement scheduling fields.
package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendline/tendline/internal/cadence"
	"github.com/tendline/tendline/pkg/civil"
)

// Contact represents one person in a tenant's address book.
// NextEngagementDate, NextEngagementPurpose, and NextContactNote are owned
// by the engagement scheduler; this package reads them but never computes
// or mutates the date on its own, except to clear it on opt-out.
type Contact struct {
	ID                    uuid.UUID         `json:"id"`
	TenantID              uuid.UUID         `json:"tenant_id"`
	FirstName             string            `json:"first_name"`
	LastName              string            `json:"last_name"`
	Email                 string            `json:"email"`
	Company               string            `json:"company"`
	Nature                cadence.Nature    `json:"nature"`
	Recency               cadence.Recency   `json:"recency"`
	Awareness             cadence.Awareness `json:"awareness"`
	LastContactedAt       *time.Time        `json:"last_contacted_at"`
	LastRespondedAt       *time.Time        `json:"last_responded_at"`
	DoNotContact          bool              `json:"do_not_contact"`
	NextEngagementDate    *civil.Date       `json:"next_engagement_date"`
	NextEngagementPurpose *string           `json:"next_engagement_purpose"`
	NextContactNote       *string           `json:"next_contact_note"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// Classification returns the contact's composite relationship classification.
func (c *Contact) Classification() cadence.Classification {
	return cadence.Classification{
		Nature:    c.Nature,
		Recency:   c.Recency,
		Awareness: c.Awareness,
	}
}

// CreateCommand carries the data needed to register a new contact.
type CreateCommand struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Nature    string    `json:"nature"`
	Recency   string    `json:"recency"`
	Awareness string    `json:"awareness"`
}

// UpdateCommand carries contact detail and classification changes.
// A classification change is a scheduling trigger; the handler requests
// a recompute after a successful update.
type UpdateCommand struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Nature    string `json:"nature"`
	Recency   string `json:"recency"`
	Awareness string `json:"awareness"`
}

// TouchDirection distinguishes outbound touches from inbound responses.
type TouchDirection string

// Touch directions.
const (
	TouchOutbound TouchDirection = "outbound"
	TouchInbound  TouchDirection = "inbound"
)

// TouchCommand records an interaction with the contact. A zero At means
// "now". Outbound touches move last_contacted_at; inbound responses move
// last_responded_at. Both are scheduling triggers.
type TouchCommand struct {
	Direction TouchDirection `json:"direction"`
	At        time.Time      `json:"at"`
}
