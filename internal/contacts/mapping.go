package contacts

import (
	"database/sql"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tendline/tendline/pkg/civil"
	"github.com/tendline/tendline/pkg/query"
	"github.com/tendline/tendline/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "contacts", "c").
	Project("id", "ID").
	Project("tenant_id", "TenantID").
	Project("first_name", "FirstName").
	Project("last_name", "LastName").
	Project("email", "Email").
	Project("company", "Company").
	Project("nature", "Nature").
	Project("recency", "Recency").
	Project("awareness", "Awareness").
	Project("last_contacted_at", "LastContactedAt").
	Project("last_responded_at", "LastRespondedAt").
	Project("do_not_contact", "DoNotContact").
	Project("next_engagement_date", "NextEngagementDate").
	Project("next_engagement_purpose", "NextEngagementPurpose").
	Project("next_contact_note", "NextContactNote").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "LastName"},
	{Field: "FirstName"},
}

// Filters contains optional filtering criteria for contact queries.
// Nil fields are ignored. Classification axes and DoNotContact use exact
// matching; Email and Company use case-insensitive contains matching.
type Filters struct {
	TenantID     *uuid.UUID `json:"tenant_id,omitempty"`
	Nature       *string    `json:"nature,omitempty"`
	Recency      *string    `json:"recency,omitempty"`
	Awareness    *string    `json:"awareness,omitempty"`
	DoNotContact *bool      `json:"do_not_contact,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Company      *string    `json:"company,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("TenantID", f.TenantID).
		WhereEquals("Nature", f.Nature).
		WhereEquals("Recency", f.Recency).
		WhereEquals("Awareness", f.Awareness).
		WhereEquals("DoNotContact", f.DoNotContact).
		WhereContains("Email", f.Email).
		WhereContains("Company", f.Company)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("tenant_id"); t != "" {
		if id, err := uuid.Parse(t); err == nil {
			f.TenantID = &id
		}
	}

	if n := values.Get("nature"); n != "" {
		f.Nature = &n
	}

	if r := values.Get("recency"); r != "" {
		f.Recency = &r
	}

	if a := values.Get("awareness"); a != "" {
		f.Awareness = &a
	}

	if d := values.Get("do_not_contact"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			f.DoNotContact = &v
		}
	}

	if e := values.Get("email"); e != "" {
		f.Email = &e
	}

	if c := values.Get("company"); c != "" {
		f.Company = &c
	}

	return f
}

func scanContact(s repository.Scanner) (Contact, error) {
	var (
		c             Contact
		lastContacted sql.NullTime
		lastResponded sql.NullTime
		nextDate      sql.NullTime
	)

	err := s.Scan(
		&c.ID,
		&c.TenantID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Company,
		&c.Nature,
		&c.Recency,
		&c.Awareness,
		&lastContacted,
		&lastResponded,
		&c.DoNotContact,
		&nextDate,
		&c.NextEngagementPurpose,
		&c.NextContactNote,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}

	c.LastContactedAt = nullableTime(lastContacted)
	c.LastRespondedAt = nullableTime(lastResponded)
	c.NextEngagementDate = nullableDate(nextDate)
	return c, nil
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// nullableDate converts a scanned DATE column to a civil date. The driver
// surfaces DATE values as midnight timestamps; only the calendar components
// are meaningful.
func nullableDate(v sql.NullTime) *civil.Date {
	if !v.Valid {
		return nil
	}
	d := civil.DateOf(v.Time)
	return &d
}
