package engagements

import (
	"database/sql"
	"net/url"
	"strconv"
	"time"

	"github.com/tendline/tendline/pkg/civil"
	"github.com/tendline/tendline/pkg/query"
	"github.com/tendline/tendline/pkg/repository"
)

// Both projections read the contacts table; the engine never joins.
// stateProjection feeds the scheduler, reminderProjection the query side.
var stateProjection = query.
	NewProjectionMap("public", "contacts", "c").
	Project("id", "ID").
	Project("tenant_id", "TenantID").
	Project("do_not_contact", "DoNotContact").
	Project("nature", "Nature").
	Project("recency", "Recency").
	Project("awareness", "Awareness").
	Project("last_contacted_at", "LastContactedAt").
	Project("last_responded_at", "LastRespondedAt").
	Project("next_engagement_date", "NextEngagementDate")

var reminderProjection = query.
	NewProjectionMap("public", "contacts", "c").
	Project("id", "ContactID").
	Project("tenant_id", "TenantID").
	Project("first_name", "FirstName").
	Project("last_name", "LastName").
	Project("email", "Email").
	Project("next_engagement_date", "NextEngagementDate").
	Project("next_engagement_purpose", "Purpose").
	Project("next_contact_note", "Note").
	Project("last_contacted_at", "LastContactedAt").
	Project("last_responded_at", "LastRespondedAt").
	Filter("do_not_contact", "DoNotContact")

// reminderSort makes limit behavior deterministic: soonest date first,
// contact id as the stable tiebreak.
var reminderSort = []query.SortField{
	{Field: "NextEngagementDate"},
	{Field: "ContactID"},
}

func scanScheduleState(s repository.Scanner) (ScheduleState, error) {
	var (
		st            ScheduleState
		lastContacted sql.NullTime
		lastResponded sql.NullTime
		nextDate      sql.NullTime
	)

	err := s.Scan(
		&st.ID,
		&st.TenantID,
		&st.DoNotContact,
		&st.Nature,
		&st.Recency,
		&st.Awareness,
		&lastContacted,
		&lastResponded,
		&nextDate,
	)
	if err != nil {
		return st, err
	}

	st.LastContactedAt = nullableTime(lastContacted)
	st.LastRespondedAt = nullableTime(lastResponded)
	st.NextEngagementDate = nullableDate(nextDate)
	return st, nil
}

func scanReminder(s repository.Scanner) (Reminder, error) {
	var (
		rem           Reminder
		nextDate      time.Time
		lastContacted sql.NullTime
		lastResponded sql.NullTime
	)

	err := s.Scan(
		&rem.ContactID,
		&rem.TenantID,
		&rem.FirstName,
		&rem.LastName,
		&rem.Email,
		&nextDate,
		&rem.Purpose,
		&rem.Note,
		&lastContacted,
		&lastResponded,
	)
	if err != nil {
		return rem, err
	}

	rem.NextEngagementDate = civil.DateOf(nextDate)
	rem.LastContactedAt = nullableTime(lastContacted)
	rem.LastRespondedAt = nullableTime(lastResponded)
	return rem, nil
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullableDate(v sql.NullTime) *civil.Date {
	if !v.Valid {
		return nil
	}
	d := civil.DateOf(v.Time)
	return &d
}

// UpcomingQueryFromValues parses limit, date_from, and date_to query
// parameters. Invalid dates are rejected; a missing limit defers to the
// service's configured default.
func UpcomingQueryFromValues(values url.Values) (UpcomingQuery, error) {
	var q UpcomingQuery

	if l := values.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return q, ErrInvalidInput
		}
		q.Limit = n
	}

	if from := values.Get("date_from"); from != "" {
		d, err := civil.Parse(from)
		if err != nil {
			return q, ErrInvalidInput
		}
		q.DateFrom = &d
	}

	if to := values.Get("date_to"); to != "" {
		d, err := civil.Parse(to)
		if err != nil {
			return q, ErrInvalidInput
		}
		q.DateTo = &d
	}

	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return q, ErrInvalidInput
	}

	return q, nil
}
