package civil

import (
	"fmt"
	"time"
)

// DefaultTimezone is the reference civil timezone when none is configured.
const DefaultTimezone = "America/New_York"

// DisplayLayout is the human-readable rendering used by dashboards
// and digest emails.
const DisplayLayout = "Mon, Jan 2, 2006"

// Clock derives civil dates from wall-clock time in one fixed reference
// location. The meaning of "today" never depends on the caller's locale
// or the host timezone. Clock is immutable and safe for concurrent use.
type Clock struct {
	location *time.Location
	now      func() time.Time
}

// Option customizes Clock construction.
type Option func(*Clock)

// WithNow fixes the wall-clock source, used by tests to pin "today".
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock creates a Clock for the named IANA timezone.
func NewClock(timezone string, opts ...Option) (*Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", timezone, err)
	}

	c := &Clock{
		location: loc,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Location returns the reference location.
func (c *Clock) Location() *time.Location {
	return c.location
}

// Today returns the current civil date in the reference timezone.
func (c *Clock) Today() Date {
	return c.DateOf(c.now())
}

// DateOf returns the civil date of t as observed in the reference timezone.
func (c *Clock) DateOf(t time.Time) Date {
	return DateOf(t.In(c.location))
}

// FormatDisplay renders d for human consumption.
func (c *Clock) FormatDisplay(d Date) string {
	return d.anchor().Format(DisplayLayout)
}

// RelativeLabel returns "Today", "Tomorrow", or "Yesterday" when d falls
// zero or one days from today, and the display rendering otherwise.
func (c *Clock) RelativeLabel(today, d Date) string {
	switch today.DaysUntil(d) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	default:
		return c.FormatDisplay(d)
	}
}
