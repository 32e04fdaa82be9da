// Package civil provides calendar-date arithmetic in a single fixed
// reference timezone. A Date carries no time-of-day and no offset; every
// component that touches scheduling agrees on what "today" means because
// it is always derived through a Clock bound to the reference location.
package civil

import (
	"fmt"
	"time"
)

// Layout is the canonical wire and storage format for civil dates.
const Layout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
// The zero value is invalid; construct via NewDate, Parse, or DateOf.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Parse interprets s in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse civil date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParse is Parse for statically known inputs; it panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the Date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// String renders the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.anchor().Format(Layout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n calendar days later; n may be negative.
func (d Date) AddDays(n int) Date {
	return DateOf(d.anchor().AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other.
// Both dates are anchored to noon UTC before subtracting, so the result
// is exact regardless of daylight-saving transitions between them.
func (d Date) DaysUntil(other Date) int {
	return int(other.anchor().Sub(d.anchor()) / (24 * time.Hour))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// Compare returns -1, 0, or 1 as d is earlier than, equal to,
// or later than other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// anchor pins the date to noon UTC. Noon keeps day arithmetic clear of
// both midnight boundary ambiguity and DST transition hours.
func (d Date) anchor() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
