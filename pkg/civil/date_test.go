package civil_test

import (
	"testing"
	"time"

	"github.com/tendline/tendline/pkg/civil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    civil.Date
		wantErr bool
	}{
		{"valid date", "2024-02-19", civil.NewDate(2024, time.February, 19), false},
		{"leap day", "2024-02-29", civil.NewDate(2024, time.February, 29), false},
		{"invalid leap day", "2023-02-29", civil.Date{}, true},
		{"timestamp rejected", "2024-02-19T10:00:00Z", civil.Date{}, true},
		{"empty", "", civil.Date{}, true},
		{"garbage", "not-a-date", civil.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := civil.Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	d := civil.NewDate(2024, time.February, 26)
	if got := d.String(); got != "2024-02-26" {
		t.Errorf("String() = %q, want 2024-02-26", got)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		from string
		days int
		want string
	}{
		{"week forward", "2024-02-19", 7, "2024-02-26"},
		{"month rollover", "2024-01-31", 1, "2024-02-01"},
		{"leap february", "2024-02-28", 1, "2024-02-29"},
		{"year rollover", "2023-12-25", 10, "2024-01-04"},
		{"negative", "2024-03-05", -5, "2024-02-29"},
		{"zero", "2024-06-15", 0, "2024-06-15"},
		{"across spring dst", "2024-03-09", 2, "2024-03-11"},
		{"across fall dst", "2024-11-02", 2, "2024-11-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := civil.MustParse(tt.from).AddDays(tt.days)
			if got.String() != tt.want {
				t.Errorf("%s.AddDays(%d) = %s, want %s", tt.from, tt.days, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"same day", "2024-02-19", "2024-02-19", 0},
		{"one forward", "2024-02-25", "2024-02-26", 1},
		{"one backward", "2024-02-26", "2024-02-25", -1},
		{"across spring dst", "2024-03-09", "2024-03-11", 2},
		{"across fall dst", "2024-11-02", "2024-11-04", 2},
		{"full year", "2024-01-01", "2025-01-01", 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := civil.MustParse(tt.from).DaysUntil(civil.MustParse(tt.to))
			if got != tt.want {
				t.Errorf("DaysUntil(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// Round trip: for any two dates, adding the diff to the first yields the second.
func TestDaysUntilAddDaysRoundTrip(t *testing.T) {
	dates := []string{
		"2024-01-01", "2024-02-29", "2024-03-10", "2024-11-03",
		"2023-12-31", "2025-06-15", "2020-02-29",
	}

	for _, from := range dates {
		for _, to := range dates {
			d1 := civil.MustParse(from)
			d2 := civil.MustParse(to)
			if got := d1.AddDays(d1.DaysUntil(d2)); got != d2 {
				t.Errorf("%s.AddDays(DaysUntil(%s)) = %s, want %s", from, to, got, to)
			}
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal", "2024-05-01", "2024-05-01", 0},
		{"earlier year", "2023-12-31", "2024-01-01", -1},
		{"earlier month", "2024-04-30", "2024-05-01", -1},
		{"later day", "2024-05-02", "2024-05-01", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := civil.MustParse(tt.a)
			b := civil.MustParse(tt.b)
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := a.Before(b); got != (tt.want < 0) {
				t.Errorf("Before(%s, %s) = %v", tt.a, tt.b, got)
			}
			if got := a.After(b); got != (tt.want > 0) {
				t.Errorf("After(%s, %s) = %v", tt.a, tt.b, got)
			}
		})
	}
}

func TestTextMarshaling(t *testing.T) {
	d := civil.MustParse("2024-02-26")

	data, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(data) != "2024-02-26" {
		t.Errorf("MarshalText = %q, want 2024-02-26", data)
	}

	var parsed civil.Date
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip = %v, want %v", parsed, d)
	}

	if err := parsed.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) succeeded, want error")
	}
}
