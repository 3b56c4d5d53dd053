package reconcile

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, no time-of-day component
// =============================================================================

// Date is a calendar day in UTC. The zero value is "no date".
type Date struct {
	t time.Time
}

const isoDate = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// DateOf truncates a time.Time to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic and properties
func (d Date) AddDays(n int) Date       { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Weekday() time.Weekday    { return d.t.Weekday() }
func (d Date) Time() time.Time          { return d.t }
func (d Date) String() string           { return d.t.Format(isoDate) }

// MarshalText/UnmarshalText make Date usable directly in JSON payloads.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateSpan returns the minimum and maximum of dates. ok is false for an
// empty input.
func DateSpan(dates []Date) (min, max Date, ok bool) {
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if !ok {
			min, max, ok = d, d, true
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, ok
}

// =============================================================================
// CLOCK TIME - "HH:MM" strings as carried by the upload
// =============================================================================

// ValidClockTime reports whether s is empty or a well-formed "HH:MM" value.
func ValidClockTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
