package model

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly is a day-granularity instant. Schedules key on it: the
// (user, date) pair is unique, so the representation must not carry a
// time-of-day component.
type DateOnly struct {
	t time.Time
}

// ParseDateOnly accepts "2006-01-02" or a full RFC3339 timestamp, which
// is truncated to its UTC day.
func ParseDateOnly(s string) (DateOnly, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOnly{t: t.UTC()}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return DateOnly{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
	}
	return DateOnly{}, fmt.Errorf("invalid date %q", s)
}

// DateOf truncates a time.Time to its UTC day.
func DateOf(t time.Time) DateOnly {
	t = t.UTC()
	return DateOnly{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d DateOnly) Time() time.Time     { return d.t }
func (d DateOnly) String() string      { return d.t.Format(dateLayout) }
func (d DateOnly) IsZero() bool        { return d.t.IsZero() }
func (d DateOnly) Equal(o DateOnly) bool { return d.t.Equal(o.t) }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
