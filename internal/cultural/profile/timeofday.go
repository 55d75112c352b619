// Package profile defines the shared data model for cultural medication
// scheduling and the boundary normalization that fills in missing fields.
package profile

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay parses "HH:MM" and panics on failure. For package-level tables.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromClock converts the clock portion of t into a TimeOfDay.
func FromClock(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	tt := t.normalize()
	return fmt.Sprintf("%02d:%02d", int(tt)/60, int(tt)%60)
}

// Add shifts the time by the given number of minutes, wrapping within the day.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return (t + TimeOfDay(minutes)).normalize()
}

// Sub returns the signed distance in minutes from o to t.
func (t TimeOfDay) Sub(o TimeOfDay) int {
	return int(t.normalize()) - int(o.normalize())
}

// Between reports whether t falls within [start, end].
func (t TimeOfDay) Between(start, end TimeOfDay) bool {
	tt := t.normalize()
	return tt >= start.normalize() && tt <= end.normalize()
}

// Midpoint returns the time halfway between t and o.
func (t TimeOfDay) Midpoint(o TimeOfDay) TimeOfDay {
	return TimeOfDay((int(t.normalize()) + int(o.normalize())) / 2)
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) normalize() TimeOfDay {
	const day = 24 * 60
	n := int(t) % day
	if n < 0 {
		n += day
	}
	return TimeOfDay(n)
}

// AbsMinutesApart returns the absolute distance in minutes between two times.
func AbsMinutesApart(a, b TimeOfDay) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}
