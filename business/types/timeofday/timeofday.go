// Package timeofday represents a wall-clock time without a date in the system.
package timeofday

import (
	"fmt"
	"time"
)

// Time represents a time of day with minute precision.
type Time struct {
	minutes int
}

// String returns the value in HH:MM format.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Equal provides support for the go-cmp package and testing.
func (t Time) Equal(t2 Time) bool {
	return t.minutes == t2.minutes
}

// MarshalText provides support for logging and any marshal needs.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Before reports whether t is earlier in the day than t2.
func (t Time) Before(t2 Time) bool {
	return t.minutes < t2.minutes
}

// After reports whether t is later in the day than t2.
func (t Time) After(t2 Time) bool {
	return t.minutes > t2.minutes
}

// =============================================================================

var layouts = []string{"15:04:05", "15:04"}

// Parse parses the string value in HH:MM or HH:MM:SS format and returns a
// time of day.
func Parse(value string) (Time, error) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		return Time{t.Hour()*60 + t.Minute()}, nil
	}

	return Time{}, fmt.Errorf("invalid time of day %q", value)
}

// MustParse parses the string value and returns a time of day. If an error
// occurs the function panics.
func MustParse(value string) Time {
	t, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return t
}

// FromTime extracts the time of day from the specified moment.
func FromTime(t time.Time) Time {
	return Time{t.Hour()*60 + t.Minute()}
}

// =============================================================================

// Window represents an inclusive time-of-day interval.
type Window struct {
	Start Time
	End   Time
}

// NewWindow constructs a window checking the bounds are ordered.
func NewWindow(start Time, end Time) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("window end %s before start %s", end, start)
	}

	return Window{Start: start, End: end}, nil
}

// MustNewWindow constructs a window and panics when the bounds are not
// ordered.
func MustNewWindow(start Time, end Time) Window {
	w, err := NewWindow(start, end)
	if err != nil {
		panic(err)
	}

	return w
}

// Contains reports whether the specified time of day falls inside the
// window. Both bounds are inclusive.
func (w Window) Contains(t Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Equal provides support for the go-cmp package and testing.
func (w Window) Equal(w2 Window) bool {
	return w.Start.Equal(w2.Start) && w.End.Equal(w2.End)
}

// String implements the stringer interface.
func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}
