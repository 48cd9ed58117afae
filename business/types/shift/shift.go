// Package shift represents the work shift type in the system.
package shift

import (
	"fmt"
	"time"
)

// The set of shifts that can be used.
var (
	Day   = newShift("DAY")
	Night = newShift("NIGHT")
)

// Boundaries for the day shift, inclusive start and exclusive end.
const (
	dayStartHour = 6
	dayEndHour   = 18
)

// =============================================================================

// Set of known shifts.
var shifts = make(map[string]Shift)

// Shift represents a work shift in the system.
type Shift struct {
	value string
}

func newShift(shift string) Shift {
	s := Shift{shift}
	shifts[shift] = s
	return s
}

// String returns the name of the shift.
func (s Shift) String() string {
	return s.value
}

// Equal provides support for the go-cmp package and testing.
func (s Shift) Equal(s2 Shift) bool {
	return s.value == s2.value
}

// MarshalText provides support for logging and any marshal needs.
func (s Shift) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// =============================================================================

// Parse parses the string value and returns a shift if one exists.
func Parse(value string) (Shift, error) {
	shift, exists := shifts[value]
	if !exists {
		return Shift{}, fmt.Errorf("invalid shift %q", value)
	}

	return shift, nil
}

// MustParse parses the string value and returns a shift if one exists. If
// an error occurs the function panics.
func MustParse(value string) Shift {
	shift, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return shift
}

// FromTime derives the shift active at the specified moment. Events between
// 06:00 and 18:00 belong to the day shift, everything else to the night shift.
func FromTime(t time.Time) Shift {
	if t.Hour() >= dayStartHour && t.Hour() < dayEndHour {
		return Day
	}

	return Night
}
