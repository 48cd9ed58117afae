// Package periodkind represents the schedule period kind in the system.
package periodkind

import "fmt"

// The set of period kinds that can be used.
var (
	SingleDate = newPeriodKind("SingleDate")
	DateRange  = newPeriodKind("DateRange")
	Year       = newPeriodKind("Year")
	Month      = newPeriodKind("Month")
	Week       = newPeriodKind("Week")
	Weekdays   = newPeriodKind("Weekdays")
	Weekends   = newPeriodKind("Weekends")
	CustomDays = newPeriodKind("CustomDays")
)

// =============================================================================

// Set of known period kinds.
var periodKinds = make(map[string]PeriodKind)

// PeriodKind represents a schedule period kind in the system.
type PeriodKind struct {
	value string
}

func newPeriodKind(periodKind string) PeriodKind {
	pk := PeriodKind{periodKind}
	periodKinds[periodKind] = pk
	return pk
}

// String returns the name of the period kind.
func (pk PeriodKind) String() string {
	return pk.value
}

// Equal provides support for the go-cmp package and testing.
func (pk PeriodKind) Equal(pk2 PeriodKind) bool {
	return pk.value == pk2.value
}

// MarshalText provides support for logging and any marshal needs.
func (pk PeriodKind) MarshalText() ([]byte, error) {
	return []byte(pk.value), nil
}

// =============================================================================

// Parse parses the string value and returns a period kind if one exists.
func Parse(value string) (PeriodKind, error) {
	periodKind, exists := periodKinds[value]
	if !exists {
		return PeriodKind{}, fmt.Errorf("invalid period kind %q", value)
	}

	return periodKind, nil
}

// MustParse parses the string value and returns a period kind if one exists.
// If an error occurs the function panics.
func MustParse(value string) PeriodKind {
	periodKind, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return periodKind
}

// Unknown wraps a period tag that is not part of the known set. Schedules
// carrying legacy tags keep the tag but expand to an empty date set.
func Unknown(value string) PeriodKind {
	return PeriodKind{value}
}
