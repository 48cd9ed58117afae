// Package gender represents the gender type in the system.
package gender

import "fmt"

// The set of genders that can be used.
var (
	Male   = newGender("MALE")
	Female = newGender("FEMALE")
)

// =============================================================================

// Set of known genders.
var genders = make(map[string]Gender)

// Gender represents a gender in the system.
type Gender struct {
	value string
}

func newGender(gender string) Gender {
	g := Gender{gender}
	genders[gender] = g
	return g
}

// String returns the name of the gender.
func (g Gender) String() string {
	return g.value
}

// Equal provides support for the go-cmp package and testing.
func (g Gender) Equal(g2 Gender) bool {
	return g.value == g2.value
}

// MarshalText provides support for logging and any marshal needs.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.value), nil
}

// =============================================================================

// Parse parses the string value and returns a gender if one exists.
func Parse(value string) (Gender, error) {
	gender, exists := genders[value]
	if !exists {
		return Gender{}, fmt.Errorf("invalid gender %q", value)
	}

	return gender, nil
}

// MustParse parses the string value and returns a gender if one exists. If
// an error occurs the function panics.
func MustParse(value string) Gender {
	gender, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return gender
}
