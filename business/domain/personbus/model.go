package personbus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/gender"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

// Person represents an individual who can receive meal tokens.
type Person struct {
	ID        uuid.UUID
	Number    string
	Name      name.Name
	Gender    gender.Gender
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPerson contains the information needed to register a person.
type NewPerson struct {
	Number string
	Name   name.Name
	Gender gender.Gender
}

// UpdatePerson contains the information needed to update a person.
type UpdatePerson struct {
	Name    *name.Name
	Gender  *gender.Gender
	Enabled *bool
}
