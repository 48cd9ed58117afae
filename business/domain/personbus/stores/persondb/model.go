package persondb

import (
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/gender"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

type personDB struct {
	ID        uuid.UUID `db:"person_id"`
	Number    string    `db:"number"`
	Name      string    `db:"name"`
	Gender    string    `db:"gender"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDBPerson(bus personbus.Person) personDB {
	return personDB{
		ID:        bus.ID,
		Number:    bus.Number,
		Name:      bus.Name.String(),
		Gender:    bus.Gender.String(),
		Enabled:   bus.Enabled,
		CreatedAt: bus.CreatedAt.UTC(),
		UpdatedAt: bus.UpdatedAt.UTC(),
	}
}

func toBusPerson(db personDB) (personbus.Person, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return personbus.Person{}, fmt.Errorf("parse name: %w", err)
	}

	gnd, err := gender.Parse(db.Gender)
	if err != nil {
		return personbus.Person{}, fmt.Errorf("parse gender: %w", err)
	}

	bus := personbus.Person{
		ID:        db.ID,
		Number:    db.Number,
		Name:      nme,
		Gender:    gnd,
		Enabled:   db.Enabled,
		CreatedAt: db.CreatedAt.In(time.Local),
		UpdatedAt: db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}
