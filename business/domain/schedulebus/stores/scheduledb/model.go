package scheduledb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

type scheduleDB struct {
	ID         uuid.UUID `db:"schedule_id"`
	Name       string    `db:"name"`
	PeriodKind string    `db:"period_kind"`
	Enabled    bool      `db:"enabled"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func toDBSchedule(bus schedulebus.Schedule) scheduleDB {
	return scheduleDB{
		ID:         bus.ID,
		Name:       bus.Name.String(),
		PeriodKind: bus.PeriodKind.String(),
		Enabled:    bus.Enabled,
		CreatedAt:  bus.CreatedAt.UTC(),
		UpdatedAt:  bus.UpdatedAt.UTC(),
	}
}

func toBusSchedule(db scheduleDB) (schedulebus.Schedule, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return schedulebus.Schedule{}, fmt.Errorf("parse name: %w", err)
	}

	kind, err := periodkind.Parse(db.PeriodKind)
	if err != nil {
		kind = periodkind.Unknown(db.PeriodKind)
	}

	bus := schedulebus.Schedule{
		ID:         db.ID,
		Name:       nme,
		PeriodKind: kind,
		Enabled:    db.Enabled,
		CreatedAt:  db.CreatedAt.In(time.Local),
		UpdatedAt:  db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusSchedules(dbs []scheduleDB) ([]schedulebus.Schedule, error) {
	bus := make([]schedulebus.Schedule, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusSchedule(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

type scheduleDateDB struct {
	ScheduleID uuid.UUID `db:"schedule_id"`
	Date       time.Time `db:"date"`
}

func toBusScheduleDates(dbs []scheduleDateDB) []schedulebus.ScheduleDate {
	bus := make([]schedulebus.ScheduleDate, len(dbs))

	for i, db := range dbs {
		bus[i] = schedulebus.ScheduleDate{
			ScheduleID: db.ScheduleID,
			Date:       db.Date.UTC(),
		}
	}

	return bus
}

type scheduleMealDB struct {
	ID            uuid.UUID      `db:"schedule_meal_id"`
	ScheduleID    uuid.UUID      `db:"schedule_id"`
	MealTypeID    uuid.UUID      `db:"meal_type_id"`
	MealSubTypeID sql.NullString `db:"meal_sub_type_id"`
	SupplierID    uuid.UUID      `db:"supplier_id"`
	StartTime     string         `db:"start_time"`
	EndTime       string         `db:"end_time"`
	FunctionKey   sql.NullString `db:"function_key"`
	Available     bool           `db:"available"`
}

func toDBScheduleMeal(bus schedulebus.ScheduleMeal) scheduleMealDB {
	db := scheduleMealDB{
		ID:          bus.ID,
		ScheduleID:  bus.ScheduleID,
		MealTypeID:  bus.MealTypeID,
		SupplierID:  bus.SupplierID,
		StartTime:   bus.Window.Start.String(),
		EndTime:     bus.Window.End.String(),
		FunctionKey: sql.NullString{String: bus.FunctionKey, Valid: bus.FunctionKey != ""},
		Available:   bus.Available,
	}

	if bus.MealSubTypeID != nil {
		db.MealSubTypeID = sql.NullString{String: bus.MealSubTypeID.String(), Valid: true}
	}

	return db
}

func toBusScheduleMeal(db scheduleMealDB) (schedulebus.ScheduleMeal, error) {
	start, err := timeofday.Parse(db.StartTime)
	if err != nil {
		return schedulebus.ScheduleMeal{}, fmt.Errorf("parse start time: %w", err)
	}

	end, err := timeofday.Parse(db.EndTime)
	if err != nil {
		return schedulebus.ScheduleMeal{}, fmt.Errorf("parse end time: %w", err)
	}

	window, err := timeofday.NewWindow(start, end)
	if err != nil {
		return schedulebus.ScheduleMeal{}, fmt.Errorf("window: %w", err)
	}

	bus := schedulebus.ScheduleMeal{
		ID:          db.ID,
		ScheduleID:  db.ScheduleID,
		MealTypeID:  db.MealTypeID,
		SupplierID:  db.SupplierID,
		Window:      window,
		FunctionKey: db.FunctionKey.String,
		Available:   db.Available,
	}

	if db.MealSubTypeID.Valid {
		id, err := uuid.Parse(db.MealSubTypeID.String)
		if err != nil {
			return schedulebus.ScheduleMeal{}, fmt.Errorf("parse sub type id: %w", err)
		}
		bus.MealSubTypeID = &id
	}

	return bus, nil
}

func toBusScheduleMeals(dbs []scheduleMealDB) ([]schedulebus.ScheduleMeal, error) {
	bus := make([]schedulebus.ScheduleMeal, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusScheduleMeal(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
