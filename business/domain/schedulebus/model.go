package schedulebus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

// Schedule represents a plan that grants meals to a set of people over a set
// of dates.
type Schedule struct {
	ID         uuid.UUID
	Name       name.Name
	PeriodKind periodkind.PeriodKind
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleDate represents a single calendar date a schedule is active on.
type ScheduleDate struct {
	ScheduleID uuid.UUID
	Date       time.Time
}

// ScheduleMeal represents one meal offer attached to a schedule.
type ScheduleMeal struct {
	ID            uuid.UUID
	ScheduleID    uuid.UUID
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierID    uuid.UUID
	Window        timeofday.Window
	FunctionKey   string
	Available     bool
}

// SchedulePerson links a person to a schedule.
type SchedulePerson struct {
	ScheduleID uuid.UUID
	PersonID   uuid.UUID
}

// NewSchedule contains the information needed to create a new schedule.
type NewSchedule struct {
	Name      name.Name
	Period    Period
	Meals     []NewScheduleMeal
	PersonIDs []uuid.UUID
}

// NewScheduleMeal contains the information needed to attach a meal offer to
// a schedule.
type NewScheduleMeal struct {
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierID    uuid.UUID
	Window        timeofday.Window
	FunctionKey   string
	Available     bool
}

// UpdateSchedule contains the information needed to update a schedule. A nil
// Period keeps the existing date set untouched.
type UpdateSchedule struct {
	Name    *name.Name
	Period  *Period
	Enabled *bool
}
