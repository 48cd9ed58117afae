package tokenbus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
)

// DeviceEvent represents one presentation of a person at a client device.
// Person identifies the person by number or by ID string.
type DeviceEvent struct {
	Person         string
	Timestamp      time.Time
	DeviceSerialNo string
	FunctionKey    string
}

// Offer represents the meal selected for an event before the duplicate
// guards run.
type Offer struct {
	Schedule    schedulebus.Schedule
	Meal        schedulebus.ScheduleMeal
	MealType    mealbus.MealType
	MealSubType *mealbus.MealSubType
	Supplier    mealbus.Supplier
	Cost        mealbus.MealCost
	Shift       shift.Shift
	PersonPays  bool
}

// Result represents an issued token: the offer that matched plus the
// recorded consumption fact.
type Result struct {
	Offer       Offer
	Person      personbus.Person
	Consumption consumptionbus.Consumption
}
