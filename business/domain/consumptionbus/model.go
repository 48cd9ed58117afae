package consumptionbus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/google/uuid"
)

// Consumption represents an immutable fact row for one issued meal token.
type Consumption struct {
	ID            uuid.UUID
	PersonID      uuid.UUID
	ScheduleID    uuid.UUID
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierID    uuid.UUID
	DeviceID      uuid.UUID
	ConsumedDate  time.Time
	ConsumedAt    time.Time
	Shift         shift.Shift
	PersonPays    bool
	SupplierCost  float64
	SellingPrice  float64
	CompanyCost   float64
	EmployeeCost  float64
	TokenIssued   bool
	CreatedAt     time.Time
}

// NewConsumption contains the information needed to append a consumption
// fact row.
type NewConsumption struct {
	PersonID      uuid.UUID
	ScheduleID    uuid.UUID
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierID    uuid.UUID
	DeviceID      uuid.UUID
	ConsumedAt    time.Time
	Shift         shift.Shift
	PersonPays    bool
	SupplierCost  float64
	SellingPrice  float64
	CompanyCost   float64
	EmployeeCost  float64
}
