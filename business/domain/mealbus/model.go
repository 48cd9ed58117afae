package mealbus

import (
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

// MealType represents a catalog meal category such as breakfast or dinner.
// The windows are optional defaults used when a schedule meal does not set
// its own.
type MealType struct {
	ID               uuid.UUID
	Name             name.Name
	TokenIssueWindow *timeofday.Window
	MealTimeWindow   *timeofday.Window
	Enabled          bool
}

// MealSubType represents a variation of a meal type. The function key links
// a device function button to this sub-type.
type MealSubType struct {
	ID          uuid.UUID
	MealTypeID  uuid.UUID
	Name        name.Name
	FunctionKey string
	Enabled     bool
}

// Supplier represents a meal provider.
type Supplier struct {
	ID      uuid.UUID
	Name    name.Name
	Enabled bool
}

// MealCost represents the cost breakdown for a meal served by a supplier.
type MealCost struct {
	ID            uuid.UUID
	SupplierID    uuid.UUID
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierCost  float64
	SellingPrice  float64
	CompanyCost   float64
	EmployeeCost  float64
}

// PayStatus represents the paying-party policy for a meal type on a shift.
type PayStatus struct {
	Shift      shift.Shift
	MealTypeID uuid.UUID
	MalePays   bool
	FemalePays bool
}

// NewMealType contains the information needed to create a meal type.
type NewMealType struct {
	Name             name.Name
	TokenIssueWindow *timeofday.Window
	MealTimeWindow   *timeofday.Window
}

// NewMealSubType contains the information needed to create a meal sub-type.
type NewMealSubType struct {
	MealTypeID  uuid.UUID
	Name        name.Name
	FunctionKey string
}

// NewSupplier contains the information needed to create a supplier.
type NewSupplier struct {
	Name name.Name
}

// NewMealCost contains the information needed to create a meal cost entry.
type NewMealCost struct {
	SupplierID    uuid.UUID
	MealTypeID    uuid.UUID
	MealSubTypeID *uuid.UUID
	SupplierCost  float64
	SellingPrice  float64
	CompanyCost   float64
	EmployeeCost  float64
}
