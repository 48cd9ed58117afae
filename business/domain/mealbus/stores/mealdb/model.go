package mealdb

import (
	"database/sql"
	"fmt"

	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

type mealTypeDB struct {
	ID              uuid.UUID      `db:"meal_type_id"`
	Name            string         `db:"name"`
	TokenIssueStart sql.NullString `db:"token_issue_start"`
	TokenIssueEnd   sql.NullString `db:"token_issue_end"`
	MealTimeStart   sql.NullString `db:"meal_time_start"`
	MealTimeEnd     sql.NullString `db:"meal_time_end"`
	Enabled         bool           `db:"enabled"`
}

func toDBMealType(bus mealbus.MealType) mealTypeDB {
	db := mealTypeDB{
		ID:      bus.ID,
		Name:    bus.Name.String(),
		Enabled: bus.Enabled,
	}

	if bus.TokenIssueWindow != nil {
		db.TokenIssueStart = sql.NullString{String: bus.TokenIssueWindow.Start.String(), Valid: true}
		db.TokenIssueEnd = sql.NullString{String: bus.TokenIssueWindow.End.String(), Valid: true}
	}

	if bus.MealTimeWindow != nil {
		db.MealTimeStart = sql.NullString{String: bus.MealTimeWindow.Start.String(), Valid: true}
		db.MealTimeEnd = sql.NullString{String: bus.MealTimeWindow.End.String(), Valid: true}
	}

	return db
}

func toWindow(start sql.NullString, end sql.NullString) (*timeofday.Window, error) {
	if !start.Valid || !end.Valid {
		return nil, nil
	}

	s, err := timeofday.Parse(start.String)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	e, err := timeofday.Parse(end.String)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	w, err := timeofday.NewWindow(s, e)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	return &w, nil
}

func toBusMealType(db mealTypeDB) (mealbus.MealType, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return mealbus.MealType{}, fmt.Errorf("parse name: %w", err)
	}

	tokenWindow, err := toWindow(db.TokenIssueStart, db.TokenIssueEnd)
	if err != nil {
		return mealbus.MealType{}, fmt.Errorf("token issue window: %w", err)
	}

	mealWindow, err := toWindow(db.MealTimeStart, db.MealTimeEnd)
	if err != nil {
		return mealbus.MealType{}, fmt.Errorf("meal time window: %w", err)
	}

	bus := mealbus.MealType{
		ID:               db.ID,
		Name:             nme,
		TokenIssueWindow: tokenWindow,
		MealTimeWindow:   mealWindow,
		Enabled:          db.Enabled,
	}

	return bus, nil
}

func toBusMealTypes(dbs []mealTypeDB) ([]mealbus.MealType, error) {
	bus := make([]mealbus.MealType, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusMealType(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

type mealSubTypeDB struct {
	ID          uuid.UUID      `db:"meal_sub_type_id"`
	MealTypeID  uuid.UUID      `db:"meal_type_id"`
	Name        string         `db:"name"`
	FunctionKey sql.NullString `db:"function_key"`
	Enabled     bool           `db:"enabled"`
}

func toDBMealSubType(bus mealbus.MealSubType) mealSubTypeDB {
	return mealSubTypeDB{
		ID:          bus.ID,
		MealTypeID:  bus.MealTypeID,
		Name:        bus.Name.String(),
		FunctionKey: sql.NullString{String: bus.FunctionKey, Valid: bus.FunctionKey != ""},
		Enabled:     bus.Enabled,
	}
}

func toBusMealSubType(db mealSubTypeDB) (mealbus.MealSubType, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return mealbus.MealSubType{}, fmt.Errorf("parse name: %w", err)
	}

	bus := mealbus.MealSubType{
		ID:          db.ID,
		MealTypeID:  db.MealTypeID,
		Name:        nme,
		FunctionKey: db.FunctionKey.String,
		Enabled:     db.Enabled,
	}

	return bus, nil
}

type supplierDB struct {
	ID      uuid.UUID `db:"supplier_id"`
	Name    string    `db:"name"`
	Enabled bool      `db:"enabled"`
}

func toDBSupplier(bus mealbus.Supplier) supplierDB {
	return supplierDB{
		ID:      bus.ID,
		Name:    bus.Name.String(),
		Enabled: bus.Enabled,
	}
}

func toBusSupplier(db supplierDB) (mealbus.Supplier, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return mealbus.Supplier{}, fmt.Errorf("parse name: %w", err)
	}

	bus := mealbus.Supplier{
		ID:      db.ID,
		Name:    nme,
		Enabled: db.Enabled,
	}

	return bus, nil
}

type mealCostDB struct {
	ID            uuid.UUID      `db:"meal_cost_id"`
	SupplierID    uuid.UUID      `db:"supplier_id"`
	MealTypeID    uuid.UUID      `db:"meal_type_id"`
	MealSubTypeID sql.NullString `db:"meal_sub_type_id"`
	SupplierCost  float64        `db:"supplier_cost"`
	SellingPrice  float64        `db:"selling_price"`
	CompanyCost   float64        `db:"company_cost"`
	EmployeeCost  float64        `db:"employee_cost"`
}

func toDBMealCost(bus mealbus.MealCost) mealCostDB {
	db := mealCostDB{
		ID:           bus.ID,
		SupplierID:   bus.SupplierID,
		MealTypeID:   bus.MealTypeID,
		SupplierCost: bus.SupplierCost,
		SellingPrice: bus.SellingPrice,
		CompanyCost:  bus.CompanyCost,
		EmployeeCost: bus.EmployeeCost,
	}

	if bus.MealSubTypeID != nil {
		db.MealSubTypeID = sql.NullString{String: bus.MealSubTypeID.String(), Valid: true}
	}

	return db
}

func toBusMealCost(db mealCostDB) (mealbus.MealCost, error) {
	bus := mealbus.MealCost{
		ID:           db.ID,
		SupplierID:   db.SupplierID,
		MealTypeID:   db.MealTypeID,
		SupplierCost: db.SupplierCost,
		SellingPrice: db.SellingPrice,
		CompanyCost:  db.CompanyCost,
		EmployeeCost: db.EmployeeCost,
	}

	if db.MealSubTypeID.Valid {
		id, err := uuid.Parse(db.MealSubTypeID.String)
		if err != nil {
			return mealbus.MealCost{}, fmt.Errorf("parse sub type id: %w", err)
		}
		bus.MealSubTypeID = &id
	}

	return bus, nil
}

type payStatusDB struct {
	Shift      string    `db:"shift"`
	MealTypeID uuid.UUID `db:"meal_type_id"`
	MalePays   bool      `db:"male_pays"`
	FemalePays bool      `db:"female_pays"`
}

func toDBPayStatus(bus mealbus.PayStatus) payStatusDB {
	return payStatusDB{
		Shift:      bus.Shift.String(),
		MealTypeID: bus.MealTypeID,
		MalePays:   bus.MalePays,
		FemalePays: bus.FemalePays,
	}
}

func toBusPayStatus(db payStatusDB) (mealbus.PayStatus, error) {
	sh, err := shift.Parse(db.Shift)
	if err != nil {
		return mealbus.PayStatus{}, fmt.Errorf("parse shift: %w", err)
	}

	bus := mealbus.PayStatus{
		Shift:      sh,
		MealTypeID: db.MealTypeID,
		MalePays:   db.MalePays,
		FemalePays: db.FemalePays,
	}

	return bus, nil
}
