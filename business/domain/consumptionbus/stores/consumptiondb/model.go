package consumptiondb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/google/uuid"
)

type consumptionDB struct {
	ID            uuid.UUID      `db:"consumption_id"`
	PersonID      uuid.UUID      `db:"person_id"`
	ScheduleID    uuid.UUID      `db:"schedule_id"`
	MealTypeID    uuid.UUID      `db:"meal_type_id"`
	MealSubTypeID sql.NullString `db:"meal_sub_type_id"`
	SupplierID    uuid.UUID      `db:"supplier_id"`
	DeviceID      uuid.UUID      `db:"device_id"`
	ConsumedDate  time.Time      `db:"consumed_date"`
	ConsumedAt    time.Time      `db:"consumed_at"`
	Shift         string         `db:"shift"`
	PersonPays    bool           `db:"person_pays"`
	SupplierCost  float64        `db:"supplier_cost"`
	SellingPrice  float64        `db:"selling_price"`
	CompanyCost   float64        `db:"company_cost"`
	EmployeeCost  float64        `db:"employee_cost"`
	TokenIssued   bool           `db:"token_issued"`
	CreatedAt     time.Time      `db:"created_at"`
}

func toDBConsumption(bus consumptionbus.Consumption) consumptionDB {
	db := consumptionDB{
		ID:           bus.ID,
		PersonID:     bus.PersonID,
		ScheduleID:   bus.ScheduleID,
		MealTypeID:   bus.MealTypeID,
		SupplierID:   bus.SupplierID,
		DeviceID:     bus.DeviceID,
		ConsumedDate: bus.ConsumedDate.UTC(),
		ConsumedAt:   bus.ConsumedAt.UTC(),
		Shift:        bus.Shift.String(),
		PersonPays:   bus.PersonPays,
		SupplierCost: bus.SupplierCost,
		SellingPrice: bus.SellingPrice,
		CompanyCost:  bus.CompanyCost,
		EmployeeCost: bus.EmployeeCost,
		TokenIssued:  bus.TokenIssued,
		CreatedAt:    bus.CreatedAt.UTC(),
	}

	if bus.MealSubTypeID != nil {
		db.MealSubTypeID = sql.NullString{String: bus.MealSubTypeID.String(), Valid: true}
	}

	return db
}

func toBusConsumption(db consumptionDB) (consumptionbus.Consumption, error) {
	sh, err := shift.Parse(db.Shift)
	if err != nil {
		return consumptionbus.Consumption{}, fmt.Errorf("parse shift: %w", err)
	}

	bus := consumptionbus.Consumption{
		ID:           db.ID,
		PersonID:     db.PersonID,
		ScheduleID:   db.ScheduleID,
		MealTypeID:   db.MealTypeID,
		SupplierID:   db.SupplierID,
		DeviceID:     db.DeviceID,
		ConsumedDate: db.ConsumedDate.UTC(),
		ConsumedAt:   db.ConsumedAt.UTC(),
		Shift:        sh,
		PersonPays:   db.PersonPays,
		SupplierCost: db.SupplierCost,
		SellingPrice: db.SellingPrice,
		CompanyCost:  db.CompanyCost,
		EmployeeCost: db.EmployeeCost,
		TokenIssued:  db.TokenIssued,
		CreatedAt:    db.CreatedAt.In(time.Local),
	}

	if db.MealSubTypeID.Valid {
		id, err := uuid.Parse(db.MealSubTypeID.String)
		if err != nil {
			return consumptionbus.Consumption{}, fmt.Errorf("parse sub type id: %w", err)
		}
		bus.MealSubTypeID = &id
	}

	return bus, nil
}

func toBusConsumptions(dbs []consumptionDB) ([]consumptionbus.Consumption, error) {
	bus := make([]consumptionbus.Consumption, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusConsumption(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
