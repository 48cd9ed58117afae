// Package consumptionbus provides business access to the consumption
// history: the duplicate guards and the append-only fact recorder.
package consumptionbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

// Guard windows for repeated issuance.
const (
	SameMealTolerance = 90 * time.Minute
	CooldownWindow    = 13 * time.Hour
)

// Set of error variables for consumption operations.
var (
	ErrDuplicate        = errors.New("consumption already recorded")
	ErrDuplicateSameDay = errors.New("same meal already consumed today")
	ErrCooldown         = errors.New("cooldown window not elapsed")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, tc tenantbus.Context, con Consumption) error
	QuerySameMeal(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, mealTypeID uuid.UUID, date time.Time) ([]Consumption, error)
	QuerySince(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, since time.Time) ([]Consumption, error)
	QueryByPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]Consumption, error)
}

// Core manages the set of APIs for consumption access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a consumption core API for use.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		log:    log,
		storer: storer,
	}
}

// NewWithTx constructs a new business value that will use the specified
// transaction in any store related calls.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	core := Core{
		log:    c.log,
		storer: storer,
	}

	return &core, nil
}

// CheckDuplicate applies both issuance guards for a person at the event
// time. The same-meal guard denies a second token for the same meal type on
// the same date within the tolerance around the event. The cooldown guard
// denies any token while a prior consumption sits inside the trailing
// cooldown window, regardless of meal type.
func (c *Core) CheckDuplicate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, mealTypeID uuid.UUID, eventTime time.Time) error {
	ctx, span := otel.AddSpan(ctx, "business.consumptionbus.checkduplicate")
	defer span.End()

	date := time.Date(eventTime.Year(), eventTime.Month(), eventTime.Day(), 0, 0, 0, 0, time.UTC)

	sameMeal, err := c.storer.QuerySameMeal(ctx, tc, personID, mealTypeID, date)
	if err != nil {
		return fmt.Errorf("query same meal: %w", err)
	}

	for _, con := range sameMeal {
		delta := eventTime.Sub(con.ConsumedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta <= SameMealTolerance {
			return ErrDuplicateSameDay
		}
	}

	recent, err := c.storer.QuerySince(ctx, tc, personID, eventTime.Add(-CooldownWindow))
	if err != nil {
		return fmt.Errorf("query since: %w", err)
	}

	for _, con := range recent {
		if !con.ConsumedAt.After(eventTime) {
			return ErrCooldown
		}
	}

	return nil
}

// Record appends a consumption fact row. A storage level uniqueness
// violation for (person, meal type, date) surfaces as ErrDuplicate so the
// caller can treat the race as a denial.
func (c *Core) Record(ctx context.Context, tc tenantbus.Context, nc NewConsumption) (Consumption, error) {
	ctx, span := otel.AddSpan(ctx, "business.consumptionbus.record")
	defer span.End()

	at := nc.ConsumedAt

	con := Consumption{
		ID:            uuid.New(),
		PersonID:      nc.PersonID,
		ScheduleID:    nc.ScheduleID,
		MealTypeID:    nc.MealTypeID,
		MealSubTypeID: nc.MealSubTypeID,
		SupplierID:    nc.SupplierID,
		DeviceID:      nc.DeviceID,
		ConsumedDate:  time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		ConsumedAt:    at,
		Shift:         nc.Shift,
		PersonPays:    nc.PersonPays,
		SupplierCost:  nc.SupplierCost,
		SellingPrice:  nc.SellingPrice,
		CompanyCost:   nc.CompanyCost,
		EmployeeCost:  nc.EmployeeCost,
		TokenIssued:   true,
		CreatedAt:     time.Now(),
	}

	if err := c.storer.Create(ctx, tc, con); err != nil {
		return Consumption{}, fmt.Errorf("create: %w", err)
	}

	return con, nil
}

// QueryByPersonDate retrieves the consumption rows for a person on a
// calendar date.
func (c *Core) QueryByPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]Consumption, error) {
	ctx, span := otel.AddSpan(ctx, "business.consumptionbus.querybypersondate")
	defer span.End()

	cons, err := c.storer.QueryByPersonDate(ctx, tc, personID, date)
	if err != nil {
		return nil, fmt.Errorf("query: personID[%s]: %w", personID, err)
	}

	return cons, nil
}
