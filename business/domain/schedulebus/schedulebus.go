// Package schedulebus provides business access to schedule management and
// date expansion in the system.
package schedulebus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/order"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/page"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound = errors.New("schedule not found")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, tc tenantbus.Context, sch Schedule) error
	Update(ctx context.Context, tc tenantbus.Context, sch Schedule) error
	Delete(ctx context.Context, tc tenantbus.Context, sch Schedule) error
	Query(ctx context.Context, tc tenantbus.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Schedule, error)
	Count(ctx context.Context, tc tenantbus.Context, filter QueryFilter) (int, error)
	QueryByID(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) (Schedule, error)
	CreateDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, dates []time.Time) error
	DeleteDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) error
	QueryDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) ([]ScheduleDate, error)
	CreateMeal(ctx context.Context, tc tenantbus.Context, meal ScheduleMeal) error
	DeleteMeal(ctx context.Context, tc tenantbus.Context, mealID uuid.UUID) error
	QueryMeals(ctx context.Context, tc tenantbus.Context, scheduleIDs []uuid.UUID) ([]ScheduleMeal, error)
	AddPeople(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personIDs []uuid.UUID) error
	RemovePerson(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personID uuid.UUID) error
	QueryActiveForPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]Schedule, error)
}

// Core manages the set of APIs for schedule access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a schedule core API for use.
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

// Create adds a new schedule to the system, materializing the full date set
// for its period and attaching the given meals and people.
func (c *Core) Create(ctx context.Context, tc tenantbus.Context, ns NewSchedule) (Schedule, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.create")
	defer span.End()

	now := time.Now()

	sch := Schedule{
		ID:         uuid.New(),
		Name:       ns.Name,
		PeriodKind: ns.Period.Kind(),
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storer.Create(ctx, tc, sch); err != nil {
		return Schedule{}, fmt.Errorf("create: %w", err)
	}

	if dates := ns.Period.Dates(); len(dates) > 0 {
		if err := c.storer.CreateDates(ctx, tc, sch.ID, dates); err != nil {
			return Schedule{}, fmt.Errorf("create dates: %w", err)
		}
	}

	for _, nsm := range ns.Meals {
		meal := ScheduleMeal{
			ID:            uuid.New(),
			ScheduleID:    sch.ID,
			MealTypeID:    nsm.MealTypeID,
			MealSubTypeID: nsm.MealSubTypeID,
			SupplierID:    nsm.SupplierID,
			Window:        nsm.Window,
			FunctionKey:   nsm.FunctionKey,
			Available:     nsm.Available,
		}

		if err := c.storer.CreateMeal(ctx, tc, meal); err != nil {
			return Schedule{}, fmt.Errorf("create meal: %w", err)
		}
	}

	if len(ns.PersonIDs) > 0 {
		if err := c.storer.AddPeople(ctx, tc, sch.ID, ns.PersonIDs); err != nil {
			return Schedule{}, fmt.Errorf("add people: %w", err)
		}
	}

	return sch, nil
}

// Update modifies information about a schedule. When the period changes, the
// previous date set is replaced with the expansion of the new period.
func (c *Core) Update(ctx context.Context, tc tenantbus.Context, sch Schedule, us UpdateSchedule) (Schedule, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.update")
	defer span.End()

	if us.Name != nil {
		sch.Name = *us.Name
	}

	if us.Enabled != nil {
		sch.Enabled = *us.Enabled
	}

	if us.Period != nil {
		sch.PeriodKind = us.Period.Kind()

		if err := c.storer.DeleteDates(ctx, tc, sch.ID); err != nil {
			return Schedule{}, fmt.Errorf("delete dates: %w", err)
		}

		if dates := us.Period.Dates(); len(dates) > 0 {
			if err := c.storer.CreateDates(ctx, tc, sch.ID, dates); err != nil {
				return Schedule{}, fmt.Errorf("create dates: %w", err)
			}
		}
	}

	sch.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, tc, sch); err != nil {
		return Schedule{}, fmt.Errorf("update: %w", err)
	}

	return sch, nil
}

// Delete removes the specified schedule.
func (c *Core) Delete(ctx context.Context, tc tenantbus.Context, sch Schedule) error {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.delete")
	defer span.End()

	if err := c.storer.Delete(ctx, tc, sch); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Query retrieves a list of existing schedules.
func (c *Core) Query(ctx context.Context, tc tenantbus.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Schedule, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.query")
	defer span.End()

	schs, err := c.storer.Query(ctx, tc, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return schs, nil
}

// Count returns the total number of schedules.
func (c *Core) Count(ctx context.Context, tc tenantbus.Context, filter QueryFilter) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.count")
	defer span.End()

	return c.storer.Count(ctx, tc, filter)
}

// QueryByID finds the schedule by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) (Schedule, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.querybyid")
	defer span.End()

	sch, err := c.storer.QueryByID(ctx, tc, scheduleID)
	if err != nil {
		return Schedule{}, fmt.Errorf("query: scheduleID[%s]: %w", scheduleID, err)
	}

	return sch, nil
}

// QueryDates retrieves the materialized date set for the schedule.
func (c *Core) QueryDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) ([]ScheduleDate, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.querydates")
	defer span.End()

	dates, err := c.storer.QueryDates(ctx, tc, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("query dates: scheduleID[%s]: %w", scheduleID, err)
	}

	return dates, nil
}

// AddMeal attaches a new meal offer to an existing schedule.
func (c *Core) AddMeal(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, nsm NewScheduleMeal) (ScheduleMeal, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.addmeal")
	defer span.End()

	meal := ScheduleMeal{
		ID:            uuid.New(),
		ScheduleID:    scheduleID,
		MealTypeID:    nsm.MealTypeID,
		MealSubTypeID: nsm.MealSubTypeID,
		SupplierID:    nsm.SupplierID,
		Window:        nsm.Window,
		FunctionKey:   nsm.FunctionKey,
		Available:     nsm.Available,
	}

	if err := c.storer.CreateMeal(ctx, tc, meal); err != nil {
		return ScheduleMeal{}, fmt.Errorf("create meal: %w", err)
	}

	return meal, nil
}

// RemoveMeal detaches a meal offer from its schedule.
func (c *Core) RemoveMeal(ctx context.Context, tc tenantbus.Context, mealID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.removemeal")
	defer span.End()

	if err := c.storer.DeleteMeal(ctx, tc, mealID); err != nil {
		return fmt.Errorf("delete meal: mealID[%s]: %w", mealID, err)
	}

	return nil
}

// QueryMeals retrieves the meal offers attached to the given schedules.
func (c *Core) QueryMeals(ctx context.Context, tc tenantbus.Context, scheduleIDs []uuid.UUID) ([]ScheduleMeal, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.querymeals")
	defer span.End()

	if len(scheduleIDs) == 0 {
		return nil, nil
	}

	meals, err := c.storer.QueryMeals(ctx, tc, scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}

	return meals, nil
}

// AddPeople links the given people to the schedule.
func (c *Core) AddPeople(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personIDs []uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.addpeople")
	defer span.End()

	if len(personIDs) == 0 {
		return nil
	}

	if err := c.storer.AddPeople(ctx, tc, scheduleID, personIDs); err != nil {
		return fmt.Errorf("add people: %w", err)
	}

	return nil
}

// RemovePerson unlinks a person from the schedule.
func (c *Core) RemovePerson(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personID uuid.UUID) error {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.removeperson")
	defer span.End()

	if err := c.storer.RemovePerson(ctx, tc, scheduleID, personID); err != nil {
		return fmt.Errorf("remove person: %w", err)
	}

	return nil
}

// QueryActiveForPersonDate retrieves the enabled schedules that include the
// person and are active on the given calendar date.
func (c *Core) QueryActiveForPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]Schedule, error) {
	ctx, span := otel.AddSpan(ctx, "business.schedulebus.queryactiveforpersondate")
	defer span.End()

	schs, err := c.storer.QueryActiveForPersonDate(ctx, tc, personID, normalize(date))
	if err != nil {
		return nil, fmt.Errorf("query active: personID[%s]: %w", personID, err)
	}

	return schs, nil
}
