// Package tokenbus implements the meal token decision engine: it matches a
// device event to a meal offer, applies the duplicate guards and records the
// consumption fact.
package tokenbus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/devicebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/gender"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

// Set of error variables for token evaluation.
var (
	ErrNoActiveSchedule = errors.New("no active schedule for person and date")
	ErrNoMealWindow     = errors.New("no meal window contains the event time")
	ErrDeviceInactive   = errors.New("device is inactive")
	ErrPersonInactive   = errors.New("person is inactive")
	ErrConflict         = errors.New("storage conflict while recording")
)

// Core manages the token evaluation flow. It is a read/decide/append
// composition over the other business cores and holds no per-tenant state.
type Core struct {
	log            *logger.Logger
	deviceBus      *devicebus.Core
	personBus      *personbus.Core
	scheduleBus    *schedulebus.Core
	mealBus        *mealbus.Core
	consumptionBus *consumptionbus.Core
	locks          *issueLocks
}

// NewCore constructs a token core API for use.
func NewCore(log *logger.Logger, deviceBus *devicebus.Core, personBus *personbus.Core, scheduleBus *schedulebus.Core, mealBus *mealbus.Core, consumptionBus *consumptionbus.Core) *Core {
	return &Core{
		log:            log,
		deviceBus:      deviceBus,
		personBus:      personBus,
		scheduleBus:    scheduleBus,
		mealBus:        mealBus,
		consumptionBus: consumptionBus,
		locks:          newIssueLocks(),
	}
}

// Evaluate runs the full decision for one device event: resolve device and
// person, match a meal offer, apply the duplicate guards and record the
// consumption. The guard-check-then-record sequence runs under a per
// (tenant, person, meal type, date) lock so two concurrent events for the
// same slot cannot both record.
func (c *Core) Evaluate(ctx context.Context, tc tenantbus.Context, event DeviceEvent) (Result, error) {
	ctx, span := otel.AddSpan(ctx, "business.tokenbus.evaluate")
	defer span.End()

	dev, err := c.deviceBus.QueryBySerialNo(ctx, tc, event.DeviceSerialNo)
	if err != nil {
		return Result{}, fmt.Errorf("device: %w", err)
	}

	if !dev.Enabled {
		return Result{}, ErrDeviceInactive
	}

	per, err := c.resolvePerson(ctx, tc, event.Person)
	if err != nil {
		return Result{}, fmt.Errorf("person: %w", err)
	}

	if !per.Enabled {
		return Result{}, ErrPersonInactive
	}

	offer, err := c.match(ctx, tc, per, event)
	if err != nil {
		return Result{}, err
	}

	date := time.Date(event.Timestamp.Year(), event.Timestamp.Month(), event.Timestamp.Day(), 0, 0, 0, 0, time.UTC)

	release := c.locks.acquire(issueKey{
		tenantID:   tc.TenantID,
		personID:   per.ID,
		mealTypeID: offer.Meal.MealTypeID,
		date:       date,
	})
	defer release()

	con, err := c.guardAndRecord(ctx, tc, per, dev, offer, event.Timestamp)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Offer:       offer,
		Person:      per,
		Consumption: con,
	}, nil
}

// resolvePerson accepts a person number or a person ID string.
func (c *Core) resolvePerson(ctx context.Context, tc tenantbus.Context, person string) (personbus.Person, error) {
	if id, err := uuid.Parse(person); err == nil {
		return c.personBus.QueryByID(ctx, tc, id)
	}

	return c.personBus.QueryByNumber(ctx, tc, person)
}

// match finds the meal offer for the event. It queries the active schedules
// for the person and date, keeps the available schedule meals whose
// token-issue window contains the event's time of day and whose function key
// matches, then picks the winner deterministically: earliest window start,
// then lowest schedule ID, then lowest meal ID.
func (c *Core) match(ctx context.Context, tc tenantbus.Context, per personbus.Person, event DeviceEvent) (Offer, error) {
	ctx, span := otel.AddSpan(ctx, "business.tokenbus.match")
	defer span.End()

	schs, err := c.scheduleBus.QueryActiveForPersonDate(ctx, tc, per.ID, event.Timestamp)
	if err != nil {
		return Offer{}, fmt.Errorf("schedules: %w", err)
	}

	if len(schs) == 0 {
		return Offer{}, ErrNoActiveSchedule
	}

	schByID := make(map[uuid.UUID]schedulebus.Schedule, len(schs))
	ids := make([]uuid.UUID, len(schs))
	for i, sch := range schs {
		schByID[sch.ID] = sch
		ids[i] = sch.ID
	}

	meals, err := c.scheduleBus.QueryMeals(ctx, tc, ids)
	if err != nil {
		return Offer{}, fmt.Errorf("meals: %w", err)
	}

	tod := timeofday.FromTime(event.Timestamp)

	var candidates []schedulebus.ScheduleMeal
	for _, meal := range meals {
		if !meal.Available {
			continue
		}

		if !meal.Window.Contains(tod) {
			continue
		}

		if event.FunctionKey != "" && !strings.EqualFold(meal.FunctionKey, event.FunctionKey) {
			continue
		}

		candidates = append(candidates, meal)
	}

	if len(candidates) == 0 {
		return Offer{}, ErrNoMealWindow
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.Window.Start.Equal(b.Window.Start) {
			return a.Window.Start.Before(b.Window.Start)
		}
		if a.ScheduleID != b.ScheduleID {
			return a.ScheduleID.String() < b.ScheduleID.String()
		}
		return a.ID.String() < b.ID.String()
	})

	winner := candidates[0]

	mt, err := c.mealBus.QueryTypeByID(ctx, tc, winner.MealTypeID)
	if err != nil {
		return Offer{}, fmt.Errorf("meal type: %w", err)
	}

	var mst *mealbus.MealSubType
	if winner.MealSubTypeID != nil {
		sub, err := c.mealBus.QuerySubTypeByID(ctx, tc, *winner.MealSubTypeID)
		if err != nil {
			return Offer{}, fmt.Errorf("meal sub type: %w", err)
		}
		mst = &sub
	}

	sup, err := c.mealBus.QuerySupplierByID(ctx, tc, winner.SupplierID)
	if err != nil {
		return Offer{}, fmt.Errorf("supplier: %w", err)
	}

	cost, err := c.mealBus.QueryCost(ctx, tc, winner.SupplierID, winner.MealTypeID, winner.MealSubTypeID)
	if err != nil {
		return Offer{}, fmt.Errorf("cost: %w", err)
	}

	sh := shift.FromTime(event.Timestamp)

	personPays := false
	ps, err := c.mealBus.QueryPayStatus(ctx, tc, sh, winner.MealTypeID)
	switch {
	case err == nil:
		switch per.Gender {
		case gender.Male:
			personPays = ps.MalePays
		case gender.Female:
			personPays = ps.FemalePays
		}
	case errors.Is(err, mealbus.ErrPayStatusNotFound):
		// No policy row means no one pays for this meal on this shift.
	default:
		return Offer{}, fmt.Errorf("pay status: %w", err)
	}

	return Offer{
		Schedule:    schByID[winner.ScheduleID],
		Meal:        winner,
		MealType:    mt,
		MealSubType: mst,
		Supplier:    sup,
		Cost:        cost,
		Shift:       sh,
		PersonPays:  personPays,
	}, nil
}

// guardAndRecord runs the duplicate guards and appends the consumption. A
// storage conflict is retried once by re-running the whole sequence; a
// second conflict surfaces as ErrConflict.
func (c *Core) guardAndRecord(ctx context.Context, tc tenantbus.Context, per personbus.Person, dev devicebus.Device, offer Offer, at time.Time) (consumptionbus.Consumption, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.consumptionBus.CheckDuplicate(ctx, tc, per.ID, offer.Meal.MealTypeID, at); err != nil {
			return consumptionbus.Consumption{}, err
		}

		nc := consumptionbus.NewConsumption{
			PersonID:      per.ID,
			ScheduleID:    offer.Schedule.ID,
			MealTypeID:    offer.Meal.MealTypeID,
			MealSubTypeID: offer.Meal.MealSubTypeID,
			SupplierID:    offer.Supplier.ID,
			DeviceID:      dev.ID,
			ConsumedAt:    at,
			Shift:         offer.Shift,
			PersonPays:    offer.PersonPays,
			SupplierCost:  offer.Cost.SupplierCost,
			SellingPrice:  offer.Cost.SellingPrice,
			CompanyCost:   offer.Cost.CompanyCost,
			EmployeeCost:  offer.Cost.EmployeeCost,
		}

		con, err := c.consumptionBus.Record(ctx, tc, nc)
		if err == nil {
			return con, nil
		}

		if !errors.Is(err, consumptionbus.ErrDuplicate) {
			return consumptionbus.Consumption{}, fmt.Errorf("record: %w", err)
		}

		c.log.Info(ctx, "tokenbus: record conflict, rechecking guards", "person_id", per.ID, "meal_type_id", offer.Meal.MealTypeID)
	}

	return consumptionbus.Consumption{}, ErrConflict
}
