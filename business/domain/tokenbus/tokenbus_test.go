package tokenbus_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/devicebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tokenbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/order"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/page"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/types/gender"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
)

// =============================================================================
// Stub stores backed by in-memory maps. The consumption store emulates the
// unique (person, meal type, date) index so the race tests exercise the same
// conflict path the database produces.

type deviceStore struct {
	devices map[string]devicebus.Device
}

func (s *deviceStore) NewWithTx(tx sqldb.CommitRollbacker) (devicebus.Storer, error) {
	return s, nil
}

func (s *deviceStore) Create(ctx context.Context, tc tenantbus.Context, dev devicebus.Device) error {
	s.devices[dev.SerialNo] = dev
	return nil
}

func (s *deviceStore) Update(ctx context.Context, tc tenantbus.Context, dev devicebus.Device) error {
	s.devices[dev.SerialNo] = dev
	return nil
}

func (s *deviceStore) Query(ctx context.Context, tc tenantbus.Context) ([]devicebus.Device, error) {
	var devs []devicebus.Device
	for _, dev := range s.devices {
		devs = append(devs, dev)
	}
	return devs, nil
}

func (s *deviceStore) QueryByID(ctx context.Context, tc tenantbus.Context, deviceID uuid.UUID) (devicebus.Device, error) {
	for _, dev := range s.devices {
		if dev.ID == deviceID {
			return dev, nil
		}
	}
	return devicebus.Device{}, devicebus.ErrNotFound
}

func (s *deviceStore) QueryBySerialNo(ctx context.Context, tc tenantbus.Context, serialNo string) (devicebus.Device, error) {
	dev, exists := s.devices[serialNo]
	if !exists {
		return devicebus.Device{}, devicebus.ErrNotFound
	}
	return dev, nil
}

type personStore struct {
	people map[string]personbus.Person
}

func (s *personStore) NewWithTx(tx sqldb.CommitRollbacker) (personbus.Storer, error) {
	return s, nil
}

func (s *personStore) Create(ctx context.Context, tc tenantbus.Context, per personbus.Person) error {
	s.people[per.Number] = per
	return nil
}

func (s *personStore) Update(ctx context.Context, tc tenantbus.Context, per personbus.Person) error {
	s.people[per.Number] = per
	return nil
}

func (s *personStore) QueryByID(ctx context.Context, tc tenantbus.Context, personID uuid.UUID) (personbus.Person, error) {
	for _, per := range s.people {
		if per.ID == personID {
			return per, nil
		}
	}
	return personbus.Person{}, personbus.ErrNotFound
}

func (s *personStore) QueryByNumber(ctx context.Context, tc tenantbus.Context, number string) (personbus.Person, error) {
	per, exists := s.people[number]
	if !exists {
		return personbus.Person{}, personbus.ErrNotFound
	}
	return per, nil
}

type scheduleStore struct {
	schedules map[uuid.UUID]schedulebus.Schedule
	dates     map[uuid.UUID][]time.Time
	meals     []schedulebus.ScheduleMeal
	people    map[uuid.UUID][]uuid.UUID
}

func (s *scheduleStore) NewWithTx(tx sqldb.CommitRollbacker) (schedulebus.Storer, error) {
	return s, nil
}

func (s *scheduleStore) Create(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	s.schedules[sch.ID] = sch
	return nil
}

func (s *scheduleStore) Update(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	s.schedules[sch.ID] = sch
	return nil
}

func (s *scheduleStore) Delete(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	delete(s.schedules, sch.ID)
	return nil
}

func (s *scheduleStore) Query(ctx context.Context, tc tenantbus.Context, filter schedulebus.QueryFilter, orderBy order.By, page page.Page) ([]schedulebus.Schedule, error) {
	var schs []schedulebus.Schedule
	for _, sch := range s.schedules {
		schs = append(schs, sch)
	}
	return schs, nil
}

func (s *scheduleStore) Count(ctx context.Context, tc tenantbus.Context, filter schedulebus.QueryFilter) (int, error) {
	return len(s.schedules), nil
}

func (s *scheduleStore) QueryByID(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) (schedulebus.Schedule, error) {
	sch, exists := s.schedules[scheduleID]
	if !exists {
		return schedulebus.Schedule{}, schedulebus.ErrNotFound
	}
	return sch, nil
}

func (s *scheduleStore) CreateDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, dates []time.Time) error {
	s.dates[scheduleID] = append(s.dates[scheduleID], dates...)
	return nil
}

func (s *scheduleStore) DeleteDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) error {
	delete(s.dates, scheduleID)
	return nil
}

func (s *scheduleStore) QueryDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) ([]schedulebus.ScheduleDate, error) {
	var sds []schedulebus.ScheduleDate
	for _, d := range s.dates[scheduleID] {
		sds = append(sds, schedulebus.ScheduleDate{ScheduleID: scheduleID, Date: d})
	}
	return sds, nil
}

func (s *scheduleStore) CreateMeal(ctx context.Context, tc tenantbus.Context, meal schedulebus.ScheduleMeal) error {
	s.meals = append(s.meals, meal)
	return nil
}

func (s *scheduleStore) DeleteMeal(ctx context.Context, tc tenantbus.Context, mealID uuid.UUID) error {
	for i, meal := range s.meals {
		if meal.ID == mealID {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *scheduleStore) QueryMeals(ctx context.Context, tc tenantbus.Context, scheduleIDs []uuid.UUID) ([]schedulebus.ScheduleMeal, error) {
	ids := make(map[uuid.UUID]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		ids[id] = true
	}

	var meals []schedulebus.ScheduleMeal
	for _, meal := range s.meals {
		if ids[meal.ScheduleID] {
			meals = append(meals, meal)
		}
	}
	return meals, nil
}

func (s *scheduleStore) AddPeople(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personIDs []uuid.UUID) error {
	s.people[scheduleID] = append(s.people[scheduleID], personIDs...)
	return nil
}

func (s *scheduleStore) RemovePerson(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personID uuid.UUID) error {
	return nil
}

func (s *scheduleStore) QueryActiveForPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]schedulebus.Schedule, error) {
	var schs []schedulebus.Schedule
	for id, sch := range s.schedules {
		if !sch.Enabled {
			continue
		}

		assigned := false
		for _, pid := range s.people[id] {
			if pid == personID {
				assigned = true
				break
			}
		}
		if !assigned {
			continue
		}

		for _, d := range s.dates[id] {
			if d.Equal(date) {
				schs = append(schs, sch)
				break
			}
		}
	}
	return schs, nil
}

type mealStore struct {
	types     map[uuid.UUID]mealbus.MealType
	subTypes  map[uuid.UUID]mealbus.MealSubType
	suppliers map[uuid.UUID]mealbus.Supplier
	costs     []mealbus.MealCost
	payStatus []mealbus.PayStatus
}

func (s *mealStore) NewWithTx(tx sqldb.CommitRollbacker) (mealbus.Storer, error) {
	return s, nil
}

func (s *mealStore) CreateType(ctx context.Context, tc tenantbus.Context, mt mealbus.MealType) error {
	s.types[mt.ID] = mt
	return nil
}

func (s *mealStore) QueryTypes(ctx context.Context, tc tenantbus.Context) ([]mealbus.MealType, error) {
	var mts []mealbus.MealType
	for _, mt := range s.types {
		mts = append(mts, mt)
	}
	return mts, nil
}

func (s *mealStore) QueryTypeByID(ctx context.Context, tc tenantbus.Context, mealTypeID uuid.UUID) (mealbus.MealType, error) {
	mt, exists := s.types[mealTypeID]
	if !exists {
		return mealbus.MealType{}, mealbus.ErrNotFound
	}
	return mt, nil
}

func (s *mealStore) CreateSubType(ctx context.Context, tc tenantbus.Context, mst mealbus.MealSubType) error {
	s.subTypes[mst.ID] = mst
	return nil
}

func (s *mealStore) QuerySubTypeByID(ctx context.Context, tc tenantbus.Context, mealSubTypeID uuid.UUID) (mealbus.MealSubType, error) {
	mst, exists := s.subTypes[mealSubTypeID]
	if !exists {
		return mealbus.MealSubType{}, mealbus.ErrNotFound
	}
	return mst, nil
}

func (s *mealStore) CreateSupplier(ctx context.Context, tc tenantbus.Context, sup mealbus.Supplier) error {
	s.suppliers[sup.ID] = sup
	return nil
}

func (s *mealStore) QuerySupplierByID(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID) (mealbus.Supplier, error) {
	sup, exists := s.suppliers[supplierID]
	if !exists {
		return mealbus.Supplier{}, mealbus.ErrNotFound
	}
	return sup, nil
}

func (s *mealStore) UpsertCost(ctx context.Context, tc tenantbus.Context, mc mealbus.MealCost) error {
	s.costs = append(s.costs, mc)
	return nil
}

func (s *mealStore) QueryCost(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID, mealTypeID uuid.UUID, mealSubTypeID *uuid.UUID) (mealbus.MealCost, error) {
	for _, mc := range s.costs {
		if mc.SupplierID == supplierID && mc.MealTypeID == mealTypeID {
			return mc, nil
		}
	}
	return mealbus.MealCost{}, mealbus.ErrCostNotFound
}

func (s *mealStore) UpsertPayStatus(ctx context.Context, tc tenantbus.Context, ps mealbus.PayStatus) error {
	s.payStatus = append(s.payStatus, ps)
	return nil
}

func (s *mealStore) QueryPayStatus(ctx context.Context, tc tenantbus.Context, sh shift.Shift, mealTypeID uuid.UUID) (mealbus.PayStatus, error) {
	for _, ps := range s.payStatus {
		if ps.Shift.Equal(sh) && ps.MealTypeID == mealTypeID {
			return ps, nil
		}
	}
	return mealbus.PayStatus{}, mealbus.ErrPayStatusNotFound
}

type consumptionStore struct {
	mu   sync.Mutex
	rows []consumptionbus.Consumption
}

func (s *consumptionStore) NewWithTx(tx sqldb.CommitRollbacker) (consumptionbus.Storer, error) {
	return s, nil
}

func (s *consumptionStore) Create(ctx context.Context, tc tenantbus.Context, con consumptionbus.Consumption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.PersonID == con.PersonID && row.MealTypeID == con.MealTypeID && row.ConsumedDate.Equal(con.ConsumedDate) {
			return consumptionbus.ErrDuplicate
		}
	}

	s.rows = append(s.rows, con)
	return nil
}

func (s *consumptionStore) QuerySameMeal(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, mealTypeID uuid.UUID, date time.Time) ([]consumptionbus.Consumption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cons []consumptionbus.Consumption
	for _, row := range s.rows {
		if row.PersonID == personID && row.MealTypeID == mealTypeID && row.ConsumedDate.Equal(date) {
			cons = append(cons, row)
		}
	}
	return cons, nil
}

func (s *consumptionStore) QuerySince(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, since time.Time) ([]consumptionbus.Consumption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cons []consumptionbus.Consumption
	for _, row := range s.rows {
		if row.PersonID == personID && !row.ConsumedAt.Before(since) {
			cons = append(cons, row)
		}
	}
	return cons, nil
}

func (s *consumptionStore) QueryByPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]consumptionbus.Consumption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cons []consumptionbus.Consumption
	for _, row := range s.rows {
		if row.PersonID == personID && row.ConsumedDate.Equal(date) {
			cons = append(cons, row)
		}
	}
	return cons, nil
}

func (s *consumptionStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
}

func (s *consumptionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// =============================================================================
// Fixture

type fixture struct {
	core        *tokenbus.Core
	tc          tenantbus.Context
	cons        *consumptionStore
	person      personbus.Person
	device      devicebus.Device
	scheduleID  uuid.UUID
	mealTypeID  uuid.UUID
	dinnerID    uuid.UUID
	supplierID  uuid.UUID
	devStore    *deviceStore
	mealStore   *mealStore
	scheduleSto *scheduleStore
}

// newFixture builds a tenant with one person assigned to one schedule active
// on 2024-03-15. Lunch is issuable 11:00-14:00, dinner 18:00-21:00.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	devices := &deviceStore{devices: make(map[string]devicebus.Device)}
	people := &personStore{people: make(map[string]personbus.Person)}
	schedules := &scheduleStore{
		schedules: make(map[uuid.UUID]schedulebus.Schedule),
		dates:     make(map[uuid.UUID][]time.Time),
		people:    make(map[uuid.UUID][]uuid.UUID),
	}
	meals := &mealStore{
		types:     make(map[uuid.UUID]mealbus.MealType),
		subTypes:  make(map[uuid.UUID]mealbus.MealSubType),
		suppliers: make(map[uuid.UUID]mealbus.Supplier),
	}
	cons := &consumptionStore{}

	tc := tenantbus.Context{TenantID: uuid.New(), SchemaName: "tenant_test"}

	dev := devicebus.Device{
		ID:       uuid.New(),
		SerialNo: "DEV-001",
		Name:     name.MustParse("Canteen Gate"),
		Enabled:  true,
	}
	devices.devices[dev.SerialNo] = dev

	per := personbus.Person{
		ID:      uuid.New(),
		Number:  "E1001",
		Name:    name.MustParse("Test Person"),
		Gender:  gender.Male,
		Enabled: true,
	}
	people.people[per.Number] = per

	supplierID := uuid.New()
	meals.suppliers[supplierID] = mealbus.Supplier{ID: supplierID, Name: name.MustParse("Main Kitchen"), Enabled: true}

	lunchID := uuid.New()
	meals.types[lunchID] = mealbus.MealType{ID: lunchID, Name: name.MustParse("Lunch"), Enabled: true}

	dinnerID := uuid.New()
	meals.types[dinnerID] = mealbus.MealType{ID: dinnerID, Name: name.MustParse("Dinner"), Enabled: true}

	meals.costs = append(meals.costs,
		mealbus.MealCost{ID: uuid.New(), SupplierID: supplierID, MealTypeID: lunchID, SupplierCost: 3.5, SellingPrice: 5, CompanyCost: 4, EmployeeCost: 1},
		mealbus.MealCost{ID: uuid.New(), SupplierID: supplierID, MealTypeID: dinnerID, SupplierCost: 4, SellingPrice: 6, CompanyCost: 5, EmployeeCost: 1},
	)

	meals.payStatus = append(meals.payStatus, mealbus.PayStatus{Shift: shift.Day, MealTypeID: lunchID, MalePays: true, FemalePays: false})

	schID := uuid.New()
	schedules.schedules[schID] = schedulebus.Schedule{ID: schID, Name: name.MustParse("Plant Staff"), Enabled: true}
	schedules.dates[schID] = []time.Time{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)}
	schedules.people[schID] = []uuid.UUID{per.ID}
	schedules.meals = append(schedules.meals,
		schedulebus.ScheduleMeal{
			ID:         uuid.New(),
			ScheduleID: schID,
			MealTypeID: lunchID,
			SupplierID: supplierID,
			Window:     timeofday.MustNewWindow(timeofday.MustParse("11:00"), timeofday.MustParse("14:00")),
			Available:  true,
		},
		schedulebus.ScheduleMeal{
			ID:          uuid.New(),
			ScheduleID:  schID,
			MealTypeID:  dinnerID,
			SupplierID:  supplierID,
			Window:      timeofday.MustNewWindow(timeofday.MustParse("18:00"), timeofday.MustParse("21:00")),
			FunctionKey: "DINNER",
			Available:   true,
		},
	)

	core := tokenbus.NewCore(
		log,
		devicebus.NewCore(log, devices),
		personbus.NewCore(log, people),
		schedulebus.NewCore(log, schedules),
		mealbus.NewCore(log, meals),
		consumptionbus.NewCore(log, cons),
	)

	return &fixture{
		core:        core,
		tc:          tc,
		cons:        cons,
		person:      per,
		device:      dev,
		scheduleID:  schID,
		mealTypeID:  lunchID,
		dinnerID:    dinnerID,
		supplierID:  supplierID,
		devStore:    devices,
		mealStore:   meals,
		scheduleSto: schedules,
	}
}

func (f *fixture) event(ts time.Time) tokenbus.DeviceEvent {
	return tokenbus.DeviceEvent{
		Person:         f.person.Number,
		Timestamp:      ts,
		DeviceSerialNo: f.device.SerialNo,
	}
}

var lunchTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// =============================================================================

func Test_Evaluate_IssuesToken(t *testing.T) {
	f := newFixture(t)

	res, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime))
	if err != nil {
		t.Fatalf("Should issue a token : %s", err)
	}

	if res.Consumption.MealTypeID != f.mealTypeID {
		t.Errorf("Should record the lunch meal type, got %s", res.Consumption.MealTypeID)
	}

	if !res.Offer.PersonPays {
		t.Errorf("Should mark a male person as paying for lunch on the day shift")
	}

	if !res.Consumption.TokenIssued {
		t.Errorf("Should flag the consumption as token issued")
	}

	if f.cons.count() != 1 {
		t.Errorf("Should have exactly one consumption row, got %d", f.cons.count())
	}
}

func Test_Evaluate_UnknownDevice(t *testing.T) {
	f := newFixture(t)

	event := f.event(lunchTime)
	event.DeviceSerialNo = "DEV-404"

	if _, err := f.core.Evaluate(context.Background(), f.tc, event); !errors.Is(err, devicebus.ErrNotFound) {
		t.Fatalf("Should deny with unknown device, got %v", err)
	}
}

func Test_Evaluate_NoActiveSchedule(t *testing.T) {
	f := newFixture(t)

	// The schedule is not active on the 16th.
	event := f.event(lunchTime.AddDate(0, 0, 1))

	if _, err := f.core.Evaluate(context.Background(), f.tc, event); !errors.Is(err, tokenbus.ErrNoActiveSchedule) {
		t.Fatalf("Should deny with no active schedule, got %v", err)
	}
}

func Test_Evaluate_NoMealWindow(t *testing.T) {
	f := newFixture(t)

	event := f.event(time.Date(2024, time.March, 15, 15, 30, 0, 0, time.UTC))

	if _, err := f.core.Evaluate(context.Background(), f.tc, event); !errors.Is(err, tokenbus.ErrNoMealWindow) {
		t.Fatalf("Should deny with no meal window, got %v", err)
	}
}

func Test_Evaluate_FunctionKeyCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	event := f.event(time.Date(2024, time.March, 15, 19, 0, 0, 0, time.UTC))
	event.FunctionKey = "dinner"

	res, err := f.core.Evaluate(context.Background(), f.tc, event)
	if err != nil {
		t.Fatalf("Should match the function key regardless of case : %s", err)
	}

	if res.Consumption.MealTypeID != f.dinnerID {
		t.Errorf("Should issue the dinner meal, got %s", res.Consumption.MealTypeID)
	}
}

func Test_Evaluate_FunctionKeyMismatch(t *testing.T) {
	f := newFixture(t)

	event := f.event(time.Date(2024, time.March, 15, 19, 0, 0, 0, time.UTC))
	event.FunctionKey = "SUPPER"

	if _, err := f.core.Evaluate(context.Background(), f.tc, event); !errors.Is(err, tokenbus.ErrNoMealWindow) {
		t.Fatalf("Should deny on a function key mismatch, got %v", err)
	}
}

func Test_Evaluate_InactiveDevice(t *testing.T) {
	f := newFixture(t)

	dev := f.device
	dev.Enabled = false
	f.devStore.devices[dev.SerialNo] = dev

	if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); !errors.Is(err, tokenbus.ErrDeviceInactive) {
		t.Fatalf("Should deny with inactive device, got %v", err)
	}
}

func Test_Evaluate_DuplicateSameDay(t *testing.T) {
	f := newFixture(t)

	if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); err != nil {
		t.Fatalf("Should issue the first token : %s", err)
	}

	// Second event five minutes later for the same meal.
	_, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime.Add(5*time.Minute)))
	if !errors.Is(err, consumptionbus.ErrDuplicateSameDay) {
		t.Fatalf("Should deny a same-meal repeat within the tolerance, got %v", err)
	}

	if f.cons.count() != 1 {
		t.Errorf("Should still have exactly one consumption row, got %d", f.cons.count())
	}
}

func Test_Evaluate_CooldownAcrossMeals(t *testing.T) {
	f := newFixture(t)

	if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); err != nil {
		t.Fatalf("Should issue the lunch token : %s", err)
	}

	// Dinner at 20:30 is only 8.5 hours after lunch.
	event := f.event(time.Date(2024, time.March, 15, 20, 30, 0, 0, time.UTC))
	event.FunctionKey = "DINNER"

	if _, err := f.core.Evaluate(context.Background(), f.tc, event); !errors.Is(err, consumptionbus.ErrCooldown) {
		t.Fatalf("Should deny a cross-meal token inside the cooldown, got %v", err)
	}
}

func Test_Evaluate_CooldownElapsed(t *testing.T) {
	f := newFixture(t)

	// Record a dinner consumption 14 hours before the lunch event by writing
	// history directly.
	prior := consumptionbus.Consumption{
		ID:           uuid.New(),
		PersonID:     f.person.ID,
		ScheduleID:   f.scheduleID,
		MealTypeID:   f.dinnerID,
		SupplierID:   f.supplierID,
		DeviceID:     f.device.ID,
		ConsumedDate: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		ConsumedAt:   lunchTime.Add(-14 * time.Hour),
		Shift:        shift.Night,
		TokenIssued:  true,
	}
	if err := f.cons.Create(context.Background(), f.tc, prior); err != nil {
		t.Fatalf("Should seed the history row : %s", err)
	}

	if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); err != nil {
		t.Fatalf("Should issue once the cooldown has elapsed : %s", err)
	}
}

func Test_Evaluate_CooldownBoundary(t *testing.T) {
	f := newFixture(t)

	seed := func(t *testing.T, consumedAt time.Time) {
		t.Helper()

		prior := consumptionbus.Consumption{
			ID:           uuid.New(),
			PersonID:     f.person.ID,
			ScheduleID:   f.scheduleID,
			MealTypeID:   f.dinnerID,
			SupplierID:   f.supplierID,
			DeviceID:     f.device.ID,
			ConsumedDate: time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
			ConsumedAt:   consumedAt,
			Shift:        shift.Night,
			TokenIssued:  true,
		}
		if err := f.cons.Create(context.Background(), f.tc, prior); err != nil {
			t.Fatalf("Should seed the history row : %s", err)
		}
	}

	t.Run("AtWindow", func(t *testing.T) {

		// A consumption exactly 13 hours old is still inside the window.
		seed(t, lunchTime.Add(-13*time.Hour))

		if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); !errors.Is(err, consumptionbus.ErrCooldown) {
			t.Fatalf("Should deny a token exactly at the cooldown boundary, got %v", err)
		}
	})

	t.Run("PastWindow", func(t *testing.T) {
		f.cons.reset()
		seed(t, lunchTime.Add(-13*time.Hour-time.Minute))

		if _, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime)); err != nil {
			t.Fatalf("Should issue a token one minute past the cooldown boundary : %s", err)
		}
	})
}

func Test_Evaluate_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)

	const events = 2

	var wg sync.WaitGroup
	results := make([]error, events)

	for i := 0; i < events; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime.Add(time.Duration(i)*time.Minute)))
		}(i)
	}

	wg.Wait()

	var recorded int
	for _, err := range results {
		if err == nil {
			recorded++
		}
	}

	if recorded != 1 {
		t.Fatalf("Should record at most one of the concurrent events, got %d", recorded)
	}

	if f.cons.count() != 1 {
		t.Fatalf("Should have exactly one consumption row, got %d", f.cons.count())
	}
}

func Test_Evaluate_TieBreakDeterministic(t *testing.T) {
	f := newFixture(t)

	// Add a second available breakfast meal whose window also covers noon but
	// starts earlier. It must win regardless of store iteration order.
	breakfastID := uuid.New()
	f.mealStore.types[breakfastID] = mealbus.MealType{ID: breakfastID, Name: name.MustParse("All Day"), Enabled: true}
	f.mealStore.costs = append(f.mealStore.costs, mealbus.MealCost{
		ID:           uuid.New(),
		SupplierID:   f.supplierID,
		MealTypeID:   breakfastID,
		SupplierCost: 2,
		SellingPrice: 3,
		CompanyCost:  3,
	})

	f.scheduleSto.meals = append(f.scheduleSto.meals, schedulebus.ScheduleMeal{
		ID:         uuid.New(),
		ScheduleID: f.scheduleID,
		MealTypeID: breakfastID,
		SupplierID: f.supplierID,
		Window:     timeofday.MustNewWindow(timeofday.MustParse("06:00"), timeofday.MustParse("22:00")),
		Available:  true,
	})

	for i := 0; i < 5; i++ {
		f.cons.reset()

		res, err := f.core.Evaluate(context.Background(), f.tc, f.event(lunchTime))
		if err != nil {
			t.Fatalf("Should issue a token : %s", err)
		}

		if res.Consumption.MealTypeID != breakfastID {
			t.Fatalf("Should always pick the earliest window start, got meal type %s", res.Consumption.MealTypeID)
		}
	}
}
