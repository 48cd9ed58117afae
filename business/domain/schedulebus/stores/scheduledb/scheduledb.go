// Package scheduledb contains schedule related CRUD functionality. Every
// query runs against the schema of the tenant context it receives.
package scheduledb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/order"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/page"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for schedule database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (schedulebus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// table qualifies a tenant table name with the schema of the tenant context.
func table(tc tenantbus.Context, name string) string {
	return fmt.Sprintf("%q.%q", tc.SchemaName, name)
}

// Create inserts a new schedule into the database.
func (s *Store) Create(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(schedule_id, name, period_kind, enabled, created_at, updated_at)
	VALUES
		(:schedule_id, :name, :period_kind, :enabled, :created_at, :updated_at)`, table(tc, "schedule"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBSchedule(sch)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a schedule row in the database.
func (s *Store) Update(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	q := fmt.Sprintf(`
	UPDATE
		%s
	SET
		name = :name,
		period_kind = :period_kind,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		schedule_id = :schedule_id`, table(tc, "schedule"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBSchedule(sch)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Delete removes a schedule and its dependent rows from the database.
func (s *Store) Delete(ctx context.Context, tc tenantbus.Context, sch schedulebus.Schedule) error {
	q := fmt.Sprintf(`
	DELETE FROM
		%s
	WHERE
		schedule_id = :schedule_id`, table(tc, "schedule"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBSchedule(sch)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Query retrieves a list of existing schedules from the database.
func (s *Store) Query(ctx context.Context, tc tenantbus.Context, filter schedulebus.QueryFilter, orderBy order.By, page page.Page) ([]schedulebus.Schedule, error) {
	data := map[string]any{
		"offset":        (page.Number() - 1) * page.RowsPerPage(),
		"rows_per_page": page.RowsPerPage(),
	}

	q := fmt.Sprintf(`
	SELECT
		s.schedule_id, s.name, s.period_kind, s.enabled, s.created_at, s.updated_at
	FROM
		%s AS s`, table(tc, "schedule"))

	buf := bytes.NewBufferString(q)
	applyFilter(tc, filter, data, buf)

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbSchs []scheduleDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbSchs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusSchedules(dbSchs)
}

// Count returns the total number of schedules in the DB.
func (s *Store) Count(ctx context.Context, tc tenantbus.Context, filter schedulebus.QueryFilter) (int, error) {
	data := map[string]any{}

	q := fmt.Sprintf(`
	SELECT
		count(1)
	FROM
		%s AS s`, table(tc, "schedule"))

	buf := bytes.NewBufferString(q)
	applyFilter(tc, filter, data, buf)

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, buf.String(), data, &count); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return count.Count, nil
}

// QueryByID gets the specified schedule from the database.
func (s *Store) QueryByID(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) (schedulebus.Schedule, error) {
	data := struct {
		ID string `db:"schedule_id"`
	}{
		ID: scheduleID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		s.schedule_id, s.name, s.period_kind, s.enabled, s.created_at, s.updated_at
	FROM
		%s AS s
	WHERE
		s.schedule_id = :schedule_id`, table(tc, "schedule"))

	var dbSch scheduleDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbSch); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return schedulebus.Schedule{}, fmt.Errorf("db: %w", schedulebus.ErrNotFound)
		}
		return schedulebus.Schedule{}, fmt.Errorf("db: %w", err)
	}

	return toBusSchedule(dbSch)
}

// CreateDates inserts the materialized date set for a schedule.
func (s *Store) CreateDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, dates []time.Time) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(schedule_id, date)
	VALUES
		(:schedule_id, :date)
	ON CONFLICT DO NOTHING`, table(tc, "schedule_date"))

	for _, date := range dates {
		data := scheduleDateDB{
			ScheduleID: scheduleID,
			Date:       date.UTC(),
		}

		if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
			return fmt.Errorf("namedexeccontext: %w", err)
		}
	}

	return nil
}

// DeleteDates removes every date row for a schedule.
func (s *Store) DeleteDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) error {
	data := struct {
		ID string `db:"schedule_id"`
	}{
		ID: scheduleID.String(),
	}

	q := fmt.Sprintf(`
	DELETE FROM
		%s
	WHERE
		schedule_id = :schedule_id`, table(tc, "schedule_date"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryDates retrieves the date set for a schedule ordered by date.
func (s *Store) QueryDates(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID) ([]schedulebus.ScheduleDate, error) {
	data := struct {
		ID string `db:"schedule_id"`
	}{
		ID: scheduleID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		schedule_id, date
	FROM
		%s
	WHERE
		schedule_id = :schedule_id
	ORDER BY
		date`, table(tc, "schedule_date"))

	var dbDates []scheduleDateDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbDates); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusScheduleDates(dbDates), nil
}

// CreateMeal inserts a new schedule meal into the database.
func (s *Store) CreateMeal(ctx context.Context, tc tenantbus.Context, meal schedulebus.ScheduleMeal) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(schedule_meal_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, start_time, end_time, function_key, available)
	VALUES
		(:schedule_meal_id, :schedule_id, :meal_type_id, :meal_sub_type_id, :supplier_id, :start_time, :end_time, :function_key, :available)`, table(tc, "schedule_meal"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBScheduleMeal(meal)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// DeleteMeal removes a schedule meal from the database.
func (s *Store) DeleteMeal(ctx context.Context, tc tenantbus.Context, mealID uuid.UUID) error {
	data := struct {
		ID string `db:"schedule_meal_id"`
	}{
		ID: mealID.String(),
	}

	q := fmt.Sprintf(`
	DELETE FROM
		%s
	WHERE
		schedule_meal_id = :schedule_meal_id`, table(tc, "schedule_meal"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryMeals retrieves the meal offers attached to the given schedules.
func (s *Store) QueryMeals(ctx context.Context, tc tenantbus.Context, scheduleIDs []uuid.UUID) ([]schedulebus.ScheduleMeal, error) {
	ids := make([]string, len(scheduleIDs))
	for i, id := range scheduleIDs {
		ids[i] = id.String()
	}

	data := map[string]any{
		"schedule_ids": ids,
	}

	q := fmt.Sprintf(`
	SELECT
		schedule_meal_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, start_time, end_time, function_key, available
	FROM
		%s
	WHERE
		schedule_id = ANY(:schedule_ids::uuid[])
	ORDER BY
		schedule_meal_id`, table(tc, "schedule_meal"))

	var dbMeals []scheduleMealDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbMeals); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusScheduleMeals(dbMeals)
}

// AddPeople links the given people to a schedule.
func (s *Store) AddPeople(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personIDs []uuid.UUID) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(schedule_id, person_id)
	VALUES
		(:schedule_id, :person_id)
	ON CONFLICT DO NOTHING`, table(tc, "schedule_person"))

	for _, personID := range personIDs {
		data := struct {
			ScheduleID string `db:"schedule_id"`
			PersonID   string `db:"person_id"`
		}{
			ScheduleID: scheduleID.String(),
			PersonID:   personID.String(),
		}

		if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
			return fmt.Errorf("namedexeccontext: %w", err)
		}
	}

	return nil
}

// RemovePerson unlinks a person from a schedule.
func (s *Store) RemovePerson(ctx context.Context, tc tenantbus.Context, scheduleID uuid.UUID, personID uuid.UUID) error {
	data := struct {
		ScheduleID string `db:"schedule_id"`
		PersonID   string `db:"person_id"`
	}{
		ScheduleID: scheduleID.String(),
		PersonID:   personID.String(),
	}

	q := fmt.Sprintf(`
	DELETE FROM
		%s
	WHERE
		schedule_id = :schedule_id AND person_id = :person_id`, table(tc, "schedule_person"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, data); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryActiveForPersonDate retrieves the enabled schedules that include the
// person and have the given calendar date in their date set.
func (s *Store) QueryActiveForPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]schedulebus.Schedule, error) {
	data := struct {
		PersonID string    `db:"person_id"`
		Date     time.Time `db:"date"`
	}{
		PersonID: personID.String(),
		Date:     date.UTC(),
	}

	q := fmt.Sprintf(`
	SELECT
		s.schedule_id, s.name, s.period_kind, s.enabled, s.created_at, s.updated_at
	FROM
		%s AS s
	JOIN
		%s AS sp ON sp.schedule_id = s.schedule_id
	JOIN
		%s AS sd ON sd.schedule_id = s.schedule_id
	WHERE
		s.enabled = true
		AND sp.person_id = :person_id
		AND sd.date = :date
	ORDER BY
		s.schedule_id`, table(tc, "schedule"), table(tc, "schedule_person"), table(tc, "schedule_date"))

	var dbSchs []scheduleDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbSchs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusSchedules(dbSchs)
}

func applyFilter(tc tenantbus.Context, filter schedulebus.QueryFilter, data map[string]any, buf *bytes.Buffer) {
	var wc []string

	if filter.ID != nil {
		data["schedule_id"] = filter.ID.String()
		wc = append(wc, "s.schedule_id = :schedule_id")
	}

	if filter.Name != nil {
		data["name"] = fmt.Sprintf("%%%s%%", filter.Name.String())
		wc = append(wc, "s.name LIKE :name")
	}

	if filter.PeriodKind != nil {
		data["period_kind"] = filter.PeriodKind.String()
		wc = append(wc, "s.period_kind = :period_kind")
	}

	if filter.Enabled != nil {
		data["enabled"] = *filter.Enabled
		wc = append(wc, "s.enabled = :enabled")
	}

	if filter.ActiveOn != nil {
		data["active_on"] = filter.ActiveOn.UTC()
		wc = append(wc, fmt.Sprintf("EXISTS (SELECT 1 FROM %s AS sd WHERE sd.schedule_id = s.schedule_id AND sd.date = :active_on)", table(tc, "schedule_date")))
	}

	if len(wc) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(wc, " AND "))
	}
}

var orderByFields = map[string]string{
	schedulebus.OrderByID:      "s.schedule_id",
	schedulebus.OrderByName:    "s.name",
	schedulebus.OrderByPeriod:  "s.period_kind",
	schedulebus.OrderByEnabled: "s.enabled",
}

func orderByClause(orderBy order.By) (string, error) {
	by, exists := orderByFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
