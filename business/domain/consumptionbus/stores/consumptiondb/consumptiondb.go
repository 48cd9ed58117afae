// Package consumptiondb contains consumption history related database
// functionality. Every query runs against the schema of the tenant context
// it receives.
package consumptiondb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for consumption database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (consumptionbus.Storer, error) {
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

func table(tc tenantbus.Context, name string) string {
	return fmt.Sprintf("%q.%q", tc.SchemaName, name)
}

// Create appends a consumption fact row. The unique index on
// (person_id, meal_type_id, consumed_date) turns a concurrent duplicate into
// consumptionbus.ErrDuplicate.
func (s *Store) Create(ctx context.Context, tc tenantbus.Context, con consumptionbus.Consumption) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(consumption_id, person_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, device_id,
		consumed_date, consumed_at, shift, person_pays, supplier_cost, selling_price, company_cost, employee_cost,
		token_issued, created_at)
	VALUES
		(:consumption_id, :person_id, :schedule_id, :meal_type_id, :meal_sub_type_id, :supplier_id, :device_id,
		:consumed_date, :consumed_at, :shift, :person_pays, :supplier_cost, :selling_price, :company_cost, :employee_cost,
		:token_issued, :created_at)`, table(tc, "meal_consumption"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBConsumption(con)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("namedexeccontext: %w", consumptionbus.ErrDuplicate)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QuerySameMeal retrieves the consumption rows for a person, meal type and
// calendar date.
func (s *Store) QuerySameMeal(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, mealTypeID uuid.UUID, date time.Time) ([]consumptionbus.Consumption, error) {
	data := struct {
		PersonID     string    `db:"person_id"`
		MealTypeID   string    `db:"meal_type_id"`
		ConsumedDate time.Time `db:"consumed_date"`
	}{
		PersonID:     personID.String(),
		MealTypeID:   mealTypeID.String(),
		ConsumedDate: date.UTC(),
	}

	q := fmt.Sprintf(`
	SELECT
		consumption_id, person_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, device_id,
		consumed_date, consumed_at, shift, person_pays, supplier_cost, selling_price, company_cost, employee_cost,
		token_issued, created_at
	FROM
		%s
	WHERE
		person_id = :person_id
		AND meal_type_id = :meal_type_id
		AND consumed_date = :consumed_date
	ORDER BY
		consumed_at`, table(tc, "meal_consumption"))

	var dbCons []consumptionDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbCons); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusConsumptions(dbCons)
}

// QuerySince retrieves the consumption rows for a person at or after the
// given moment.
func (s *Store) QuerySince(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, since time.Time) ([]consumptionbus.Consumption, error) {
	data := struct {
		PersonID string    `db:"person_id"`
		Since    time.Time `db:"since"`
	}{
		PersonID: personID.String(),
		Since:    since.UTC(),
	}

	q := fmt.Sprintf(`
	SELECT
		consumption_id, person_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, device_id,
		consumed_date, consumed_at, shift, person_pays, supplier_cost, selling_price, company_cost, employee_cost,
		token_issued, created_at
	FROM
		%s
	WHERE
		person_id = :person_id
		AND consumed_at >= :since
	ORDER BY
		consumed_at`, table(tc, "meal_consumption"))

	var dbCons []consumptionDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbCons); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusConsumptions(dbCons)
}

// QueryByPersonDate retrieves the consumption rows for a person on a
// calendar date.
func (s *Store) QueryByPersonDate(ctx context.Context, tc tenantbus.Context, personID uuid.UUID, date time.Time) ([]consumptionbus.Consumption, error) {
	data := struct {
		PersonID     string    `db:"person_id"`
		ConsumedDate time.Time `db:"consumed_date"`
	}{
		PersonID:     personID.String(),
		ConsumedDate: date.UTC(),
	}

	q := fmt.Sprintf(`
	SELECT
		consumption_id, person_id, schedule_id, meal_type_id, meal_sub_type_id, supplier_id, device_id,
		consumed_date, consumed_at, shift, person_pays, supplier_cost, selling_price, company_cost, employee_cost,
		token_issued, created_at
	FROM
		%s
	WHERE
		person_id = :person_id
		AND consumed_date = :consumed_date
	ORDER BY
		consumed_at`, table(tc, "meal_consumption"))

	var dbCons []consumptionDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbCons); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusConsumptions(dbCons)
}
