// Package mealdb contains meal catalog related CRUD functionality. Every
// query runs against the schema of the tenant context it receives.
package mealdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for meal catalog database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (mealbus.Storer, error) {
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

// CreateType inserts a new meal type into the database.
func (s *Store) CreateType(ctx context.Context, tc tenantbus.Context, mt mealbus.MealType) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(meal_type_id, name, token_issue_start, token_issue_end, meal_time_start, meal_time_end, enabled)
	VALUES
		(:meal_type_id, :name, :token_issue_start, :token_issue_end, :meal_time_start, :meal_time_end, :enabled)`, table(tc, "meal_type"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBMealType(mt)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryTypes retrieves every meal type from the database.
func (s *Store) QueryTypes(ctx context.Context, tc tenantbus.Context) ([]mealbus.MealType, error) {
	data := map[string]any{}

	q := fmt.Sprintf(`
	SELECT
		meal_type_id, name, token_issue_start, token_issue_end, meal_time_start, meal_time_end, enabled
	FROM
		%s
	ORDER BY
		name`, table(tc, "meal_type"))

	var dbMts []mealTypeDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbMts); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusMealTypes(dbMts)
}

// QueryTypeByID gets the specified meal type from the database.
func (s *Store) QueryTypeByID(ctx context.Context, tc tenantbus.Context, mealTypeID uuid.UUID) (mealbus.MealType, error) {
	data := struct {
		ID string `db:"meal_type_id"`
	}{
		ID: mealTypeID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		meal_type_id, name, token_issue_start, token_issue_end, meal_time_start, meal_time_end, enabled
	FROM
		%s
	WHERE
		meal_type_id = :meal_type_id`, table(tc, "meal_type"))

	var dbMt mealTypeDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbMt); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mealbus.MealType{}, fmt.Errorf("db: %w", mealbus.ErrNotFound)
		}
		return mealbus.MealType{}, fmt.Errorf("db: %w", err)
	}

	return toBusMealType(dbMt)
}

// CreateSubType inserts a new meal sub-type into the database.
func (s *Store) CreateSubType(ctx context.Context, tc tenantbus.Context, mst mealbus.MealSubType) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(meal_sub_type_id, meal_type_id, name, function_key, enabled)
	VALUES
		(:meal_sub_type_id, :meal_type_id, :name, :function_key, :enabled)`, table(tc, "meal_sub_type"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBMealSubType(mst)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QuerySubTypeByID gets the specified meal sub-type from the database.
func (s *Store) QuerySubTypeByID(ctx context.Context, tc tenantbus.Context, mealSubTypeID uuid.UUID) (mealbus.MealSubType, error) {
	data := struct {
		ID string `db:"meal_sub_type_id"`
	}{
		ID: mealSubTypeID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		meal_sub_type_id, meal_type_id, name, function_key, enabled
	FROM
		%s
	WHERE
		meal_sub_type_id = :meal_sub_type_id`, table(tc, "meal_sub_type"))

	var dbMst mealSubTypeDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbMst); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mealbus.MealSubType{}, fmt.Errorf("db: %w", mealbus.ErrNotFound)
		}
		return mealbus.MealSubType{}, fmt.Errorf("db: %w", err)
	}

	return toBusMealSubType(dbMst)
}

// CreateSupplier inserts a new supplier into the database.
func (s *Store) CreateSupplier(ctx context.Context, tc tenantbus.Context, sup mealbus.Supplier) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(supplier_id, name, enabled)
	VALUES
		(:supplier_id, :name, :enabled)`, table(tc, "supplier"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBSupplier(sup)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QuerySupplierByID gets the specified supplier from the database.
func (s *Store) QuerySupplierByID(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID) (mealbus.Supplier, error) {
	data := struct {
		ID string `db:"supplier_id"`
	}{
		ID: supplierID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		supplier_id, name, enabled
	FROM
		%s
	WHERE
		supplier_id = :supplier_id`, table(tc, "supplier"))

	var dbSup supplierDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbSup); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mealbus.Supplier{}, fmt.Errorf("db: %w", mealbus.ErrNotFound)
		}
		return mealbus.Supplier{}, fmt.Errorf("db: %w", err)
	}

	return toBusSupplier(dbSup)
}

// UpsertCost creates or replaces the cost entry for a supplier/meal
// combination.
func (s *Store) UpsertCost(ctx context.Context, tc tenantbus.Context, mc mealbus.MealCost) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(meal_cost_id, supplier_id, meal_type_id, meal_sub_type_id, supplier_cost, selling_price, company_cost, employee_cost)
	VALUES
		(:meal_cost_id, :supplier_id, :meal_type_id, :meal_sub_type_id, :supplier_cost, :selling_price, :company_cost, :employee_cost)
	ON CONFLICT (supplier_id, meal_type_id, COALESCE(meal_sub_type_id, '00000000-0000-0000-0000-000000000000'::uuid)) DO UPDATE SET
		supplier_cost = EXCLUDED.supplier_cost,
		selling_price = EXCLUDED.selling_price,
		company_cost = EXCLUDED.company_cost,
		employee_cost = EXCLUDED.employee_cost`, table(tc, "meal_cost"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBMealCost(mc)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryCost gets the cost entry for the supplier/meal combination. A meal
// with a sub-type falls back to the type-level entry when no sub-type
// specific row exists.
func (s *Store) QueryCost(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID, mealTypeID uuid.UUID, mealSubTypeID *uuid.UUID) (mealbus.MealCost, error) {
	data := map[string]any{
		"supplier_id":  supplierID.String(),
		"meal_type_id": mealTypeID.String(),
	}

	subTypeClause := "meal_sub_type_id IS NULL"
	if mealSubTypeID != nil {
		data["meal_sub_type_id"] = mealSubTypeID.String()
		subTypeClause = "(meal_sub_type_id = :meal_sub_type_id OR meal_sub_type_id IS NULL)"
	}

	q := fmt.Sprintf(`
	SELECT
		meal_cost_id, supplier_id, meal_type_id, meal_sub_type_id, supplier_cost, selling_price, company_cost, employee_cost
	FROM
		%s
	WHERE
		supplier_id = :supplier_id
		AND meal_type_id = :meal_type_id
		AND %s
	ORDER BY
		meal_sub_type_id NULLS LAST
	LIMIT 1`, table(tc, "meal_cost"), subTypeClause)

	var dbMc mealCostDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbMc); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mealbus.MealCost{}, fmt.Errorf("db: %w", mealbus.ErrCostNotFound)
		}
		return mealbus.MealCost{}, fmt.Errorf("db: %w", err)
	}

	return toBusMealCost(dbMc)
}

// UpsertPayStatus creates or replaces the paying-party policy row.
func (s *Store) UpsertPayStatus(ctx context.Context, tc tenantbus.Context, ps mealbus.PayStatus) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(shift, meal_type_id, male_pays, female_pays)
	VALUES
		(:shift, :meal_type_id, :male_pays, :female_pays)
	ON CONFLICT (shift, meal_type_id) DO UPDATE SET
		male_pays = EXCLUDED.male_pays,
		female_pays = EXCLUDED.female_pays`, table(tc, "pay_status"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBPayStatus(ps)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryPayStatus gets the paying-party policy for the shift and meal type.
func (s *Store) QueryPayStatus(ctx context.Context, tc tenantbus.Context, sh shift.Shift, mealTypeID uuid.UUID) (mealbus.PayStatus, error) {
	data := struct {
		Shift      string `db:"shift"`
		MealTypeID string `db:"meal_type_id"`
	}{
		Shift:      sh.String(),
		MealTypeID: mealTypeID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		shift, meal_type_id, male_pays, female_pays
	FROM
		%s
	WHERE
		shift = :shift AND meal_type_id = :meal_type_id`, table(tc, "pay_status"))

	var dbPs payStatusDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbPs); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mealbus.PayStatus{}, fmt.Errorf("db: %w", mealbus.ErrPayStatusNotFound)
		}
		return mealbus.PayStatus{}, fmt.Errorf("db: %w", err)
	}

	return toBusPayStatus(dbPs)
}
