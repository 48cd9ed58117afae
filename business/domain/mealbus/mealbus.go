// Package mealbus provides business access to the meal catalog: meal types,
// sub-types, suppliers, costs and paying-party policy.
package mealbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound          = errors.New("meal catalog entry not found")
	ErrCostNotFound      = errors.New("meal cost not found")
	ErrPayStatusNotFound = errors.New("pay status not found")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	CreateType(ctx context.Context, tc tenantbus.Context, mt MealType) error
	QueryTypes(ctx context.Context, tc tenantbus.Context) ([]MealType, error)
	QueryTypeByID(ctx context.Context, tc tenantbus.Context, mealTypeID uuid.UUID) (MealType, error)
	CreateSubType(ctx context.Context, tc tenantbus.Context, mst MealSubType) error
	QuerySubTypeByID(ctx context.Context, tc tenantbus.Context, mealSubTypeID uuid.UUID) (MealSubType, error)
	CreateSupplier(ctx context.Context, tc tenantbus.Context, sup Supplier) error
	QuerySupplierByID(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID) (Supplier, error)
	UpsertCost(ctx context.Context, tc tenantbus.Context, mc MealCost) error
	QueryCost(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID, mealTypeID uuid.UUID, mealSubTypeID *uuid.UUID) (MealCost, error)
	UpsertPayStatus(ctx context.Context, tc tenantbus.Context, ps PayStatus) error
	QueryPayStatus(ctx context.Context, tc tenantbus.Context, sh shift.Shift, mealTypeID uuid.UUID) (PayStatus, error)
}

// Core manages the set of APIs for meal catalog access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a meal catalog core API for use.
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

// CreateType adds a new meal type to the catalog.
func (c *Core) CreateType(ctx context.Context, tc tenantbus.Context, nmt NewMealType) (MealType, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.createtype")
	defer span.End()

	mt := MealType{
		ID:               uuid.New(),
		Name:             nmt.Name,
		TokenIssueWindow: nmt.TokenIssueWindow,
		MealTimeWindow:   nmt.MealTimeWindow,
		Enabled:          true,
	}

	if err := c.storer.CreateType(ctx, tc, mt); err != nil {
		return MealType{}, fmt.Errorf("create type: %w", err)
	}

	return mt, nil
}

// QueryTypes retrieves the meal types in the catalog.
func (c *Core) QueryTypes(ctx context.Context, tc tenantbus.Context) ([]MealType, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querytypes")
	defer span.End()

	mts, err := c.storer.QueryTypes(ctx, tc)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}

	return mts, nil
}

// QueryTypeByID finds the meal type by the specified ID.
func (c *Core) QueryTypeByID(ctx context.Context, tc tenantbus.Context, mealTypeID uuid.UUID) (MealType, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querytypebyid")
	defer span.End()

	mt, err := c.storer.QueryTypeByID(ctx, tc, mealTypeID)
	if err != nil {
		return MealType{}, fmt.Errorf("query: mealTypeID[%s]: %w", mealTypeID, err)
	}

	return mt, nil
}

// CreateSubType adds a new meal sub-type to the catalog.
func (c *Core) CreateSubType(ctx context.Context, tc tenantbus.Context, nmst NewMealSubType) (MealSubType, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.createsubtype")
	defer span.End()

	mst := MealSubType{
		ID:          uuid.New(),
		MealTypeID:  nmst.MealTypeID,
		Name:        nmst.Name,
		FunctionKey: nmst.FunctionKey,
		Enabled:     true,
	}

	if err := c.storer.CreateSubType(ctx, tc, mst); err != nil {
		return MealSubType{}, fmt.Errorf("create sub type: %w", err)
	}

	return mst, nil
}

// QuerySubTypeByID finds the meal sub-type by the specified ID.
func (c *Core) QuerySubTypeByID(ctx context.Context, tc tenantbus.Context, mealSubTypeID uuid.UUID) (MealSubType, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querysubtypebyid")
	defer span.End()

	mst, err := c.storer.QuerySubTypeByID(ctx, tc, mealSubTypeID)
	if err != nil {
		return MealSubType{}, fmt.Errorf("query: mealSubTypeID[%s]: %w", mealSubTypeID, err)
	}

	return mst, nil
}

// CreateSupplier adds a new supplier to the catalog.
func (c *Core) CreateSupplier(ctx context.Context, tc tenantbus.Context, ns NewSupplier) (Supplier, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.createsupplier")
	defer span.End()

	sup := Supplier{
		ID:      uuid.New(),
		Name:    ns.Name,
		Enabled: true,
	}

	if err := c.storer.CreateSupplier(ctx, tc, sup); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}

	return sup, nil
}

// QuerySupplierByID finds the supplier by the specified ID.
func (c *Core) QuerySupplierByID(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID) (Supplier, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querysupplierbyid")
	defer span.End()

	sup, err := c.storer.QuerySupplierByID(ctx, tc, supplierID)
	if err != nil {
		return Supplier{}, fmt.Errorf("query: supplierID[%s]: %w", supplierID, err)
	}

	return sup, nil
}

// UpsertCost creates or replaces the cost entry for a supplier/meal
// combination.
func (c *Core) UpsertCost(ctx context.Context, tc tenantbus.Context, nmc NewMealCost) (MealCost, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.upsertcost")
	defer span.End()

	mc := MealCost{
		ID:            uuid.New(),
		SupplierID:    nmc.SupplierID,
		MealTypeID:    nmc.MealTypeID,
		MealSubTypeID: nmc.MealSubTypeID,
		SupplierCost:  nmc.SupplierCost,
		SellingPrice:  nmc.SellingPrice,
		CompanyCost:   nmc.CompanyCost,
		EmployeeCost:  nmc.EmployeeCost,
	}

	if err := c.storer.UpsertCost(ctx, tc, mc); err != nil {
		return MealCost{}, fmt.Errorf("upsert cost: %w", err)
	}

	return mc, nil
}

// QueryCost finds the cost entry for the supplier/meal combination.
func (c *Core) QueryCost(ctx context.Context, tc tenantbus.Context, supplierID uuid.UUID, mealTypeID uuid.UUID, mealSubTypeID *uuid.UUID) (MealCost, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querycost")
	defer span.End()

	mc, err := c.storer.QueryCost(ctx, tc, supplierID, mealTypeID, mealSubTypeID)
	if err != nil {
		return MealCost{}, fmt.Errorf("query cost: supplierID[%s] mealTypeID[%s]: %w", supplierID, mealTypeID, err)
	}

	return mc, nil
}

// UpsertPayStatus creates or replaces the paying-party policy for a shift and
// meal type.
func (c *Core) UpsertPayStatus(ctx context.Context, tc tenantbus.Context, ps PayStatus) error {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.upsertpaystatus")
	defer span.End()

	if err := c.storer.UpsertPayStatus(ctx, tc, ps); err != nil {
		return fmt.Errorf("upsert pay status: %w", err)
	}

	return nil
}

// QueryPayStatus finds the paying-party policy for the shift and meal type.
func (c *Core) QueryPayStatus(ctx context.Context, tc tenantbus.Context, sh shift.Shift, mealTypeID uuid.UUID) (PayStatus, error) {
	ctx, span := otel.AddSpan(ctx, "business.mealbus.querypaystatus")
	defer span.End()

	ps, err := c.storer.QueryPayStatus(ctx, tc, sh, mealTypeID)
	if err != nil {
		return PayStatus{}, fmt.Errorf("query pay status: shift[%s] mealTypeID[%s]: %w", sh, mealTypeID, err)
	}

	return ps, nil
}
