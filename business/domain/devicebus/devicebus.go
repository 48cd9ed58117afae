// Package devicebus provides business access to client device registration.
package devicebus

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

// Set of error variables for CRUD operations.
var (
	ErrNotFound       = errors.New("device not found")
	ErrUniqueSerialNo = errors.New("serial number is not unique")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, tc tenantbus.Context, dev Device) error
	Update(ctx context.Context, tc tenantbus.Context, dev Device) error
	Query(ctx context.Context, tc tenantbus.Context) ([]Device, error)
	QueryByID(ctx context.Context, tc tenantbus.Context, deviceID uuid.UUID) (Device, error)
	QueryBySerialNo(ctx context.Context, tc tenantbus.Context, serialNo string) (Device, error)
}

// Core manages the set of APIs for device access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a device core API for use.
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

// Create registers a new device.
func (c *Core) Create(ctx context.Context, tc tenantbus.Context, nd NewDevice) (Device, error) {
	ctx, span := otel.AddSpan(ctx, "business.devicebus.create")
	defer span.End()

	now := time.Now()

	dev := Device{
		ID:        uuid.New(),
		SerialNo:  nd.SerialNo,
		Name:      nd.Name,
		Location:  nd.Location,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.Create(ctx, tc, dev); err != nil {
		return Device{}, fmt.Errorf("create: %w", err)
	}

	return dev, nil
}

// Update modifies information about a device.
func (c *Core) Update(ctx context.Context, tc tenantbus.Context, dev Device, ud UpdateDevice) (Device, error) {
	ctx, span := otel.AddSpan(ctx, "business.devicebus.update")
	defer span.End()

	if ud.Name != nil {
		dev.Name = *ud.Name
	}

	if ud.Location != nil {
		dev.Location = *ud.Location
	}

	if ud.Enabled != nil {
		dev.Enabled = *ud.Enabled
	}

	dev.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, tc, dev); err != nil {
		return Device{}, fmt.Errorf("update: %w", err)
	}

	return dev, nil
}

// Query retrieves the registered devices.
func (c *Core) Query(ctx context.Context, tc tenantbus.Context) ([]Device, error) {
	ctx, span := otel.AddSpan(ctx, "business.devicebus.query")
	defer span.End()

	devs, err := c.storer.Query(ctx, tc)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return devs, nil
}

// QueryByID finds the device by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tc tenantbus.Context, deviceID uuid.UUID) (Device, error) {
	ctx, span := otel.AddSpan(ctx, "business.devicebus.querybyid")
	defer span.End()

	dev, err := c.storer.QueryByID(ctx, tc, deviceID)
	if err != nil {
		return Device{}, fmt.Errorf("query: deviceID[%s]: %w", deviceID, err)
	}

	return dev, nil
}

// QueryBySerialNo finds the device by its serial number.
func (c *Core) QueryBySerialNo(ctx context.Context, tc tenantbus.Context, serialNo string) (Device, error) {
	ctx, span := otel.AddSpan(ctx, "business.devicebus.querybyserialno")
	defer span.End()

	dev, err := c.storer.QueryBySerialNo(ctx, tc, serialNo)
	if err != nil {
		return Device{}, fmt.Errorf("query: serialNo[%s]: %w", serialNo, err)
	}

	return dev, nil
}
