// Package devicedb contains device related CRUD functionality. Every query
// runs against the schema of the tenant context it receives.
package devicedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DinukaCW/MealToken-sub001/business/domain/devicebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for device database access.
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
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (devicebus.Storer, error) {
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

// Create inserts a new device into the database.
func (s *Store) Create(ctx context.Context, tc tenantbus.Context, dev devicebus.Device) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(device_id, serial_no, name, location, enabled, created_at, updated_at)
	VALUES
		(:device_id, :serial_no, :name, :location, :enabled, :created_at, :updated_at)`, table(tc, "client_device"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBDevice(dev)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			if dupErr.Column == "serial_no" || dupErr.Column == "uq_client_device_serial_no" {
				return fmt.Errorf("namedexeccontext: %w", devicebus.ErrUniqueSerialNo)
			}
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a device row in the database.
func (s *Store) Update(ctx context.Context, tc tenantbus.Context, dev devicebus.Device) error {
	q := fmt.Sprintf(`
	UPDATE
		%s
	SET
		name = :name,
		location = :location,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		device_id = :device_id`, table(tc, "client_device"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBDevice(dev)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Query retrieves every registered device from the database.
func (s *Store) Query(ctx context.Context, tc tenantbus.Context) ([]devicebus.Device, error) {
	data := map[string]any{}

	q := fmt.Sprintf(`
	SELECT
		device_id, serial_no, name, location, enabled, created_at, updated_at
	FROM
		%s
	ORDER BY
		serial_no`, table(tc, "client_device"))

	var dbDevs []deviceDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbDevs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusDevices(dbDevs)
}

// QueryByID gets the specified device from the database.
func (s *Store) QueryByID(ctx context.Context, tc tenantbus.Context, deviceID uuid.UUID) (devicebus.Device, error) {
	data := struct {
		ID string `db:"device_id"`
	}{
		ID: deviceID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		device_id, serial_no, name, location, enabled, created_at, updated_at
	FROM
		%s
	WHERE
		device_id = :device_id`, table(tc, "client_device"))

	var dbDev deviceDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbDev); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return devicebus.Device{}, fmt.Errorf("db: %w", devicebus.ErrNotFound)
		}
		return devicebus.Device{}, fmt.Errorf("db: %w", err)
	}

	return toBusDevice(dbDev)
}

// QueryBySerialNo gets the device with the given serial number from the
// database.
func (s *Store) QueryBySerialNo(ctx context.Context, tc tenantbus.Context, serialNo string) (devicebus.Device, error) {
	data := struct {
		SerialNo string `db:"serial_no"`
	}{
		SerialNo: serialNo,
	}

	q := fmt.Sprintf(`
	SELECT
		device_id, serial_no, name, location, enabled, created_at, updated_at
	FROM
		%s
	WHERE
		serial_no = :serial_no`, table(tc, "client_device"))

	var dbDev deviceDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbDev); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return devicebus.Device{}, fmt.Errorf("db: %w", devicebus.ErrNotFound)
		}
		return devicebus.Device{}, fmt.Errorf("db: %w", err)
	}

	return toBusDevice(dbDev)
}
