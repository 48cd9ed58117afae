package devicedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/devicebus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

type deviceDB struct {
	ID        uuid.UUID      `db:"device_id"`
	SerialNo  string         `db:"serial_no"`
	Name      string         `db:"name"`
	Location  sql.NullString `db:"location"`
	Enabled   bool           `db:"enabled"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func toDBDevice(bus devicebus.Device) deviceDB {
	return deviceDB{
		ID:        bus.ID,
		SerialNo:  bus.SerialNo,
		Name:      bus.Name.String(),
		Location:  sql.NullString{String: bus.Location, Valid: bus.Location != ""},
		Enabled:   bus.Enabled,
		CreatedAt: bus.CreatedAt.UTC(),
		UpdatedAt: bus.UpdatedAt.UTC(),
	}
}

func toBusDevice(db deviceDB) (devicebus.Device, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return devicebus.Device{}, fmt.Errorf("parse name: %w", err)
	}

	bus := devicebus.Device{
		ID:        db.ID,
		SerialNo:  db.SerialNo,
		Name:      nme,
		Location:  db.Location.String,
		Enabled:   db.Enabled,
		CreatedAt: db.CreatedAt.In(time.Local),
		UpdatedAt: db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusDevices(dbs []deviceDB) ([]devicebus.Device, error) {
	bus := make([]devicebus.Device, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusDevice(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
