package tenantdb

import (
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

// tenantDB represents the structure of the tenant table in the database.
type tenantDB struct {
	ID         uuid.UUID `db:"tenant_id"`
	Name       string    `db:"name"`
	Key        string    `db:"key"`
	SchemaName string    `db:"schema_name"`
	Enabled    bool      `db:"enabled"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func toDBTenant(bus tenantbus.Tenant) tenantDB {
	return tenantDB{
		ID:         bus.ID,
		Name:       bus.Name.String(),
		Key:        bus.Key,
		SchemaName: bus.SchemaName,
		Enabled:    bus.Enabled,
		CreatedAt:  bus.CreatedAt.UTC(),
		UpdatedAt:  bus.UpdatedAt.UTC(),
	}
}

func toBusTenant(db tenantDB) (tenantbus.Tenant, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("parse name: %w", err)
	}

	bus := tenantbus.Tenant{
		ID:         db.ID,
		Name:       nme,
		Key:        db.Key,
		SchemaName: db.SchemaName,
		Enabled:    db.Enabled,
		CreatedAt:  db.CreatedAt.In(time.Local),
		UpdatedAt:  db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusTenants(dbs []tenantDB) ([]tenantbus.Tenant, error) {
	bus := make([]tenantbus.Tenant, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusTenant(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
