package tenantbus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

// Tenant represents a client organization in the platform catalog.
type Tenant struct {
	ID         uuid.UUID
	Name       name.Name
	Key        string
	SchemaName string
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTenant contains information needed to create a new tenant.
type NewTenant struct {
	Name       name.Name
	Key        string
	SchemaName string
}

// UpdateTenant contains information needed to update a tenant.
type UpdateTenant struct {
	Name    *name.Name
	Enabled *bool
}

// Context carries the resolved tenant identity and data partition for the
// duration of a single request. A fresh value is constructed per request and
// is never shared between requests.
type Context struct {
	TenantID   uuid.UUID
	SchemaName string
}
