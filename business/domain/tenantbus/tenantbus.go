// Package tenantbus provides business access to the platform tenant catalog
// and resolves inbound request hosts to an isolated tenant partition.
package tenantbus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("tenant not found")
	ErrDefaultNotFound = errors.New("default tenant not configured")
	ErrInactive        = errors.New("tenant is inactive")
	ErrUniqueKey       = errors.New("key is not unique")
)

// Storer defines the behavior required by the tenantbus to interact with the
// platform catalog.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, t Tenant) error
	Update(ctx context.Context, t Tenant) error
	Query(ctx context.Context) ([]Tenant, error)
	QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error)
	QueryByKey(ctx context.Context, key string) (Tenant, error)
}

// ResolveConfig holds the hosts that never carry a tenant subdomain and the
// catalog key used when a request arrives through one of them.
type ResolveConfig struct {
	DefaultKey    string
	DefaultDomain string
	ManagementIP  string
}

// Core manages the set of APIs for tenant access.
type Core struct {
	storer Storer
	log    *logger.Logger
	cfg    ResolveConfig
}

// NewCore constructs a core for tenant api access.
func NewCore(log *logger.Logger, cfg ResolveConfig, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
		cfg:    cfg,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, c.cfg, storer), nil
}

// Create adds a new tenant to the catalog.
func (c *Core) Create(ctx context.Context, nt NewTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.create")
	defer span.End()

	now := time.Now()

	t := Tenant{
		ID:         uuid.New(),
		Name:       nt.Name,
		Key:        nt.Key,
		SchemaName: nt.SchemaName,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storer.Create(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("create: %w", err)
	}

	return t, nil
}

// Update modifies data about a tenant.
func (c *Core) Update(ctx context.Context, t Tenant, ut UpdateTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.update")
	defer span.End()

	if ut.Name != nil {
		t.Name = *ut.Name
	}

	if ut.Enabled != nil {
		t.Enabled = *ut.Enabled
	}

	t.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("update: %w", err)
	}

	return t, nil
}

// Query retrieves the full catalog.
func (c *Core) Query(ctx context.Context) ([]Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.query")
	defer span.End()

	tenants, err := c.storer.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return tenants, nil
}

// QueryByID finds the tenant by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryByID")
	defer span.End()

	tenant, err := c.storer.QueryByID(ctx, tenantID)
	if err != nil {
		return Tenant{}, fmt.Errorf("query: tenantID[%s]: %w", tenantID, err)
	}

	return tenant, nil
}

// Resolve translates an inbound request host into a tenant Context. This is
// the single point establishing per-tenant isolation: every data operation
// downstream routes through the returned Context, and none may run when
// Resolve fails.
func (c *Core) Resolve(ctx context.Context, host string) (Context, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.resolve")
	defer span.End()

	key, explicit := c.tenantKey(host)

	t, err := c.storer.QueryByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if !explicit {
				return Context{}, fmt.Errorf("default key[%s]: %w", key, ErrDefaultNotFound)
			}
			return Context{}, fmt.Errorf("key[%s]: %w", key, ErrNotFound)
		}
		return Context{}, fmt.Errorf("query by key[%s]: %w", key, err)
	}

	if !t.Enabled {
		return Context{}, fmt.Errorf("key[%s]: %w", key, ErrInactive)
	}

	return Context{
		TenantID:   t.ID,
		SchemaName: t.SchemaName,
	}, nil
}

// tenantKey extracts the catalog key for the specified host. The second
// return reports whether the key came from an explicit subdomain.
func (c *Core) tenantKey(host string) (string, bool) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	if c.isOperationalHost(hostname) {
		return c.cfg.DefaultKey, false
	}

	labels := strings.Split(hostname, ".")
	if len(labels) <= 2 {
		return c.cfg.DefaultKey, false
	}

	return labels[0], true
}

// isOperationalHost reports whether the hostname is one of the hosts the
// platform itself is reachable through rather than a tenant subdomain.
func (c *Core) isOperationalHost(hostname string) bool {
	switch hostname {
	case "localhost", "127.0.0.1", "::1":
		return true
	}

	if c.cfg.DefaultDomain != "" && strings.EqualFold(hostname, c.cfg.DefaultDomain) {
		return true
	}

	if c.cfg.ManagementIP != "" && hostname == c.cfg.ManagementIP {
		return true
	}

	return false
}
