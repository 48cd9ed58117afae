package tenantbus_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
)

type stubStorer struct {
	tenants map[string]tenantbus.Tenant
}

func (s *stubStorer) NewWithTx(tx sqldb.CommitRollbacker) (tenantbus.Storer, error) {
	return s, nil
}

func (s *stubStorer) Create(ctx context.Context, t tenantbus.Tenant) error {
	s.tenants[t.Key] = t
	return nil
}

func (s *stubStorer) Update(ctx context.Context, t tenantbus.Tenant) error {
	s.tenants[t.Key] = t
	return nil
}

func (s *stubStorer) Query(ctx context.Context) ([]tenantbus.Tenant, error) {
	var ts []tenantbus.Tenant
	for _, t := range s.tenants {
		ts = append(ts, t)
	}
	return ts, nil
}

func (s *stubStorer) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID == tenantID {
			return t, nil
		}
	}
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubStorer) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	t, exists := s.tenants[key]
	if !exists {
		return tenantbus.Tenant{}, tenantbus.ErrNotFound
	}
	return t, nil
}

func newTestCore(t *testing.T, cfg tenantbus.ResolveConfig, tenants ...tenantbus.Tenant) (*tenantbus.Core, map[string]tenantbus.Tenant) {
	t.Helper()

	store := stubStorer{tenants: make(map[string]tenantbus.Tenant)}
	for _, tnt := range tenants {
		store.tenants[tnt.Key] = tnt
	}

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	return tenantbus.NewCore(log, cfg, &store), store.tenants
}

func newTenant(key string, schema string, enabled bool) tenantbus.Tenant {
	return tenantbus.Tenant{
		ID:         uuid.New(),
		Name:       name.MustParse(fmt.Sprintf("tenant %s", key)),
		Key:        key,
		SchemaName: schema,
		Enabled:    enabled,
	}
}

func Test_Resolve_Subdomain(t *testing.T) {
	cfg := tenantbus.ResolveConfig{DefaultKey: "default"}

	tenant1 := newTenant("tenant1", "tenant1_schema", true)
	core, _ := newTestCore(t, cfg, tenant1, newTenant("default", "default_schema", true))

	tc, err := core.Resolve(context.Background(), "tenant1.example.com")
	if err != nil {
		t.Fatalf("Should be able to resolve tenant1 : %s", err)
	}

	if tc.TenantID != tenant1.ID {
		t.Errorf("Should resolve to tenant1; got %s", tc.TenantID)
	}

	if tc.SchemaName != "tenant1_schema" {
		t.Errorf("Should bind tenant1 schema; got %q", tc.SchemaName)
	}
}

func Test_Resolve_DefaultHosts(t *testing.T) {
	cfg := tenantbus.ResolveConfig{
		DefaultKey:    "default",
		DefaultDomain: "mealtoken.example.net",
		ManagementIP:  "10.0.0.9",
	}

	def := newTenant("default", "default_schema", true)
	core, _ := newTestCore(t, cfg, def, newTenant("tenant1", "tenant1_schema", true))

	hosts := []string{
		"localhost:5000",
		"localhost",
		"127.0.0.1:3000",
		"mealtoken.example.net",
		"10.0.0.9:3000",
		"example.com",
	}

	for _, host := range hosts {
		tc, err := core.Resolve(context.Background(), host)
		if err != nil {
			t.Fatalf("Should resolve host %q to the default tenant : %s", host, err)
		}

		if tc.TenantID != def.ID {
			t.Errorf("Host %q should resolve to the default tenant, never a subdomain parse", host)
		}
	}
}

func Test_Resolve_UnknownSubdomain(t *testing.T) {
	cfg := tenantbus.ResolveConfig{DefaultKey: "default"}

	core, _ := newTestCore(t, cfg, newTenant("default", "default_schema", true))

	_, err := core.Resolve(context.Background(), "nobody.example.com")
	if !errors.Is(err, tenantbus.ErrNotFound) {
		t.Fatalf("Should fail with ErrNotFound for an unknown subdomain; got %v", err)
	}
}

func Test_Resolve_DefaultMisconfigured(t *testing.T) {
	cfg := tenantbus.ResolveConfig{DefaultKey: "missing"}

	core, _ := newTestCore(t, cfg, newTenant("tenant1", "tenant1_schema", true))

	_, err := core.Resolve(context.Background(), "localhost:5000")
	if !errors.Is(err, tenantbus.ErrDefaultNotFound) {
		t.Fatalf("Should fail with ErrDefaultNotFound for a missing default tenant; got %v", err)
	}
}

func Test_Resolve_Inactive(t *testing.T) {
	cfg := tenantbus.ResolveConfig{DefaultKey: "default"}

	core, _ := newTestCore(t, cfg, newTenant("tenant1", "tenant1_schema", false))

	_, err := core.Resolve(context.Background(), "tenant1.example.com")
	if !errors.Is(err, tenantbus.ErrInactive) {
		t.Fatalf("Should fail with ErrInactive for a disabled tenant; got %v", err)
	}
}

func Test_Resolve_FreshContextPerCall(t *testing.T) {
	cfg := tenantbus.ResolveConfig{DefaultKey: "default"}

	tenant1 := newTenant("tenant1", "tenant1_schema", true)
	core, _ := newTestCore(t, cfg, tenant1)

	tc1, err := core.Resolve(context.Background(), "tenant1.example.com")
	if err != nil {
		t.Fatalf("Should be able to resolve tenant1 : %s", err)
	}

	tc2, err := core.Resolve(context.Background(), "tenant1.example.com")
	if err != nil {
		t.Fatalf("Should be able to resolve tenant1 : %s", err)
	}

	tc1.SchemaName = "mutated"
	if tc2.SchemaName != "tenant1_schema" {
		t.Error("Resolved contexts should be independent values")
	}
}
