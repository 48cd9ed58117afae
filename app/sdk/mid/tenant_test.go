package mid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
)

type stubTenantStorer struct {
	tenants map[string]tenantbus.Tenant
}

func (s *stubTenantStorer) NewWithTx(tx sqldb.CommitRollbacker) (tenantbus.Storer, error) {
	return s, nil
}

func (s *stubTenantStorer) Create(ctx context.Context, t tenantbus.Tenant) error {
	s.tenants[t.Key] = t
	return nil
}

func (s *stubTenantStorer) Update(ctx context.Context, t tenantbus.Tenant) error {
	s.tenants[t.Key] = t
	return nil
}

func (s *stubTenantStorer) Query(ctx context.Context) ([]tenantbus.Tenant, error) {
	var ts []tenantbus.Tenant
	for _, t := range s.tenants {
		ts = append(ts, t)
	}
	return ts, nil
}

func (s *stubTenantStorer) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID == tenantID {
			return t, nil
		}
	}
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *stubTenantStorer) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	t, exists := s.tenants[key]
	if !exists {
		return tenantbus.Tenant{}, tenantbus.ErrNotFound
	}
	return t, nil
}

func newResolveMid(t *testing.T, tenants ...tenantbus.Tenant) web.MidFunc {
	t.Helper()

	store := stubTenantStorer{tenants: make(map[string]tenantbus.Tenant)}
	for _, tnt := range tenants {
		store.tenants[tnt.Key] = tnt
	}

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	cfg := tenantbus.ResolveConfig{
		DefaultKey: "default",
	}

	return mid.ResolveTenant(tenantbus.NewCore(log, cfg, &store))
}

func request(t *testing.T, host string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/v1/token/evaluate", nil)
	r.Host = host
	return r
}

func Test_ResolveTenant(t *testing.T) {
	tenant := tenantbus.Tenant{
		ID:         uuid.New(),
		Name:       name.MustParse("tenant one"),
		Key:        "tenant1",
		SchemaName: "tenant1",
		Enabled:    true,
	}

	t.Run("Bound", func(t *testing.T) {
		mw := newResolveMid(t, tenant)

		next := func(ctx context.Context, r *http.Request) web.Encoder {
			tc, err := mid.GetTenant(ctx)
			if err != nil {
				t.Fatalf("Should find the tenant in the context : %s", err)
			}
			if tc.SchemaName != tenant.SchemaName {
				t.Fatalf("Should bind schema %q, got %q", tenant.SchemaName, tc.SchemaName)
			}
			return nil
		}

		if resp := mw(next)(context.Background(), request(t, "tenant1.example.com")); resp != nil {
			t.Fatalf("Should pass the request through, got %v", resp)
		}
	})

	t.Run("UnknownSubdomain", func(t *testing.T) {
		mw := newResolveMid(t, tenant)

		next := func(ctx context.Context, r *http.Request) web.Encoder {
			t.Fatal("Should not reach the handler")
			return nil
		}

		resp := mw(next)(context.Background(), request(t, "ghost.example.com"))

		err, ok := resp.(*errs.Error)
		if !ok {
			t.Fatalf("Should return an app error, got %T", resp)
		}
		if !err.Code.Equal(errs.NotFound) {
			t.Fatalf("Should map an unknown subdomain to NotFound, got %s", err.Code)
		}
		if err.HTTPStatus() != http.StatusNotFound {
			t.Fatalf("Should render 404, got %d", err.HTTPStatus())
		}
	})

	t.Run("DefaultKeyMissing", func(t *testing.T) {

		// No catalog row for the configured default key. A request through an
		// operational host must surface the misconfiguration as a client
		// visible 400, not a 500.
		mw := newResolveMid(t)

		next := func(ctx context.Context, r *http.Request) web.Encoder {
			t.Fatal("Should not reach the handler")
			return nil
		}

		resp := mw(next)(context.Background(), request(t, "localhost:5000"))

		err, ok := resp.(*errs.Error)
		if !ok {
			t.Fatalf("Should return an app error, got %T", resp)
		}
		if !err.Code.Equal(errs.FailedPrecondition) {
			t.Fatalf("Should map a missing default tenant to FailedPrecondition, got %s", err.Code)
		}
		if err.HTTPStatus() != http.StatusBadRequest {
			t.Fatalf("Should render 400, got %d", err.HTTPStatus())
		}
	})

	t.Run("Inactive", func(t *testing.T) {
		off := tenant
		off.Enabled = false

		mw := newResolveMid(t, off)

		next := func(ctx context.Context, r *http.Request) web.Encoder {
			t.Fatal("Should not reach the handler")
			return nil
		}

		resp := mw(next)(context.Background(), request(t, "tenant1.example.com"))

		err, ok := resp.(*errs.Error)
		if !ok {
			t.Fatalf("Should return an app error, got %T", resp)
		}
		if !err.Code.Equal(errs.FailedPrecondition) {
			t.Fatalf("Should map an inactive tenant to FailedPrecondition, got %s", err.Code)
		}
	})
}
