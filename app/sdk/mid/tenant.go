package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
)

// ResolveTenant resolves the request host to a tenant context and binds it
// to the request context. Resolution failures abort the request before any
// per-tenant data access runs.
func ResolveTenant(tenantBus *tenantbus.Core) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			tc, err := tenantBus.Resolve(ctx, r.Host)
			if err != nil {
				switch {
				case errors.Is(err, tenantbus.ErrDefaultNotFound):
					return errs.New(errs.FailedPrecondition, err)

				case errors.Is(err, tenantbus.ErrNotFound):
					return errs.New(errs.NotFound, err)

				case errors.Is(err, tenantbus.ErrInactive):
					return errs.New(errs.FailedPrecondition, err)

				default:
					return errs.New(errs.Internal, err)
				}
			}

			ctx = setTenant(ctx, tc)

			return next(ctx, r)
		}

		return h
	}

	return m
}
