package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/metrics"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
)

// Panics turns a panic anywhere below this middleware into an internal
// error response that carries the stack trace, and bumps the panic counter.
func Panics() web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) (resp web.Encoder) {

			// The recover has to run in a deferred func so the named return
			// can be replaced after the handler unwinds.
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					resp = errs.Errorf(errs.InternalOnlyLog, "PANIC [%v] TRACE[%s]", rec, string(trace))

					metrics.AddPanics(ctx)
				}
			}()

			return next(ctx, r)
		}

		return h
	}

	return m
}
