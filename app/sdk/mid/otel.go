package mid

import (
	"context"
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"go.opentelemetry.io/otel/trace"
)

// Otel stores the tracer in the request context so handlers and the business
// layer can start spans without carrying the tracer themselves.
func Otel(tracer trace.Tracer) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = otel.InjectTracing(ctx, tracer)

			return next(ctx, r)
		}

		return h
	}

	return m
}
