package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
)

// Logger writes information about the request to the logs.
func Logger(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			now := time.Now()

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = path + "?" + r.URL.RawQuery
			}

			log.Info(ctx, "request started", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			var statusCode = errStatusCode(resp)

			log.Info(ctx, "request completed", "method", r.Method, "path", path,
				"remoteaddr", r.RemoteAddr, "statuscode", statusCode, "since", time.Since(now).String())

			return resp
		}

		return h
	}

	return m
}

func errStatusCode(resp web.Encoder) int {
	type httpStatus interface {
		HTTPStatus() int
	}

	switch v := resp.(type) {
	case httpStatus:
		return v.HTTPStatus()

	case error:
		return http.StatusInternalServerError

	default:
		if resp == nil {
			return http.StatusNoContent
		}
		return http.StatusOK
	}
}
