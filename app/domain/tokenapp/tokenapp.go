// Package tokenapp maintains the app layer api for the token domain.
package tokenapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/consumptionbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/devicebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tokenbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
)

type app struct {
	tokenBus *tokenbus.Core
}

func newApp(tokenBus *tokenbus.Core) *app {
	return &app{
		tokenBus: tokenBus,
	}
}

func (a *app) evaluate(ctx context.Context, r *http.Request) web.Encoder {
	var req EvaluateRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return errs.Newf(errs.InvalidArgument, "parse timestamp: %s", err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	event := tokenbus.DeviceEvent{
		Person:         req.PersonNumber,
		Timestamp:      ts,
		DeviceSerialNo: req.DeviceSerialNo,
		FunctionKey:    req.FunctionKey,
	}

	res, err := a.tokenBus.Evaluate(ctx, tc, event)
	if err != nil {
		switch {
		case errors.Is(err, devicebus.ErrNotFound):
			return errs.New(errs.NotFound, err)

		case errors.Is(err, personbus.ErrNotFound):
			return errs.New(errs.NotFound, err)

		case errors.Is(err, tokenbus.ErrDeviceInactive):
			return errs.New(errs.FailedPrecondition, err)

		case errors.Is(err, tokenbus.ErrPersonInactive):
			return errs.New(errs.FailedPrecondition, err)

		case errors.Is(err, tokenbus.ErrNoActiveSchedule):
			return errs.New(errs.FailedPrecondition, err)

		case errors.Is(err, tokenbus.ErrNoMealWindow):
			return errs.New(errs.FailedPrecondition, err)

		case errors.Is(err, consumptionbus.ErrDuplicateSameDay):
			return errs.New(errs.AlreadyExists, err)

		case errors.Is(err, consumptionbus.ErrCooldown):
			return errs.New(errs.AlreadyExists, err)

		case errors.Is(err, tokenbus.ErrConflict):
			return errs.New(errs.Aborted, err)
		}

		return errs.Newf(errs.Internal, "evaluate: personNumber[%s] device[%s]: %s", req.PersonNumber, req.DeviceSerialNo, err)
	}

	return toAppToken(res)
}
