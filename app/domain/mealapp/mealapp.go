// Package mealapp maintains the app layer api for the meal catalog domain.
package mealapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/google/uuid"
)

type app struct {
	mealBus *mealbus.Core
}

func newApp(mealBus *mealbus.Core) *app {
	return &app{
		mealBus: mealBus,
	}
}

func (a *app) createType(ctx context.Context, r *http.Request) web.Encoder {
	var app NewMealType
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nmt, err := toBusNewMealType(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mt, err := a.mealBus.CreateType(ctx, tc, nmt)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "createtype: mt[%+v]: %s", app, err)
	}

	return toAppMealType(mt)
}

func (a *app) queryTypes(ctx context.Context, _ *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mts, err := a.mealBus.QueryTypes(ctx, tc)
	if err != nil {
		return errs.Errorf(errs.Internal, "querytypes: %s", err)
	}

	return toAppMealTypes(mts)
}

func (a *app) queryTypeByID(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mealTypeID, err := uuid.Parse(r.PathValue("meal_type_id"))
	if err != nil {
		return errs.NewFieldErrors("meal_type_id", err)
	}

	mt, err := a.mealBus.QueryTypeByID(ctx, tc, mealTypeID)
	if err != nil {
		if errors.Is(err, mealbus.ErrNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "querytype: mealTypeID[%s]: %s", mealTypeID, err)
	}

	return toAppMealType(mt)
}

func (a *app) createSubType(ctx context.Context, r *http.Request) web.Encoder {
	var app NewMealSubType
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nmst, err := toBusNewMealSubType(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mst, err := a.mealBus.CreateSubType(ctx, tc, nmst)
	if err != nil {
		if errors.Is(err, mealbus.ErrNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "createsubtype: mst[%+v]: %s", app, err)
	}

	return toAppMealSubType(mst)
}

func (a *app) querySubTypeByID(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mealSubTypeID, err := uuid.Parse(r.PathValue("meal_sub_type_id"))
	if err != nil {
		return errs.NewFieldErrors("meal_sub_type_id", err)
	}

	mst, err := a.mealBus.QuerySubTypeByID(ctx, tc, mealSubTypeID)
	if err != nil {
		if errors.Is(err, mealbus.ErrNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "querysubtype: mealSubTypeID[%s]: %s", mealSubTypeID, err)
	}

	return toAppMealSubType(mst)
}

func (a *app) createSupplier(ctx context.Context, r *http.Request) web.Encoder {
	var app NewSupplier
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ns, err := toBusNewSupplier(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sup, err := a.mealBus.CreateSupplier(ctx, tc, ns)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "createsupplier: sup[%+v]: %s", app, err)
	}

	return toAppSupplier(sup)
}

func (a *app) upsertCost(ctx context.Context, r *http.Request) web.Encoder {
	var app UpsertMealCost
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nmc, err := toBusUpsertMealCost(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mc, err := a.mealBus.UpsertCost(ctx, tc, nmc)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "upsertcost: mc[%+v]: %s", app, err)
	}

	return toAppMealCost(mc)
}

func (a *app) queryCost(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	supplierID, err := uuid.Parse(r.PathValue("supplier_id"))
	if err != nil {
		return errs.NewFieldErrors("supplier_id", err)
	}

	mealTypeID, err := uuid.Parse(r.PathValue("meal_type_id"))
	if err != nil {
		return errs.NewFieldErrors("meal_type_id", err)
	}

	var mealSubTypeID *uuid.UUID
	if v := r.URL.Query().Get("meal_sub_type_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return errs.NewFieldErrors("meal_sub_type_id", err)
		}
		mealSubTypeID = &id
	}

	mc, err := a.mealBus.QueryCost(ctx, tc, supplierID, mealTypeID, mealSubTypeID)
	if err != nil {
		if errors.Is(err, mealbus.ErrCostNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "querycost: supplierID[%s] mealTypeID[%s]: %s", supplierID, mealTypeID, err)
	}

	return toAppMealCost(mc)
}

func (a *app) upsertPayStatus(ctx context.Context, r *http.Request) web.Encoder {
	var app PayStatus
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ps, err := toBusPayStatus(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	if err := a.mealBus.UpsertPayStatus(ctx, tc, ps); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "upsertpaystatus: ps[%+v]: %s", app, err)
	}

	return toAppPayStatus(ps)
}

func (a *app) queryPayStatus(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sh, err := shift.Parse(r.PathValue("shift"))
	if err != nil {
		return errs.NewFieldErrors("shift", err)
	}

	mealTypeID, err := uuid.Parse(r.PathValue("meal_type_id"))
	if err != nil {
		return errs.NewFieldErrors("meal_type_id", err)
	}

	ps, err := a.mealBus.QueryPayStatus(ctx, tc, sh, mealTypeID)
	if err != nil {
		if errors.Is(err, mealbus.ErrPayStatusNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "querypaystatus: shift[%s] mealTypeID[%s]: %s", sh, mealTypeID, err)
	}

	return toAppPayStatus(ps)
}
