// Package scheduleapp maintains the app layer api for the schedule domain.
package scheduleapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/query"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/order"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/page"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/google/uuid"
)

type app struct {
	scheduleBus *schedulebus.Core
}

func newApp(scheduleBus *schedulebus.Core) *app {
	return &app{
		scheduleBus: scheduleBus,
	}
}

// newWithTx constructs a new app value using a store transaction that was
// created via middleware.
func (a *app) newWithTx(ctx context.Context) (*app, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return nil, err
	}

	scheduleBus, err := a.scheduleBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return &app{
		scheduleBus: scheduleBus,
	}, nil
}

func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.newWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	var app NewSchedule
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ns, err := toBusNewSchedule(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.scheduleBus.Create(ctx, tc, ns)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "create: sch[%+v]: %s", app, err)
	}

	return toAppSchedule(sch)
}

func (a *app) update(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.newWithTx(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	var app UpdateSchedule
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	us, err := toBusUpdateSchedule(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	updSch, err := a.scheduleBus.Update(ctx, tc, sch, us)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "update: scheduleID[%s]: %s", sch.ID, err)
	}

	return toAppSchedule(updSch)
}

func (a *app) delete(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	if err := a.scheduleBus.Delete(ctx, tc, sch); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "delete: scheduleID[%s]: %s", sch.ID, err)
	}

	return nil
}

func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	qp := parseQueryParams(r)

	page, err := page.Parse(qp.Page, qp.Rows)
	if err != nil {
		return errs.NewFieldErrors("page", err)
	}

	filter, err := parseFilter(qp)
	if err != nil {
		if v, ok := err.(*errs.Error); ok {
			return v
		}
		return errs.NewFieldErrors("filter", err)
	}

	orderBy, err := order.Parse(orderByFields, qp.OrderBy, schedulebus.DefaultOrderBy)
	if err != nil {
		return errs.NewFieldErrors("order", err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	schs, err := a.scheduleBus.Query(ctx, tc, filter, orderBy, page)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	total, err := a.scheduleBus.Count(ctx, tc, filter)
	if err != nil {
		return errs.Errorf(errs.Internal, "count: %s", err)
	}

	return query.NewResult(toAppSchedules(schs), total, page)
}

func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	return toAppSchedule(sch)
}

func (a *app) queryDates(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	dates, err := a.scheduleBus.QueryDates(ctx, tc, sch.ID)
	if err != nil {
		return errs.Errorf(errs.Internal, "querydates: scheduleID[%s]: %s", sch.ID, err)
	}

	return toAppScheduleDates(sch.ID, dates)
}

func (a *app) queryMeals(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	meals, err := a.scheduleBus.QueryMeals(ctx, tc, []uuid.UUID{sch.ID})
	if err != nil {
		return errs.Errorf(errs.Internal, "querymeals: scheduleID[%s]: %s", sch.ID, err)
	}

	return toAppScheduleMeals(meals)
}

func (a *app) addMeal(ctx context.Context, r *http.Request) web.Encoder {
	var app NewScheduleMeal
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	nsm, err := toBusNewScheduleMeal(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	meal, err := a.scheduleBus.AddMeal(ctx, tc, sch.ID, nsm)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "addmeal: scheduleID[%s]: %s", sch.ID, err)
	}

	return toAppScheduleMeal(meal)
}

func (a *app) removeMeal(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	mealID, err := uuid.Parse(r.PathValue("meal_id"))
	if err != nil {
		return errs.NewFieldErrors("meal_id", err)
	}

	if err := a.scheduleBus.RemoveMeal(ctx, tc, mealID); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "removemeal: mealID[%s]: %s", mealID, err)
	}

	return nil
}

func (a *app) addPeople(ctx context.Context, r *http.Request) web.Encoder {
	var app AssignPeople
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	personIDs, err := toBusPersonIDs(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	if err := a.scheduleBus.AddPeople(ctx, tc, sch.ID, personIDs); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "addpeople: scheduleID[%s]: %s", sch.ID, err)
	}

	return nil
}

func (a *app) removePerson(ctx context.Context, r *http.Request) web.Encoder {
	tc, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "tenant missing in context: %s", err)
	}

	sch, err := a.queryScheduleByID(ctx, tc, r)
	if err != nil {
		return errs.GetError(err)
	}

	personID, err := uuid.Parse(r.PathValue("person_id"))
	if err != nil {
		return errs.NewFieldErrors("person_id", err)
	}

	if err := a.scheduleBus.RemovePerson(ctx, tc, sch.ID, personID); err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "removeperson: scheduleID[%s] personID[%s]: %s", sch.ID, personID, err)
	}

	return nil
}

// queryScheduleByID resolves the schedule named in the route path. The error
// returned is always an app *errs.Error ready to hand back to the client.
func (a *app) queryScheduleByID(ctx context.Context, tc tenantbus.Context, r *http.Request) (schedulebus.Schedule, error) {
	scheduleID, err := uuid.Parse(r.PathValue("schedule_id"))
	if err != nil {
		return schedulebus.Schedule{}, errs.NewFieldErrors("schedule_id", err)
	}

	sch, err := a.scheduleBus.QueryByID(ctx, tc, scheduleID)
	if err != nil {
		if errors.Is(err, schedulebus.ErrNotFound) {
			return schedulebus.Schedule{}, errs.New(errs.NotFound, err)
		}
		return schedulebus.Schedule{}, errs.Errorf(errs.InternalOnlyLog, "query: scheduleID[%s]: %s", scheduleID, err)
	}

	return sch, nil
}
