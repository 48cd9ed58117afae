package scheduleapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
	"github.com/google/uuid"
)

type queryParams struct {
	Page       string
	Rows       string
	OrderBy    string
	ID         string
	Name       string
	PeriodKind string
	Enabled    string
	ActiveOn   string
}

func parseQueryParams(r *http.Request) queryParams {
	values := r.URL.Query()

	return queryParams{
		Page:       values.Get("page"),
		Rows:       values.Get("rows"),
		OrderBy:    values.Get("orderBy"),
		ID:         values.Get("schedule_id"),
		Name:       values.Get("name"),
		PeriodKind: values.Get("period_kind"),
		Enabled:    values.Get("enabled"),
		ActiveOn:   values.Get("active_on"),
	}
}

func parseFilter(qp queryParams) (schedulebus.QueryFilter, error) {
	var fieldErrors errs.FieldErrors
	var filter schedulebus.QueryFilter

	if qp.ID != "" {
		id, err := uuid.Parse(qp.ID)
		switch err {
		case nil:
			filter.ID = &id
		default:
			fieldErrors.Add("schedule_id", err)
		}
	}

	if qp.Name != "" {
		nme, err := name.Parse(qp.Name)
		switch err {
		case nil:
			filter.Name = &nme
		default:
			fieldErrors.Add("name", err)
		}
	}

	if qp.PeriodKind != "" {
		kind, err := periodkind.Parse(qp.PeriodKind)
		switch err {
		case nil:
			filter.PeriodKind = &kind
		default:
			fieldErrors.Add("period_kind", err)
		}
	}

	if qp.Enabled != "" {
		enabled, err := strconv.ParseBool(qp.Enabled)
		switch err {
		case nil:
			filter.Enabled = &enabled
		default:
			fieldErrors.Add("enabled", err)
		}
	}

	if qp.ActiveOn != "" {
		t, err := time.Parse(dateLayout, qp.ActiveOn)
		switch err {
		case nil:
			filter.ActiveOn = &t
		default:
			fieldErrors.Add("active_on", err)
		}
	}

	if fieldErrors != nil {
		return schedulebus.QueryFilter{}, fieldErrors.ToError()
	}

	return filter, nil
}
