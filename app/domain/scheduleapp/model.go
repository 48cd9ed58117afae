package scheduleapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Period defines the date parameters for a schedule. Kind selects which of
// the remaining fields are read.
type Period struct {
	Kind          string   `json:"kind" validate:"required"`
	SelectedDate  string   `json:"selectedDate,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	Year          int      `json:"year,omitempty"`
	Month         int      `json:"month,omitempty"`
	WeekStartDate string   `json:"weekStartDate,omitempty"`
	SelectedDates []string `json:"selectedDates,omitempty"`
}

func toBusPeriod(app Period) (schedulebus.Period, error) {
	kind, err := periodkind.Parse(app.Kind)
	if err != nil {
		return schedulebus.Period{}, fmt.Errorf("parse kind: %w", err)
	}

	parseDate := func(field string, value string) (time.Time, error) {
		if value == "" {
			return time.Time{}, fmt.Errorf("%s: missing date", field)
		}
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", field, err)
		}
		return t, nil
	}

	switch kind {
	case periodkind.SingleDate:
		d, err := parseDate("selectedDate", app.SelectedDate)
		if err != nil {
			return schedulebus.Period{}, err
		}
		return schedulebus.NewSingleDatePeriod(d)

	case periodkind.DateRange, periodkind.Weekdays, periodkind.Weekends:
		start, err := parseDate("startDate", app.StartDate)
		if err != nil {
			return schedulebus.Period{}, err
		}
		end, err := parseDate("endDate", app.EndDate)
		if err != nil {
			return schedulebus.Period{}, err
		}
		switch kind {
		case periodkind.Weekdays:
			return schedulebus.NewWeekdaysPeriod(start, end)
		case periodkind.Weekends:
			return schedulebus.NewWeekendsPeriod(start, end)
		}
		return schedulebus.NewDateRangePeriod(start, end)

	case periodkind.Year:
		return schedulebus.NewYearPeriod(app.Year)

	case periodkind.Month:
		return schedulebus.NewMonthPeriod(app.Year, time.Month(app.Month))

	case periodkind.Week:
		start, err := parseDate("weekStartDate", app.WeekStartDate)
		if err != nil {
			return schedulebus.Period{}, err
		}
		return schedulebus.NewWeekPeriod(start)

	case periodkind.CustomDays:
		dates := make([]time.Time, len(app.SelectedDates))
		for i, value := range app.SelectedDates {
			d, err := parseDate(fmt.Sprintf("selectedDates[%d]", i), value)
			if err != nil {
				return schedulebus.Period{}, err
			}
			dates[i] = d
		}
		return schedulebus.NewCustomDaysPeriod(dates)
	}

	return schedulebus.Period{}, fmt.Errorf("unsupported period kind %q", app.Kind)
}

// =============================================================================

// Schedule represents information about an individual schedule.
type Schedule struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PeriodKind string `json:"periodKind"`
	Enabled    bool   `json:"enabled"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Encode implements the web.Encoder interface.
func (app Schedule) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppSchedule(sch schedulebus.Schedule) Schedule {
	return Schedule{
		ID:         sch.ID.String(),
		Name:       sch.Name.String(),
		PeriodKind: sch.PeriodKind.String(),
		Enabled:    sch.Enabled,
		CreatedAt:  sch.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  sch.UpdatedAt.Format(time.RFC3339),
	}
}

func toAppSchedules(schs []schedulebus.Schedule) []Schedule {
	app := make([]Schedule, len(schs))
	for i, sch := range schs {
		app[i] = toAppSchedule(sch)
	}
	return app
}

// ScheduleDates represents the expanded date set of a schedule.
type ScheduleDates struct {
	ScheduleID string   `json:"scheduleId"`
	Dates      []string `json:"dates"`
}

// Encode implements the web.Encoder interface.
func (app ScheduleDates) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppScheduleDates(scheduleID uuid.UUID, dates []schedulebus.ScheduleDate) ScheduleDates {
	app := ScheduleDates{
		ScheduleID: scheduleID.String(),
		Dates:      make([]string, len(dates)),
	}
	for i, d := range dates {
		app.Dates[i] = d.Date.Format(dateLayout)
	}
	return app
}

// ScheduleMeal represents a meal offer attached to a schedule.
type ScheduleMeal struct {
	ID            string `json:"id"`
	ScheduleID    string `json:"scheduleId"`
	MealTypeID    string `json:"mealTypeId"`
	MealSubTypeID string `json:"mealSubTypeId,omitempty"`
	SupplierID    string `json:"supplierId"`
	WindowStart   string `json:"windowStart"`
	WindowEnd     string `json:"windowEnd"`
	FunctionKey   string `json:"functionKey,omitempty"`
	Available     bool   `json:"available"`
}

// Encode implements the web.Encoder interface.
func (app ScheduleMeal) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppScheduleMeal(sm schedulebus.ScheduleMeal) ScheduleMeal {
	app := ScheduleMeal{
		ID:          sm.ID.String(),
		ScheduleID:  sm.ScheduleID.String(),
		MealTypeID:  sm.MealTypeID.String(),
		SupplierID:  sm.SupplierID.String(),
		WindowStart: sm.Window.Start.String(),
		WindowEnd:   sm.Window.End.String(),
		FunctionKey: sm.FunctionKey,
		Available:   sm.Available,
	}

	if sm.MealSubTypeID != nil {
		app.MealSubTypeID = sm.MealSubTypeID.String()
	}

	return app
}

// ScheduleMeals is an encodable collection of meal offers.
type ScheduleMeals []ScheduleMeal

// Encode implements the web.Encoder interface.
func (app ScheduleMeals) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppScheduleMeals(sms []schedulebus.ScheduleMeal) ScheduleMeals {
	app := make(ScheduleMeals, len(sms))
	for i, sm := range sms {
		app[i] = toAppScheduleMeal(sm)
	}
	return app
}

// =============================================================================

// NewScheduleMeal defines a meal offer on schedule creation.
type NewScheduleMeal struct {
	MealTypeID    string `json:"mealTypeId" validate:"required,uuid4"`
	MealSubTypeID string `json:"mealSubTypeId" validate:"omitempty,uuid4"`
	SupplierID    string `json:"supplierId" validate:"required,uuid4"`
	WindowStart   string `json:"windowStart" validate:"required"`
	WindowEnd     string `json:"windowEnd" validate:"required"`
	FunctionKey   string `json:"functionKey"`
	Available     bool   `json:"available"`
}

// Decode implements the web.Decoder interface.
func (app *NewScheduleMeal) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewScheduleMeal) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusNewScheduleMeal(app NewScheduleMeal) (schedulebus.NewScheduleMeal, error) {
	mealTypeID, err := uuid.Parse(app.MealTypeID)
	if err != nil {
		return schedulebus.NewScheduleMeal{}, fmt.Errorf("parse mealTypeId: %w", err)
	}

	var mealSubTypeID *uuid.UUID
	if app.MealSubTypeID != "" {
		id, err := uuid.Parse(app.MealSubTypeID)
		if err != nil {
			return schedulebus.NewScheduleMeal{}, fmt.Errorf("parse mealSubTypeId: %w", err)
		}
		mealSubTypeID = &id
	}

	supplierID, err := uuid.Parse(app.SupplierID)
	if err != nil {
		return schedulebus.NewScheduleMeal{}, fmt.Errorf("parse supplierId: %w", err)
	}

	start, err := timeofday.Parse(app.WindowStart)
	if err != nil {
		return schedulebus.NewScheduleMeal{}, fmt.Errorf("parse windowStart: %w", err)
	}

	end, err := timeofday.Parse(app.WindowEnd)
	if err != nil {
		return schedulebus.NewScheduleMeal{}, fmt.Errorf("parse windowEnd: %w", err)
	}

	window, err := timeofday.NewWindow(start, end)
	if err != nil {
		return schedulebus.NewScheduleMeal{}, fmt.Errorf("window: %w", err)
	}

	return schedulebus.NewScheduleMeal{
		MealTypeID:    mealTypeID,
		MealSubTypeID: mealSubTypeID,
		SupplierID:    supplierID,
		Window:        window,
		FunctionKey:   app.FunctionKey,
		Available:     app.Available,
	}, nil
}

// NewSchedule defines the data needed to add a new schedule.
type NewSchedule struct {
	Name      string            `json:"name" validate:"required,min=3,max=100"`
	Period    Period            `json:"period" validate:"required"`
	Meals     []NewScheduleMeal `json:"meals" validate:"dive"`
	PersonIDs []string          `json:"personIds" validate:"dive,uuid4"`
}

// Decode implements the web.Decoder interface.
func (app *NewSchedule) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewSchedule) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusNewSchedule(app NewSchedule) (schedulebus.NewSchedule, error) {
	nme, err := name.Parse(app.Name)
	if err != nil {
		return schedulebus.NewSchedule{}, fmt.Errorf("parse name: %w", err)
	}

	period, err := toBusPeriod(app.Period)
	if err != nil {
		return schedulebus.NewSchedule{}, fmt.Errorf("period: %w", err)
	}

	meals := make([]schedulebus.NewScheduleMeal, len(app.Meals))
	for i, m := range app.Meals {
		meals[i], err = toBusNewScheduleMeal(m)
		if err != nil {
			return schedulebus.NewSchedule{}, fmt.Errorf("meals[%d]: %w", i, err)
		}
	}

	personIDs := make([]uuid.UUID, len(app.PersonIDs))
	for i, id := range app.PersonIDs {
		personIDs[i], err = uuid.Parse(id)
		if err != nil {
			return schedulebus.NewSchedule{}, fmt.Errorf("personIds[%d]: %w", i, err)
		}
	}

	return schedulebus.NewSchedule{
		Name:      nme,
		Period:    period,
		Meals:     meals,
		PersonIDs: personIDs,
	}, nil
}

// UpdateSchedule defines the data needed to update a schedule.
type UpdateSchedule struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=100"`
	Period  *Period `json:"period"`
	Enabled *bool   `json:"enabled"`
}

// Decode implements the web.Decoder interface.
func (app *UpdateSchedule) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app UpdateSchedule) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusUpdateSchedule(app UpdateSchedule) (schedulebus.UpdateSchedule, error) {
	var us schedulebus.UpdateSchedule

	if app.Name != nil {
		nme, err := name.Parse(*app.Name)
		if err != nil {
			return schedulebus.UpdateSchedule{}, fmt.Errorf("parse name: %w", err)
		}
		us.Name = &nme
	}

	if app.Period != nil {
		period, err := toBusPeriod(*app.Period)
		if err != nil {
			return schedulebus.UpdateSchedule{}, fmt.Errorf("period: %w", err)
		}
		us.Period = &period
	}

	us.Enabled = app.Enabled

	return us, nil
}

// AssignPeople defines the people to attach to a schedule.
type AssignPeople struct {
	PersonIDs []string `json:"personIds" validate:"required,min=1,dive,uuid4"`
}

// Decode implements the web.Decoder interface.
func (app *AssignPeople) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app AssignPeople) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusPersonIDs(app AssignPeople) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(app.PersonIDs))
	for i, id := range app.PersonIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("personIds[%d]: %w", i, err)
		}
		ids[i] = parsed
	}
	return ids, nil
}
