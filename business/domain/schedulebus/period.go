package schedulebus

import (
	"errors"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
)

// ErrInvalidPeriod indicates the parameters for a period kind are missing or
// out of range.
var ErrInvalidPeriod = errors.New("invalid schedule period parameters")

// Period describes the span of calendar dates a schedule covers. A value is
// only constructable through the per-kind constructors, which validate the
// parameters the kind requires.
type Period struct {
	kind          periodkind.PeriodKind
	selectedDate  time.Time
	startDate     time.Time
	endDate       time.Time
	year          int
	month         time.Month
	weekStartDate time.Time
	selectedDates []time.Time
}

// NewSingleDatePeriod constructs a period covering one date.
func NewSingleDatePeriod(selectedDate time.Time) (Period, error) {
	if selectedDate.IsZero() {
		return Period{}, fmt.Errorf("selectedDate: %w", ErrInvalidPeriod)
	}

	return Period{
		kind:         periodkind.SingleDate,
		selectedDate: normalize(selectedDate),
	}, nil
}

// NewDateRangePeriod constructs a period covering every date between start
// and end, both inclusive.
func NewDateRangePeriod(startDate time.Time, endDate time.Time) (Period, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return Period{}, err
	}

	return Period{
		kind:      periodkind.DateRange,
		startDate: normalize(startDate),
		endDate:   normalize(endDate),
	}, nil
}

// NewYearPeriod constructs a period covering the full calendar year.
func NewYearPeriod(year int) (Period, error) {
	if year < 1 {
		return Period{}, fmt.Errorf("year: %w", ErrInvalidPeriod)
	}

	return Period{
		kind: periodkind.Year,
		year: year,
	}, nil
}

// NewMonthPeriod constructs a period covering the full calendar month.
func NewMonthPeriod(year int, month time.Month) (Period, error) {
	if year < 1 {
		return Period{}, fmt.Errorf("year: %w", ErrInvalidPeriod)
	}

	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("month: %w", ErrInvalidPeriod)
	}

	return Period{
		kind:  periodkind.Month,
		year:  year,
		month: month,
	}, nil
}

// NewWeekPeriod constructs a period covering the start date and the six days
// that follow it.
func NewWeekPeriod(weekStartDate time.Time) (Period, error) {
	if weekStartDate.IsZero() {
		return Period{}, fmt.Errorf("weekStartDate: %w", ErrInvalidPeriod)
	}

	return Period{
		kind:          periodkind.Week,
		weekStartDate: normalize(weekStartDate),
	}, nil
}

// NewWeekdaysPeriod constructs a period covering the Monday to Friday dates
// inside the range, both ends inclusive.
func NewWeekdaysPeriod(startDate time.Time, endDate time.Time) (Period, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return Period{}, err
	}

	return Period{
		kind:      periodkind.Weekdays,
		startDate: normalize(startDate),
		endDate:   normalize(endDate),
	}, nil
}

// NewWeekendsPeriod constructs a period covering the Saturday and Sunday
// dates inside the range, both ends inclusive.
func NewWeekendsPeriod(startDate time.Time, endDate time.Time) (Period, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return Period{}, err
	}

	return Period{
		kind:      periodkind.Weekends,
		startDate: normalize(startDate),
		endDate:   normalize(endDate),
	}, nil
}

// NewCustomDaysPeriod constructs a period covering exactly the specified
// dates. The order is preserved and duplicates are not removed.
func NewCustomDaysPeriod(selectedDates []time.Time) (Period, error) {
	if len(selectedDates) == 0 {
		return Period{}, fmt.Errorf("selectedDates: %w", ErrInvalidPeriod)
	}

	dates := make([]time.Time, len(selectedDates))
	for i, d := range selectedDates {
		if d.IsZero() {
			return Period{}, fmt.Errorf("selectedDates[%d]: %w", i, ErrInvalidPeriod)
		}
		dates[i] = normalize(d)
	}

	return Period{
		kind:          periodkind.CustomDays,
		selectedDates: dates,
	}, nil
}

// UnknownPeriod wraps a period tag outside of the known set. Its date set is
// empty, which keeps schedule creation robust for unrecognized legacy tags.
func UnknownPeriod(kind string) Period {
	return Period{
		kind: periodkind.Unknown(kind),
	}
}

// Kind returns the period kind tag.
func (p Period) Kind() periodkind.PeriodKind {
	return p.kind
}

// Dates materializes the full ordered set of calendar dates the period
// covers. All kinds return dates in non-decreasing order except CustomDays,
// which returns the input order verbatim.
func (p Period) Dates() []time.Time {
	switch p.kind {
	case periodkind.SingleDate:
		return []time.Time{p.selectedDate}

	case periodkind.DateRange:
		return rangeDates(p.startDate, p.endDate, nil)

	case periodkind.Year:
		start := time.Date(p.year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(p.year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return rangeDates(start, end, nil)

	case periodkind.Month:
		start := time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return rangeDates(start, end, nil)

	case periodkind.Week:
		return rangeDates(p.weekStartDate, p.weekStartDate.AddDate(0, 0, 6), nil)

	case periodkind.Weekdays:
		return rangeDates(p.startDate, p.endDate, func(d time.Time) bool {
			return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
		})

	case periodkind.Weekends:
		return rangeDates(p.startDate, p.endDate, func(d time.Time) bool {
			return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
		})

	case periodkind.CustomDays:
		dates := make([]time.Time, len(p.selectedDates))
		copy(dates, p.selectedDates)
		return dates
	}

	return nil
}

func checkRange(startDate time.Time, endDate time.Time) error {
	if startDate.IsZero() {
		return fmt.Errorf("startDate: %w", ErrInvalidPeriod)
	}

	if endDate.IsZero() {
		return fmt.Errorf("endDate: %w", ErrInvalidPeriod)
	}

	if normalize(endDate).Before(normalize(startDate)) {
		return fmt.Errorf("endDate before startDate: %w", ErrInvalidPeriod)
	}

	return nil
}

func rangeDates(start time.Time, end time.Time, keep func(time.Time) bool) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if keep == nil || keep(d) {
			dates = append(dates, d)
		}
	}

	return dates
}

// normalize truncates a moment to its calendar date in UTC.
func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
