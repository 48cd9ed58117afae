package schedulebus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_Period_SingleDate(t *testing.T) {
	p, err := schedulebus.NewSingleDatePeriod(time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	got := p.Dates()
	exp := []time.Time{date(2024, time.March, 15)}

	if diff := cmp.Diff(got, exp); diff != "" {
		t.Fatalf("Should get the date truncated to midnight. Diff:\n%s", diff)
	}
}

func Test_Period_DateRange(t *testing.T) {
	p, err := schedulebus.NewDateRangePeriod(date(2024, time.January, 30), date(2024, time.February, 2))
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	exp := []time.Time{
		date(2024, time.January, 30),
		date(2024, time.January, 31),
		date(2024, time.February, 1),
		date(2024, time.February, 2),
	}

	if diff := cmp.Diff(p.Dates(), exp); diff != "" {
		t.Fatalf("Should include both boundary dates. Diff:\n%s", diff)
	}
}

func Test_Period_DateRange_SingleDay(t *testing.T) {
	p, err := schedulebus.NewDateRangePeriod(date(2024, time.June, 10), date(2024, time.June, 10))
	if err != nil {
		t.Fatalf("Should accept a range with equal bounds : %s", err)
	}

	if len(p.Dates()) != 1 {
		t.Fatalf("Should produce exactly one date, got %d", len(p.Dates()))
	}
}

func Test_Period_DateRange_Inverted(t *testing.T) {
	if _, err := schedulebus.NewDateRangePeriod(date(2024, time.June, 11), date(2024, time.June, 10)); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Fatalf("Should reject end before start, got %v", err)
	}
}

func Test_Period_Year_Leap(t *testing.T) {
	p, err := schedulebus.NewYearPeriod(2024)
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	dates := p.Dates()
	if len(dates) != 366 {
		t.Fatalf("Should produce 366 dates for a leap year, got %d", len(dates))
	}

	if !dates[0].Equal(date(2024, time.January, 1)) {
		t.Errorf("Should start on Jan 1, got %v", dates[0])
	}

	if !dates[len(dates)-1].Equal(date(2024, time.December, 31)) {
		t.Errorf("Should end on Dec 31, got %v", dates[len(dates)-1])
	}
}

func Test_Period_Month_LeapFebruary(t *testing.T) {
	p, err := schedulebus.NewMonthPeriod(2024, time.February)
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	dates := p.Dates()
	if len(dates) != 29 {
		t.Fatalf("Should produce 29 dates for Feb 2024, got %d", len(dates))
	}

	if !dates[28].Equal(date(2024, time.February, 29)) {
		t.Errorf("Should end on Feb 29, got %v", dates[28])
	}
}

func Test_Period_Month_NonLeapFebruary(t *testing.T) {
	p, err := schedulebus.NewMonthPeriod(2023, time.February)
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	if len(p.Dates()) != 28 {
		t.Fatalf("Should produce 28 dates for Feb 2023, got %d", len(p.Dates()))
	}
}

func Test_Period_Week(t *testing.T) {
	p, err := schedulebus.NewWeekPeriod(date(2024, time.January, 3))
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	dates := p.Dates()
	if len(dates) != 7 {
		t.Fatalf("Should produce 7 consecutive dates, got %d", len(dates))
	}

	for i, d := range dates {
		exp := date(2024, time.January, 3+i)
		if !d.Equal(exp) {
			t.Errorf("Date %d should be %v, got %v", i, exp, d)
		}
	}
}

func Test_Period_Weekdays(t *testing.T) {

	// 2024-01-01 is a Monday, 2024-01-06/07 are Saturday and Sunday.
	p, err := schedulebus.NewWeekdaysPeriod(date(2024, time.January, 1), date(2024, time.January, 7))
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	exp := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 2),
		date(2024, time.January, 3),
		date(2024, time.January, 4),
		date(2024, time.January, 5),
	}

	if diff := cmp.Diff(p.Dates(), exp); diff != "" {
		t.Fatalf("Should skip Saturday and Sunday. Diff:\n%s", diff)
	}
}

func Test_Period_Weekends(t *testing.T) {
	p, err := schedulebus.NewWeekendsPeriod(date(2024, time.January, 1), date(2024, time.January, 14))
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	exp := []time.Time{
		date(2024, time.January, 6),
		date(2024, time.January, 7),
		date(2024, time.January, 13),
		date(2024, time.January, 14),
	}

	if diff := cmp.Diff(p.Dates(), exp); diff != "" {
		t.Fatalf("Should keep only Saturday and Sunday. Diff:\n%s", diff)
	}
}

func Test_Period_CustomDays_OrderPreserved(t *testing.T) {
	in := []time.Time{
		date(2024, time.May, 20),
		date(2024, time.May, 2),
		date(2024, time.May, 11),
	}

	p, err := schedulebus.NewCustomDaysPeriod(in)
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	if diff := cmp.Diff(p.Dates(), in); diff != "" {
		t.Fatalf("Should return the dates in input order. Diff:\n%s", diff)
	}
}

func Test_Period_CustomDays_Empty(t *testing.T) {
	if _, err := schedulebus.NewCustomDaysPeriod(nil); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Fatalf("Should reject an empty date list, got %v", err)
	}
}

func Test_Period_Ordering(t *testing.T) {
	p, err := schedulebus.NewMonthPeriod(2024, time.July)
	if err != nil {
		t.Fatalf("Should be able to create the period : %s", err)
	}

	dates := p.Dates()
	for i := 1; i < len(dates); i++ {
		if dates[i].Before(dates[i-1]) {
			t.Fatalf("Dates should be in non-decreasing order: %v before %v", dates[i], dates[i-1])
		}
	}
}

func Test_Period_InvalidParams(t *testing.T) {
	if _, err := schedulebus.NewSingleDatePeriod(time.Time{}); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Errorf("Should reject a zero selected date, got %v", err)
	}

	if _, err := schedulebus.NewYearPeriod(0); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Errorf("Should reject year zero, got %v", err)
	}

	if _, err := schedulebus.NewMonthPeriod(2024, time.Month(13)); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Errorf("Should reject month 13, got %v", err)
	}

	if _, err := schedulebus.NewWeekPeriod(time.Time{}); !errors.Is(err, schedulebus.ErrInvalidPeriod) {
		t.Errorf("Should reject a zero week start, got %v", err)
	}
}

func Test_Period_Unknown_EmptySet(t *testing.T) {
	p := schedulebus.UnknownPeriod("FORTNIGHT")

	if len(p.Dates()) != 0 {
		t.Fatalf("Should produce an empty date set for an unrecognized kind, got %d dates", len(p.Dates()))
	}
}
