package scheduleapp

import (
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
)

var orderByFields = map[string]string{
	"schedule_id": schedulebus.OrderByID,
	"name":        schedulebus.OrderByName,
	"period_kind": schedulebus.OrderByPeriod,
	"enabled":     schedulebus.OrderByEnabled,
}
