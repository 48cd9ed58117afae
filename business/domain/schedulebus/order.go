package schedulebus

import "github.com/DinukaCW/MealToken-sub001/business/sdk/order"

var DefaultOrderBy = order.NewBy(OrderByName, order.ASC)

const (
	OrderByID      = "a"
	OrderByName    = "b"
	OrderByPeriod  = "c"
	OrderByEnabled = "d"
)
