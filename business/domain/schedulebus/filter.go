package schedulebus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/periodkind"
	"github.com/google/uuid"
)

type QueryFilter struct {
	ID         *uuid.UUID
	Name       *name.Name
	PeriodKind *periodkind.PeriodKind
	Enabled    *bool
	ActiveOn   *time.Time
}
