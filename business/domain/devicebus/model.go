package devicebus

import (
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/google/uuid"
)

// Device represents a registered client device that raises meal token
// events.
type Device struct {
	ID        uuid.UUID
	SerialNo  string
	Name      name.Name
	Location  string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDevice contains the information needed to register a device.
type NewDevice struct {
	SerialNo string
	Name     name.Name
	Location string
}

// UpdateDevice contains the information needed to update a device.
type UpdateDevice struct {
	Name     *name.Name
	Location *string
	Enabled  *bool
}
