package tokenapp

import (
	"encoding/json"
	"time"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tokenbus"
)

// =============================================================================
// EvaluateRequest (Input)
// =============================================================================

// EvaluateRequest defines the data a client device sends for one event.
type EvaluateRequest struct {
	PersonNumber   string `json:"personNumber" validate:"required"`
	Timestamp      string `json:"timestamp" validate:"required"`
	DeviceSerialNo string `json:"deviceSerialNo" validate:"required"`
	FunctionKey    string `json:"functionKey"`
}

// Decode implements the web.Decoder interface.
func (app *EvaluateRequest) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app EvaluateRequest) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

// =============================================================================
// Token (Output)
// =============================================================================

// Token represents an issued meal token for receipt printing.
type Token struct {
	ConsumptionID string  `json:"consumptionId"`
	PersonName    string  `json:"personName"`
	ScheduleName  string  `json:"scheduleName"`
	MealType      string  `json:"mealType"`
	MealSubType   string  `json:"mealSubType,omitempty"`
	Supplier      string  `json:"supplier"`
	WindowStart   string  `json:"windowStart"`
	WindowEnd     string  `json:"windowEnd"`
	Shift         string  `json:"shift"`
	PersonPays    bool    `json:"personPays"`
	SellingPrice  float64 `json:"sellingPrice"`
	CompanyCost   float64 `json:"companyCost"`
	EmployeeCost  float64 `json:"employeeCost"`
	ConsumedAt    string  `json:"consumedAt"`
}

// Encode implements the web.Encoder interface.
func (t Token) Encode() ([]byte, string, error) {
	data, err := json.Marshal(t)
	return data, "application/json", err
}

func toAppToken(res tokenbus.Result) Token {
	t := Token{
		ConsumptionID: res.Consumption.ID.String(),
		PersonName:    res.Person.Name.String(),
		ScheduleName:  res.Offer.Schedule.Name.String(),
		MealType:      res.Offer.MealType.Name.String(),
		Supplier:      res.Offer.Supplier.Name.String(),
		WindowStart:   res.Offer.Meal.Window.Start.String(),
		WindowEnd:     res.Offer.Meal.Window.End.String(),
		Shift:         res.Offer.Shift.String(),
		PersonPays:    res.Offer.PersonPays,
		SellingPrice:  res.Offer.Cost.SellingPrice,
		CompanyCost:   res.Offer.Cost.CompanyCost,
		EmployeeCost:  res.Offer.Cost.EmployeeCost,
		ConsumedAt:    res.Consumption.ConsumedAt.Format(time.RFC3339),
	}

	if res.Offer.MealSubType != nil {
		t.MealSubType = res.Offer.MealSubType.Name.String()
	}

	return t
}
