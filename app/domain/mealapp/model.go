package mealapp

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/errs"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/shift"
	"github.com/DinukaCW/MealToken-sub001/business/types/timeofday"
	"github.com/google/uuid"
)

// MealType represents information about an individual meal type.
type MealType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TokenIssueStart string `json:"tokenIssueStart,omitempty"`
	TokenIssueEnd   string `json:"tokenIssueEnd,omitempty"`
	MealTimeStart   string `json:"mealTimeStart,omitempty"`
	MealTimeEnd     string `json:"mealTimeEnd,omitempty"`
	Enabled         bool   `json:"enabled"`
}

// Encode implements the web.Encoder interface.
func (app MealType) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppMealType(mt mealbus.MealType) MealType {
	app := MealType{
		ID:      mt.ID.String(),
		Name:    mt.Name.String(),
		Enabled: mt.Enabled,
	}

	if mt.TokenIssueWindow != nil {
		app.TokenIssueStart = mt.TokenIssueWindow.Start.String()
		app.TokenIssueEnd = mt.TokenIssueWindow.End.String()
	}

	if mt.MealTimeWindow != nil {
		app.MealTimeStart = mt.MealTimeWindow.Start.String()
		app.MealTimeEnd = mt.MealTimeWindow.End.String()
	}

	return app
}

// MealTypes is an encodable collection of meal types.
type MealTypes []MealType

// Encode implements the web.Encoder interface.
func (app MealTypes) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppMealTypes(mts []mealbus.MealType) MealTypes {
	app := make(MealTypes, len(mts))
	for i, mt := range mts {
		app[i] = toAppMealType(mt)
	}
	return app
}

// NewMealType defines the data needed to add a meal type.
type NewMealType struct {
	Name            string `json:"name" validate:"required,min=3,max=100"`
	TokenIssueStart string `json:"tokenIssueStart" validate:"required_with=TokenIssueEnd"`
	TokenIssueEnd   string `json:"tokenIssueEnd" validate:"required_with=TokenIssueStart"`
	MealTimeStart   string `json:"mealTimeStart" validate:"required_with=MealTimeEnd"`
	MealTimeEnd     string `json:"mealTimeEnd" validate:"required_with=MealTimeStart"`
}

// Decode implements the web.Decoder interface.
func (app *NewMealType) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewMealType) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func parseWindow(field string, start string, end string) (*timeofday.Window, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	s, err := timeofday.Parse(start)
	if err != nil {
		return nil, fmt.Errorf("%s start: %w", field, err)
	}

	e, err := timeofday.Parse(end)
	if err != nil {
		return nil, fmt.Errorf("%s end: %w", field, err)
	}

	w, err := timeofday.NewWindow(s, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	return &w, nil
}

func toBusNewMealType(app NewMealType) (mealbus.NewMealType, error) {
	nme, err := name.Parse(app.Name)
	if err != nil {
		return mealbus.NewMealType{}, fmt.Errorf("parse name: %w", err)
	}

	tokenWindow, err := parseWindow("tokenIssue", app.TokenIssueStart, app.TokenIssueEnd)
	if err != nil {
		return mealbus.NewMealType{}, err
	}

	mealWindow, err := parseWindow("mealTime", app.MealTimeStart, app.MealTimeEnd)
	if err != nil {
		return mealbus.NewMealType{}, err
	}

	return mealbus.NewMealType{
		Name:             nme,
		TokenIssueWindow: tokenWindow,
		MealTimeWindow:   mealWindow,
	}, nil
}

// =============================================================================

// MealSubType represents information about an individual meal sub-type.
type MealSubType struct {
	ID          string `json:"id"`
	MealTypeID  string `json:"mealTypeId"`
	Name        string `json:"name"`
	FunctionKey string `json:"functionKey,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Encode implements the web.Encoder interface.
func (app MealSubType) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppMealSubType(mst mealbus.MealSubType) MealSubType {
	return MealSubType{
		ID:          mst.ID.String(),
		MealTypeID:  mst.MealTypeID.String(),
		Name:        mst.Name.String(),
		FunctionKey: mst.FunctionKey,
		Enabled:     mst.Enabled,
	}
}

// NewMealSubType defines the data needed to add a meal sub-type.
type NewMealSubType struct {
	MealTypeID  string `json:"mealTypeId" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	FunctionKey string `json:"functionKey"`
}

// Decode implements the web.Decoder interface.
func (app *NewMealSubType) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewMealSubType) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusNewMealSubType(app NewMealSubType) (mealbus.NewMealSubType, error) {
	mealTypeID, err := uuid.Parse(app.MealTypeID)
	if err != nil {
		return mealbus.NewMealSubType{}, fmt.Errorf("parse mealTypeId: %w", err)
	}

	nme, err := name.Parse(app.Name)
	if err != nil {
		return mealbus.NewMealSubType{}, fmt.Errorf("parse name: %w", err)
	}

	return mealbus.NewMealSubType{
		MealTypeID:  mealTypeID,
		Name:        nme,
		FunctionKey: app.FunctionKey,
	}, nil
}

// =============================================================================

// Supplier represents information about an individual supplier.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Encode implements the web.Encoder interface.
func (app Supplier) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppSupplier(sup mealbus.Supplier) Supplier {
	return Supplier{
		ID:      sup.ID.String(),
		Name:    sup.Name.String(),
		Enabled: sup.Enabled,
	}
}

// NewSupplier defines the data needed to add a supplier.
type NewSupplier struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
}

// Decode implements the web.Decoder interface.
func (app *NewSupplier) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewSupplier) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

func toBusNewSupplier(app NewSupplier) (mealbus.NewSupplier, error) {
	nme, err := name.Parse(app.Name)
	if err != nil {
		return mealbus.NewSupplier{}, fmt.Errorf("parse name: %w", err)
	}

	return mealbus.NewSupplier{
		Name: nme,
	}, nil
}

// =============================================================================

// MealCost represents the cost breakdown for a supplier and meal type.
type MealCost struct {
	ID            string  `json:"id"`
	SupplierID    string  `json:"supplierId"`
	MealTypeID    string  `json:"mealTypeId"`
	MealSubTypeID string  `json:"mealSubTypeId,omitempty"`
	SupplierCost  float64 `json:"supplierCost"`
	SellingPrice  float64 `json:"sellingPrice"`
	CompanyCost   float64 `json:"companyCost"`
	EmployeeCost  float64 `json:"employeeCost"`
}

// Encode implements the web.Encoder interface.
func (app MealCost) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppMealCost(mc mealbus.MealCost) MealCost {
	app := MealCost{
		ID:           mc.ID.String(),
		SupplierID:   mc.SupplierID.String(),
		MealTypeID:   mc.MealTypeID.String(),
		SupplierCost: mc.SupplierCost,
		SellingPrice: mc.SellingPrice,
		CompanyCost:  mc.CompanyCost,
		EmployeeCost: mc.EmployeeCost,
	}

	if mc.MealSubTypeID != nil {
		app.MealSubTypeID = mc.MealSubTypeID.String()
	}

	return app
}

// UpsertMealCost defines the data needed to create or replace a cost entry.
type UpsertMealCost struct {
	SupplierID    string  `json:"supplierId" validate:"required,uuid4"`
	MealTypeID    string  `json:"mealTypeId" validate:"required,uuid4"`
	MealSubTypeID string  `json:"mealSubTypeId" validate:"omitempty,uuid4"`
	SupplierCost  float64 `json:"supplierCost" validate:"gte=0"`
	SellingPrice  float64 `json:"sellingPrice" validate:"gte=0"`
	CompanyCost   float64 `json:"companyCost" validate:"gte=0"`
	EmployeeCost  float64 `json:"employeeCost" validate:"gte=0"`
}

// Decode implements the web.Decoder interface.
func (app *UpsertMealCost) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean. The company and
// employee portions must add up to the selling price.
func (app UpsertMealCost) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	if cents(app.CompanyCost)+cents(app.EmployeeCost) != cents(app.SellingPrice) {
		return errs.NewFieldErrors("sellingPrice", fmt.Errorf("companyCost %.2f + employeeCost %.2f must equal sellingPrice %.2f", app.CompanyCost, app.EmployeeCost, app.SellingPrice))
	}

	return nil
}

// cents converts a monetary amount to whole cents so the sum check is not
// subject to binary float rounding.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func toBusUpsertMealCost(app UpsertMealCost) (mealbus.NewMealCost, error) {
	supplierID, err := uuid.Parse(app.SupplierID)
	if err != nil {
		return mealbus.NewMealCost{}, fmt.Errorf("parse supplierId: %w", err)
	}

	mealTypeID, err := uuid.Parse(app.MealTypeID)
	if err != nil {
		return mealbus.NewMealCost{}, fmt.Errorf("parse mealTypeId: %w", err)
	}

	var mealSubTypeID *uuid.UUID
	if app.MealSubTypeID != "" {
		id, err := uuid.Parse(app.MealSubTypeID)
		if err != nil {
			return mealbus.NewMealCost{}, fmt.Errorf("parse mealSubTypeId: %w", err)
		}
		mealSubTypeID = &id
	}

	return mealbus.NewMealCost{
		SupplierID:    supplierID,
		MealTypeID:    mealTypeID,
		MealSubTypeID: mealSubTypeID,
		SupplierCost:  app.SupplierCost,
		SellingPrice:  app.SellingPrice,
		CompanyCost:   app.CompanyCost,
		EmployeeCost:  app.EmployeeCost,
	}, nil
}

// =============================================================================

// PayStatus represents the paying-party policy for a meal type on a shift.
type PayStatus struct {
	Shift      string `json:"shift" validate:"required"`
	MealTypeID string `json:"mealTypeId" validate:"required,uuid4"`
	MalePays   bool   `json:"malePays"`
	FemalePays bool   `json:"femalePays"`
}

// Decode implements the web.Decoder interface.
func (app *PayStatus) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app PayStatus) Validate() error {
	if err := errs.Check(app); err != nil {
		return err
	}

	return nil
}

// Encode implements the web.Encoder interface.
func (app PayStatus) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toBusPayStatus(app PayStatus) (mealbus.PayStatus, error) {
	sh, err := shift.Parse(app.Shift)
	if err != nil {
		return mealbus.PayStatus{}, fmt.Errorf("parse shift: %w", err)
	}

	mealTypeID, err := uuid.Parse(app.MealTypeID)
	if err != nil {
		return mealbus.PayStatus{}, fmt.Errorf("parse mealTypeId: %w", err)
	}

	return mealbus.PayStatus{
		Shift:      sh,
		MealTypeID: mealTypeID,
		MalePays:   app.MalePays,
		FemalePays: app.FemalePays,
	}, nil
}

func toAppPayStatus(ps mealbus.PayStatus) PayStatus {
	return PayStatus{
		Shift:      ps.Shift.String(),
		MealTypeID: ps.MealTypeID.String(),
		MalePays:   ps.MalePays,
		FemalePays: ps.FemalePays,
	}
}
