package mealapp

import (
	"testing"
)

func Test_UpsertMealCostValidate(t *testing.T) {
	base := UpsertMealCost{
		SupplierID:   "6b1c2d3e-4f5a-4b6c-8d9e-0f1a2b3c4d5e",
		MealTypeID:   "8f9f3c0e-0c8a-4f3b-9a5f-2f9a7a1b2c3d",
		SupplierCost: 8.00,
		SellingPrice: 10.00,
		CompanyCost:  7.50,
		EmployeeCost: 2.50,
	}

	t.Run("Valid", func(t *testing.T) {
		app := base
		if err := app.Validate(); err != nil {
			t.Fatalf("Should validate a cost whose parts sum to the selling price: %s", err)
		}
	})

	t.Run("DecimalSplit", func(t *testing.T) {

		// 1.10 + 2.20 has no exact float64 representation. The sum must
		// still be accepted as 3.30.
		app := base
		app.SupplierCost = 2.75
		app.SellingPrice = 3.30
		app.CompanyCost = 1.10
		app.EmployeeCost = 2.20
		if err := app.Validate(); err != nil {
			t.Fatalf("Should validate a decimal split that sums to the selling price: %s", err)
		}
	})

	t.Run("OffByOneCent", func(t *testing.T) {
		app := base
		app.EmployeeCost = 2.51
		if err := app.Validate(); err == nil {
			t.Fatal("Should reject a cost that is one cent off the selling price")
		}
	})

	t.Run("SumMismatch", func(t *testing.T) {
		app := base
		app.EmployeeCost = 3.00
		if err := app.Validate(); err == nil {
			t.Fatal("Should reject a cost whose parts do not sum to the selling price")
		}
	})

	t.Run("NegativeCost", func(t *testing.T) {
		app := base
		app.SupplierCost = -1
		if err := app.Validate(); err == nil {
			t.Fatal("Should reject a negative supplier cost")
		}
	})

	t.Run("MissingSupplier", func(t *testing.T) {
		app := base
		app.SupplierID = ""
		if err := app.Validate(); err == nil {
			t.Fatal("Should reject a cost without a supplier")
		}
	})
}
