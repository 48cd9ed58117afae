package mealapp

import (
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/auth"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/mealbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth      *auth.Auth
	MealBus   *mealbus.Core
	TenantBus *tenantbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	tenant := mid.ResolveTenant(cfg.TenantBus)
	ruleAdmin := mid.Authorize(cfg.Auth, role.Admin)
	ruleStaff := mid.Authorize(cfg.Auth, role.Admin, role.Operator)

	api := newApp(cfg.MealBus)

	app.HandlerFunc(http.MethodGet, version, "/meals/types", api.queryTypes, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodGet, version, "/meals/types/{meal_type_id}", api.queryTypeByID, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodPost, version, "/meals/types", api.createType, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodGet, version, "/meals/subtypes/{meal_sub_type_id}", api.querySubTypeByID, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodPost, version, "/meals/subtypes", api.createSubType, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodPost, version, "/meals/suppliers", api.createSupplier, authen, ruleAdmin, tenant)

	app.HandlerFunc(http.MethodPut, version, "/meals/costs", api.upsertCost, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodGet, version, "/meals/costs/{supplier_id}/{meal_type_id}", api.queryCost, authen, ruleStaff, tenant)

	app.HandlerFunc(http.MethodPut, version, "/meals/paystatus", api.upsertPayStatus, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodGet, version, "/meals/paystatus/{shift}/{meal_type_id}", api.queryPayStatus, authen, ruleStaff, tenant)
}
