package scheduleapp

import (
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/auth"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/schedulebus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
	"github.com/DinukaCW/MealToken-sub001/business/types/role"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *logger.Logger
	DB          *sqlx.DB
	Auth        *auth.Auth
	ScheduleBus *schedulebus.Core
	TenantBus   *tenantbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	tenant := mid.ResolveTenant(cfg.TenantBus)
	transaction := mid.BeginCommitRollback(cfg.Log, sqldb.NewBeginner(cfg.DB))
	ruleAdmin := mid.Authorize(cfg.Auth, role.Admin)
	ruleStaff := mid.Authorize(cfg.Auth, role.Admin, role.Operator)

	api := newApp(cfg.ScheduleBus)

	app.HandlerFunc(http.MethodGet, version, "/schedules", api.query, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodGet, version, "/schedules/{schedule_id}", api.queryByID, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodGet, version, "/schedules/{schedule_id}/dates", api.queryDates, authen, ruleStaff, tenant)
	app.HandlerFunc(http.MethodGet, version, "/schedules/{schedule_id}/meals", api.queryMeals, authen, ruleStaff, tenant)

	app.HandlerFunc(http.MethodPost, version, "/schedules", api.create, authen, ruleAdmin, tenant, transaction)
	app.HandlerFunc(http.MethodPut, version, "/schedules/{schedule_id}", api.update, authen, ruleAdmin, tenant, transaction)
	app.HandlerFunc(http.MethodDelete, version, "/schedules/{schedule_id}", api.delete, authen, ruleAdmin, tenant)

	app.HandlerFunc(http.MethodPost, version, "/schedules/{schedule_id}/meals", api.addMeal, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodDelete, version, "/schedules/{schedule_id}/meals/{meal_id}", api.removeMeal, authen, ruleAdmin, tenant)

	app.HandlerFunc(http.MethodPost, version, "/schedules/{schedule_id}/people", api.addPeople, authen, ruleAdmin, tenant)
	app.HandlerFunc(http.MethodDelete, version, "/schedules/{schedule_id}/people/{person_id}", api.removePerson, authen, ruleAdmin, tenant)
}
