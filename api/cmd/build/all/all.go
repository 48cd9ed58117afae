// Package all binds all the routes into the specified app.
package all

import (
	"github.com/DinukaCW/MealToken-sub001/app/domain/checkapp"
	"github.com/DinukaCW/MealToken-sub001/app/domain/mealapp"
	"github.com/DinukaCW/MealToken-sub001/app/domain/scheduleapp"
	"github.com/DinukaCW/MealToken-sub001/app/domain/tokenapp"
	"github.com/DinukaCW/MealToken-sub001/app/sdk/mux"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {

	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	tokenapp.Routes(app, tokenapp.Config{
		TokenBus:  cfg.BusConfig.TokenBus,
		TenantBus: cfg.BusConfig.TenantBus,
	})

	scheduleapp.Routes(app, scheduleapp.Config{
		Log:         cfg.Log,
		DB:          cfg.DB,
		Auth:        cfg.AuthConfig.Auth,
		ScheduleBus: cfg.BusConfig.ScheduleBus,
		TenantBus:   cfg.BusConfig.TenantBus,
	})

	mealapp.Routes(app, mealapp.Config{
		Auth:      cfg.AuthConfig.Auth,
		MealBus:   cfg.BusConfig.MealBus,
		TenantBus: cfg.BusConfig.TenantBus,
	})
}
