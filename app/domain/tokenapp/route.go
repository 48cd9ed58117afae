package tokenapp

import (
	"net/http"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/mid"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tokenbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	TokenBus  *tokenbus.Core
	TenantBus *tenantbus.Core
}

// Routes adds specific routes for this group.
// The evaluate route carries no authentication. Devices are gated by their
// registered serial number and the tenant is resolved from the request host.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	tenant := mid.ResolveTenant(cfg.TenantBus)

	api := newApp(cfg.TokenBus)

	app.HandlerFunc(http.MethodPost, version, "/token/evaluate", api.evaluate, tenant)
}
