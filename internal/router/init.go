package router

import (
	"github.com/stacksapp/stacks-api/internal/application"
	"github.com/stacksapp/stacks-api/internal/container"
	pginfra "github.com/stacksapp/stacks-api/internal/infrastructure/postgres"
	handlers "github.com/stacksapp/stacks-api/internal/interface/http"
	"github.com/stacksapp/stacks-api/internal/router/modules"
)

// InitModules builds every feature module from the container's infrastructure
// handles and registers them with the router registry. Called once during
// startup.
func InitModules(r *Registry, c *container.Container) {
	users := pginfra.NewUserRepository(c.DB)
	merchants := pginfra.NewMerchantRepository(c.DB)
	deals := pginfra.NewDealRepository(c.DB)

	userSvc := application.NewUserService(users, c.JWT, c.Redis, c.Logger, c.Pub)
	merchantSvc := application.NewMerchantService(users, merchants, c.Logger, c.Pub, c.GCS, c.Cfg.GCSBucket)
	dealSvc := application.NewDealService(deals, merchants, users, c.Logger, c.ES, c.Cfg.ESDealsIndex)

	authHandler := handlers.NewAuthHandler(userSvc, c.Logger)
	userHandler := handlers.NewUserHandler(userSvc, dealSvc, c.Logger)
	merchantHandler := handlers.NewMerchantHandler(merchantSvc, userSvc, c.Logger)
	dealHandler := handlers.NewDealHandler(dealSvc, c.Logger)

	r.Add(modules.NewAuthModule(authHandler, c.Redis, c.JWT))
	r.Add(modules.NewUserModule(userHandler, c.Redis, c.JWT))
	r.Add(modules.NewMerchantModule(merchantHandler, c.Redis, c.JWT))
	r.Add(modules.NewDealModule(dealHandler, c.Redis, c.JWT))
}
