package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/stacksapp/stacks-api/internal/interface/http"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

// DealModule wires deal routes. Everything requires an authenticated user:
// the visibility pipeline is defined per user, and writes are scoped to the
// caller's merchant.
type DealModule struct {
	Handler *handlers.DealHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewDealModule(h *handlers.DealHandler, rdb *redis.Client, jwt *helpers.JWTManager) *DealModule {
	return &DealModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *DealModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/deals")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID()),
	)
	{
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/merchant", m.Handler.Mine)
		auth.GET("/:id", m.Handler.Get)
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
