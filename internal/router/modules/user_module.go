package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/stacksapp/stacks-api/internal/interface/http"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

// UserModule wires consumer account routes.
// Public: POST /api/users
// Protected: PUT /api/users/me, GET /api/users/deals and the per-deal
// held/redeem/dismiss transitions.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath())
	rg.POST("/users", registerLimiter, m.Handler.Register)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.PUT("/me", m.Handler.UpdateProfile)
		auth.GET("/deals", m.Handler.HeldDeals)
		auth.PUT("/deals/:id", m.Handler.AddDeal)
		auth.PUT("/deals/:id/redeem", m.Handler.RedeemDeal)
		auth.DELETE("/deals/:id", m.Handler.DismissDeal)
	}
}
