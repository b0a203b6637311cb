package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/stacksapp/stacks-api/internal/interface/http"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

// MerchantModule wires merchant account routes.
// Public: POST /api/merchants
// Protected: GET /api/merchants/me, PUT /api/merchants/:id,
// GET /api/merchants/upload-url
type MerchantModule struct {
	Handler *handlers.MerchantHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewMerchantModule(h *handlers.MerchantHandler, rdb *redis.Client, jwt *helpers.JWTManager) *MerchantModule {
	return &MerchantModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *MerchantModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath())
	rg.POST("/merchants", signupLimiter, m.Handler.Signup)

	auth := rg.Group("/merchants")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/upload-url", m.Handler.UploadURL)
		auth.PUT("/:id", m.Handler.Update)
	}
}
