package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/stacksapp/stacks-api/internal/interface/http"
	"github.com/stacksapp/stacks-api/internal/interface/middleware"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

// AuthModule wires session endpoints.
// Public: POST /api/auth/token, POST /api/auth/refresh
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	tokenLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP())

	rg.POST("/auth/token", tokenLimiter, m.Handler.Token)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.GET("/me", m.Handler.Me)
}
