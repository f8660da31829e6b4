package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hoanghoa12345/stash-box/internal/interfaces/http/handlers"
	"github.com/hoanghoa12345/stash-box/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
}

// SetupAuthRoutes configures the OAuth login and session routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	limit := func() gin.HandlerFunc {
		if cfg.RateLimiter != nil {
			return cfg.RateLimiter.Limit()
		}
		return func(c *gin.Context) { c.Next() }
	}()

	engine.GET("/oauth", limit, cfg.AuthHandler.InitiateOAuth)
	engine.GET("/callback", limit, cfg.AuthHandler.HandleOAuthCallback)
	engine.POST("/link-oauth-account", limit, cfg.AuthHandler.LinkAccount)

	engine.GET("/user", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.GetCurrentUser)
	engine.POST("/refresh-token", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.RefreshToken)
	engine.POST("/sign-out", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.SignOut)
	engine.GET("/profile", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.GetProfile)
}
