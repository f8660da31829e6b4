package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hoanghoa12345/stash-box/internal/application/auth/usecases"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/config"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/repository"
	"github.com/hoanghoa12345/stash-box/internal/interfaces/http/handlers"
	"github.com/hoanghoa12345/stash-box/internal/interfaces/http/middleware"
	"github.com/hoanghoa12345/stash-box/internal/interfaces/http/routes"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
	"github.com/hoanghoa12345/stash-box/internal/shared/utils"
)

// Router wires repositories, provider clients, use cases and middleware into
// a configured gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	configRepo := repository.NewAppConfigRepository(db, cfg.Environment)
	stateRepo := repository.NewOAuthStateRepository(db)
	tokenRepo := repository.NewUserTokenRepository(db)
	identityRepo := repository.NewOAuthIdentityRepository(db)

	providerClient := auth.NewProviderClient()
	idpClient := auth.NewIdentityProviderClient(cfg.IdentityProvider)
	sessionService := auth.NewSessionTokenService(cfg.Session.Secret, cfg.Session.ExpiryDays)

	initiateUC := usecases.NewInitiateOAuthUseCase(configRepo, stateRepo, providerClient, log)
	callbackUC := usecases.NewHandleOAuthCallbackUseCase(configRepo, stateRepo, tokenRepo, identityRepo, providerClient, sessionService, log)
	linkUC := usecases.NewLinkAccountUseCase(configRepo, stateRepo, tokenRepo, identityRepo, providerClient, idpClient, sessionService, log)
	refreshUC := usecases.NewRefreshTokenUseCase(configRepo, tokenRepo, identityRepo, providerClient, log)
	signOutUC := usecases.NewSignOutUseCase(configRepo, stateRepo, tokenRepo, identityRepo, providerClient, log)
	profileUC := usecases.NewGetProfileUseCase(configRepo, tokenRepo, identityRepo, providerClient, log)

	authHandler := handlers.NewAuthHandler(initiateUC, callbackUC, linkUC, refreshUC, signOutUC, profileUC, log)
	authMiddleware := middleware.NewAuthMiddleware(sessionService, log)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		rateLimiter = middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
	}

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
	})

	engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", nil)
	})

	return &Router{engine: engine}
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
