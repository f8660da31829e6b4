package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
	"github.com/hoanghoa12345/stash-box/internal/shared/constants"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
	"github.com/hoanghoa12345/stash-box/internal/shared/utils"
)

type AuthMiddleware struct {
	sessions *auth.SessionTokenService
	logger   logger.Interface
}

func NewAuthMiddleware(sessions *auth.SessionTokenService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth guards a route behind a valid session token. Every failure
// mode, missing header, malformed header, bad signature, expired token,
// collapses to the same uniform 401 reply.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims := m.sessions.Verify(parts[1])
		if claims == nil {
			m.logger.Warnw("session token verification failed", "path", c.Request.URL.Path)
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.User.ID)
		c.Set(constants.ContextKeyUserEmail, claims.User.Email)
		c.Set(constants.ContextKeyUserName, claims.User.Name)

		c.Next()
	}
}
