package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
)

// OAuthGateway is the protocol client for the configured provider.
type OAuthGateway interface {
	AuthCodeURL(cfg *identity.ProviderConfig, state string) string
	Exchange(ctx context.Context, cfg *identity.ProviderConfig, code string) (*identity.ProviderToken, error)
	Refresh(ctx context.Context, cfg *identity.ProviderConfig, refreshToken string) (*identity.ProviderToken, error)
	FetchUserInfo(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) (*identity.UserInfo, error)
	Revoke(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) error
}

// SessionIssuer mints the internal session credential.
type SessionIssuer interface {
	Issue(user auth.SessionUser) (string, error)
}

// PasswordAuthenticator verifies email/password credentials against the
// external identity provider and returns the internal account they belong to.
type PasswordAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (*identity.Account, error)
}

// AuthenticatedUser is the user payload returned alongside a fresh session token.
type AuthenticatedUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// SessionResult is the terminal success of a login or linking flow.
type SessionResult struct {
	Token string
	User  AuthenticatedUser
}
