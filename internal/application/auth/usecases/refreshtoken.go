package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type RefreshTokenCommand struct {
	UserID       string
	RefreshToken string
}

// RefreshTokenUseCase trades a refresh token for a fresh provider access
// token on behalf of the authenticated caller and persists the rotated
// credentials under the caller's linked identity.
type RefreshTokenUseCase struct {
	configs    identity.ProviderConfigRepository
	tokens     identity.TokenRepository
	identities identity.IdentityRepository
	gateway    OAuthGateway
	logger     logger.Interface
}

func NewRefreshTokenUseCase(
	configs identity.ProviderConfigRepository,
	tokens identity.TokenRepository,
	identities identity.IdentityRepository,
	gateway OAuthGateway,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		configs:    configs,
		tokens:     tokens,
		identities: identities,
		gateway:    gateway,
		logger:     logger,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*identity.ProviderToken, error) {
	if cmd.RefreshToken == "" {
		return nil, errors.NewValidationError("refresh token is required")
	}

	ident, err := uc.identities.GetByAuthUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, errors.NewUnauthorizedError("no linked identity")
	}

	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	token, err := uc.gateway.Refresh(ctx, cfg, cmd.RefreshToken)
	if err != nil {
		uc.logger.Errorw("failed to refresh provider token", "error", err, "provider", cfg.Provider)
		return nil, errors.NewTokenExchangeError()
	}

	// Providers that do not rotate refresh tokens omit them from the
	// response; keep the one we were given.
	stored := &identity.UserToken{
		UserID:       ident.ProviderUserID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		Scope:        token.Scope,
	}
	if stored.RefreshToken == nil || *stored.RefreshToken == "" {
		rt := cmd.RefreshToken
		stored.RefreshToken = &rt
	}
	if err := uc.tokens.Upsert(ctx, stored); err != nil {
		uc.logger.Errorw("failed to store refreshed tokens", "error", err)
		return nil, err
	}

	uc.logger.Infow("provider token refreshed", "provider", cfg.Provider, "user_id", cmd.UserID)
	return token, nil
}
