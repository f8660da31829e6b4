package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type GetProfileCommand struct {
	UserID string
}

// GetProfileUseCase fetches the live provider profile for the caller's
// linked identity using the stored access token.
type GetProfileUseCase struct {
	configs    identity.ProviderConfigRepository
	tokens     identity.TokenRepository
	identities identity.IdentityRepository
	gateway    OAuthGateway
	logger     logger.Interface
}

func NewGetProfileUseCase(
	configs identity.ProviderConfigRepository,
	tokens identity.TokenRepository,
	identities identity.IdentityRepository,
	gateway OAuthGateway,
	logger logger.Interface,
) *GetProfileUseCase {
	return &GetProfileUseCase{
		configs:    configs,
		tokens:     tokens,
		identities: identities,
		gateway:    gateway,
		logger:     logger,
	}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, cmd GetProfileCommand) (*identity.UserInfo, error) {
	ident, err := uc.identities.GetByAuthUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, errors.NewUnauthorizedError("no linked identity")
	}

	tok, err := uc.tokens.Get(ctx, ident.ProviderUserID)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, errors.NewUnauthorizedError("no stored provider tokens")
	}

	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	info, err := uc.gateway.FetchUserInfo(ctx, cfg, tok.AccessToken)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return nil, appErr
		}
		uc.logger.Errorw("failed to fetch user profile", "error", err, "provider", cfg.Provider)
		return nil, errors.NewProfileFetchError()
	}

	return info, nil
}
