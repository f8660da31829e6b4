package usecases

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type InitiateOAuthResult struct {
	AuthURL string
	State   string
}

// InitiateOAuthUseCase starts the authorization-code flow: it records a
// fresh state nonce and builds the provider's authorization URL. No
// provider network call happens here; the caller performs the redirect.
type InitiateOAuthUseCase struct {
	configs identity.ProviderConfigRepository
	states  identity.StateRepository
	gateway OAuthGateway
	logger  logger.Interface
}

func NewInitiateOAuthUseCase(
	configs identity.ProviderConfigRepository,
	states identity.StateRepository,
	gateway OAuthGateway,
	logger logger.Interface,
) *InitiateOAuthUseCase {
	return &InitiateOAuthUseCase{
		configs: configs,
		states:  states,
		gateway: gateway,
		logger:  logger,
	}
}

func (uc *InitiateOAuthUseCase) Execute(ctx context.Context) (*InitiateOAuthResult, error) {
	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	state, err := generateStateKey()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	if err := uc.states.Upsert(ctx, state, nil); err != nil {
		uc.logger.Errorw("failed to store oauth state", "error", err)
		return nil, err
	}

	uc.logger.Infow("oauth login initiated", "provider", cfg.Provider)

	return &InitiateOAuthResult{
		AuthURL: uc.gateway.AuthCodeURL(cfg, state),
		State:   state,
	}, nil
}

func generateStateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
