package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type HandleOAuthCallbackCommand struct {
	Code          string
	State         string
	ProviderError string
}

// HandleOAuthCallbackUseCase drives the callback half of the flow: state
// verification, code exchange, profile fetch, token persistence, identity
// resolution, and session issuance. Each step has its own failure exit and
// none is retried automatically.
type HandleOAuthCallbackUseCase struct {
	configs    identity.ProviderConfigRepository
	states     identity.StateRepository
	tokens     identity.TokenRepository
	identities identity.IdentityRepository
	gateway    OAuthGateway
	sessions   SessionIssuer
	logger     logger.Interface
}

func NewHandleOAuthCallbackUseCase(
	configs identity.ProviderConfigRepository,
	states identity.StateRepository,
	tokens identity.TokenRepository,
	identities identity.IdentityRepository,
	gateway OAuthGateway,
	sessions SessionIssuer,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		configs:    configs,
		states:     states,
		tokens:     tokens,
		identities: identities,
		gateway:    gateway,
		sessions:   sessions,
		logger:     logger,
	}
}

func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*SessionResult, error) {
	if cmd.ProviderError != "" {
		return nil, errors.NewProviderRejectedError(cmd.ProviderError)
	}
	if cmd.Code == "" || cmd.State == "" {
		return nil, errors.NewMalformedCallbackError()
	}

	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// The state is single use whatever happens next. Consume is an atomic
	// conditional delete, so a replayed callback can never win it twice.
	won, err := uc.states.Consume(ctx, cmd.State)
	if err != nil {
		return nil, err
	}
	if !won {
		// Clear a physically present but expired row as well.
		if delErr := uc.states.Delete(ctx, cmd.State); delErr != nil {
			uc.logger.Warnw("failed to delete stale oauth state", "error", delErr)
		}
		return nil, errors.NewInvalidStateError()
	}

	token, err := uc.gateway.Exchange(ctx, cfg, cmd.Code)
	if err != nil {
		uc.logger.Errorw("failed to exchange authorization code", "error", err, "provider", cfg.Provider)
		return nil, errors.NewTokenExchangeError()
	}

	info, err := uc.gateway.FetchUserInfo(ctx, cfg, token.AccessToken)
	if err != nil {
		uc.logger.Errorw("failed to fetch user profile", "error", err, "provider", cfg.Provider)
		return nil, errors.NewProfileFetchError()
	}

	err = uc.tokens.Upsert(ctx, &identity.UserToken{
		UserID:       info.Subject,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		Scope:        token.Scope,
	})
	if err != nil {
		uc.logger.Errorw("failed to store user tokens", "error", err)
		return nil, err
	}

	ident, err := uc.identities.GetByProviderUserID(ctx, info.Subject)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		if err := uc.identities.Create(ctx, cfg.Provider, info.Subject); err != nil {
			uc.logger.Errorw("failed to create oauth identity", "error", err)
			return nil, err
		}
		ident = &identity.OAuthIdentity{ProviderName: cfg.Provider, ProviderUserID: info.Subject}
	}

	if !ident.Linked() {
		// Recoverable: re-create the consumed state carrying the pending
		// external subject so the link-account step can claim it with the
		// same state value the browser already holds.
		subject := info.Subject
		if err := uc.states.Upsert(ctx, cmd.State, &subject); err != nil {
			uc.logger.Errorw("failed to store pending-link state", "error", err)
			return nil, err
		}
		uc.logger.Infow("oauth identity not linked yet", "provider", cfg.Provider)
		return nil, errors.NewUserNotLinkedError()
	}

	// The session always carries the internal account id, never the
	// provider's subject id.
	sessionToken, err := uc.sessions.Issue(auth.SessionUser{
		ID:    *ident.AuthUserID,
		Email: info.Email,
		Name:  info.Name,
	})
	if err != nil {
		uc.logger.Errorw("failed to issue session token", "error", err)
		return nil, err
	}

	uc.logger.Infow("oauth sign-in successful", "provider", cfg.Provider, "user_id", *ident.AuthUserID)

	return &SessionResult{
		Token: sessionToken,
		User: AuthenticatedUser{
			ID:            *ident.AuthUserID,
			Email:         info.Email,
			Name:          info.Name,
			Picture:       info.Picture,
			EmailVerified: info.EmailVerified,
		},
	}, nil
}
