package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type SignOutCommand struct {
	UserID string
}

// SignOutUseCase revokes the provider tokens for the caller's linked
// identity and removes them locally. Remote revocation is best effort;
// local deletion is what actually ends the provider session on our side.
type SignOutUseCase struct {
	configs    identity.ProviderConfigRepository
	states     identity.StateRepository
	tokens     identity.TokenRepository
	identities identity.IdentityRepository
	gateway    OAuthGateway
	logger     logger.Interface
}

func NewSignOutUseCase(
	configs identity.ProviderConfigRepository,
	states identity.StateRepository,
	tokens identity.TokenRepository,
	identities identity.IdentityRepository,
	gateway OAuthGateway,
	logger logger.Interface,
) *SignOutUseCase {
	return &SignOutUseCase{
		configs:    configs,
		states:     states,
		tokens:     tokens,
		identities: identities,
		gateway:    gateway,
		logger:     logger,
	}
}

func (uc *SignOutUseCase) Execute(ctx context.Context, cmd SignOutCommand) error {
	ident, err := uc.identities.GetByAuthUserID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if ident == nil {
		// Nothing linked, nothing to revoke. Sign-out still succeeds.
		uc.logger.Infow("sign-out with no linked identity", "user_id", cmd.UserID)
		return nil
	}

	tok, err := uc.tokens.Get(ctx, ident.ProviderUserID)
	if err != nil {
		return err
	}
	if tok == nil {
		uc.logger.Infow("sign-out with no stored tokens", "user_id", cmd.UserID)
		return nil
	}

	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return err
	}

	if err := uc.gateway.Revoke(ctx, cfg, tok.AccessToken); err != nil {
		uc.logger.Warnw("provider token revocation failed", "error", err, "provider", cfg.Provider)
	} else {
		uc.logger.Infow("provider token revoked", "provider", cfg.Provider, "user_id", cmd.UserID)
	}

	if err := uc.tokens.Delete(ctx, ident.ProviderUserID); err != nil {
		uc.logger.Errorw("failed to delete stored tokens", "error", err, "user_id", cmd.UserID)
		return err
	}

	// Opportunistic cleanup while we are here.
	if n, err := uc.states.SweepExpired(ctx); err != nil {
		uc.logger.Warnw("state sweep failed", "error", err)
	} else if n > 0 {
		uc.logger.Debugw("swept expired oauth states", "count", n)
	}

	uc.logger.Infow("sign-out complete", "user_id", cmd.UserID)
	return nil
}
