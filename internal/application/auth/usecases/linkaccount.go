package usecases

import (
	"context"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type LinkAccountCommand struct {
	State    string
	Email    string
	Password string
}

// LinkAccountUseCase claims a pending-link state left by the callback,
// verifies the caller's password against the identity provider, and binds
// the external identity to the verified internal account.
type LinkAccountUseCase struct {
	configs    identity.ProviderConfigRepository
	states     identity.StateRepository
	tokens     identity.TokenRepository
	identities identity.IdentityRepository
	gateway    OAuthGateway
	idp        PasswordAuthenticator
	sessions   SessionIssuer
	logger     logger.Interface
}

func NewLinkAccountUseCase(
	configs identity.ProviderConfigRepository,
	states identity.StateRepository,
	tokens identity.TokenRepository,
	identities identity.IdentityRepository,
	gateway OAuthGateway,
	idp PasswordAuthenticator,
	sessions SessionIssuer,
	logger logger.Interface,
) *LinkAccountUseCase {
	return &LinkAccountUseCase{
		configs:    configs,
		states:     states,
		tokens:     tokens,
		identities: identities,
		gateway:    gateway,
		idp:        idp,
		sessions:   sessions,
		logger:     logger,
	}
}

func (uc *LinkAccountUseCase) Execute(ctx context.Context, cmd LinkAccountCommand) (*SessionResult, error) {
	if cmd.State == "" || cmd.Email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("state, email and password are required")
	}

	cfg, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// The pending-link state must still be live and must carry the external
	// subject recorded by the callback. A plain login state has no subject
	// and cannot be used to link.
	st, err := uc.states.Get(ctx, cmd.State)
	if err != nil {
		return nil, err
	}
	if st == nil || st.UserID == nil || *st.UserID == "" {
		return nil, errors.NewInvalidStateError()
	}
	providerUserID := *st.UserID

	account, err := uc.idp.SignIn(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	if err := uc.identities.Link(ctx, cfg.Provider, providerUserID, account.ID); err != nil {
		return nil, err
	}

	// The state served its purpose; losing the delete only leaves a row for
	// the sweeper.
	if err := uc.states.Delete(ctx, cmd.State); err != nil {
		uc.logger.Warnw("failed to delete consumed link state", "error", err)
	}

	user := AuthenticatedUser{ID: account.ID, Email: account.Email}
	if tok, err := uc.tokens.Get(ctx, providerUserID); err == nil && tok != nil {
		if info, err := uc.gateway.FetchUserInfo(ctx, cfg, tok.AccessToken); err == nil {
			user.Email = info.Email
			user.Name = info.Name
			user.Picture = info.Picture
			user.EmailVerified = info.EmailVerified
		}
	}

	sessionToken, err := uc.sessions.Issue(auth.SessionUser{
		ID:    account.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		uc.logger.Errorw("failed to issue session token", "error", err)
		return nil, err
	}

	uc.logger.Infow("oauth identity linked", "provider", cfg.Provider, "user_id", account.ID)

	return &SessionResult{Token: sessionToken, User: user}, nil
}
