package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
)

type refreshFixture struct {
	configs    *mockConfigRepo
	tokens     *mockTokenRepo
	identities *mockIdentityRepo
	gateway    *mockGateway
	uc         *RefreshTokenUseCase
}

func newRefreshFixture() *refreshFixture {
	newRT := "rotated-refresh"
	f := &refreshFixture{
		configs:    newMockConfigRepo(),
		tokens:     newMockTokenRepo(),
		identities: newMockIdentityRepo(),
		gateway: &mockGateway{
			refreshToken: &identity.ProviderToken{
				AccessToken:  "fresh-access",
				RefreshToken: &newRT,
			},
		},
	}
	f.uc = NewRefreshTokenUseCase(f.configs, f.tokens, f.identities, f.gateway, logger.NewLogger())
	return f
}

func (f *refreshFixture) withLinkedIdentity() {
	authUserID := "account-1"
	f.identities.identities["subject-1"] = &identity.OAuthIdentity{
		ProviderName:   "logto",
		ProviderUserID: "subject-1",
		AuthUserID:     &authUserID,
	}
}

func TestRefreshToken_RotatesStoredTokens(t *testing.T) {
	ctx := context.Background()
	f := newRefreshFixture()
	f.withLinkedIdentity()

	token, err := f.uc.Execute(ctx, RefreshTokenCommand{
		UserID:       "account-1",
		RefreshToken: "old-refresh",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", token.AccessToken)

	stored, err := f.tokens.Get(ctx, "subject-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "fresh-access", stored.AccessToken)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, "rotated-refresh", *stored.RefreshToken)
}

func TestRefreshToken_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	ctx := context.Background()
	f := newRefreshFixture()
	f.withLinkedIdentity()
	f.gateway.refreshToken = &identity.ProviderToken{AccessToken: "fresh-access"}

	_, err := f.uc.Execute(ctx, RefreshTokenCommand{
		UserID:       "account-1",
		RefreshToken: "old-refresh",
	})
	require.NoError(t, err)

	stored, err := f.tokens.Get(ctx, "subject-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, "old-refresh", *stored.RefreshToken)
}

func TestRefreshToken_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty refresh token", func(t *testing.T) {
		f := newRefreshFixture()
		f.withLinkedIdentity()
		_, err := f.uc.Execute(ctx, RefreshTokenCommand{UserID: "account-1"})
		assertErrorType(t, err, errors.ErrorTypeValidation)
	})

	t.Run("no linked identity", func(t *testing.T) {
		f := newRefreshFixture()
		_, err := f.uc.Execute(ctx, RefreshTokenCommand{
			UserID:       "account-unknown",
			RefreshToken: "old-refresh",
		})
		assertErrorType(t, err, errors.ErrorTypeUnauthorized)
	})

	t.Run("provider rejects refresh token", func(t *testing.T) {
		f := newRefreshFixture()
		f.withLinkedIdentity()
		f.gateway.refreshErr = context.DeadlineExceeded

		_, err := f.uc.Execute(ctx, RefreshTokenCommand{
			UserID:       "account-1",
			RefreshToken: "revoked",
		})
		assertErrorType(t, err, errors.ErrorTypeTokenExchange)
	})
}
