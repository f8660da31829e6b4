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

type callbackFixture struct {
	configs    *mockConfigRepo
	states     *mockStateRepo
	tokens     *mockTokenRepo
	identities *mockIdentityRepo
	gateway    *mockGateway
	sessions   *mockSessionIssuer
	uc         *HandleOAuthCallbackUseCase
}

func newCallbackFixture() *callbackFixture {
	f := &callbackFixture{
		configs:    newMockConfigRepo(),
		states:     newMockStateRepo(),
		tokens:     newMockTokenRepo(),
		identities: newMockIdentityRepo(),
		gateway: &mockGateway{
			exchangeToken: &identity.ProviderToken{AccessToken: "access-1"},
			userInfo: &identity.UserInfo{
				Subject:       "subject-1",
				Email:         "user@example.com",
				Name:          "Test User",
				EmailVerified: true,
			},
		},
		sessions: &mockSessionIssuer{},
	}
	f.uc = NewHandleOAuthCallbackUseCase(
		f.configs, f.states, f.tokens, f.identities, f.gateway, f.sessions, logger.NewLogger())
	return f
}

func assertErrorType(t *testing.T, err error, want errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, want, appErr.Type)
}

func TestHandleOAuthCallback_RejectedAndMalformed(t *testing.T) {
	ctx := context.Background()

	t.Run("provider error short-circuits", func(t *testing.T) {
		f := newCallbackFixture()
		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{ProviderError: "access_denied"})
		assertErrorType(t, err, errors.ErrorTypeProviderRejected)
	})

	t.Run("missing code", func(t *testing.T) {
		f := newCallbackFixture()
		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{State: "s"})
		assertErrorType(t, err, errors.ErrorTypeMalformedCallback)
	})

	t.Run("missing state", func(t *testing.T) {
		f := newCallbackFixture()
		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c"})
		assertErrorType(t, err, errors.ErrorTypeMalformedCallback)
	})
}

func TestHandleOAuthCallback_StateVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown state is rejected", func(t *testing.T) {
		f := newCallbackFixture()
		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "forged"})
		assertErrorType(t, err, errors.ErrorTypeInvalidState)
	})

	t.Run("a state is consumed exactly once", func(t *testing.T) {
		f := newCallbackFixture()
		authUserID := "account-1"
		f.identities.identities["subject-1"] = &identity.OAuthIdentity{
			ProviderName:   "logto",
			ProviderUserID: "subject-1",
			AuthUserID:     &authUserID,
		}
		require.NoError(t, f.states.Upsert(ctx, "state-1", nil))

		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "state-1"})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "state-1"})
		assertErrorType(t, err, errors.ErrorTypeInvalidState)
	})

	t.Run("state is consumed even when a later step fails", func(t *testing.T) {
		f := newCallbackFixture()
		f.gateway.exchangeErr = context.DeadlineExceeded
		require.NoError(t, f.states.Upsert(ctx, "state-2", nil))

		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "state-2"})
		assertErrorType(t, err, errors.ErrorTypeTokenExchange)

		st, err := f.states.Get(ctx, "state-2")
		require.NoError(t, err)
		assert.Nil(t, st)
	})
}

func TestHandleOAuthCallback_ExchangeAndProfileFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("exchange failure", func(t *testing.T) {
		f := newCallbackFixture()
		f.gateway.exchangeErr = context.DeadlineExceeded
		require.NoError(t, f.states.Upsert(ctx, "s", nil))

		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "s"})
		assertErrorType(t, err, errors.ErrorTypeTokenExchange)
	})

	t.Run("profile fetch failure", func(t *testing.T) {
		f := newCallbackFixture()
		f.gateway.userInfoErr = context.DeadlineExceeded
		require.NoError(t, f.states.Upsert(ctx, "s", nil))

		_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "s"})
		assertErrorType(t, err, errors.ErrorTypeProfileFetch)
	})
}

func TestHandleOAuthCallback_UnlinkedIdentity(t *testing.T) {
	ctx := context.Background()
	f := newCallbackFixture()
	require.NoError(t, f.states.Upsert(ctx, "state-link", nil))

	_, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "state-link"})
	assertErrorType(t, err, errors.ErrorTypeUserNotLinked)

	// The identity was recorded for later linking.
	ident, err := f.identities.GetByProviderUserID(ctx, "subject-1")
	require.NoError(t, err)
	require.NotNil(t, ident)
	assert.False(t, ident.Linked())

	// The provider tokens were stored under the external subject.
	tok, err := f.tokens.Get(ctx, "subject-1")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "access-1", tok.AccessToken)

	// The state was re-created carrying the pending subject so the
	// link-account step can find it.
	st, err := f.states.Get(ctx, "state-link")
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NotNil(t, st.UserID)
	assert.Equal(t, "subject-1", *st.UserID)

	assert.Empty(t, f.sessions.issued)
}

func TestHandleOAuthCallback_LinkedIdentity(t *testing.T) {
	ctx := context.Background()
	f := newCallbackFixture()
	authUserID := "account-1"
	f.identities.identities["subject-1"] = &identity.OAuthIdentity{
		ProviderName:   "logto",
		ProviderUserID: "subject-1",
		AuthUserID:     &authUserID,
	}
	require.NoError(t, f.states.Upsert(ctx, "state-ok", nil))

	result, err := f.uc.Execute(ctx, HandleOAuthCallbackCommand{Code: "c", State: "state-ok"})
	require.NoError(t, err)

	// The session carries the internal account id, not the provider subject.
	assert.Equal(t, "session-for-account-1", result.Token)
	assert.Equal(t, "account-1", result.User.ID)
	assert.NotEqual(t, "subject-1", result.User.ID)
	assert.Equal(t, "user@example.com", result.User.Email)
	assert.True(t, result.User.EmailVerified)

	require.Len(t, f.sessions.issued, 1)
	assert.Equal(t, "account-1", f.sessions.issued[0].ID)
}
