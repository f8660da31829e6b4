package usecases

import (
	"context"
	"time"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/infrastructure/auth"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

type mockStateRepo struct {
	states map[string]*identity.OAuthState
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{states: make(map[string]*identity.OAuthState)}
}

func (m *mockStateRepo) Upsert(ctx context.Context, stateKey string, userID *string) error {
	now := time.Now().UTC()
	m.states[stateKey] = &identity.OAuthState{
		StateKey:  stateKey,
		UserID:    userID,
		Timestamp: now,
		ExpiresAt: now.Add(identity.StateTTL),
	}
	return nil
}

func (m *mockStateRepo) Get(ctx context.Context, stateKey string) (*identity.OAuthState, error) {
	st, ok := m.states[stateKey]
	if !ok || !st.Valid(time.Now().UTC()) {
		return nil, nil
	}
	return st, nil
}

func (m *mockStateRepo) Consume(ctx context.Context, stateKey string) (bool, error) {
	st, ok := m.states[stateKey]
	if !ok || !st.Valid(time.Now().UTC()) {
		return false, nil
	}
	delete(m.states, stateKey)
	return true, nil
}

func (m *mockStateRepo) Delete(ctx context.Context, stateKey string) error {
	delete(m.states, stateKey)
	return nil
}

func (m *mockStateRepo) SweepExpired(ctx context.Context) (int64, error) {
	var n int64
	now := time.Now().UTC()
	for key, st := range m.states {
		if !st.Valid(now) {
			delete(m.states, key)
			n++
		}
	}
	return n, nil
}

type mockTokenRepo struct {
	tokens    map[string]*identity.UserToken
	deleteErr error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*identity.UserToken)}
}

func (m *mockTokenRepo) Upsert(ctx context.Context, token *identity.UserToken) error {
	copied := *token
	m.tokens[token.UserID] = &copied
	return nil
}

func (m *mockTokenRepo) Get(ctx context.Context, userID string) (*identity.UserToken, error) {
	tok, ok := m.tokens[userID]
	if !ok {
		return nil, nil
	}
	return tok, nil
}

func (m *mockTokenRepo) Delete(ctx context.Context, userID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.tokens, userID)
	return nil
}

type mockIdentityRepo struct {
	identities map[string]*identity.OAuthIdentity
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{identities: make(map[string]*identity.OAuthIdentity)}
}

func (m *mockIdentityRepo) GetByProviderUserID(ctx context.Context, providerUserID string) (*identity.OAuthIdentity, error) {
	ident, ok := m.identities[providerUserID]
	if !ok {
		return nil, nil
	}
	return ident, nil
}

func (m *mockIdentityRepo) GetByAuthUserID(ctx context.Context, authUserID string) (*identity.OAuthIdentity, error) {
	for _, ident := range m.identities {
		if ident.AuthUserID != nil && *ident.AuthUserID == authUserID {
			return ident, nil
		}
	}
	return nil, nil
}

func (m *mockIdentityRepo) Create(ctx context.Context, providerName, providerUserID string) error {
	m.identities[providerUserID] = &identity.OAuthIdentity{
		ProviderName:   providerName,
		ProviderUserID: providerUserID,
	}
	return nil
}

func (m *mockIdentityRepo) Link(ctx context.Context, providerName, providerUserID, authUserID string) error {
	ident, ok := m.identities[providerUserID]
	if !ok {
		return errors.NewNotFoundError("oauth identity not found")
	}
	if ident.AuthUserID != nil && *ident.AuthUserID != authUserID {
		return errors.NewConflictError("identity is already linked to another account")
	}
	for _, other := range m.identities {
		if other.ProviderUserID != providerUserID && other.AuthUserID != nil && *other.AuthUserID == authUserID {
			return errors.NewConflictError("account is already linked to another identity")
		}
	}
	ident.AuthUserID = &authUserID
	return nil
}

type mockConfigRepo struct {
	cfg *identity.ProviderConfig
	err error
}

func newMockConfigRepo() *mockConfigRepo {
	return &mockConfigRepo{cfg: &identity.ProviderConfig{
		Provider:              "logto",
		ClientID:              "client-id",
		ClientSecret:          "client-secret",
		AuthorizationEndpoint: "https://idp.example.com/authorize",
		TokenEndpoint:         "https://idp.example.com/token",
		UserInfoEndpoint:      "https://idp.example.com/userinfo",
		RedirectURI:           "https://app.example.com/callback",
		Scope:                 "openid profile email",
	}}
}

func (m *mockConfigRepo) GetActive(ctx context.Context) (*identity.ProviderConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg, nil
}

type mockGateway struct {
	authURL       string
	exchangeToken *identity.ProviderToken
	exchangeErr   error
	refreshToken  *identity.ProviderToken
	refreshErr    error
	userInfo      *identity.UserInfo
	userInfoErr   error
	revokeErr     error
	revokeCalls   int
}

func (m *mockGateway) AuthCodeURL(cfg *identity.ProviderConfig, state string) string {
	return m.authURL + "?state=" + state
}

func (m *mockGateway) Exchange(ctx context.Context, cfg *identity.ProviderConfig, code string) (*identity.ProviderToken, error) {
	return m.exchangeToken, m.exchangeErr
}

func (m *mockGateway) Refresh(ctx context.Context, cfg *identity.ProviderConfig, refreshToken string) (*identity.ProviderToken, error) {
	return m.refreshToken, m.refreshErr
}

func (m *mockGateway) FetchUserInfo(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) (*identity.UserInfo, error) {
	return m.userInfo, m.userInfoErr
}

func (m *mockGateway) Revoke(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) error {
	m.revokeCalls++
	return m.revokeErr
}

type mockSessionIssuer struct {
	issued []auth.SessionUser
	err    error
}

func (m *mockSessionIssuer) Issue(user auth.SessionUser) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.issued = append(m.issued, user)
	return "session-for-" + user.ID, nil
}

type mockPasswordAuthenticator struct {
	account *identity.Account
	err     error
}

func (m *mockPasswordAuthenticator) SignIn(ctx context.Context, email, password string) (*identity.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.account, nil
}
