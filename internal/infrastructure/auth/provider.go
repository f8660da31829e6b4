package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

const (
	exchangeTimeout = 10 * time.Second
	profileTimeout  = 10 * time.Second
	revokeTimeout   = 5 * time.Second
)

// ProviderClient talks to the configured OAuth provider: authorization URL
// construction, code exchange, refresh, user-info fetch, and best-effort
// revocation. All outbound calls carry a bounded timeout so a slow provider
// can never hold a request open indefinitely.
type ProviderClient struct {
	httpClient *http.Client
}

// NewProviderClient creates a new ProviderClient.
func NewProviderClient() *ProviderClient {
	return &ProviderClient{
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
}

func (c *ProviderClient) oauthConfig(cfg *identity.ProviderConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       strings.Fields(cfg.Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthorizationEndpoint,
			TokenURL:  cfg.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL builds the provider's authorization URL carrying the state nonce.
func (c *ProviderClient) AuthCodeURL(cfg *identity.ProviderConfig, state string) string {
	return c.oauthConfig(cfg).AuthCodeURL(state)
}

// Exchange swaps an authorization code for a provider token set.
func (c *ProviderClient) Exchange(ctx context.Context, cfg *identity.ProviderConfig, code string) (*identity.ProviderToken, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauthConfig(cfg).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return toProviderToken(token), nil
}

// Refresh swaps a refresh token for a fresh token set.
func (c *ProviderClient) Refresh(ctx context.Context, cfg *identity.ProviderConfig, refreshToken string) (*identity.ProviderToken, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	src := c.oauthConfig(cfg).TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return toProviderToken(token), nil
}

// FetchUserInfo retrieves the external profile with the given access token.
// A 401-class provider response is reported as an unauthorized AppError so
// callers can surface it without inspecting status codes.
func (c *ProviderClient) FetchUserInfo(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) (*identity.UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.UserInfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.NewUnauthorizedError("provider rejected access token")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	var info identity.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// Revoke notifies the provider that the access token should be invalidated.
// Best effort: callers log failures and proceed with local cleanup.
func (c *ProviderClient) Revoke(ctx context.Context, cfg *identity.ProviderConfig, accessToken string) error {
	ctx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()

	form := url.Values{
		"token":           {accessToken},
		"token_type_hint": {"access_token"},
		"client_id":       {cfg.ClientID},
		"client_secret":   {cfg.ClientSecret},
	}

	revokeURL := strings.TrimSuffix(cfg.TokenEndpoint, "/") + "/revocation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call revocation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("revocation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func toProviderToken(token *oauth2.Token) *identity.ProviderToken {
	pt := &identity.ProviderToken{AccessToken: token.AccessToken}
	if token.RefreshToken != "" {
		rt := token.RefreshToken
		pt.RefreshToken = &rt
	}
	if !token.Expiry.IsZero() {
		exp := token.Expiry.UTC()
		pt.ExpiresAt = &exp
	}
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		pt.Scope = &scope
	}
	return pt
}
