package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/config"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

const signInTimeout = 10 * time.Second

// IdentityProviderClient verifies email/password credentials against the
// external identity provider's password sign-in endpoint. Account storage
// and password policy live entirely on the provider side; only the response
// shape is depended on here.
type IdentityProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewIdentityProviderClient creates a new IdentityProviderClient.
func NewIdentityProviderClient(cfg config.IdentityProviderConfig) *IdentityProviderClient {
	return &IdentityProviderClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: signInTimeout},
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn verifies the credentials and returns the internal account they
// belong to. Any non-success provider response maps to the same
// invalid-credentials error.
func (c *IdentityProviderClient) SignIn(ctx context.Context, email, password string) (*identity.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, signInTimeout)
	defer cancel()

	payload, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	url := c.baseURL + "/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call sign-in endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewInvalidCredentialsError()
	}

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if body.User.ID == "" {
		return nil, errors.NewInvalidCredentialsError()
	}

	return &identity.Account{ID: body.User.ID, Email: body.User.Email}, nil
}
