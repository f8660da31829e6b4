package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanghoa12345/stash-box/internal/domain/identity"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
)

func testProviderConfig(serverURL string) *identity.ProviderConfig {
	return &identity.ProviderConfig{
		Provider:              "logto",
		ClientID:              "client-id",
		ClientSecret:          "client-secret",
		AuthorizationEndpoint: serverURL + "/authorize",
		TokenEndpoint:         serverURL + "/token",
		UserInfoEndpoint:      serverURL + "/userinfo",
		RedirectURI:           "https://app.example.com/callback",
		Scope:                 "openid profile email",
	}
}

func TestProviderClient_AuthCodeURL(t *testing.T) {
	client := NewProviderClient()
	cfg := testProviderConfig("https://idp.example.com")

	url := client.AuthCodeURL(cfg, "state-123")

	assert.Contains(t, url, "https://idp.example.com/authorize")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "response_type=code")
	assert.Contains(t, url, "scope=openid+profile+email")
}

func TestProviderClient_Exchange(t *testing.T) {
	t.Run("successful exchange returns token set", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "auth-code", r.FormValue("code"))
			assert.Equal(t, "client-id", r.FormValue("client_id"))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_type":    "Bearer",
				"expires_in":    3600,
				"scope":         "openid profile email",
			})
		}))
		defer srv.Close()

		client := NewProviderClient()
		token, err := client.Exchange(context.Background(), testProviderConfig(srv.URL), "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "access-1", token.AccessToken)
		require.NotNil(t, token.RefreshToken)
		assert.Equal(t, "refresh-1", *token.RefreshToken)
		require.NotNil(t, token.ExpiresAt)
		require.NotNil(t, token.Scope)
		assert.Equal(t, "openid profile email", *token.Scope)
	})

	t.Run("provider rejection surfaces as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer srv.Close()

		client := NewProviderClient()
		token, err := client.Exchange(context.Background(), testProviderConfig(srv.URL), "stale-code")
		assert.Error(t, err)
		assert.Nil(t, token)
	})
}

func TestProviderClient_FetchUserInfo(t *testing.T) {
	t.Run("decodes the external profile", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/userinfo", r.URL.Path)
			assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"sub":            "subject-1",
				"email":          "user@example.com",
				"name":           "Test User",
				"picture":        "https://cdn.example.com/p.png",
				"email_verified": true,
			})
		}))
		defer srv.Close()

		client := NewProviderClient()
		info, err := client.FetchUserInfo(context.Background(), testProviderConfig(srv.URL), "access-1")
		require.NoError(t, err)
		assert.Equal(t, "subject-1", info.Subject)
		assert.Equal(t, "user@example.com", info.Email)
		assert.True(t, info.EmailVerified)
	})

	t.Run("rejected access token maps to unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewProviderClient()
		info, err := client.FetchUserInfo(context.Background(), testProviderConfig(srv.URL), "revoked")
		require.Error(t, err)
		assert.Nil(t, info)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
	})
}

func TestProviderClient_Revoke(t *testing.T) {
	t.Run("posts to the revocation endpoint", func(t *testing.T) {
		var gotPath, gotToken string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseForm())
			gotToken = r.FormValue("token")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewProviderClient()
		err := client.Revoke(context.Background(), testProviderConfig(srv.URL), "access-1")
		require.NoError(t, err)
		assert.Equal(t, "/token/revocation", gotPath)
		assert.Equal(t, "access-1", gotToken)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewProviderClient()
		err := client.Revoke(context.Background(), testProviderConfig(srv.URL), "access-1")
		assert.Error(t, err)
	})

	t.Run("unreachable endpoint is an error, not a panic", func(t *testing.T) {
		cfg := testProviderConfig("http://127.0.0.1:1")

		client := NewProviderClient()
		err := client.Revoke(context.Background(), cfg, "access-1")
		assert.Error(t, err)
	})
}
