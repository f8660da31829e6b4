package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionUser is the identity embedded in a session token. ID is always the
// internal account id, never the provider's subject id.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionClaims is the session token payload.
type SessionClaims struct {
	User SessionUser `json:"user"`
	jwt.RegisteredClaims
}

// SessionTokenService mints and verifies the signed session credential.
// The signing secret is process-wide configuration, loaded once at startup.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokenService creates a SessionTokenService with the given
// secret and session lifetime in days.
func NewSessionTokenService(secret string, expiryDays int) *SessionTokenService {
	return &SessionTokenService{
		secret: []byte(secret),
		ttl:    time.Duration(expiryDays) * 24 * time.Hour,
	}
}

// Issue mints a signed session token for the given user.
func (s *SessionTokenService) Issue(user SessionUser) (string, error) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the claims of a valid token, or nil for anything else:
// malformed input, wrong signature, expired claims. Callers must not
// distinguish the sub-reason to the client.
func (s *SessionTokenService) Verify(tokenString string) *SessionClaims {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims
	}
	return nil
}

// TTL returns the configured session lifetime.
func (s *SessionTokenService) TTL() time.Duration {
	return s.ttl
}
