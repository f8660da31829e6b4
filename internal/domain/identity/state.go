// Package identity holds the auth subsystem's entities and the contracts of
// its stores: OAuth state nonces, provider token sets, and the durable link
// between an external provider identity and an internal account.
package identity

import "time"

// StateTTL is the validity window of an OAuth state nonce. The window is
// closed at the upper bound: a state is valid while now < ExpiresAt.
const StateTTL = 10 * time.Minute

// OAuthState binds an outbound authorization request to its callback.
// Single use: the row is deleted the moment a callback presents it,
// whatever the outcome of that callback.
type OAuthState struct {
	StateKey  string
	UserID    *string
	Timestamp time.Time
	ExpiresAt time.Time
}

// Valid reports whether the state can still be consumed at the given instant.
func (s *OAuthState) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
