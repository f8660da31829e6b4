package identity

import "time"

// UserToken is the provider token set for one external identity. UserID is
// the provider's subject id, not an internal account id. One row per
// external identity; a new sign-in replaces the previous token set.
type UserToken struct {
	UserID       string
	AccessToken  string
	RefreshToken *string
	ExpiresAt    *time.Time
	Scope        *string
}

// ProviderToken is a token set as returned by the provider's token endpoint,
// before it is persisted against a subject id.
type ProviderToken struct {
	AccessToken  string
	RefreshToken *string
	ExpiresAt    *time.Time
	Scope        *string
}

// Account is an internal account as reported by the external identity
// provider's password sign-in endpoint.
type Account struct {
	ID    string
	Email string
}
