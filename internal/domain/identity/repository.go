package identity

import "context"

// StateRepository is the durable store of single-use OAuth state nonces.
type StateRepository interface {
	// Upsert inserts or replaces a state row. The store owns the expiry
	// horizon; callers never pick ExpiresAt.
	Upsert(ctx context.Context, stateKey string, userID *string) error

	// Get returns the row only while it is unexpired, nil otherwise.
	// Expired rows that still physically exist are reported as absent.
	Get(ctx context.Context, stateKey string) (*OAuthState, error)

	// Consume atomically deletes the row if it is still valid and reports
	// whether this caller won it. Two racing callbacks presenting the same
	// state must observe exactly one true.
	Consume(ctx context.Context, stateKey string) (bool, error)

	// Delete removes the row. Idempotent.
	Delete(ctx context.Context, stateKey string) error

	// SweepExpired bulk-deletes rows past their expiry and reports how many
	// were removed. Safe to run concurrently and repeatedly.
	SweepExpired(ctx context.Context) (int64, error)
}

// TokenRepository stores provider token sets keyed by external subject id.
type TokenRepository interface {
	Upsert(ctx context.Context, token *UserToken) error
	// Get returns nil when no row exists.
	Get(ctx context.Context, userID string) (*UserToken, error)
	// Delete removes the row. Idempotent.
	Delete(ctx context.Context, userID string) error
}

// IdentityRepository stores the external-to-internal account links.
type IdentityRepository interface {
	// GetByProviderUserID returns nil when the identity has never been seen.
	GetByProviderUserID(ctx context.Context, providerUserID string) (*OAuthIdentity, error)
	// GetByAuthUserID returns nil when no identity is linked to the account.
	GetByAuthUserID(ctx context.Context, authUserID string) (*OAuthIdentity, error)
	// Create records a first-seen external identity with AuthUserID unset.
	Create(ctx context.Context, providerName, providerUserID string) error
	// Link claims the identity for an internal account. Idempotent for the
	// same account; rejects overwriting a different one.
	Link(ctx context.Context, providerName, providerUserID, authUserID string) error
}

// ProviderConfigRepository loads the active provider record for an environment.
type ProviderConfigRepository interface {
	GetActive(ctx context.Context) (*ProviderConfig, error)
}
