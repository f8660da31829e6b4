package identity

// OAuthIdentity maps an external provider identity to an internal account.
// AuthUserID starts unset; it is populated exactly once by the explicit
// link step. An identity without AuthUserID cannot be used to mint a session.
type OAuthIdentity struct {
	ProviderName   string
	ProviderUserID string
	AuthUserID     *string
}

// Linked reports whether the identity has been claimed by an internal account.
func (i *OAuthIdentity) Linked() bool {
	return i.AuthUserID != nil && *i.AuthUserID != ""
}
