package identity

// ProviderConfig is the active OAuth provider record for a deployment
// environment, loaded from the app_configs table. Immutable at request time.
type ProviderConfig struct {
	Provider              string `json:"provider"`
	ClientID              string `json:"client_id"`
	ClientSecret          string `json:"client_secret"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserInfoEndpoint      string `json:"user_info_endpoint"`
	RedirectURI           string `json:"redirect_uri"`
	Scope                 string `json:"scope"`
}

// UserInfo is the external profile returned by the provider's
// user-info endpoint.
type UserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}
