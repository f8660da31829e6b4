package errors

import (
	"fmt"
	"net/http"
)

// OAuth flow error types. Each maps to one failure exit of the
// authorization-code flow and is surfaced to the client as error_code.
const (
	ErrorTypeProviderRejected   ErrorType = "oauth_provider_error"
	ErrorTypeMalformedCallback  ErrorType = "malformed_callback"
	ErrorTypeInvalidState       ErrorType = "invalid_or_expired_state"
	ErrorTypeTokenExchange      ErrorType = "token_exchange_failed"
	ErrorTypeProfileFetch       ErrorType = "profile_fetch_failed"
	ErrorTypeUserNotLinked      ErrorType = "authorized_user_not_found"
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
)

// NewProviderRejectedError is returned when the provider itself rejected the
// authorization request or the user cancelled at the consent screen.
func NewProviderRejectedError(providerError string) *AppError {
	return &AppError{
		Type:    ErrorTypeProviderRejected,
		Message: fmt.Sprintf("OAuth error: %s", providerError),
		Code:    http.StatusBadRequest,
	}
}

// NewMalformedCallbackError is returned when code or state is missing from the callback.
func NewMalformedCallbackError() *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedCallback,
		Message: "Missing code or state parameter",
		Code:    http.StatusBadRequest,
	}
}

// NewInvalidStateError covers both CSRF forgery and replayed or expired state
// values. The two cases are deliberately indistinguishable to the client.
func NewInvalidStateError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidState,
		Message: "Invalid or expired state",
		Code:    http.StatusBadRequest,
	}
}

// NewTokenExchangeError is returned when the provider's token endpoint
// rejects the authorization code. Never retried automatically.
func NewTokenExchangeError(details ...string) *AppError {
	return newAppError(ErrorTypeTokenExchange, "Failed to exchange authorization code", http.StatusBadRequest, details...)
}

// NewProfileFetchError is returned when the provider's user-info endpoint
// rejects the freshly issued access token.
func NewProfileFetchError(details ...string) *AppError {
	return newAppError(ErrorTypeProfileFetch, "Failed to fetch user profile", http.StatusBadRequest, details...)
}

// NewUserNotLinkedError is the one recoverable callback failure: the external
// identity completed the handshake but has no internal account yet. The client
// branches into the link-account flow on this error_code.
func NewUserNotLinkedError() *AppError {
	return &AppError{
		Type:    ErrorTypeUserNotLinked,
		Message: "No linked account for this identity. Please link an existing account.",
		Code:    http.StatusBadRequest,
	}
}

// NewInvalidCredentialsError does not reveal whether the email or the
// password was wrong.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCredentials,
		Message: "Invalid email or password",
		Code:    http.StatusBadRequest,
	}
}
