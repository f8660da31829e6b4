package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoanghoa12345/stash-box/internal/application/auth/usecases"
	"github.com/hoanghoa12345/stash-box/internal/shared/constants"
	"github.com/hoanghoa12345/stash-box/internal/shared/errors"
	"github.com/hoanghoa12345/stash-box/internal/shared/logger"
	"github.com/hoanghoa12345/stash-box/internal/shared/utils"
)

type AuthHandler struct {
	initiateOAuthUseCase *usecases.InitiateOAuthUseCase
	handleCallbackUC     *usecases.HandleOAuthCallbackUseCase
	linkAccountUseCase   *usecases.LinkAccountUseCase
	refreshTokenUseCase  *usecases.RefreshTokenUseCase
	signOutUseCase       *usecases.SignOutUseCase
	getProfileUseCase    *usecases.GetProfileUseCase
	logger               logger.Interface
}

func NewAuthHandler(
	initiateOAuthUC *usecases.InitiateOAuthUseCase,
	handleCallbackUC *usecases.HandleOAuthCallbackUseCase,
	linkAccountUC *usecases.LinkAccountUseCase,
	refreshTokenUC *usecases.RefreshTokenUseCase,
	signOutUC *usecases.SignOutUseCase,
	getProfileUC *usecases.GetProfileUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		initiateOAuthUseCase: initiateOAuthUC,
		handleCallbackUC:     handleCallbackUC,
		linkAccountUseCase:   linkAccountUC,
		refreshTokenUseCase:  refreshTokenUC,
		signOutUseCase:       signOutUC,
		getProfileUseCase:    getProfileUC,
		logger:               logger,
	}
}

type LinkAccountRequest struct {
	State    string `json:"state" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// InitiateOAuth returns the provider authorization URL for the client to
// redirect to.
func (h *AuthHandler) InitiateOAuth(c *gin.Context) {
	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to initiate oauth login", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"authUrl": result.AuthURL,
	})
}

// HandleOAuthCallback completes the authorization-code flow. The provider
// redirects here with code and state, or with error when the user declined.
func (h *AuthHandler) HandleOAuthCallback(c *gin.Context) {
	cmd := usecases.HandleOAuthCallbackCommand{
		Code:          c.Query("code"),
		State:         c.Query("state"),
		ProviderError: c.Query("error"),
	}

	result, err := h.handleCallbackUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// LinkAccount binds the pending external identity to an existing account
// after verifying the account's password.
func (h *AuthHandler) LinkAccount(c *gin.Context) {
	var req LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.LinkAccountCommand{
		State:    req.State,
		Email:    req.Email,
		Password: req.Password,
	}

	result, err := h.linkAccountUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "account linked", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// RefreshToken exchanges the provider refresh token carried in the
// x-refresh-token header for a fresh access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := c.GetHeader(constants.HeaderRefreshToken)
	if refreshToken == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("x-refresh-token header is required"))
		return
	}

	cmd := usecases.RefreshTokenCommand{
		UserID:       c.GetString(constants.ContextKeyUserID),
		RefreshToken: refreshToken,
	}

	token, err := h.refreshTokenUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	data := gin.H{
		"access_token": token.AccessToken,
	}
	if token.RefreshToken != nil {
		data["refresh_token"] = *token.RefreshToken
	}
	if token.ExpiresAt != nil {
		data["expires_at"] = token.ExpiresAt
	}

	utils.SuccessResponse(c, http.StatusOK, "", data)
}

// SignOut revokes and deletes the caller's provider tokens. The response is
// 200 even when remote revocation fails; only a local storage failure is an
// error.
func (h *AuthHandler) SignOut(c *gin.Context) {
	cmd := usecases.SignOutCommand{
		UserID: c.GetString(constants.ContextKeyUserID),
	}

	if err := h.signOutUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "signed out", nil)
}

// GetCurrentUser returns the identity carried by the verified session token.
// No datastore or provider round-trip happens here.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"id":    c.GetString(constants.ContextKeyUserID),
		"email": c.GetString(constants.ContextKeyUserEmail),
		"name":  c.GetString(constants.ContextKeyUserName),
	})
}

// GetProfile returns the live provider profile of the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	cmd := usecases.GetProfileCommand{
		UserID: c.GetString(constants.ContextKeyUserID),
	}

	info, err := h.getProfileUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", info)
}
