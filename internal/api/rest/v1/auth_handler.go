package v1

import (
	"errors"
	"net/http"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/pkg/config"
	"github.com/MGTheTrain/notes-app/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Messages acknowledging the account flows
const (
	MsgRegistered     = "Registration successful! Please check your email to verify your account."
	MsgLoggedOut      = "Logged out"
	MsgEmailVerified  = "Email verified successfully"
	MsgResetRequested = "If an account with that email exists, a password reset link has been sent."
	MsgPasswordReset  = "Password has been reset successfully"
)

// AuthHandler struct holds the services of the account flows
type AuthHandler struct {
	authService  users.AuthService
	authSettings *config.AuthSettings
	metrics      *metrics.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService users.AuthService, authSettings *config.AuthSettings, metricsManager *metrics.Manager) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		authSettings: authSettings,
		metrics:      metricsManager,
	}
}

// Register handles the POST request to create an account
func (handler *AuthHandler) Register(ctx *gin.Context) {
	var request RegisterUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	if _, err := handler.authService.Register(ctx.Request.Context(), request.Name, request.Email, request.Password); err != nil {
		abortWithError(ctx, err)
		return
	}

	handler.metrics.RecordAuthEvent(metrics.EventRegister)
	ctx.JSON(http.StatusCreated, MessageResponse{Status: StatusSuccess, Message: MsgRegistered})
}

// Login handles the POST request exchanging credentials for an access token. The token is returned in the
// body and as an http-only cookie.
func (handler *AuthHandler) Login(ctx *gin.Context) {
	var request LoginUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	token, _, err := handler.authService.Login(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrWrongCredentials) {
			handler.metrics.RecordAuthEvent(metrics.EventLoginFailure)
		}
		abortWithError(ctx, err)
		return
	}

	handler.setTokenCookie(ctx, token, int(handler.authSettings.TokenMaxAge().Seconds()))
	handler.metrics.RecordAuthEvent(metrics.EventLoginSuccess)
	ctx.JSON(http.StatusOK, LoginResponse{Status: StatusSuccess, Token: token})
}

// Logout expires the token cookie
func (handler *AuthHandler) Logout(ctx *gin.Context) {
	handler.setTokenCookie(ctx, "", -1)
	handler.metrics.RecordAuthEvent(metrics.EventLogout)
	ctx.JSON(http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MsgLoggedOut})
}

// VerifyEmail handles the GET request consuming the verification token of the query string
func (handler *AuthHandler) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		abortWithError(ctx, users.ErrInvalidOrExpiredToken)
		return
	}

	if err := handler.authService.VerifyEmail(ctx.Request.Context(), token); err != nil {
		abortWithError(ctx, err)
		return
	}

	handler.metrics.RecordAuthEvent(metrics.EventVerify)
	ctx.JSON(http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MsgEmailVerified})
}

// ForgotPassword handles the POST request issuing a reset token. The answer is the same whether or not the
// e-mail belongs to an account.
func (handler *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var request ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	if err := handler.authService.ForgotPassword(ctx.Request.Context(), request.Email); err != nil {
		abortWithError(ctx, err)
		return
	}

	handler.metrics.RecordAuthEvent(metrics.EventForgotPassword)
	ctx.JSON(http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MsgResetRequested})
}

// ResetPassword handles the POST request consuming a reset token
func (handler *AuthHandler) ResetPassword(ctx *gin.Context) {
	var request ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithBadRequest(ctx, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		abortWithError(ctx, err)
		return
	}

	if err := handler.authService.ResetPassword(ctx.Request.Context(), request.Token, request.Password); err != nil {
		abortWithError(ctx, err)
		return
	}

	handler.metrics.RecordAuthEvent(metrics.EventPasswordReset)
	ctx.JSON(http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MsgPasswordReset})
}

func (handler *AuthHandler) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(TokenCookieName, token, maxAge, "/", "", handler.authSettings.CookieSecure, true)
}
