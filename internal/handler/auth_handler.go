package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/service"
	"go.uber.org/zap"
)

const (
	recoveryRequestedMessage = "If the account exists, a recovery link has been sent"
	passwordResetMessage     = "Password updated successfully"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService     service.AuthService
	recoveryService service.RecoveryService
	errors          *ErrorResponder
	logger          *zap.Logger
	development     bool
}

// NewAuthHandler creates a new auth handler. In development cookies are not
// marked secure and issued tokens are echoed in the body.
func NewAuthHandler(
	authService service.AuthService,
	recoveryService service.RecoveryService,
	errors *ErrorResponder,
	logger *zap.Logger,
	development bool,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		recoveryService: recoveryService,
		errors:          errors,
		logger:          logger,
		development:     development,
	}
}

// SignUp handles account provisioning
// @Summary Create a business account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Sign-up request"
// @Success 201 {object} dto.ProfileSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	h.respondAuth(c, http.StatusCreated, result)
}

// SignIn handles credential login
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Sign-in request"
// @Success 200 {object} dto.ProfileSummary
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	h.respondAuth(c, http.StatusOK, result)
}

func (h *AuthHandler) respondAuth(c *gin.Context, status int, result *service.AuthResult) {
	setAccessCookie(c, result.AccessToken, result.MaxAge, !h.development)

	body := result.Profile
	if h.development {
		body.AccessToken = result.AccessToken
	}
	c.JSON(status, body)
}

// Recover starts password recovery. The response does not reveal whether the account exists.
// @Summary Request a password recovery link
// @Tags auth
// @Produce json
// @Param identifier path string true "Email or document"
// @Success 200 {object} dto.MessageResponse
// @Router /auth/recover/{identifier} [get]
func (h *AuthHandler) Recover(c *gin.Context) {
	var params dto.RecoverParams
	if err := c.ShouldBindUri(&params); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.recoveryService.RequestRecovery(c.Request.Context(), params.Identifier); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: recoveryRequestedMessage})
}

// ValidateCode checks a recovery code
// @Summary Validate a recovery code
// @Tags auth
// @Param code path string true "Recovery code"
// @Success 200
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/validate-code/{code} [get]
func (h *AuthHandler) ValidateCode(c *gin.Context) {
	var params dto.CodeParams
	if err := c.ShouldBindUri(&params); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if _, err := h.recoveryService.ValidateCode(c.Request.Context(), params.Code); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ResetPassword sets a new password using a recovery code
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset request"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.recoveryService.ResetPassword(c.Request.Context(), &req); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: passwordResetMessage})
}

// ValidateSession answers 200 when the cookie carries an active session
// @Summary Validate the current session
// @Tags auth
// @Success 200
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/validate-session [get]
func (h *AuthHandler) ValidateSession(c *gin.Context) {
	h.logger.Info("session validated", zap.String("account_id", c.GetString(ContextAccountID)))
	c.Status(http.StatusOK)
}

// Logout closes the current session and clears the cookie
// @Summary Logout
// @Tags auth
// @Success 200
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.errors.Respond(c, err)
		return
	}

	clearAccessCookie(c, !h.development)
	c.Status(http.StatusOK)
}

// Me returns the actor behind the current session
// @Summary Current actor
// @Tags auth
// @Produce json
// @Success 200 {object} domain.Actor
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	actor, err := h.authService.Me(c.Request.Context(), claims)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, actor)
}
