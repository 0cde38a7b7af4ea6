package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/service"
)

const recordUpdatedMessage = "Record updated successfully"

// AccountHandler serves the signed-in owner's account
type AccountHandler struct {
	accountService service.AccountService
	errors         *ErrorResponder
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService service.AccountService, errors *ErrorResponder) *AccountHandler {
	return &AccountHandler{accountService: accountService, errors: errors}
}

// DetailProfile returns the account merged with its profile
// @Summary Account detail
// @Tags account
// @Produce json
// @Success 200 {object} dto.AccountDetail
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /account/detail-profile [get]
func (h *AccountHandler) DetailProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	detail, err := h.accountService.Profile(c.Request.Context(), claims)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateProfile changes identity and profile fields
// @Summary Update profile
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /account/update-profile [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.accountService.UpdateProfile(c.Request.Context(), claims, &req); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: recordUpdatedMessage})
}

// UpdateEmail changes the login email
// @Summary Update email
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.UpdateEmailRequest true "New email"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /account/update-email [put]
func (h *AccountHandler) UpdateEmail(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	var req dto.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.accountService.UpdateEmail(c.Request.Context(), claims, &req); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: recordUpdatedMessage})
}

// UpdatePassword changes the password after checking the current one
// @Summary Update password
// @Tags account
// @Accept json
// @Produce json
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /account/update-password [put]
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.accountService.UpdatePassword(c.Request.Context(), claims, &req); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: passwordResetMessage})
}
