package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/service"
)

// StoreHandler serves the store bound to the session
type StoreHandler struct {
	storeService service.StoreService
	errors       *ErrorResponder
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService service.StoreService, errors *ErrorResponder) *StoreHandler {
	return &StoreHandler{storeService: storeService, errors: errors}
}

// Sectors lists the catalog sectors a store can switch to
// @Summary List sectors
// @Tags store
// @Produce json
// @Success 200 {array} catalog.Sector
// @Router /store/sectors [get]
func (h *StoreHandler) Sectors(c *gin.Context) {
	c.JSON(http.StatusOK, h.storeService.Sectors())
}

// DetailStore returns the store with its settings
// @Summary Store detail
// @Tags store
// @Produce json
// @Success 200 {object} dto.StoreDetail
// @Failure 404 {object} dto.ErrorResponse
// @Router /store/detail-store [get]
func (h *StoreHandler) DetailStore(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	detail, err := h.storeService.Detail(c.Request.Context(), claims)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStore changes store fields and settings
// @Summary Update store
// @Tags store
// @Accept json
// @Produce json
// @Param request body dto.UpdateStoreRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /store/update-store [put]
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	var req dto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	if err := h.storeService.Update(c.Request.Context(), claims, &req); err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: recordUpdatedMessage})
}

// UpdateSector switches the store sector
// @Summary Update sector
// @Tags store
// @Accept json
// @Produce json
// @Param request body dto.UpdateSectorRequest true "Sector key"
// @Success 200 {object} dto.SectorUpdated
// @Failure 400 {object} dto.ErrorResponse
// @Router /store/update-sector [put]
func (h *StoreHandler) UpdateSector(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		h.errors.Respond(c, apperr.Unauthorized("unauthenticated"))
		return
	}

	var req dto.UpdateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.Respond(c, bindError(err))
		return
	}

	sector, err := h.storeService.UpdateSector(c.Request.Context(), claims, &req)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SectorUpdated{
		Message:     recordUpdatedMessage,
		Sector:      sector.Key,
		Terminology: sector.Terminology,
	})
}
