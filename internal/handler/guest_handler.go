package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/internal/service"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
	"github.com/lironamy/wedding-us-sub001/pkg/response"
)

type guestManager interface {
	List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Guest, error)
	Create(ctx context.Context, eventID string, req dto.CreateGuestRequest) (*models.Guest, error)
	Update(ctx context.Context, id string, req dto.UpdateGuestRequest) (*models.Guest, error)
	Lock(ctx context.Context, id string, req dto.LockGuestRequest) (*models.Guest, error)
	Unlock(ctx context.Context, id string) (*models.Guest, error)
	Delete(ctx context.Context, id string) error
}

// GuestHandler exposes guest list endpoints.
type GuestHandler struct {
	service guestManager
}

// NewGuestHandler constructs the handler.
func NewGuestHandler(svc *service.GuestService) *GuestHandler {
	return &GuestHandler{service: svc}
}

// List godoc
// @Summary List an event's guests
// @Tags Guests
// @Produce json
// @Param eventId path string true "Event ID"
// @Param rsvp query string false "Filter by RSVP status"
// @Param groupId query string false "Filter by group"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/guests [get]
func (h *GuestHandler) List(c *gin.Context) {
	filter := models.GuestFilter{EventID: c.Param("eventId")}
	if rsvp := c.Query("rsvp"); rsvp != "" {
		status := models.RSVPStatus(rsvp)
		filter.RSVP = &status
	}
	if groupID := c.Query("groupId"); groupID != "" {
		filter.GroupID = &groupID
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	guests, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guests, pagination)
}

// Get godoc
// @Summary Fetch one guest
// @Tags Guests
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Envelope
// @Router /guests/{id} [get]
func (h *GuestHandler) Get(c *gin.Context) {
	guest, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Create godoc
// @Summary Add a guest unit to an event
// @Tags Guests
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param payload body dto.CreateGuestRequest true "Guest payload"
// @Success 201 {object} response.Envelope
// @Router /events/{eventId}/guests [post]
func (h *GuestHandler) Create(c *gin.Context) {
	var req dto.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guest payload"))
		return
	}
	guest, err := h.service.Create(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guest)
}

// Update godoc
// @Summary Partially update a guest
// @Tags Guests
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param payload body dto.UpdateGuestRequest true "Guest payload"
// @Success 200 {object} response.Envelope
// @Router /guests/{id} [patch]
func (h *GuestHandler) Update(c *gin.Context) {
	var req dto.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guest payload"))
		return
	}
	guest, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Lock godoc
// @Summary Pin a guest to a table
// @Tags Guests
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param payload body dto.LockGuestRequest true "Lock payload"
// @Success 200 {object} response.Envelope
// @Router /guests/{id}/lock [post]
func (h *GuestHandler) Lock(c *gin.Context) {
	var req dto.LockGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lock payload"))
		return
	}
	guest, err := h.service.Lock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Unlock godoc
// @Summary Release a guest's seat lock
// @Tags Guests
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Envelope
// @Router /guests/{id}/lock [delete]
func (h *GuestHandler) Unlock(c *gin.Context) {
	guest, err := h.service.Unlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guest, nil)
}

// Delete godoc
// @Summary Remove a guest
// @Tags Guests
// @Param id path string true "Guest ID"
// @Success 204 "No Content"
// @Router /guests/{id} [delete]
func (h *GuestHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
