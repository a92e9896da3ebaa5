package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/internal/service"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
	"github.com/lironamy/wedding-us-sub001/pkg/response"
)

type groupManager interface {
	ListGroups(ctx context.Context, eventID string) ([]models.GuestGroup, error)
	ListPriorities(ctx context.Context, eventID string) ([]models.GroupPriority, error)
	ReplacePriorities(ctx context.Context, eventID string, req dto.PutGroupPrioritiesRequest) error
	GetSettings(ctx context.Context, eventID string) (*models.SeatingSettings, error)
	PutSettings(ctx context.Context, eventID string, settings models.SeatingSettings) (*models.SeatingSettings, error)
}

// GroupHandler exposes group, priority, and settings endpoints.
type GroupHandler struct {
	service groupManager
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{service: svc}
}

// ListGroups godoc
// @Summary List an event's guest groups
// @Tags Groups
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// ListPriorities godoc
// @Summary List the event's group ranking
// @Tags Groups
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/group-priorities [get]
func (h *GroupHandler) ListPriorities(c *gin.Context) {
	priorities, err := h.service.ListPriorities(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, priorities, nil)
}

// ReplacePriorities godoc
// @Summary Replace the event's group ranking
// @Tags Groups
// @Accept json
// @Param eventId path string true "Event ID"
// @Param payload body dto.PutGroupPrioritiesRequest true "Priorities payload"
// @Success 204 "No Content"
// @Router /events/{eventId}/group-priorities [put]
func (h *GroupHandler) ReplacePriorities(c *gin.Context) {
	var req dto.PutGroupPrioritiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid priorities payload"))
		return
	}
	if err := h.service.ReplacePriorities(c.Request.Context(), c.Param("eventId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetSettings godoc
// @Summary Fetch the event's seating settings
// @Tags Settings
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/seating-settings [get]
func (h *GroupHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// PutSettings godoc
// @Summary Store the event's seating settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param payload body models.SeatingSettings true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/seating-settings [put]
func (h *GroupHandler) PutSettings(c *gin.Context) {
	var settings models.SeatingSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	stored, err := h.service.PutSettings(c.Request.Context(), c.Param("eventId"), settings)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stored, nil)
}
