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

type preferenceManager interface {
	List(ctx context.Context, eventID string) ([]models.SeatingPreference, error)
	Create(ctx context.Context, eventID string, req dto.CreatePreferenceRequest) (*models.SeatingPreference, error)
	SetEnabled(ctx context.Context, eventID, id string, enabled bool) error
	Delete(ctx context.Context, eventID, id string) error
}

// PreferenceHandler exposes pairwise seating rule endpoints.
type PreferenceHandler struct {
	service preferenceManager
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// List godoc
// @Summary List an event's seating rules
// @Tags Preferences
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/preferences [get]
func (h *PreferenceHandler) List(c *gin.Context) {
	prefs, err := h.service.List(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}

// Create godoc
// @Summary Record a together/apart rule
// @Tags Preferences
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param payload body dto.CreatePreferenceRequest true "Preference payload"
// @Success 201 {object} response.Envelope
// @Router /events/{eventId}/preferences [post]
func (h *PreferenceHandler) Create(c *gin.Context) {
	var req dto.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	pref, err := h.service.Create(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pref)
}

// SetEnabled godoc
// @Summary Toggle a rule on or off
// @Tags Preferences
// @Param eventId path string true "Event ID"
// @Param id path string true "Preference ID"
// @Param enabled query bool true "Enabled flag"
// @Success 204 "No Content"
// @Router /events/{eventId}/preferences/{id}/enabled [put]
func (h *PreferenceHandler) SetEnabled(c *gin.Context) {
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "enabled must be true or false"))
		return
	}
	if err := h.service.SetEnabled(c.Request.Context(), c.Param("eventId"), c.Param("id"), enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Remove a rule
// @Tags Preferences
// @Param eventId path string true "Event ID"
// @Param id path string true "Preference ID"
// @Success 204 "No Content"
// @Router /events/{eventId}/preferences/{id} [delete]
func (h *PreferenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("eventId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
