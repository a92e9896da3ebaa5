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

type seatingRunner interface {
	Run(ctx context.Context, req dto.RunSeatingRequest) (*dto.SeatingRunResult, error)
	GetPlan(ctx context.Context, eventID string, channel models.AssignmentChannel) (*dto.SeatingPlan, error)
	LastRunResult(ctx context.Context, eventID string, channel models.AssignmentChannel) (*dto.SeatingRunResult, error)
}

// SeatingHandler exposes the auto-seating engine.
type SeatingHandler struct {
	service seatingRunner
}

// NewSeatingHandler constructs the handler.
func NewSeatingHandler(svc *service.SeatingService) *SeatingHandler {
	return &SeatingHandler{service: svc}
}

// Run godoc
// @Summary Run the auto-seating engine for an event
// @Description Computes and persists a full or group-scoped seating plan on
// @Description one channel. Constraint failures come back as conflicts, not
// @Description errors.
// @Tags Seating
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param payload body dto.RunSeatingRequest true "Run payload"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/seating/run [post]
func (h *SeatingHandler) Run(c *gin.Context) {
	var req dto.RunSeatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}
	req.EventID = c.Param("eventId")

	result, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Plan godoc
// @Summary Fetch the seating plan of one channel
// @Tags Seating
// @Produce json
// @Param eventId path string true "Event ID"
// @Param channel query string false "Channel (real or simulation)" default(real)
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/seating/plan [get]
func (h *SeatingHandler) Plan(c *gin.Context) {
	channel := models.AssignmentChannel(c.DefaultQuery("channel", string(models.ChannelReal)))
	if channel != models.ChannelReal && channel != models.ChannelSimulation {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel must be real or simulation"))
		return
	}
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("eventId"), channel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// LastRun godoc
// @Summary Fetch the cached result of the most recent seating run
// @Tags Seating
// @Produce json
// @Param eventId path string true "Event ID"
// @Param channel query string false "Channel (real or simulation)" default(real)
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/seating/last-run [get]
func (h *SeatingHandler) LastRun(c *gin.Context) {
	channel := models.AssignmentChannel(c.DefaultQuery("channel", string(models.ChannelReal)))
	if channel != models.ChannelReal && channel != models.ChannelSimulation {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel must be real or simulation"))
		return
	}
	result, err := h.service.LastRunResult(c.Request.Context(), c.Param("eventId"), channel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
