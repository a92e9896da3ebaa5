package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/internal/service"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
	"github.com/lironamy/wedding-us-sub001/pkg/response"
)

type chartExporter interface {
	SeatingChartCSV(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]byte, error)
	SeatingChartPDF(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]byte, error)
}

// ExportHandler serves downloadable seating charts.
type ExportHandler struct {
	service chartExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

func exportChannel(c *gin.Context) (models.AssignmentChannel, bool) {
	channel := models.AssignmentChannel(c.DefaultQuery("channel", string(models.ChannelReal)))
	if channel != models.ChannelReal && channel != models.ChannelSimulation {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "channel must be real or simulation"))
		return "", false
	}
	return channel, true
}

// CSV godoc
// @Summary Download the seating chart as CSV
// @Tags Export
// @Produce text/csv
// @Param eventId path string true "Event ID"
// @Param channel query string false "Channel (real or simulation)" default(real)
// @Success 200 {file} file
// @Router /events/{eventId}/export/seating.csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	channel, ok := exportChannel(c)
	if !ok {
		return
	}
	data, err := h.service.SeatingChartCSV(c.Request.Context(), c.Param("eventId"), channel)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("seating-%s.csv", channel)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// PDF godoc
// @Summary Download the seating chart as PDF
// @Tags Export
// @Produce application/pdf
// @Param eventId path string true "Event ID"
// @Param channel query string false "Channel (real or simulation)" default(real)
// @Success 200 {file} file
// @Router /events/{eventId}/export/seating.pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	channel, ok := exportChannel(c)
	if !ok {
		return
	}
	data, err := h.service.SeatingChartPDF(c.Request.Context(), c.Param("eventId"), channel)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("seating-%s.pdf", channel)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
