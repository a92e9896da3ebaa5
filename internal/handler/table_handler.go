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

type tableManager interface {
	List(ctx context.Context, eventID string) ([]models.SeatingTable, error)
	Get(ctx context.Context, id string) (*models.SeatingTable, error)
	Create(ctx context.Context, eventID string, req dto.CreateTableRequest) (*models.SeatingTable, error)
	Update(ctx context.Context, id string, req dto.UpdateTableRequest) (*models.SeatingTable, error)
	Delete(ctx context.Context, id string) error
}

// TableHandler exposes floor plan endpoints.
type TableHandler struct {
	service tableManager
}

// NewTableHandler constructs the handler.
func NewTableHandler(svc *service.TableService) *TableHandler {
	return &TableHandler{service: svc}
}

// List godoc
// @Summary List an event's tables
// @Tags Tables
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{eventId}/tables [get]
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.service.List(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tables, nil)
}

// Get godoc
// @Summary Fetch one table
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id} [get]
func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil)
}

// Create godoc
// @Summary Add a manual table
// @Tags Tables
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param payload body dto.CreateTableRequest true "Table payload"
// @Success 201 {object} response.Envelope
// @Router /events/{eventId}/tables [post]
func (h *TableHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid table payload"))
		return
	}
	table, err := h.service.Create(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, table)
}

// Update godoc
// @Summary Partially update a table
// @Tags Tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.UpdateTableRequest true "Table payload"
// @Success 200 {object} response.Envelope
// @Router /tables/{id} [patch]
func (h *TableHandler) Update(c *gin.Context) {
	var req dto.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid table payload"))
		return
	}
	table, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil)
}

// Delete godoc
// @Summary Remove a table
// @Tags Tables
// @Param id path string true "Table ID"
// @Success 204 "No Content"
// @Router /tables/{id} [delete]
func (h *TableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
