package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type seatingRunnerMock struct {
	captured dto.RunSeatingRequest
	result   *dto.SeatingRunResult
	plan     *dto.SeatingPlan
	err      error
}

func (m *seatingRunnerMock) Run(_ context.Context, req dto.RunSeatingRequest) (*dto.SeatingRunResult, error) {
	m.captured = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *seatingRunnerMock) GetPlan(_ context.Context, _ string, _ models.AssignmentChannel) (*dto.SeatingPlan, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func (m *seatingRunnerMock) LastRunResult(_ context.Context, _ string, _ models.AssignmentChannel) (*dto.SeatingRunResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestSeatingHandlerRunSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingRunnerMock{result: &dto.SeatingRunResult{Success: true, AssignmentsCreated: 5, Conflicts: []models.SeatingConflict{}}}
	h := &SeatingHandler{service: mockSvc}

	payload := []byte(`{"channel":"real","strategy":"all"}`)
	req, _ := http.NewRequest(http.MethodPost, "/events/event-1/seating/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "event-1"}}

	h.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "event-1", mockSvc.captured.EventID, "path param wins over the body")
	require.Equal(t, "real", mockSvc.captured.Channel)
}

func TestSeatingHandlerRunBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &SeatingHandler{service: &seatingRunnerMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/events/event-1/seating/run", bytes.NewReader([]byte(`{"channel":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Run(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatingHandlerRunNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingRunnerMock{err: appErrors.Clone(appErrors.ErrNotFound, "event not found")}
	h := &SeatingHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/events/missing/seating/run", bytes.NewReader([]byte(`{"channel":"real","strategy":"all"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "missing"}}

	h.Run(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeatingHandlerPlanDefaultsToRealChannel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingRunnerMock{plan: &dto.SeatingPlan{EventID: "event-1", Channel: "real", Tables: []dto.PlanTable{}}}
	h := &SeatingHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/events/event-1/seating/plan", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "event-1"}}

	h.Plan(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.SeatingPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "event-1", envelope.Data.EventID)
}

func TestSeatingHandlerLastRunServesCachedResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingRunnerMock{result: &dto.SeatingRunResult{Success: true, AssignmentsCreated: 7, Conflicts: []models.SeatingConflict{}}}
	h := &SeatingHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/events/event-1/seating/last-run", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "event-1"}}

	h.LastRun(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.SeatingRunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 7, envelope.Data.AssignmentsCreated)
}

func TestSeatingHandlerLastRunExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingRunnerMock{err: appErrors.Clone(appErrors.ErrNotFound, "no recent seating run")}
	h := &SeatingHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/events/event-1/seating/last-run", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "event-1"}}

	h.LastRun(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeatingHandlerPlanRejectsUnknownChannel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &SeatingHandler{service: &seatingRunnerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/events/event-1/seating/plan?channel=radio", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "eventId", Value: "event-1"}}

	h.Plan(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
