package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduit/results-api/internal/service"
	appErrors "github.com/eduit/results-api/pkg/errors"
	"github.com/eduit/results-api/pkg/response"
)

// ResultHandler exposes result and report card endpoints.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs handler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Update godoc
// @Summary Update a result's marks
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body service.UpdateResultRequest true "Mark update payload"
// @Success 200 {object} response.Envelope
// @Router /results/{id} [put]
func (h *ResultHandler) Update(c *gin.Context) {
	var req service.UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.results.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// EnterScores godoc
// @Summary Record component scores for a result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.EnterScoresRequest true "Component scores payload"
// @Success 200 {object} response.Envelope
// @Router /results/scores [post]
func (h *ResultHandler) EnterScores(c *gin.Context) {
	var req service.EnterScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.results.EnterScores(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Publish godoc
// @Summary Toggle result publication and approval
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body service.PublishResultRequest true "Publish payload"
// @Success 200 {object} response.Envelope
// @Router /results/{id}/publish [post]
func (h *ResultHandler) Publish(c *gin.Context) {
	var req service.PublishResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.results.Publish(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Report godoc
// @Summary Student report card for a period
// @Tags Results
// @Produce json
// @Param studentId query string true "Student ID"
// @Param periodId query string true "Period ID"
// @Param sessionId query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /results/report [get]
func (h *ResultHandler) Report(c *gin.Context) {
	report, err := h.results.Report(c.Request.Context(), claimsFromContext(c),
		c.Query("studentId"), c.Query("periodId"), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
