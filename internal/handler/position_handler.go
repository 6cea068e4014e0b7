package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduit/results-api/internal/service"
	"github.com/eduit/results-api/pkg/export"
	"github.com/eduit/results-api/pkg/response"
)

// PositionHandler exposes ranking endpoints.
type PositionHandler struct {
	positions *service.PositionService
}

// NewPositionHandler constructs handler.
func NewPositionHandler(positions *service.PositionService) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// Positions godoc
// @Summary Cohort positions and class statistics
// @Tags Positions
// @Produce json
// @Param periodId query string true "Period ID"
// @Param sessionId query string true "Session ID"
// @Param classId query string false "Restrict cohort to a class"
// @Param studentId query string false "Return one student's slice"
// @Success 200 {object} response.Envelope
// @Router /results/positions [get]
func (h *PositionHandler) Positions(c *gin.Context) {
	q := service.PositionQuery{
		PeriodID:  c.Query("periodId"),
		SessionID: c.Query("sessionId"),
		ClassID:   c.Query("classId"),
		StudentID: c.Query("studentId"),
	}
	claims := claimsFromContext(c)
	if q.StudentID != "" {
		report, err := h.positions.StudentPositions(c.Request.Context(), claims, q)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report)
		return
	}
	report, err := h.positions.Positions(c.Request.Context(), claims, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Broadsheet godoc
// @Summary Ranked class broadsheet as CSV
// @Tags Positions
// @Produce text/csv
// @Param classId query string true "Class ID"
// @Param periodId query string true "Period ID"
// @Param sessionId query string true "Session ID"
// @Success 200 {string} string "CSV payload"
// @Router /results/broadsheet [get]
func (h *PositionHandler) Broadsheet(c *gin.Context) {
	q := service.PositionQuery{
		PeriodID:  c.Query("periodId"),
		SessionID: c.Query("sessionId"),
		ClassID:   c.Query("classId"),
	}
	payload, filename, err := h.positions.Broadsheet(c.Request.Context(), claimsFromContext(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, export.ContentType, payload)
}
