package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduit/results-api/internal/service"
	appErrors "github.com/eduit/results-api/pkg/errors"
	"github.com/eduit/results-api/pkg/response"
)

// GradeScaleHandler exposes grading configuration endpoints.
type GradeScaleHandler struct {
	scales *service.GradeScaleService
}

// NewGradeScaleHandler constructs handler.
func NewGradeScaleHandler(scales *service.GradeScaleService) *GradeScaleHandler {
	return &GradeScaleHandler{scales: scales}
}

// Scale godoc
// @Summary School grade scale
// @Tags Configuration
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/grade-scale [get]
func (h *GradeScaleHandler) Scale(c *gin.Context) {
	entries, err := h.scales.Scale(c.Request.Context(), claimsFromContext(c), c.Param("schoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// ReplaceScale godoc
// @Summary Replace the school grade scale
// @Tags Configuration
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param payload body service.ReplaceScaleRequest true "Scale payload"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/grade-scale [put]
func (h *GradeScaleHandler) ReplaceScale(c *gin.Context) {
	var req service.ReplaceScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entries, err := h.scales.ReplaceScale(c.Request.Context(), claimsFromContext(c), c.Param("schoolId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Configuration godoc
// @Summary Result configuration bundle for a session
// @Tags Configuration
// @Produce json
// @Param schoolId path string true "School ID"
// @Param sessionId query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/configurations [get]
func (h *GradeScaleHandler) Configuration(c *gin.Context) {
	config, err := h.scales.Configuration(c.Request.Context(), claimsFromContext(c), c.Param("schoolId"), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, config)
}
