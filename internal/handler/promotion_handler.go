package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduit/results-api/internal/service"
	"github.com/eduit/results-api/pkg/response"
)

// PromotionHandler exposes promotion eligibility evaluation.
type PromotionHandler struct {
	promotions *service.PromotionService
}

// NewPromotionHandler constructs handler.
func NewPromotionHandler(promotions *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

// Eligibility godoc
// @Summary Promotion eligibility for a class
// @Tags Promotions
// @Produce json
// @Param schoolId path string true "School ID"
// @Param classId query string true "Class ID"
// @Param sessionId query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/promotions/eligibility [get]
func (h *PromotionHandler) Eligibility(c *gin.Context) {
	rows, err := h.promotions.Eligibility(c.Request.Context(), claimsFromContext(c),
		c.Param("schoolId"), c.Query("classId"), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}
