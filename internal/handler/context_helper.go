package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduit/results-api/internal/middleware"
	"github.com/eduit/results-api/internal/models"
)

// claimsFromContext extracts the authenticated caller's claims set by
// the JWT middleware. Returns nil for unauthenticated requests; the
// services treat nil claims as 401.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
