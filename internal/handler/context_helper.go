package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/middleware"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

// claimsFromContext returns the authenticated claims, or nil on routes the
// JWT middleware never ran for.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
