package organizations

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to organizations
// r: the RouterGroup to which the routes are added
// authRequired: the middleware guarding authenticated routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authRequired gin.HandlerFunc) {
	organizations := r.Group("/organizations")
	{
		organizations.POST("", authRequired, h.CreateOrganization)
		organizations.GET("/me", authRequired, h.GetMyOrganization)
		organizations.GET("/:id", h.GetOrganization)
		organizations.PATCH("/:id", authRequired, h.UpdateOrganization)
	}
}
