package users

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to users
// r: the RouterGroup to which the routes are added
// authRequired: the middleware guarding authenticated routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authRequired gin.HandlerFunc) {
	users := r.Group("/users")
	{
		users.GET("/leaderboard", h.GetLeaderboard)
		users.GET("/:id", h.GetUserProfile)
		users.GET("/:id/competitions", h.GetUserCompetitions)
		users.PATCH("/:id", authRequired, h.UpdateUserProfile)
	}
}
