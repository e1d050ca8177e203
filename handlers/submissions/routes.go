package submissions

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to submissions and leaderboards
// r: the RouterGroup to which the routes are added
// authRequired: the middleware guarding authenticated routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authRequired gin.HandlerFunc) {
	r.GET("/competitions/:id/leaderboard", h.GetLeaderboard)
	r.POST("/competitions/:id/submit", authRequired, h.Submit)
	r.GET("/competitions/:id/submissions/me", authRequired, h.MySubmissions)

	submissions := r.Group("/submissions")
	submissions.Use(authRequired)
	{
		submissions.PUT("/:id/score", h.ScoreSubmission)
	}
}
