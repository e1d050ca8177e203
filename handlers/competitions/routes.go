package competitions

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to competitions
// r: the RouterGroup to which the routes are added
// authRequired: the middleware guarding authenticated routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authRequired gin.HandlerFunc) {
	// Public routes
	competitions := r.Group("/competitions")
	{
		competitions.GET("", h.ListCompetitions)
		competitions.GET("/featured", h.FeaturedCompetitions)
		competitions.GET("/:id", h.GetCompetition)
		competitions.GET("/:id/participants", h.GetParticipants)
		competitions.GET("/:id/ws", h.CompetitionWebSocket)
	}

	// Authenticated routes
	protected := r.Group("/competitions")
	protected.Use(authRequired)
	{
		protected.POST("", h.CreateCompetition)
		protected.POST("/:id/join", h.JoinCompetition)
		protected.PUT("/:id/status", h.UpdateStatus)
		protected.PUT("/:id/approve", h.SetApproval)
		protected.PUT("/:id/feature", h.SetFeatured)
		protected.PUT("/:id/participants/:participant_id/disqualify", h.DisqualifyParticipant)
		protected.GET("/:id/export", h.ExportCompetition)
	}

	r.GET("/organizations/:id/competitions", h.OrganizationCompetitions)
}
