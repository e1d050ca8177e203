package competitions

import (
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CompetitionWebSocket streams the live events of a competition
// @Summary Live competition feed
// @Description Websocket pushing participant.joined, submission.created and submission.scored events
// @Tags Competitions
// @Param id path string true "Competition ID"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} MessageResponse
// @Router /competitions/{id}/ws [get]
func (h *Handler) CompetitionWebSocket(c *gin.Context) {
	competitionID := c.Param("id")

	// Validate competition ID
	if _, err := h.competitions.Get(c.Request.Context(), competitionID); err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, competitionID); err != nil {
		log.Debugf("WebSocket upgrade error: %v", err)
	}
}
