package competitions

import (
	"net/http"

	"viemind/middleware"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

// JoinCompetition enrolls the caller in a competition
// @Summary Join a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param request body JoinRequest false "Optional team name"
// @Success 201 {object} models.Participant
// @Failure 403,404,409 {object} MessageResponse
// @Router /competitions/{id}/join [post]
// @Security Bearer
func (h *Handler) JoinCompetition(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	// the body is optional
	var req JoinRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}
	}

	participant, err := h.participation.Join(c.Request.Context(), user.ID, c.Param("id"), req.TeamName)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, participant)
}

// GetParticipants lists the participants of a competition
// @Summary Competition participants
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} models.Participant
// @Failure 404 {object} MessageResponse
// @Router /competitions/{id}/participants [get]
func (h *Handler) GetParticipants(c *gin.Context) {
	participants, err := h.participation.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, participants)
}

// DisqualifyParticipant sets or clears the disqualification of a participant
// @Summary Disqualify a participant
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param participant_id path string true "Participant ID"
// @Param flag body FlagRequest true "Disqualification flag"
// @Success 200 {object} models.Participant
// @Failure 400,403,404 {object} MessageResponse
// @Router /competitions/{id}/participants/{participant_id}/disqualify [put]
// @Security Bearer
func (h *Handler) DisqualifyParticipant(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	participant, err := h.participation.Disqualify(c.Request.Context(), user, c.Param("id"), c.Param("participant_id"), *req.Value)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, participant)
}
