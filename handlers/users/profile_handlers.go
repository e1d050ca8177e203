package users

import (
	"net/http"
	"strconv"

	"viemind/middleware"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

// Handler serves public profiles and the user leaderboard
type Handler struct {
	profiles      *services.ProfileService
	participation *services.ParticipationService
}

func NewHandler(profiles *services.ProfileService, participation *services.ParticipationService) *Handler {
	return &Handler{profiles: profiles, participation: participation}
}

// GetUserProfile retrieves a public profile
// @Summary Get User Profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} MessageResponse
// @Router /users/{id} [get]
func (h *Handler) GetUserProfile(c *gin.Context) {
	user, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UpdateUserProfile updates the caller's own profile
// @Summary Update User Profile
// @Description Only the provided fields change; skills replace the whole list
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400,403,404 {object} MessageResponse
// @Router /users/{id} [patch]
// @Security Bearer
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), user.ID, c.Param("id"), req.update())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// GetLeaderboard returns the users with the most points
// @Summary User leaderboard
// @Tags Users
// @Produce json
// @Param limit query int false "Maximum number of users (default 10)"
// @Success 200 {array} models.User
// @Router /users/leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	users, err := h.profiles.TopUsers(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// GetUserCompetitions lists a user's participations with competition info
// @Summary Competitions of a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Participant
// @Failure 404 {object} MessageResponse
// @Router /users/{id}/competitions [get]
func (h *Handler) GetUserCompetitions(c *gin.Context) {
	participants, err := h.participation.UserCompetitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, participants)
}
