package competitions

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"viemind/middleware"
	"viemind/models"
	"viemind/realtime"
	"viemind/services"
	"viemind/storage"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the competition directory, enrollment and moderation endpoints
type Handler struct {
	competitions  *services.CompetitionService
	participation *services.ParticipationService
	hub           *realtime.Hub
}

func NewHandler(competitions *services.CompetitionService, participation *services.ParticipationService, hub *realtime.Hub) *Handler {
	return &Handler{competitions: competitions, participation: participation, hub: hub}
}

// ListCompetitions lists competitions, newest first
// @Summary List competitions
// @Description List competitions with optional status, category and featured filters
// @Tags Competitions
// @Produce json
// @Param status query string false "upcoming, ongoing, completed or cancelled"
// @Param category query string false "Competition category"
// @Param featured query bool false "Featured flag"
// @Success 200 {array} models.Competition
// @Failure 400 {object} MessageResponse
// @Router /competitions [get]
func (h *Handler) ListCompetitions(c *gin.Context) {
	var filter storage.CompetitionFilter
	if v := c.Query("status"); v != "" {
		status := models.CompetitionStatus(v)
		filter.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := models.Category(v)
		filter.Category = &category
	}
	if v := c.Query("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			response.FromError(c, services.ErrInvalidRequest)
			return
		}
		filter.Featured = &featured
	}

	competitions, err := h.competitions.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competitions)
}

// FeaturedCompetitions returns the bounded featured list
// @Summary Featured competitions
// @Tags Competitions
// @Produce json
// @Param limit query int false "Maximum number of competitions"
// @Success 200 {array} models.Competition
// @Router /competitions/featured [get]
func (h *Handler) FeaturedCompetitions(c *gin.Context) {
	competitions, err := h.competitions.Featured(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competitions)
}

// GetCompetition returns a single competition
// @Summary Get a competition
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} models.Competition
// @Failure 404 {object} MessageResponse
// @Router /competitions/{id} [get]
func (h *Handler) GetCompetition(c *gin.Context) {
	competition, err := h.competitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competition)
}

// CreateCompetition creates a competition hosted by the caller's organization
// @Summary Create a competition
// @Description Organization accounts only. New competitions await approval.
// @Tags Competitions
// @Accept json
// @Produce json
// @Param competition body CreateCompetitionRequest true "Competition to create"
// @Success 201 {object} models.Competition
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /competitions [post]
// @Security Bearer
func (h *Handler) CreateCompetition(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	competition, err := h.competitions.Create(c.Request.Context(), user, req.input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, competition)
}

// UpdateStatus changes the lifecycle status of a competition
// @Summary Update competition status
// @Description Completing a competition awards points to its ranked participants
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} models.Competition
// @Failure 400,403,404 {object} MessageResponse
// @Router /competitions/{id}/status [put]
// @Security Bearer
func (h *Handler) UpdateStatus(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	competition, err := h.competitions.UpdateStatus(c.Request.Context(), user, c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competition)
}

// SetApproval approves or unapproves a competition
// @Summary Approve a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param flag body FlagRequest true "Approval flag"
// @Success 200 {object} models.Competition
// @Failure 400,403,404 {object} MessageResponse
// @Router /competitions/{id}/approve [put]
// @Security Bearer
func (h *Handler) SetApproval(c *gin.Context) {
	h.toggle(c, h.competitions.SetApproval)
}

// SetFeatured features or unfeatures a competition
// @Summary Feature a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param flag body FlagRequest true "Featured flag"
// @Success 200 {object} models.Competition
// @Failure 400,403,404 {object} MessageResponse
// @Router /competitions/{id}/feature [put]
// @Security Bearer
func (h *Handler) SetFeatured(c *gin.Context) {
	h.toggle(c, h.competitions.SetFeatured)
}

type toggleFunc func(ctx context.Context, actor *models.User, id string, value bool) (*models.Competition, error)

func (h *Handler) toggle(c *gin.Context, apply toggleFunc) {
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

	competition, err := apply(c.Request.Context(), user, c.Param("id"), *req.Value)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competition)
}

// ExportCompetition downloads the leaderboard and participants as an xlsx workbook
// @Summary Export competition data
// @Tags Competitions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Competition ID"
// @Success 200 {file} file
// @Failure 403,404 {object} MessageResponse
// @Router /competitions/{id}/export [get]
// @Security Bearer
func (h *Handler) ExportCompetition(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	buf, filename, err := h.competitions.Export(c.Request.Context(), user, c.Param("id"), response.Locale(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// OrganizationCompetitions lists the competitions hosted by an organization
// @Summary Competitions of an organization
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {array} models.Competition
// @Failure 404 {object} MessageResponse
// @Router /organizations/{id}/competitions [get]
func (h *Handler) OrganizationCompetitions(c *gin.Context) {
	competitions, err := h.competitions.ListByOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, competitions)
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
