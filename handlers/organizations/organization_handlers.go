package organizations

import (
	"net/http"

	"viemind/middleware"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

// Handler serves the organization endpoints
type Handler struct {
	organizations *services.OrganizationService
}

func NewHandler(organizations *services.OrganizationService) *Handler {
	return &Handler{organizations: organizations}
}

// CreateOrganization creates the caller's organization and promotes their role
// @Summary Create an organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Param organization body CreateOrganizationRequest true "Organization to create"
// @Success 201 {object} models.Organization
// @Failure 400,409 {object} MessageResponse
// @Router /organizations [post]
// @Security Bearer
func (h *Handler) CreateOrganization(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	org, err := h.organizations.Create(c.Request.Context(), user, services.OrganizationInput{
		Name:        req.Name,
		Website:     req.Website,
		Logo:        req.Logo,
		Description: req.Description,
		Industry:    req.Industry,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, org)
}

// GetMyOrganization returns the organization owned by the caller
// @Summary My organization
// @Tags Organizations
// @Produce json
// @Success 200 {object} models.Organization
// @Failure 404 {object} MessageResponse
// @Router /organizations/me [get]
// @Security Bearer
func (h *Handler) GetMyOrganization(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	org, err := h.organizations.Mine(c.Request.Context(), user)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}

// GetOrganization returns an organization
// @Summary Get an organization
// @Tags Organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Organization
// @Failure 404 {object} MessageResponse
// @Router /organizations/{id} [get]
func (h *Handler) GetOrganization(c *gin.Context) {
	org, err := h.organizations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}

// UpdateOrganization updates an organization owned by the caller
// @Summary Update an organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param organization body UpdateOrganizationRequest true "Organization fields"
// @Success 200 {object} models.Organization
// @Failure 400,403,404 {object} MessageResponse
// @Router /organizations/{id} [patch]
// @Security Bearer
func (h *Handler) UpdateOrganization(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	org, err := h.organizations.Update(c.Request.Context(), user, c.Param("id"), req.update())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, org)
}
