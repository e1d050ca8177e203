package auth

import (
	"net/http"

	"viemind/middleware"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler serves the authentication endpoints
type Handler struct {
	auth *services.AuthService
}

func NewHandler(auth *services.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Register creates an account and opens a session
// @Summary Register a new user
// @Description Create a user account and return it with a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User to register"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} MessageResponse
// @Failure 409 {object} MessageResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Locale:   response.Locale(c),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login authenticates a user and opens a new session
// @Summary User login
// @Description Authenticate a user with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Me returns the authenticated user
// @Summary Current user
// @Description Return the user owning the bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /auth/me [get]
// @Security Bearer
func (h *Handler) Me(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Logout closes the session of the bearer token
// @Summary Logout
// @Description Invalidate the current session token
// @Tags Auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
// @Security Bearer
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		log.Warnf("logout failed: %v", err)
	}
	response.Message(c, http.StatusOK, "success.logged_out")
}
