package api

import (
	"net/http"

	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type SupportRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	IssueType string `json:"issueType" binding:"required,max=50"`
	Subject   string `json:"subject" binding:"required,max=200"`
	Message   string `json:"message" binding:"required,max=5000"`
}

// @Summary Submit a support request
// @Description Sends a support email with the user's request
// @Tags Support
// @Accept json
// @Produce json
// @Param request body SupportRequest true "Support request details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /support [post]
func submitSupportRequest(mailer services.SupportMailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request SupportRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.ValidationError(c, err)
			return
		}

		err := mailer.SendSupportEmail(request.Name, request.Email, request.IssueType, request.Subject, request.Message)
		if err != nil {
			log.Errorf("Failed to send support email: %v", err)
			response.Error(c, http.StatusInternalServerError, "error.internal")
			return
		}

		response.Message(c, http.StatusOK, "success.support_sent")
	}
}

// RegisterSupportRoutes registers the contact form when a mailer is configured
func RegisterSupportRoutes(r *gin.RouterGroup, mailer services.SupportMailer) {
	if mailer == nil {
		return
	}
	r.POST("/support", submitSupportRequest(mailer))
}
