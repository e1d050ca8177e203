package submissions

import (
	"errors"
	"net/http"
	"strconv"

	"viemind/middleware"
	"viemind/services"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the boundaries and headers around the file part
const multipartOverhead = 1 << 20

// Handler serves submissions and competition leaderboards
type Handler struct {
	participation  *services.ParticipationService
	maxUploadBytes int64
}

func NewHandler(participation *services.ParticipationService, maxUploadBytes int64) *Handler {
	return &Handler{participation: participation, maxUploadBytes: maxUploadBytes}
}

// Submit uploads a submission file for the caller's participant
// @Summary Submit a file
// @Description Multipart upload of a prediction file; the score is set later by the evaluator
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Competition ID"
// @Param file formData file true "Submission file"
// @Success 201 {object} models.Submission
// @Failure 400,403,404 {object} MessageResponse
// @Router /competitions/{id}/submit [post]
// @Security Bearer
func (h *Handler) Submit(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	// a missing file is reported by the service, after the participation checks
	var upload *services.Upload
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.FromError(c, services.ErrFileTooLarge)
			return
		}
	} else {
		file, err := header.Open()
		if err != nil {
			response.FromError(c, err)
			return
		}
		defer file.Close()
		upload = &services.Upload{Name: header.Filename, Size: header.Size, Content: file}
	}

	submission, err := h.participation.Submit(c.Request.Context(), user.ID, c.Param("id"), upload)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, submission)
}

// GetLeaderboard returns the best submissions of a competition
// @Summary Competition leaderboard
// @Description Submissions by score descending, unscored last, earliest first on ties
// @Tags Submissions
// @Produce json
// @Param id path string true "Competition ID"
// @Param limit query int false "Maximum number of rows (default 20, max 100)"
// @Success 200 {array} models.Submission
// @Failure 404 {object} MessageResponse
// @Router /competitions/{id}/leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	submissions, err := h.participation.Leaderboard(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, submissions)
}

// MySubmissions lists the caller's submissions to a competition
// @Summary My submissions
// @Tags Submissions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} models.Submission
// @Failure 403 {object} MessageResponse
// @Router /competitions/{id}/submissions/me [get]
// @Security Bearer
func (h *Handler) MySubmissions(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	submissions, err := h.participation.MySubmissions(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, submissions)
}

// ScoreSubmission records the evaluation result of a submission
// @Summary Score a submission
// @Description Entry point of the external evaluator (administrators only)
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param score body ScoreRequest true "Score and feedback"
// @Success 200 {object} models.Submission
// @Failure 400,403,404 {object} MessageResponse
// @Router /submissions/{id}/score [put]
// @Security Bearer
func (h *Handler) ScoreSubmission(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		response.FromError(c, services.ErrMissingToken)
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	submission, err := h.participation.Score(c.Request.Context(), user, c.Param("id"), *req.Score, req.Feedback)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, submission)
}
