package submissions

// ScoreRequest model for recording an evaluation result
type ScoreRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Feedback string   `json:"feedback"`
}

// MessageResponse is a localized error message
type MessageResponse struct {
	Message string `json:"message"`
}
