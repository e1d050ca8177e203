package competitions

import (
	"time"

	"viemind/models"
	"viemind/services"
)

// CreateCompetitionRequest model for creating a competition
type CreateCompetitionRequest struct {
	Title              string                    `json:"title" binding:"required,max=200"`
	Description        string                    `json:"description" binding:"required"`
	Category           models.Category           `json:"category" binding:"required,competition_category"`
	Tags               []string                  `json:"tags"`
	PrizeAmount        *float64                  `json:"prizeAmount" binding:"omitempty,gte=0"`
	Currency           string                    `json:"currency" binding:"omitempty,max=10"`
	StartDate          time.Time                 `json:"startDate" binding:"required"`
	EndDate            time.Time                 `json:"endDate" binding:"required"`
	SubmissionDeadline time.Time                 `json:"submissionDeadline" binding:"required"`
	IsPublic           *bool                     `json:"isPublic"`
	MaxParticipants    *int                      `json:"maxParticipants" binding:"omitempty,gt=0"`
	EvaluationMetric   string                    `json:"evaluationMetric" binding:"max=100"`
	DatasetURL         string                    `json:"datasetUrl" binding:"omitempty,url"`
	Rules              string                    `json:"rules"`
	Status             *models.CompetitionStatus `json:"status" binding:"omitempty,competition_status"`
}

func (r CreateCompetitionRequest) input() services.CreateCompetitionInput {
	return services.CreateCompetitionInput{
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Tags:               r.Tags,
		PrizeAmount:        r.PrizeAmount,
		Currency:           r.Currency,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		SubmissionDeadline: r.SubmissionDeadline,
		IsPublic:           r.IsPublic,
		MaxParticipants:    r.MaxParticipants,
		EvaluationMetric:   r.EvaluationMetric,
		DatasetURL:         r.DatasetURL,
		Rules:              r.Rules,
		Status:             r.Status,
	}
}

// JoinRequest model for joining a competition
type JoinRequest struct {
	TeamName string `json:"teamName" binding:"max=100"`
}

// StatusRequest model for changing the lifecycle status
type StatusRequest struct {
	Status models.CompetitionStatus `json:"status" binding:"required,competition_status"`
}

// FlagRequest model for boolean moderation toggles (approve, feature, disqualify)
type FlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// MessageResponse is a localized error or informational message
type MessageResponse struct {
	Message string `json:"message"`
}
