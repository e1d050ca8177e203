package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the closed set of competition categories
type Category string

const (
	CategoryComputerVision Category = "Computer Vision"
	CategoryNLP            Category = "NLP"
	CategoryTabular        Category = "Tabular"
	CategoryOther          Category = "Other"
)

// Categories lists every valid category
var Categories = []Category{CategoryComputerVision, CategoryNLP, CategoryTabular, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CompetitionStatus is the lifecycle status shown to users
type CompetitionStatus string

const (
	StatusUpcoming  CompetitionStatus = "upcoming"
	StatusOngoing   CompetitionStatus = "ongoing"
	StatusCompleted CompetitionStatus = "completed"
	StatusCancelled CompetitionStatus = "cancelled"
)

func (s CompetitionStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Closed reports whether the competition no longer accepts participants
func (s CompetitionStatus) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DeriveStatus computes the date-based status at instant now
func DeriveStatus(start, end, now time.Time) CompetitionStatus {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}

// Competition is hosted by an organization. CurrentParticipants is computed on read.
type Competition struct {
	ID                  string                      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID      string                      `gorm:"type:uuid;not null;index;column:organization_id" json:"organizationId"`
	Title               string                      `gorm:"type:varchar(200);not null" json:"title"`
	Description         string                      `gorm:"type:text;not null" json:"description"`
	Category            Category                    `gorm:"type:varchar(50);not null;index" json:"category"`
	Tags                datatypes.JSONSlice[string] `json:"tags"`
	PrizeAmount         *float64                    `gorm:"type:numeric(12,2);column:prize_amount" json:"prizeAmount"`
	Currency            string                      `gorm:"type:varchar(10);not null;default:VND" json:"currency"`
	StartDate           time.Time                   `gorm:"not null;column:start_date" json:"startDate"`
	EndDate             time.Time                   `gorm:"not null;column:end_date" json:"endDate"`
	SubmissionDeadline  time.Time                   `gorm:"not null;column:submission_deadline" json:"submissionDeadline"`
	IsPublic            bool                        `gorm:"not null" json:"isPublic"`
	IsApproved          bool                        `gorm:"not null;default:false" json:"isApproved"`
	IsFeatured          bool                        `gorm:"not null;default:false;index" json:"isFeatured"`
	MaxParticipants     *int                        `gorm:"column:max_participants" json:"maxParticipants"`
	CurrentParticipants int                         `gorm:"->;-:migration;column:current_participants" json:"currentParticipants"`
	EvaluationMetric    string                      `gorm:"type:varchar(100);column:evaluation_metric" json:"evaluationMetric"`
	DatasetURL          string                      `gorm:"type:text;column:dataset_url" json:"datasetUrl"`
	Rules               string                      `gorm:"type:text" json:"rules"`
	Status              CompetitionStatus           `gorm:"type:varchar(20);not null;default:upcoming;index" json:"status"`
	PointsAwardedAt     *time.Time                  `gorm:"column:points_awarded_at" json:"pointsAwardedAt,omitempty"`
	CreatedAt           time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
	Organization        *Organization               `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	if c.Currency == "" {
		c.Currency = "VND"
	}
	return nil
}
