package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one uploaded file of a participant. Rows are never overwritten;
// only the score and feedback are filled in later by the evaluator.
type Submission struct {
	ID            string       `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID string       `gorm:"type:uuid;not null;index;column:participant_id" json:"participantId"`
	CompetitionID string       `gorm:"type:uuid;not null;index;column:competition_id" json:"competitionId"`
	FileName      string       `gorm:"type:text;not null;column:file_name" json:"fileName"`
	FileURL       string       `gorm:"type:text;not null;column:file_url" json:"fileUrl"`
	FileSize      int64        `gorm:"column:file_size" json:"fileSize"`
	ContentType   string       `gorm:"type:varchar(255);column:content_type" json:"contentType"`
	Score         *float64     `gorm:"type:double precision" json:"score"`
	IsPublic      bool         `gorm:"not null;column:is_public" json:"isPublic"`
	Feedback      string       `gorm:"type:text" json:"feedback"`
	SubmittedAt   time.Time    `gorm:"not null;column:submitted_at" json:"submittedAt"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}
