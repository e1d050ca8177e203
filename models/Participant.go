package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is a user's enrollment in one competition
type Participant struct {
	ID               string       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string       `gorm:"type:uuid;not null;uniqueIndex:idx_participant_user_competition;column:user_id" json:"userId"`
	CompetitionID    string       `gorm:"type:uuid;not null;uniqueIndex:idx_participant_user_competition;index;column:competition_id" json:"competitionId"`
	TeamName         string       `gorm:"type:varchar(100);column:team_name" json:"teamName"`
	JoinedAt         time.Time    `gorm:"not null;column:joined_at" json:"joinedAt"`
	LastSubmissionAt *time.Time   `gorm:"column:last_submission_at" json:"lastSubmissionAt"`
	BestScore        *float64     `gorm:"type:double precision;column:best_score" json:"bestScore"`
	Rank             *int         `gorm:"column:rank" json:"rank"`
	IsDisqualified   bool         `gorm:"not null;default:false;column:is_disqualified" json:"isDisqualified"`
	User             *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Competition      *Competition `gorm:"foreignKey:CompetitionID" json:"competition,omitempty"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}
