package database

import (
	"context"
	"time"

	"viemind/metrics"
	"viemind/models"

	"gorm.io/gorm"
)

func (s *Store) GetParticipant(ctx context.Context, userID, competitionID string) (*models.Participant, error) {
	defer metrics.RecordDBOperation("select", "participants", time.Now())

	var participant models.Participant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND competition_id = ?", userID, competitionID).
		Take(&participant).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &participant, nil
}

func (s *Store) GetParticipantByID(ctx context.Context, id string) (*models.Participant, error) {
	defer metrics.RecordDBOperation("select", "participants", time.Now())

	var participant models.Participant
	if err := s.db.WithContext(ctx).Preload("User").Where("id = ?", id).Take(&participant).Error; err != nil {
		return nil, translateError(err)
	}
	return &participant, nil
}

// CreateParticipant relies on the (user_id, competition_id) unique index to reject double joins
func (s *Store) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	defer metrics.RecordDBOperation("insert", "participants", time.Now())
	return translateError(s.db.WithContext(ctx).Omit("User", "Competition").Create(participant).Error)
}

// ListParticipantsByCompetition returns ranked participants first, then by join time
func (s *Store) ListParticipantsByCompetition(ctx context.Context, competitionID string) ([]models.Participant, error) {
	defer metrics.RecordDBOperation("select", "participants", time.Now())

	var participants []models.Participant
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("competition_id = ?", competitionID).
		Order("participants.rank IS NULL").
		Order("participants.rank ASC").
		Order("participants.joined_at ASC").
		Find(&participants).Error
	return participants, translateError(err)
}

// ListParticipantsByUser returns the user's enrollments with their competition, newest join first
func (s *Store) ListParticipantsByUser(ctx context.Context, userID string) ([]models.Participant, error) {
	defer metrics.RecordDBOperation("select", "participants", time.Now())

	var participants []models.Participant
	err := s.db.WithContext(ctx).
		Preload("Competition", func(db *gorm.DB) *gorm.DB {
			return db.Select(competitionColumns)
		}).
		Preload("Competition.Organization").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&participants).Error
	return participants, translateError(err)
}

func (s *Store) UpdateParticipant(ctx context.Context, id string, fields map[string]interface{}) (*models.Participant, error) {
	start := time.Now()
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Participant{}).Where("id = ?", id).Updates(fields).Error
		metrics.RecordDBOperation("update", "participants", start)
		if err != nil {
			return nil, translateError(err)
		}
	}
	return s.GetParticipantByID(ctx, id)
}
