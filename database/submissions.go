package database

import (
	"context"
	"time"

	"viemind/metrics"
	"viemind/models"
	"viemind/utils"

	"gorm.io/gorm"
)

// CreateSubmission inserts a submission for an existing participant. The
// competition id is always copied from the participant, and the participant's
// last submission time is updated in the same transaction.
func (s *Store) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	defer metrics.RecordDBOperation("insert", "submissions", time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.Where("id = ?", submission.ParticipantID).Take(&participant).Error; err != nil {
			return err
		}
		submission.CompetitionID = participant.CompetitionID
		if submission.SubmittedAt.IsZero() {
			submission.SubmittedAt = time.Now()
		}

		if err := tx.Omit("Participant").Create(submission).Error; err != nil {
			return err
		}
		return tx.Model(&models.Participant{}).
			Where("id = ?", participant.ID).
			Update("last_submission_at", submission.SubmittedAt).Error
	})
	return translateError(err)
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	var submission models.Submission
	if err := s.db.WithContext(ctx).Preload("Participant.User").Where("id = ?", id).Take(&submission).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *Store) ListSubmissionsByParticipant(ctx context.Context, participantID string) ([]models.Submission, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	var submissions []models.Submission
	err := s.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, translateError(err)
}

// Leaderboard orders by score descending with unscored entries last; ties go
// to the earliest submission, then the id, so the order is total
func (s *Store) Leaderboard(ctx context.Context, competitionID string, limit int) ([]models.Submission, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	var submissions []models.Submission
	err := s.db.WithContext(ctx).
		Preload("Participant.User").
		Where("submissions.competition_id = ?", competitionID).
		Order("submissions.score IS NULL").
		Order("submissions.score DESC").
		Order("submissions.submitted_at ASC").
		Order("submissions.id ASC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, translateError(err)
}

// ScoreSubmission stores an externally computed score, refreshes the participant's
// best score and recomputes the ranks of the competition in one transaction
func (s *Store) ScoreSubmission(ctx context.Context, id string, score float64, feedback string) (*models.Submission, error) {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Where("id = ?", id).Take(&submission).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Submission{}).Where("id = ?", id).
			Updates(map[string]interface{}{"score": score, "feedback": feedback}).Error
		if err != nil {
			return err
		}

		// best_score follows the maximum over every scored submission, so a
		// regrade can lower it
		best := tx.Model(&models.Submission{}).Select("MAX(score)").
			Where("participant_id = ? AND score IS NOT NULL", submission.ParticipantID)
		err = tx.Model(&models.Participant{}).Where("id = ?", submission.ParticipantID).
			Update("best_score", best).Error
		if err != nil {
			return err
		}

		return recomputeRanks(tx, submission.CompetitionID)
	})
	metrics.RecordDBOperation("update", "submissions", start)
	if err != nil {
		return nil, translateError(err)
	}
	return s.GetSubmission(ctx, id)
}

// recomputeRanks ranks the scored, qualified participants of a competition;
// everyone else is unranked
func recomputeRanks(tx *gorm.DB, competitionID string) error {
	var ranked []models.Participant
	err := tx.Where("competition_id = ? AND best_score IS NOT NULL AND is_disqualified = ?", competitionID, false).
		Order("best_score DESC").
		Order("last_submission_at ASC").
		Order("id ASC").
		Find(&ranked).Error
	if err != nil {
		return err
	}

	err = tx.Model(&models.Participant{}).
		Where("competition_id = ?", competitionID).
		Update("rank", nil).Error
	if err != nil {
		return err
	}

	scores := make([]float64, len(ranked))
	for i, p := range ranked {
		scores[i] = *p.BestScore
	}
	for i, rank := range utils.RankScores(scores) {
		err := tx.Model(&models.Participant{}).Where("id = ?", ranked[i].ID).Update("rank", rank).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// RecomputeRanks refreshes the ranks of a competition, used after moderation changes
func (s *Store) RecomputeRanks(ctx context.Context, competitionID string) error {
	defer metrics.RecordDBOperation("update", "participants", time.Now())
	return translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputeRanks(tx, competitionID)
	}))
}
