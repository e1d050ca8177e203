package database

import (
	"context"
	"sort"
	"time"

	"viemind/metrics"
	"viemind/models"
	"viemind/storage"

	"gorm.io/gorm"
)

// competitionColumns derives the participant count from the participants table
const competitionColumns = "competitions.*, " +
	"(SELECT COUNT(*) FROM participants WHERE participants.competition_id = competitions.id) AS current_participants"

func (s *Store) competitions(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Competition{}).
		Select(competitionColumns).
		Preload("Organization")
}

func (s *Store) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	var competition models.Competition
	if err := s.competitions(ctx).Where("competitions.id = ?", id).Take(&competition).Error; err != nil {
		return nil, translateError(err)
	}
	return &competition, nil
}

// ListCompetitions returns the competitions matching every set filter, newest first
func (s *Store) ListCompetitions(ctx context.Context, filter storage.CompetitionFilter) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	query := s.competitions(ctx)
	if filter.Status != nil {
		query = query.Where("competitions.status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("competitions.category = ?", *filter.Category)
	}
	if filter.Featured != nil {
		query = query.Where("competitions.is_featured = ?", *filter.Featured)
	}

	var competitions []models.Competition
	err := query.Order("competitions.created_at DESC").Find(&competitions).Error
	return competitions, translateError(err)
}

func (s *Store) ListCompetitionsByOrganization(ctx context.Context, organizationID string) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	var competitions []models.Competition
	err := s.competitions(ctx).
		Where("competitions.organization_id = ?", organizationID).
		Order("competitions.created_at DESC").
		Find(&competitions).Error
	return competitions, translateError(err)
}

func (s *Store) ListFeaturedCompetitions(ctx context.Context, limit int) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	var competitions []models.Competition
	err := s.competitions(ctx).
		Where("competitions.is_featured = ?", true).
		Order("competitions.created_at DESC").
		Limit(limit).
		Find(&competitions).Error
	return competitions, translateError(err)
}

func (s *Store) CreateCompetition(ctx context.Context, competition *models.Competition) error {
	defer metrics.RecordDBOperation("insert", "competitions", time.Now())
	return translateError(s.db.WithContext(ctx).Omit("Organization").Create(competition).Error)
}

func (s *Store) UpdateCompetition(ctx context.Context, id string, fields map[string]interface{}) (*models.Competition, error) {
	start := time.Now()
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Competition{}).Where("id = ?", id).Updates(fields).Error
		metrics.RecordDBOperation("update", "competitions", start)
		if err != nil {
			return nil, translateError(err)
		}
	}
	return s.GetCompetition(ctx, id)
}

// AwardCompetitionPoints credits the given points to each user, at most once per
// competition. The points_awarded_at marker is claimed in the same transaction
// as the increments; false means the competition was already awarded.
func (s *Store) AwardCompetitionPoints(ctx context.Context, competitionID string, awards map[string]int) (bool, error) {
	defer metrics.RecordDBOperation("update", "users", time.Now())

	awarded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Competition{}).
			Where("id = ? AND points_awarded_at IS NULL", competitionID).
			Update("points_awarded_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Competition{}).Where("id = ?", competitionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		}

		// fixed lock order across concurrent awards
		userIDs := make([]string, 0, len(awards))
		for id := range awards {
			userIDs = append(userIDs, id)
		}
		sort.Strings(userIDs)
		for _, id := range userIDs {
			err := tx.Model(&models.User{}).Where("id = ?", id).
				Update("points", gorm.Expr("points + ?", awards[id])).Error
			if err != nil {
				return err
			}
		}
		awarded = true
		return nil
	})
	if err != nil {
		return false, translateError(err)
	}
	return awarded, nil
}
