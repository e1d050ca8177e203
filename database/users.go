package database

import (
	"context"
	"time"

	"viemind/metrics"
	"viemind/models"
)

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	defer metrics.RecordDBOperation("select", "users", time.Now())

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.RecordDBOperation("select", "users", time.Now())

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer metrics.RecordDBOperation("select", "users", time.Now())

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer metrics.RecordDBOperation("insert", "users", time.Now())
	return translateError(s.db.WithContext(ctx).Create(user).Error)
}

// UpdateUser applies a partial update and returns the stored row
func (s *Store) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	start := time.Now()
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
		metrics.RecordDBOperation("update", "users", start)
		if err != nil {
			return nil, translateError(err)
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) GetTopUsers(ctx context.Context, limit int) ([]models.User, error) {
	defer metrics.RecordDBOperation("select", "users", time.Now())

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("points DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, translateError(err)
}
