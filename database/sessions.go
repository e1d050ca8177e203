package database

import (
	"context"
	"time"

	"viemind/metrics"
	"viemind/models"
)

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	defer metrics.RecordDBOperation("insert", "sessions", time.Now())
	return translateError(s.db.WithContext(ctx).Omit("User").Create(session).Error)
}

func (s *Store) GetSession(ctx context.Context, token string) (*models.Session, error) {
	defer metrics.RecordDBOperation("select", "sessions", time.Now())

	var session models.Session
	if err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).Take(&session).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	defer metrics.RecordDBOperation("delete", "sessions", time.Now())
	return translateError(s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error)
}

// DeleteExpiredSessions removes every session expired at now and returns how many went
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	defer metrics.RecordDBOperation("delete", "sessions", time.Now())

	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, translateError(res.Error)
}
