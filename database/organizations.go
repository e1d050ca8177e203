package database

import (
	"context"
	"time"

	"viemind/metrics"
	"viemind/models"

	"gorm.io/gorm"
)

func (s *Store) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	defer metrics.RecordDBOperation("select", "organizations", time.Now())

	var org models.Organization
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&org).Error; err != nil {
		return nil, translateError(err)
	}
	return &org, nil
}

func (s *Store) GetOrganizationByUserID(ctx context.Context, userID string) (*models.Organization, error) {
	defer metrics.RecordDBOperation("select", "organizations", time.Now())

	var org models.Organization
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&org).Error; err != nil {
		return nil, translateError(err)
	}
	return &org, nil
}

// CreateOrganization inserts the organization and promotes its owner to the
// organization role in the same transaction. Admins keep their role.
func (s *Store) CreateOrganization(ctx context.Context, org *models.Organization) error {
	defer metrics.RecordDBOperation("insert", "organizations", time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", org.UserID, models.RoleUser).
			Update("role", models.RoleOrganization).Error
	})
	return translateError(err)
}

func (s *Store) UpdateOrganization(ctx context.Context, id string, fields map[string]interface{}) (*models.Organization, error) {
	start := time.Now()
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", id).Updates(fields).Error
		metrics.RecordDBOperation("update", "organizations", start)
		if err != nil {
			return nil, translateError(err)
		}
	}
	return s.GetOrganization(ctx, id)
}
