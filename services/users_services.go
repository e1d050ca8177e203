package services

import (
	"context"
	"strings"

	"viemind/config"
	"viemind/models"
	"viemind/storage"

	"gorm.io/datatypes"
)

// UserInvalidator drops cached copies of a user after it changed
type UserInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// ProfileUpdate is a partial update; nil fields are left untouched
type ProfileUpdate struct {
	FullName    *string
	Bio         *string
	Avatar      *string
	GithubURL   *string
	LinkedinURL *string
	Skills      *[]string
}

func (u ProfileUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*u.FullName)
	}
	if u.Bio != nil {
		fields["bio"] = *u.Bio
	}
	if u.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*u.Avatar)
	}
	if u.GithubURL != nil {
		fields["github_url"] = strings.TrimSpace(*u.GithubURL)
	}
	if u.LinkedinURL != nil {
		fields["linkedin_url"] = strings.TrimSpace(*u.LinkedinURL)
	}
	if u.Skills != nil {
		fields["skills"] = datatypes.JSONSlice[string](normalizeTags(*u.Skills))
	}
	return fields
}

// ProfileService reads and edits user profiles
type ProfileService struct {
	store       storage.Storage
	invalidator UserInvalidator
	topLimit    int
}

func NewProfileService(cfg *config.Config, store storage.Storage, invalidator UserInvalidator) *ProfileService {
	return &ProfileService{store: store, invalidator: invalidator, topLimit: cfg.UserLeaderboardLimit}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound)
	}
	return user, nil
}

// Update applies a partial profile update; users may only edit themselves
func (s *ProfileService) Update(ctx context.Context, actingUserID, userID string, upd ProfileUpdate) (*models.User, error) {
	if actingUserID != userID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.store.UpdateUser(ctx, userID, upd.fields())
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound)
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(ctx, userID)
	}
	return user, nil
}

// TopUsers ranks users by accumulated points
func (s *ProfileService) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = s.topLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.GetTopUsers(ctx, limit)
}
