package services

import (
	"context"
	"errors"
	"strings"

	"viemind/models"
	"viemind/storage"
)

// OrganizationInput holds the fields of a new organization
type OrganizationInput struct {
	Name        string
	Website     string
	Logo        string
	Description string
	Industry    string
}

// OrganizationUpdate is a partial update; nil fields are left untouched
type OrganizationUpdate struct {
	Name        *string
	Website     *string
	Logo        *string
	Description *string
	Industry    *string
}

// OrganizationService manages the hosting identity of users
type OrganizationService struct {
	store       storage.Storage
	invalidator UserInvalidator
}

func NewOrganizationService(store storage.Storage, invalidator UserInvalidator) *OrganizationService {
	return &OrganizationService{store: store, invalidator: invalidator}
}

// Create registers the organization of actor and promotes its role
func (s *OrganizationService) Create(ctx context.Context, actor *models.User, in OrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidRequest
	}

	if _, err := s.store.GetOrganizationByUserID(ctx, actor.ID); err == nil {
		return nil, ErrOrganizationExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	org := &models.Organization{
		UserID:      actor.ID,
		Name:        strings.TrimSpace(in.Name),
		Website:     strings.TrimSpace(in.Website),
		Logo:        strings.TrimSpace(in.Logo),
		Description: in.Description,
		Industry:    strings.TrimSpace(in.Industry),
	}
	if err := s.store.CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, wrap(ErrOrganizationExists, err)
		}
		return nil, err
	}

	// the role changed
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(ctx, actor.ID)
	}
	return org, nil
}

// Mine returns the organization owned by actor
func (s *OrganizationService) Mine(ctx context.Context, actor *models.User) (*models.Organization, error) {
	org, err := s.store.GetOrganizationByUserID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrOrganizationNotFound)
	}
	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.store.GetOrganization(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrOrganizationNotFound)
	}
	return org, nil
}

// Update edits an organization; only its owner or an administrator may
func (s *OrganizationService) Update(ctx context.Context, actor *models.User, id string, upd OrganizationUpdate) (*models.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canManageOrganization(actor, org); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, ErrInvalidRequest
		}
		fields["name"] = name
	}
	if upd.Website != nil {
		fields["website"] = strings.TrimSpace(*upd.Website)
	}
	if upd.Logo != nil {
		fields["logo"] = strings.TrimSpace(*upd.Logo)
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Industry != nil {
		fields["industry"] = strings.TrimSpace(*upd.Industry)
	}

	updated, err := s.store.UpdateOrganization(ctx, id, fields)
	if err != nil {
		return nil, notFoundAs(err, ErrOrganizationNotFound)
	}
	return updated, nil
}
