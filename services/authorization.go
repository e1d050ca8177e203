package services

import (
	"context"
	"errors"

	"viemind/models"
	"viemind/storage"
)

// requireAdmin allows platform administrators only
func requireAdmin(actor *models.User) error {
	switch {
	case !actor.Role.Valid():
		return ErrPermissionDenied
	case !actor.Role.IsAdmin():
		return ErrAdminRequired
	}
	return nil
}

// canManageCompetition allows administrators and the user owning the
// competition's organization
func canManageCompetition(ctx context.Context, store storage.Storage, actor *models.User, competition *models.Competition) error {
	switch {
	case !actor.Role.Valid():
		return ErrPermissionDenied
	case actor.Role.IsAdmin():
		return nil
	case !actor.Role.CanHost():
		return ErrNotOrganizationOwner
	}

	org, err := store.GetOrganizationByUserID(ctx, actor.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotOrganizationOwner
	}
	if err != nil {
		return err
	}
	if org.ID != competition.OrganizationID {
		return ErrNotOrganizationOwner
	}
	return nil
}

// canManageOrganization allows administrators and the owner of the organization
func canManageOrganization(actor *models.User, org *models.Organization) error {
	switch {
	case !actor.Role.Valid():
		return ErrPermissionDenied
	case actor.Role.IsAdmin():
		return nil
	case org.UserID != actor.ID:
		return ErrNotOrganizationOwner
	}
	return nil
}

// notFoundAs maps storage.ErrNotFound to the given service error
func notFoundAs(err error, sentinel *Error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return sentinel
	}
	return err
}
