package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"viemind/models"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role models.Role
		want error
	}{
		{models.RoleAdmin, nil},
		{models.RoleOrganization, ErrAdminRequired},
		{models.RoleUser, ErrAdminRequired},
		{models.Role("root"), ErrPermissionDenied},
	}
	for _, tt := range tests {
		if err := requireAdmin(&models.User{Role: tt.role}); !errors.Is(err, tt.want) {
			t.Errorf("requireAdmin(%s) = %v, want %v", tt.role, err, tt.want)
		}
	}
}

func TestCanManageCompetition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := env.host(t, "host")
	other := env.host(t, "other")
	player, _ := env.register(t, "player")
	c, err := env.competitions.Create(ctx, host, competitionInput(time.Now()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name  string
		actor *models.User
		want  error
	}{
		{"admin", &models.User{ID: "x", Role: models.RoleAdmin}, nil},
		{"owner", host, nil},
		{"other organization", other, ErrNotOrganizationOwner},
		{"plain user", player, ErrNotOrganizationOwner},
		{"unknown role", &models.User{ID: host.ID, Role: models.Role("root")}, ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canManageCompetition(ctx, env.store, tt.actor, c)
			if tt.want == nil && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCanManageOrganization(t *testing.T) {
	org := &models.Organization{ID: "org", UserID: "owner"}

	if err := canManageOrganization(&models.User{ID: "owner", Role: models.RoleOrganization}, org); err != nil {
		t.Errorf("expected the owner to manage, got %v", err)
	}
	if err := canManageOrganization(&models.User{ID: "admin", Role: models.RoleAdmin}, org); err != nil {
		t.Errorf("expected an admin to manage, got %v", err)
	}
	if err := canManageOrganization(&models.User{ID: "someone", Role: models.RoleUser}, org); !errors.Is(err, ErrNotOrganizationOwner) {
		t.Errorf("expected ErrNotOrganizationOwner, got %v", err)
	}
	if err := canManageOrganization(&models.User{ID: "owner", Role: models.Role("")}, org); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}
