package models

import "fmt"

// Role is the closed set of account kinds driving authorization decisions
type Role string

const (
	RoleUser         Role = "user"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// ParseRole converts a stored string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOrganization, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsAdmin reports whether the role grants platform moderation rights
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser, RoleOrganization:
		return false
	default:
		return false
	}
}

// CanHost reports whether the role may act for an organization it owns
func (r Role) CanHost() bool {
	switch r {
	case RoleOrganization, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}
