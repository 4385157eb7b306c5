package domain

import (
	"fmt"
	"strings"
)

// RoleName is the canonical ROLE_<NAME> form of an authority.
type RoleName string

const (
	RoleUser       RoleName = "ROLE_USER"
	RoleAdmin      RoleName = "ROLE_ADMIN"
	RoleInstructor RoleName = "ROLE_INSTRUCTOR"
	RoleModerator  RoleName = "ROLE_MODERATOR"
)

const rolePrefix = "ROLE_"

// CanonicalRoles returns the closed role vocabulary in bootstrap order.
func CanonicalRoles() []RoleName {
	return []RoleName{RoleUser, RoleAdmin, RoleInstructor, RoleModerator}
}

// IsValid reports whether r belongs to the canonical vocabulary.
func (r RoleName) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleInstructor, RoleModerator:
		return true
	default:
		return false
	}
}

func (r RoleName) String() string { return string(r) }

// ParseRoleName maps a caller-supplied token to its canonical name.
// Matching is case-insensitive and accepts both "admin" and "ROLE_ADMIN".
// Unrecognized tokens return ErrUnknownRole.
func ParseRoleName(token string) (RoleName, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return "", fmt.Errorf("%w: empty role", ErrUnknownRole)
	}
	if !strings.HasPrefix(t, rolePrefix) {
		t = rolePrefix + t
	}
	name := RoleName(t)
	if !name.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, token)
	}
	return name, nil
}

// Role is a named authority grant persisted by the role store.
type Role struct {
	ID   string   `json:"id"`
	Name RoleName `json:"name"`
}

// EnsureOutcome reports how a find-or-create call obtained its role.
type EnsureOutcome int

const (
	EnsureFound EnsureOutcome = iota
	EnsureCreated
	// EnsureRaceRecovered means the insert lost a uniqueness race and the
	// winner's row was re-fetched.
	EnsureRaceRecovered
)

func (o EnsureOutcome) String() string {
	switch o {
	case EnsureFound:
		return "found"
	case EnsureCreated:
		return "created"
	case EnsureRaceRecovered:
		return "race_recovered"
	default:
		return "unknown"
	}
}
