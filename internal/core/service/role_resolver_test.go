package service

import (
	"errors"
	"testing"

	"github.com/hasandag/auth-service/internal/core/domain"
)

func TestRoleResolver_Resolve(t *testing.T) {
	r := NewRoleResolver(false)

	cases := map[string]domain.RoleName{
		"admin":           domain.RoleAdmin,
		"ADMIN":           domain.RoleAdmin,
		"ROLE_ADMIN":      domain.RoleAdmin,
		" Instructor ":    domain.RoleInstructor,
		"moderator":       domain.RoleModerator,
		"user":            domain.RoleUser,
		"":                domain.RoleUser,
		"root":            domain.RoleUser,
		"ROLE_SUPERADMIN": domain.RoleUser,
	}
	for token, want := range cases {
		if got := r.Resolve(token); got != want {
			t.Fatalf("Resolve(%q) = %s, want %s", token, got, want)
		}
	}
}

func TestRoleResolver_ResolveSet(t *testing.T) {
	r := NewRoleResolver(false)

	got, err := r.ResolveSet(nil)
	if err != nil || len(got) != 1 || got[0] != domain.RoleUser {
		t.Fatalf("empty set: got %v, %v", got, err)
	}

	got, err = r.ResolveSet([]string{"admin", "ROLE_ADMIN", "typo", "instructor", "user"})
	if err != nil {
		t.Fatalf("ResolveSet returned error: %v", err)
	}
	want := []domain.RoleName{domain.RoleAdmin, domain.RoleUser, domain.RoleInstructor}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRoleResolver_Strict(t *testing.T) {
	r := NewRoleResolver(true)

	if _, err := r.ResolveSet([]string{"admin", "typo"}); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	got, err := r.ResolveSet([]string{"Moderator"})
	if err != nil || len(got) != 1 || got[0] != domain.RoleModerator {
		t.Fatalf("strict alias: got %v, %v", got, err)
	}
	if got, _ := r.ResolveSet(nil); len(got) != 1 || got[0] != domain.RoleUser {
		t.Fatalf("strict empty set should still default to ROLE_USER, got %v", got)
	}
}
