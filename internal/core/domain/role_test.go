package domain

import (
	"errors"
	"testing"
)

func TestParseRoleName(t *testing.T) {
	ok := map[string]RoleName{
		"admin":          RoleAdmin,
		"Role_Moderator": RoleModerator,
		"  user ":        RoleUser,
		"INSTRUCTOR":     RoleInstructor,
	}
	for in, want := range ok {
		got, err := ParseRoleName(in)
		if err != nil || got != want {
			t.Fatalf("ParseRoleName(%q) = %s, %v; want %s", in, got, err, want)
		}
	}

	for _, in := range []string{"", "   ", "root", "ROLE_", "ROLE_ROOT"} {
		if _, err := ParseRoleName(in); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRoleName(%q): expected ErrUnknownRole, got %v", in, err)
		}
	}
}

func TestCanonicalRoles(t *testing.T) {
	roles := CanonicalRoles()
	if len(roles) != 4 {
		t.Fatalf("expected 4 canonical roles, got %v", roles)
	}
	for _, r := range roles {
		if !r.IsValid() {
			t.Fatalf("%s is not valid", r)
		}
	}
	if RoleName("ROLE_GUEST").IsValid() {
		t.Fatalf("ROLE_GUEST should not be valid")
	}
}

func TestIdentity_RoleNamesSortedAndDeduplicated(t *testing.T) {
	i := &Identity{Roles: []Role{{Name: RoleUser}, {Name: RoleAdmin}, {Name: RoleUser}}}

	got := i.RoleNames()
	if len(got) != 2 || got[0] != "ROLE_ADMIN" || got[1] != "ROLE_USER" {
		t.Fatalf("unexpected role names: %v", got)
	}
}

func TestIdentity_CloneIsDeep(t *testing.T) {
	i := &Identity{Username: "a", Roles: []Role{{Name: RoleUser}}}
	c := i.Clone()
	c.Roles[0].Name = RoleAdmin

	if i.Roles[0].Name != RoleUser {
		t.Fatalf("clone shares role slice")
	}
	if (*Identity)(nil).Clone() != nil {
		t.Fatalf("nil clone should be nil")
	}
}
