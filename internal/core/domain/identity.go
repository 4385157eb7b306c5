package domain

import (
	"sort"
	"time"
)

// Identity is a registered user's credential and profile record.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Enabled      bool      `json:"enabled"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleNames returns the identity's canonical role names, sorted and deduplicated.
func (i *Identity) RoleNames() []string {
	seen := make(map[RoleName]struct{}, len(i.Roles))
	names := make([]string, 0, len(i.Roles))
	for _, r := range i.Roles {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, string(r.Name))
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy so stores never share role slices with callers.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Roles = append([]Role(nil), i.Roles...)
	return &c
}
