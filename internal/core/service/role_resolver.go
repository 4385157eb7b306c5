package service

import (
	"fmt"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// RoleResolver maps caller-supplied role tokens to canonical role names.
//
// In lenient mode (the default) resolution is total: anything that is not an
// alias of ADMIN, INSTRUCTOR or MODERATOR becomes ROLE_USER. In strict mode
// unrecognized tokens fail with domain.ErrUnknownRole.
type RoleResolver struct {
	strict bool
}

func NewRoleResolver(strict bool) RoleResolver {
	return RoleResolver{strict: strict}
}

// Resolve never fails; unknown or empty tokens map to ROLE_USER.
func (r RoleResolver) Resolve(token string) domain.RoleName {
	name, err := domain.ParseRoleName(token)
	if err != nil {
		return domain.RoleUser
	}
	return name
}

// ResolveSet resolves and deduplicates tokens, preserving first-seen order.
// An empty list resolves to {ROLE_USER}.
func (r RoleResolver) ResolveSet(tokens []string) ([]domain.RoleName, error) {
	if len(tokens) == 0 {
		return []domain.RoleName{domain.RoleUser}, nil
	}

	seen := make(map[domain.RoleName]struct{}, len(tokens))
	out := make([]domain.RoleName, 0, len(tokens))
	for _, tok := range tokens {
		var name domain.RoleName
		if r.strict {
			parsed, err := domain.ParseRoleName(tok)
			if err != nil {
				return nil, fmt.Errorf("resolve roles: %w", err)
			}
			name = parsed
		} else {
			name = r.Resolve(tok)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
