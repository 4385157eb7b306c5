package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

var _ ports.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	var roleName string

	err := GetTx(ctx, r.db).
		QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = $1`, string(name)).
		Scan(&role.ID, &roleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	role.Name = domain.RoleName(roleName)
	return &role, nil
}

// Insert uses ON CONFLICT DO NOTHING so losing a creation race leaves the
// surrounding transaction usable; the loser sees ErrRoleExists.
func (r *RoleRepository) Insert(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("role id: %w", err)
	}

	var got string
	err = GetTx(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id`,
		id.String(), string(name),
	).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleExists
		}
		if _, ok := uniqueConstraint(err); ok {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &domain.Role{ID: got, Name: name}, nil
}
