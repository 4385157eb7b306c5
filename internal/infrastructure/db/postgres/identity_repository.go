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

const (
	usernameConstraint = "identities_username_key"
	emailConstraint    = "identities_email_lower_key"
)

var _ ports.CredentialStore = (*IdentityRepository)(nil)

// IdentityRepository stores identities and their role links in
// identities and identity_roles.
type IdentityRepository struct {
	db *sql.DB
	tx *TxManager
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db, tx: NewTxManager(db)}
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	q := GetTx(ctx, r.db)

	var i domain.Identity
	err := q.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name, enabled, created_at, updated_at
		 FROM identities WHERE username = $1`, username,
	).Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.FirstName, &i.LastName, &i.Enabled, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	roles, err := r.rolesOf(ctx, q, i.ID)
	if err != nil {
		return nil, err
	}
	i.Roles = roles
	return &i, nil
}

func (r *IdentityRepository) rolesOf(ctx context.Context, q Querier, identityID string) ([]domain.Role, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.id, r.name FROM roles r
		 JOIN identity_roles ir ON ir.role_id = r.id
		 WHERE ir.identity_id = $1 ORDER BY r.name`, identityID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0, 2)
	for rows.Next() {
		var role domain.Role
		var name string
		if err := rows.Scan(&role.ID, &name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		role.Name = domain.RoleName(name)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return roles, nil
}

func (r *IdentityRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE username = $1)`, username)
}

func (r *IdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE LOWER(email) = LOWER($1))`, email)
}

func (r *IdentityRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var ok bool
	if err := GetTx(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return ok, nil
}

// Save writes the identity row and replaces its role links in one
// transaction, joining the caller's when there is one.
func (r *IdentityRepository) Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	out := identity.Clone()

	err := r.tx.WithTx(ctx, func(ctx context.Context) error {
		q := GetTx(ctx, r.db)

		if out.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("identity id: %w", err)
			}
			out.ID = id.String()

			_, err = q.ExecContext(ctx,
				`INSERT INTO identities (id, username, email, password_hash, first_name, last_name, enabled, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				out.ID, out.Username, out.Email, out.PasswordHash, out.FirstName, out.LastName, out.Enabled,
				out.CreatedAt.UTC(), out.UpdatedAt.UTC())
			if err != nil {
				return mapUnique(err, "insert identity")
			}
		} else {
			res, err := q.ExecContext(ctx,
				`UPDATE identities SET username = $2, email = $3, password_hash = $4, first_name = $5,
				 last_name = $6, enabled = $7, updated_at = $8 WHERE id = $1`,
				out.ID, out.Username, out.Email, out.PasswordHash, out.FirstName, out.LastName, out.Enabled,
				out.UpdatedAt.UTC())
			if err != nil {
				return mapUnique(err, "update identity")
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return domain.ErrIdentityNotFound
			}
			if _, err := q.ExecContext(ctx, `DELETE FROM identity_roles WHERE identity_id = $1`, out.ID); err != nil {
				return fmt.Errorf("clear roles: %w", err)
			}
		}

		for _, role := range out.Roles {
			_, err := q.ExecContext(ctx,
				`INSERT INTO identity_roles (identity_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				out.ID, role.ID)
			if err != nil {
				return fmt.Errorf("link role %s: %w", role.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func mapUnique(err error, op string) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch constraint {
	case usernameConstraint:
		return domain.ErrDuplicateUsername
	case emailConstraint:
		return domain.ErrDuplicateEmail
	default:
		return fmt.Errorf("%s: unique violation on %s: %w", op, constraint, err)
	}
}
