// Package repository implements principal persistence for PostgreSQL and MySQL.
//
// Permission sets are stored in a principal_permissions join table with a
// composite primary key, so grants are naturally idempotent: an insert that
// conflicts with an existing row changes nothing and reports zero rows
// affected, which is exactly the changed-count the propagation engine needs.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// PostgreSQLPrincipalRepository implements Principal persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLPrincipalRepository struct {
	db *sql.DB
}

// Create inserts a new Principal and its initial permission set.
func (p *PostgreSQLPrincipalRepository) Create(ctx context.Context, principal *principalDomain.Principal) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO principals (id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		principal.ID,
		principal.Name,
		principal.Contact,
		principal.Department,
		principal.IsAdmin,
		principal.CreatedBy,
		principal.CreatedAt,
		principal.LastUsedAt,
		principal.RevokedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create principal")
	}

	for _, permission := range principal.Permissions {
		if _, err := p.AddPermission(ctx, principal.ID, permission); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a Principal by ID with its permission set loaded.
// Returns ErrPrincipalNotFound if the principal doesn't exist.
func (p *PostgreSQLPrincipalRepository) Get(
	ctx context.Context,
	principalID uuid.UUID,
) (*principalDomain.Principal, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at
			  FROM principals WHERE id = $1`

	var principal principalDomain.Principal

	err := querier.QueryRowContext(ctx, query, principalID).Scan(
		&principal.ID,
		&principal.Name,
		&principal.Contact,
		&principal.Department,
		&principal.IsAdmin,
		&principal.CreatedBy,
		&principal.CreatedAt,
		&principal.LastUsedAt,
		&principal.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, principalDomain.ErrPrincipalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get principal")
	}

	if principal.Permissions, err = p.loadPermissions(ctx, querier, principal.ID); err != nil {
		return nil, err
	}

	return &principal, nil
}

// ChildrenOf retrieves the direct creations of a principal with permission
// sets loaded, oldest first.
func (p *PostgreSQLPrincipalRepository) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at
			  FROM principals WHERE created_by = $1 ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, principalID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list children")
	}
	defer rows.Close()

	var children []*principalDomain.Principal

	for rows.Next() {
		var principal principalDomain.Principal
		err := rows.Scan(
			&principal.ID,
			&principal.Name,
			&principal.Contact,
			&principal.Department,
			&principal.IsAdmin,
			&principal.CreatedBy,
			&principal.CreatedAt,
			&principal.LastUsedAt,
			&principal.RevokedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan principal")
		}
		children = append(children, &principal)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate children")
	}

	for _, child := range children {
		if child.Permissions, err = p.loadPermissions(ctx, querier, child.ID); err != nil {
			return nil, err
		}
	}

	return children, nil
}

// AddPermission grants a permission to a principal. Idempotent set-union:
// returns true only when the permission set actually changed.
func (p *PostgreSQLPrincipalRepository) AddPermission(
	ctx context.Context,
	principalID uuid.UUID,
	permission string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO principal_permissions (principal_id, permission)
			  VALUES ($1, $2)
			  ON CONFLICT (principal_id, permission) DO NOTHING`

	result, err := querier.ExecContext(ctx, query, principalID, permission)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to add permission")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// SetRevokedAt marks a principal as revoked. Idempotent: returns true only
// when the principal actually transitioned from active to revoked; an
// already-revoked principal keeps its original revocation instant.
func (p *PostgreSQLPrincipalRepository) SetRevokedAt(
	ctx context.Context,
	principalID uuid.UUID,
	revokedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE principals SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, principalID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to set revoked at")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected > 0, nil
}

// TouchLastUsed updates the principal's last-used instant.
func (p *PostgreSQLPrincipalRepository) TouchLastUsed(
	ctx context.Context,
	principalID uuid.UUID,
	lastUsedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE principals SET last_used_at = $1 WHERE id = $2`

	if _, err := querier.ExecContext(ctx, query, lastUsedAt, principalID); err != nil {
		return apperrors.Wrap(err, "failed to touch last used")
	}
	return nil
}

// NewPostgreSQLPrincipalRepository creates a new PostgreSQL Principal repository.
func NewPostgreSQLPrincipalRepository(db *sql.DB) *PostgreSQLPrincipalRepository {
	return &PostgreSQLPrincipalRepository{db: db}
}

// loadPermissions retrieves the permission set of a principal in insertion order.
func (p *PostgreSQLPrincipalRepository) loadPermissions(
	ctx context.Context,
	querier database.Querier,
	principalID uuid.UUID,
) ([]string, error) {
	query := `SELECT permission FROM principal_permissions WHERE principal_id = $1 ORDER BY permission ASC`

	rows, err := querier.QueryContext(ctx, query, principalID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load permissions")
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}

	return permissions, nil
}
