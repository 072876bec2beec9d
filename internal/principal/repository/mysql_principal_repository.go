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

// MySQLPrincipalRepository implements Principal persistence for MySQL.
// UUIDs are stored as CHAR(36) strings with transaction support via database.GetTx().
type MySQLPrincipalRepository struct {
	db *sql.DB
}

// Create inserts a new Principal and its initial permission set.
func (m *MySQLPrincipalRepository) Create(ctx context.Context, principal *principalDomain.Principal) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO principals (id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var createdBy *string
	if principal.CreatedBy != nil {
		s := principal.CreatedBy.String()
		createdBy = &s
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		principal.ID.String(),
		principal.Name,
		principal.Contact,
		principal.Department,
		principal.IsAdmin,
		createdBy,
		principal.CreatedAt,
		principal.LastUsedAt,
		principal.RevokedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create principal")
	}

	for _, permission := range principal.Permissions {
		if _, err := m.AddPermission(ctx, principal.ID, permission); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a Principal by ID with its permission set loaded.
// Returns ErrPrincipalNotFound if the principal doesn't exist.
func (m *MySQLPrincipalRepository) Get(
	ctx context.Context,
	principalID uuid.UUID,
) (*principalDomain.Principal, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at
			  FROM principals WHERE id = ?`

	principal, err := scanMySQLPrincipal(querier.QueryRowContext(ctx, query, principalID.String()))
	if err != nil {
		return nil, err
	}

	if principal.Permissions, err = m.loadPermissions(ctx, querier, principal.ID); err != nil {
		return nil, err
	}

	return principal, nil
}

// ChildrenOf retrieves the direct creations of a principal with permission
// sets loaded, oldest first.
func (m *MySQLPrincipalRepository) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, contact, department, is_admin, created_by, created_at, last_used_at, revoked_at
			  FROM principals WHERE created_by = ? ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, principalID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list children")
	}
	defer rows.Close()

	var children []*principalDomain.Principal

	for rows.Next() {
		principal, err := scanMySQLPrincipalRow(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, principal)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate children")
	}

	for _, child := range children {
		if child.Permissions, err = m.loadPermissions(ctx, querier, child.ID); err != nil {
			return nil, err
		}
	}

	return children, nil
}

// AddPermission grants a permission to a principal. Idempotent set-union:
// returns true only when the permission set actually changed.
func (m *MySQLPrincipalRepository) AddPermission(
	ctx context.Context,
	principalID uuid.UUID,
	permission string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO principal_permissions (principal_id, permission) VALUES (?, ?)`

	result, err := querier.ExecContext(ctx, query, principalID.String(), permission)
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
func (m *MySQLPrincipalRepository) SetRevokedAt(
	ctx context.Context,
	principalID uuid.UUID,
	revokedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE principals SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revokedAt, principalID.String())
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
func (m *MySQLPrincipalRepository) TouchLastUsed(
	ctx context.Context,
	principalID uuid.UUID,
	lastUsedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE principals SET last_used_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, lastUsedAt, principalID.String()); err != nil {
		return apperrors.Wrap(err, "failed to touch last used")
	}
	return nil
}

// NewMySQLPrincipalRepository creates a new MySQL Principal repository.
func NewMySQLPrincipalRepository(db *sql.DB) *MySQLPrincipalRepository {
	return &MySQLPrincipalRepository{db: db}
}

// mysqlPrincipalScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type mysqlPrincipalScanner interface {
	Scan(dest ...any) error
}

// scanMySQLPrincipal scans a single principal row, mapping sql.ErrNoRows to
// ErrPrincipalNotFound.
func scanMySQLPrincipal(row *sql.Row) (*principalDomain.Principal, error) {
	principal, err := scanMySQLPrincipalRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, principalDomain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return principal, nil
}

// scanMySQLPrincipalRow scans a principal from a row scanner, parsing the
// CHAR(36) id columns into UUIDs.
func scanMySQLPrincipalRow(row mysqlPrincipalScanner) (*principalDomain.Principal, error) {
	var principal principalDomain.Principal
	var idStr string
	var createdByStr *string

	err := row.Scan(
		&idStr,
		&principal.Name,
		&principal.Contact,
		&principal.Department,
		&principal.IsAdmin,
		&createdByStr,
		&principal.CreatedAt,
		&principal.LastUsedAt,
		&principal.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan principal")
	}

	if principal.ID, err = uuid.Parse(idStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse principal id")
	}
	if createdByStr != nil {
		createdBy, err := uuid.Parse(*createdByStr)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse created by id")
		}
		principal.CreatedBy = &createdBy
	}

	return &principal, nil
}

// loadPermissions retrieves the permission set of a principal.
func (m *MySQLPrincipalRepository) loadPermissions(
	ctx context.Context,
	querier database.Querier,
	principalID uuid.UUID,
) ([]string, error) {
	query := `SELECT permission FROM principal_permissions WHERE principal_id = ? ORDER BY permission ASC`

	rows, err := querier.QueryContext(ctx, query, principalID.String())
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
