package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
)

// MySQLCredentialRepository implements Credential persistence for MySQL.
// UUIDs are stored as CHAR(36) strings with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new Credential into the MySQL database. A unique index on
// secret_hash guarantees no two credentials share a hash; a violation is
// surfaced as ErrSecretHashConflict so issuance can retry with a fresh secret.
func (m *MySQLCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO credentials (id, owner_id, name, description, secret_hash, expires_at, revoked, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID.String(),
		credential.OwnerID.String(),
		credential.Name,
		credential.Description,
		credential.SecretHash,
		credential.ExpiresAt,
		credential.Revoked,
		credential.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return credentialDomain.ErrSecretHashConflict
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a Credential by ID. Returns ErrCredentialNotFound if the
// credential doesn't exist.
func (m *MySQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE id = ?`

	return scanMySQLCredential(querier.QueryRowContext(ctx, query, credentialID.String()))
}

// GetBySecretHash retrieves a Credential by its secret hash. Returns
// ErrCredentialNotFound if no credential matches the hash.
func (m *MySQLCredentialRepository) GetBySecretHash(
	ctx context.Context,
	secretHash string,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE secret_hash = ?`

	return scanMySQLCredential(querier.QueryRowContext(ctx, query, secretHash))
}

// ListByOwner retrieves a page of credentials scoped to the given owner, newest first.
func (m *MySQLCredentialRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE owner_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, ownerID.String(), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	var credentials []*credentialDomain.Credential

	for rows.Next() {
		credential, err := scanMySQLCredentialRow(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}

	return credentials, nil
}

// Update modifies an existing Credential. Returns ErrCredentialNotFound if the
// credential doesn't exist.
func (m *MySQLCredentialRepository) Update(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credentials
			  SET owner_id = ?,
				  name = ?,
				  description = ?,
				  secret_hash = ?,
				  expires_at = ?,
				  revoked = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.OwnerID.String(),
		credential.Name,
		credential.Description,
		credential.SecretHash,
		credential.ExpiresAt,
		credential.Revoked,
		credential.ID.String(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}

	return nil
}

// RevokeByOwner flips the revoked flag on every credential scoped to the given
// owner. Returns the number of credentials that actually transitioned to
// revoked; already-revoked credentials are left unchanged.
func (m *MySQLCredentialRepository) RevokeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE credentials SET revoked = TRUE WHERE owner_id = ? AND revoked = FALSE`

	result, err := querier.ExecContext(ctx, query, ownerID.String())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke credentials by owner")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// Delete removes a Credential from the database. Returns ErrCredentialNotFound
// if the credential doesn't exist.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM credentials WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, credentialID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}

	return nil
}

// NewMySQLCredentialRepository creates a new MySQL Credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// mysqlRowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type mysqlRowScanner interface {
	Scan(dest ...any) error
}

// scanMySQLCredential scans a single credential row, mapping sql.ErrNoRows to
// ErrCredentialNotFound.
func scanMySQLCredential(row *sql.Row) (*credentialDomain.Credential, error) {
	credential, err := scanMySQLCredentialRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, err
	}
	return credential, nil
}

// scanMySQLCredentialRow scans a credential from a row scanner, parsing the
// CHAR(36) id columns into UUIDs.
func scanMySQLCredentialRow(row mysqlRowScanner) (*credentialDomain.Credential, error) {
	var credential credentialDomain.Credential
	var idStr, ownerIDStr string

	err := row.Scan(
		&idStr,
		&ownerIDStr,
		&credential.Name,
		&credential.Description,
		&credential.SecretHash,
		&credential.ExpiresAt,
		&credential.Revoked,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan credential")
	}

	if credential.ID, err = uuid.Parse(idStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse credential id")
	}
	if credential.OwnerID, err = uuid.Parse(ownerIDStr); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse credential owner id")
	}

	return &credential, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
