// Package repository implements credential persistence for PostgreSQL and MySQL.
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

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new Credential into the PostgreSQL database. A unique index
// on secret_hash guarantees no two credentials share a hash; a violation is
// surfaced as ErrSecretHashConflict so issuance can retry with a fresh secret.
func (p *PostgreSQLCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials (id, owner_id, name, description, secret_hash, expires_at, revoked, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.OwnerID,
		credential.Name,
		credential.Description,
		credential.SecretHash,
		credential.ExpiresAt,
		credential.Revoked,
		credential.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return credentialDomain.ErrSecretHashConflict
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a Credential by ID. Returns ErrCredentialNotFound if the
// credential doesn't exist.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE id = $1`

	return scanCredential(querier.QueryRowContext(ctx, query, credentialID))
}

// GetBySecretHash retrieves a Credential by its secret hash. Returns
// ErrCredentialNotFound if no credential matches the hash.
func (p *PostgreSQLCredentialRepository) GetBySecretHash(
	ctx context.Context,
	secretHash string,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE secret_hash = $1`

	return scanCredential(querier.QueryRowContext(ctx, query, secretHash))
}

// ListByOwner retrieves a page of credentials scoped to the given owner, newest first.
func (p *PostgreSQLCredentialRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner_id, name, description, secret_hash, expires_at, revoked, created_at
			  FROM credentials WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return collectCredentials(rows)
}

// Update modifies an existing Credential. Returns ErrCredentialNotFound if the
// credential doesn't exist.
func (p *PostgreSQLCredentialRepository) Update(ctx context.Context, credential *credentialDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials
			  SET owner_id = $1,
				  name = $2,
				  description = $3,
				  secret_hash = $4,
				  expires_at = $5,
				  revoked = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.OwnerID,
		credential.Name,
		credential.Description,
		credential.SecretHash,
		credential.ExpiresAt,
		credential.Revoked,
		credential.ID,
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
func (p *PostgreSQLCredentialRepository) RevokeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials SET revoked = TRUE WHERE owner_id = $1 AND revoked = FALSE`

	result, err := querier.ExecContext(ctx, query, ownerID)
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
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM credentials WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, credentialID)
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

// NewPostgreSQLCredentialRepository creates a new PostgreSQL Credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// scanCredential scans a single credential row, mapping sql.ErrNoRows to
// ErrCredentialNotFound.
func scanCredential(row *sql.Row) (*credentialDomain.Credential, error) {
	var credential credentialDomain.Credential

	err := row.Scan(
		&credential.ID,
		&credential.OwnerID,
		&credential.Name,
		&credential.Description,
		&credential.SecretHash,
		&credential.ExpiresAt,
		&credential.Revoked,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	return &credential, nil
}

// collectCredentials scans all rows into a credential slice.
func collectCredentials(rows *sql.Rows) ([]*credentialDomain.Credential, error) {
	var credentials []*credentialDomain.Credential

	for rows.Next() {
		var credential credentialDomain.Credential
		err := rows.Scan(
			&credential.ID,
			&credential.OwnerID,
			&credential.Name,
			&credential.Description,
			&credential.SecretHash,
			&credential.ExpiresAt,
			&credential.Revoked,
			&credential.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		credentials = append(credentials, &credential)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}

	return credentials, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique
// constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
