// Package repository implements global settings persistence for PostgreSQL and MySQL.
//
// The singleton is materialized with an atomic insert-if-absent rather than
// check-then-insert, so two concurrent first reads cannot create two rows.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
	settingsDomain "github.com/allisson/warden/internal/settings/domain"
)

// PostgreSQLSettingsRepository implements GlobalSettings persistence for PostgreSQL.
type PostgreSQLSettingsRepository struct {
	db *sql.DB
}

// GetOrCreate returns the singleton settings record, atomically creating it
// with defaults if absent. The conditional insert relies on the primary key
// on the fixed settings key.
func (p *PostgreSQLSettingsRepository) GetOrCreate(ctx context.Context) (*settingsDomain.GlobalSettings, error) {
	querier := database.GetTx(ctx, p.db)

	defaults := settingsDomain.NewDefaultSettings()
	permissionsJSON, err := json.Marshal(defaults.DefaultSelfServicePermissions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal default permissions")
	}

	insert := `INSERT INTO global_settings (key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at)
			   VALUES ($1, $2, $3, $4, $5)
			   ON CONFLICT (key) DO NOTHING`

	_, err = querier.ExecContext(
		ctx,
		insert,
		defaults.Key,
		defaults.AllowSelfServiceRegistration,
		string(permissionsJSON),
		defaults.CreatedAt,
		defaults.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create default settings")
	}

	return p.get(ctx, querier)
}

// Upsert creates or updates the singleton with the given self-service fields.
func (p *PostgreSQLSettingsRepository) Upsert(
	ctx context.Context,
	settings *settingsDomain.GlobalSettings,
) (*settingsDomain.GlobalSettings, error) {
	querier := database.GetTx(ctx, p.db)

	permissionsJSON, err := json.Marshal(settings.DefaultSelfServicePermissions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal permissions")
	}

	query := `INSERT INTO global_settings (key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (key) DO UPDATE
			  SET allow_self_service_registration = EXCLUDED.allow_self_service_registration,
				  default_self_service_permissions = EXCLUDED.default_self_service_permissions,
				  updated_at = EXCLUDED.updated_at`

	_, err = querier.ExecContext(
		ctx,
		query,
		settings.Key,
		settings.AllowSelfServiceRegistration,
		string(permissionsJSON),
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert settings")
	}

	return p.get(ctx, querier)
}

// NewPostgreSQLSettingsRepository creates a new PostgreSQL GlobalSettings repository.
func NewPostgreSQLSettingsRepository(db *sql.DB) *PostgreSQLSettingsRepository {
	return &PostgreSQLSettingsRepository{db: db}
}

// get retrieves the singleton row.
func (p *PostgreSQLSettingsRepository) get(
	ctx context.Context,
	querier database.Querier,
) (*settingsDomain.GlobalSettings, error) {
	query := `SELECT key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at
			  FROM global_settings WHERE key = $1`

	var settings settingsDomain.GlobalSettings
	var permissionsJSON string

	err := querier.QueryRowContext(ctx, query, settingsDomain.SettingsKey).Scan(
		&settings.Key,
		&settings.AllowSelfServiceRegistration,
		&permissionsJSON,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get settings")
	}

	if err := json.Unmarshal([]byte(permissionsJSON), &settings.DefaultSelfServicePermissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &settings, nil
}
