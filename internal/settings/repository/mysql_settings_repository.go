package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/allisson/warden/internal/database"
	apperrors "github.com/allisson/warden/internal/errors"
	settingsDomain "github.com/allisson/warden/internal/settings/domain"
)

// MySQLSettingsRepository implements GlobalSettings persistence for MySQL.
type MySQLSettingsRepository struct {
	db *sql.DB
}

// GetOrCreate returns the singleton settings record, atomically creating it
// with defaults if absent. INSERT IGNORE relies on the primary key on the
// fixed settings key.
func (m *MySQLSettingsRepository) GetOrCreate(ctx context.Context) (*settingsDomain.GlobalSettings, error) {
	querier := database.GetTx(ctx, m.db)

	defaults := settingsDomain.NewDefaultSettings()
	permissionsJSON, err := json.Marshal(defaults.DefaultSelfServicePermissions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal default permissions")
	}

	insert := `INSERT IGNORE INTO global_settings (settings_key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at)
			   VALUES (?, ?, ?, ?, ?)`

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

	return m.get(ctx, querier)
}

// Upsert creates or updates the singleton with the given self-service fields.
func (m *MySQLSettingsRepository) Upsert(
	ctx context.Context,
	settings *settingsDomain.GlobalSettings,
) (*settingsDomain.GlobalSettings, error) {
	querier := database.GetTx(ctx, m.db)

	permissionsJSON, err := json.Marshal(settings.DefaultSelfServicePermissions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal permissions")
	}

	query := `INSERT INTO global_settings (settings_key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  allow_self_service_registration = VALUES(allow_self_service_registration),
				  default_self_service_permissions = VALUES(default_self_service_permissions),
				  updated_at = VALUES(updated_at)`

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

	return m.get(ctx, querier)
}

// NewMySQLSettingsRepository creates a new MySQL GlobalSettings repository.
func NewMySQLSettingsRepository(db *sql.DB) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db}
}

// get retrieves the singleton row.
func (m *MySQLSettingsRepository) get(
	ctx context.Context,
	querier database.Querier,
) (*settingsDomain.GlobalSettings, error) {
	query := `SELECT settings_key, allow_self_service_registration, default_self_service_permissions, created_at, updated_at
			  FROM global_settings WHERE settings_key = ?`

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
