package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_ops_backend/internal/models"
)

// SettingsRepository defines the interface for application-settings storage.
// Settings are key/value rows; pricing configuration lives under enumerated
// keys owned by the settings service.
type SettingsRepository interface {
	GetSetting(key string) (*models.ApplicationSetting, error)
	GetAllSettings() ([]models.ApplicationSetting, error)
	UpsertSetting(key string, value string, description *string) (*models.ApplicationSetting, error)
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSetting(key string) (*models.ApplicationSetting, error) {
	s := &models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings
	          WHERE setting_key = $1`
	err := r.db.QueryRow(query, key).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(fmt.Sprintf("getting application setting %q", key), err)
	}
	return s, nil
}

func (r *settingsRepository) GetAllSettings() ([]models.ApplicationSetting, error) {
	settings := []models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings
	          ORDER BY setting_key`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, wrapDBError("querying application settings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ApplicationSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, wrapDBError("scanning application setting", err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapDBError("iterating application setting rows", err)
	}
	return settings, nil
}

func (r *settingsRepository) UpsertSetting(key string, value string, description *string) (*models.ApplicationSetting, error) {
	s := &models.ApplicationSetting{}
	now := time.Now()
	query := `
	    INSERT INTO application_settings (setting_key, setting_value, description, created_at, updated_at)
	    VALUES ($1, $2, $3, $4, $5)
	    ON CONFLICT (setting_key)
	    DO UPDATE SET setting_value = EXCLUDED.setting_value, description = COALESCE(EXCLUDED.description, application_settings.description), updated_at = EXCLUDED.updated_at
	    RETURNING id, setting_key, setting_value, description, created_at, updated_at`

	err := r.db.QueryRow(query, key, value, description, now, now).
		Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(fmt.Sprintf("upserting application setting %q", key), err)
	}
	return s, nil
}
