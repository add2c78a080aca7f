package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/entretech/wanotify/internal/models"
)

// Settings live in a single JSONB row so the schema survives settings
// additions without a migration.
const settingsRowID = 1

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

// Get loads the settings row. When none exists yet, defaults are returned.
func (r *settingsRepository) Get() (*models.Settings, error) {
	query := `SELECT data, updated_at FROM settings WHERE id = $1`

	var row struct {
		Data      []byte    `db:"data"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := r.db.Get(&row, query, settingsRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := models.DefaultSettings()
	if err := json.Unmarshal(row.Data, settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.UpdatedAt = row.UpdatedAt

	return settings, nil
}

func (r *settingsRepository) Save(s *models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO settings (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRow(query, settingsRowID, data).Scan(&s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
