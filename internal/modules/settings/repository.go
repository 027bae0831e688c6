// Package settings provides repository implementations for managing analysis settings.
// Settings are key-value pairs stored in analytics.db that tune the temporal
// analysis thresholds. Values are stored as strings and converted to
// appropriate types when retrieved; missing keys fall back to SettingDefaults.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles settings database operations.
type Repository struct {
	db  *sql.DB        // analytics.db - settings table
	log zerolog.Logger // Structured logger
}

// NewRepository creates a new settings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "settings").Logger(),
	}
}

// Get retrieves a setting value by key.
// Returns nil if the setting doesn't exist (not an error).
func (r *Repository) Get(key string) (*string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set sets a setting value.
// Uses INSERT OR REPLACE to handle both insert and update in a single operation.
func (r *Repository) Set(key string, value string, description *string) error {
	now := time.Now().Unix()

	query := `
		INSERT OR REPLACE INTO settings (key, value, description, created_at, updated_at)
		VALUES (?, ?, ?, COALESCE((SELECT created_at FROM settings WHERE key = ?), ?), ?)
	`

	_, err := r.db.Exec(query, key, value, description, key, now, now)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// GetFloat retrieves a setting as a float64, falling back to defaultValue
// when the key is absent or unparsable.
func (r *Repository) GetFloat(key string, defaultValue float64) (float64, error) {
	value, err := r.Get(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}

	f, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		r.log.Warn().Str("key", key).Str("value", *value).Msg("Setting is not a valid float, using default")
		return defaultValue, nil
	}
	return f, nil
}

// GetInt retrieves a setting as an int, falling back to defaultValue
// when the key is absent or unparsable.
func (r *Repository) GetInt(key string, defaultValue int) (int, error) {
	f, err := r.GetFloat(key, float64(defaultValue))
	if err != nil {
		return defaultValue, err
	}
	return int(f), nil
}

// GetBool retrieves a setting as a bool. Numeric values follow the stored
// convention of 1.0 = true, 0.0 = false.
func (r *Repository) GetBool(key string, defaultValue bool) (bool, error) {
	def := 0.0
	if defaultValue {
		def = 1.0
	}
	f, err := r.GetFloat(key, def)
	if err != nil {
		return defaultValue, err
	}
	return f != 0, nil
}

// DefaultFloat returns the documented default for a key, or fallback when the
// key has no registered default. Used when building the analysis config.
func DefaultFloat(key string, fallback float64) float64 {
	if v, ok := SettingDefaults[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return fallback
}

// GetAll retrieves all settings as a map
func (r *Repository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result[key] = value
	}

	return result, nil
}

// Delete removes a setting
func (r *Repository) Delete(key string) error {
	_, err := r.db.Exec("DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
