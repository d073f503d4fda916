package repository

import (
	"context"

	"github.com/sealbound/pactkeeper/internal/database"
	"github.com/sealbound/pactkeeper/internal/models"
)

type UserSettingsRepository struct {
	db *database.DB
}

func NewUserSettingsRepository(db *database.DB) *UserSettingsRepository {
	return &UserSettingsRepository{db: db}
}

// GetOrCreate retrieves user settings, creating default settings if none exist
func (r *UserSettingsRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings := &models.UserSettings{}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO user_settings (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING user_id, timezone, quiet_start, quiet_end, reminders_enabled, streak_alerts, updated_at`,
		userID,
	).Scan(&settings.UserID, &settings.Timezone, &settings.QuietStart, &settings.QuietEnd,
		&settings.RemindersEnabled, &settings.StreakAlerts, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *UserSettingsRepository) Update(ctx context.Context, settings *models.UserSettings) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings
		 SET timezone = $1, quiet_start = $2, quiet_end = $3,
		     reminders_enabled = $4, streak_alerts = $5, updated_at = NOW()
		 WHERE user_id = $6`,
		settings.Timezone, settings.QuietStart, settings.QuietEnd,
		settings.RemindersEnabled, settings.StreakAlerts, settings.UserID,
	)
	return err
}

func (r *UserSettingsRepository) SetTimezone(ctx context.Context, userID int64, timezone string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET timezone = $1, updated_at = NOW() WHERE user_id = $2`,
		timezone, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetQuietHours(ctx context.Context, userID int64, start, end string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET quiet_start = $1, quiet_end = $2, updated_at = NOW() WHERE user_id = $3`,
		start, end, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetRemindersEnabled(ctx context.Context, userID int64, enabled bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET reminders_enabled = $1, updated_at = NOW() WHERE user_id = $2`,
		enabled, userID,
	)
	return err
}
