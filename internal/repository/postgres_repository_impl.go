package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

type PostgresSettingsRepository struct {
	db *sqlx.DB
}

func CreatePostgresSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &PostgresSettingsRepository{
		db: db,
	}
}

func (r *PostgresSettingsRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var setting domain.Setting
	row := r.db.QueryRowxContext(ctx, "SELECT key, value, updated_at FROM settings WHERE key = $1", key)
	err := row.StructScan(&setting)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "PostgresGetSetting").Msg("")
		return "", false, err
	}

	return setting.Value, true, nil
}

func (r *PostgresSettingsRepository) SaveSetting(ctx context.Context, key, value string) error {
	setting := domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := r.db.NamedExecContext(ctx, "INSERT INTO settings(key, value, updated_at) VALUES (:key, :value, :updated_at) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at", setting)
	if err != nil {
		log.Error().Err(err).Str("component", "PostgresSaveSetting").Msg("")
		return err
	}

	return nil
}

func (r *PostgresSettingsRepository) Close() error {
	return r.db.Close()
}
