package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

type SQLiteSettingsRepository struct {
	db *gorm.DB
}

func CreateSQLiteSettingsRepository(db *gorm.DB) SettingsRepository {
	return &SQLiteSettingsRepository{
		db: db,
	}
}

func (r *SQLiteSettingsRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var setting domain.Setting
	err := r.db.WithContext(ctx).Where(&domain.Setting{Key: key}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "SQLiteGetSetting").Msg("")
		return "", false, err
	}

	return setting.Value, true, nil
}

func (r *SQLiteSettingsRepository) SaveSetting(ctx context.Context, key, value string) error {
	setting := domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		log.Error().Err(err).Str("component", "SQLiteSaveSetting").Msg("")
		return err
	}

	return nil
}

func (r *SQLiteSettingsRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
