package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Setting{}))

	return db
}

func TestSQLiteSettingsRepository(t *testing.T) {
	repo := CreateSQLiteSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	_, ok, err := repo.GetSetting(ctx, "inventory_api_url")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveSetting(ctx, "inventory_api_url", "http://a/api"))
	require.NoError(t, repo.SaveSetting(ctx, "inventory_api_url", "http://b/api"))

	value, ok, err := repo.GetSetting(ctx, "inventory_api_url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://b/api", value)

	require.NoError(t, repo.Close())
}

func TestRedisSettingsRepository(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := CreateRedisSettingsRepository(db)
	ctx := context.Background()

	mock.ExpectGet("settings:inventory_api_url").RedisNil()
	mock.ExpectSet("settings:inventory_api_url", "http://b/api", 0).SetVal("OK")
	mock.ExpectGet("settings:inventory_api_url").SetVal("http://b/api")
	mock.ExpectGet("settings:broken").SetErr(errors.New("connection reset"))

	_, ok, err := repo.GetSetting(ctx, "inventory_api_url")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveSetting(ctx, "inventory_api_url", "http://b/api"))

	value, ok, err := repo.GetSetting(ctx, "inventory_api_url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://b/api", value)

	_, _, err = repo.GetSetting(ctx, "broken")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSettingsRepository(t *testing.T) {
	mockDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	repo := CreatePostgresSettingsRepository(sqlx.NewDb(mockDB, "postgres"))
	ctx := context.Background()

	label := []string{"key", "value", "updated_at"}
	dbMock.ExpectQuery("SELECT key, value, updated_at FROM settings WHERE key = .*").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(label))
	dbMock.ExpectExec("INSERT INTO settings.*ON CONFLICT \\(key\\) DO UPDATE.*").
		WithArgs("inventory_api_url", "http://b/api", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectQuery("SELECT key, value, updated_at FROM settings WHERE key = .*").
		WithArgs("inventory_api_url").
		WillReturnRows(sqlmock.NewRows(label).AddRow("inventory_api_url", "http://b/api", time.Now()))
	dbMock.ExpectClose()

	_, ok, err := repo.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveSetting(ctx, "inventory_api_url", "http://b/api"))

	value, ok, err := repo.GetSetting(ctx, "inventory_api_url")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://b/api", value)

	require.NoError(t, repo.Close())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
