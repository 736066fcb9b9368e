package app

import (
	"fmt"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/cache/redis"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/database/postgres"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/database/sqlite"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/repository"
)

const (
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// OpenSettingsRepository connects the settings store selected by STORAGE_DRIVER.
func OpenSettingsRepository(conf config.StorageConfig) (repository.SettingsRepository, error) {
	switch conf.Driver {
	case StorageSQLite, "":
		db, err := sqlite.Open(conf.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repository.CreateSQLiteSettingsRepository(db), nil
	case StorageRedis:
		client, err := redis.CreateRedisClient(conf.RedisConfig)
		if err != nil {
			return nil, err
		}
		return repository.CreateRedisSettingsRepository(client), nil
	case StoragePostgres:
		db, err := postgres.GetDBInstance(conf.PostgreSQLConfig)
		if err != nil {
			return nil, err
		}
		return repository.CreatePostgresSettingsRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}
