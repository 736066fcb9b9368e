package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "settings:"

type RedisSettingsRepository struct {
	client *redis.Client
}

func CreateRedisSettingsRepository(client *redis.Client) SettingsRepository {
	return &RedisSettingsRepository{
		client: client,
	}
}

func (r *RedisSettingsRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "RedisGetSetting").Msg("")
		return "", false, err
	}

	return value, true, nil
}

// SaveSetting stores value without expiry.
func (r *RedisSettingsRepository) SaveSetting(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		log.Error().Err(err).Str("component", "RedisSaveSetting").Msg("")
		return err
	}

	return nil
}

func (r *RedisSettingsRepository) Close() error {
	return r.client.Close()
}
