package repository

import "context"

// SettingsRepository stores single string values under a key.
type SettingsRepository interface {
	// GetSetting reports false when nothing has been stored under key.
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SaveSetting(ctx context.Context, key, value string) error
	Close() error
}
