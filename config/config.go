package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServicePort     string
	MetricsPort     string
	LogLevel        string
	APIConfig       APIConfig
	DefaultPageSize int
	SettingsKey     string
	StorageConfig   StorageConfig
	KafkaConfig     KafkaConfig
	TracingConfig   TracingConfig
	SMTPConfig      SMTPConfig
	JobConfig       JobConfig
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		APIConfig: APIConfig{
			BaseURL:            getEnv("API_BASE_URL", "http://localhost:5027/api"),
			Timeout:            getEnvMillis("API_TIMEOUT_MS", 10*time.Second),
			RetryAttempts:      getEnvInt("API_RETRY_ATTEMPTS", 3),
			RetryDelay:         getEnvMillis("API_RETRY_DELAY_MS", time.Second),
			BreakerOpenTimeout: getEnvMillis("API_BREAKER_OPEN_TIMEOUT_MS", 30*time.Second),
			LowStockThreshold:  getEnvInt("LOW_STOCK_THRESHOLD", 5),
		},
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
		SettingsKey:     getEnv("SETTINGS_KEY", "inventory_api_url"),
		StorageConfig: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "inventory-dashboard.db"),
			RedisConfig: RedisConfig{
				Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getEnvInt("REDIS_DB", 0),
			},
			PostgreSQLConfig: PostgreSQLConfig{
				DBHost:     os.Getenv("DB_HOST"),
				DBName:     os.Getenv("DB_NAME"),
				DBPort:     os.Getenv("DB_PORT"),
				DBUsername: os.Getenv("DB_USERNAME"),
				DBPassword: os.Getenv("DB_PASSWORD"),
			},
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "inventory-product-events"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		SMTPConfig: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getEnvInt("SMTP_PORT", 587),
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			Sender:         os.Getenv("SMTP_SENDER"),
			AlertRecipient: os.Getenv("ALERT_RECIPIENT"),
		},
		JobConfig: JobConfig{
			AlertPollInterval:       getEnvMillis("ALERT_POLL_INTERVAL_MS", time.Minute),
			ConnectionProbeInterval: getEnvMillis("CONNECTION_PROBE_INTERVAL_MS", 30*time.Second),
		},
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Err(err).Str("component", "CreateNewConfig").Str("key", key).Msg("invalid integer, using default")
		return fallback
	}

	return n
}

func getEnvMillis(key string, fallback time.Duration) time.Duration {
	ms := getEnvInt(key, -1)
	if ms < 0 {
		return fallback
	}

	return time.Duration(ms) * time.Millisecond
}
