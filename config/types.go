package config

import "time"

type APIConfig struct {
	BaseURL            string
	Timeout            time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
	BreakerOpenTimeout time.Duration
	LowStockThreshold  int
}

type StorageConfig struct {
	Driver           string
	SQLitePath       string
	RedisConfig      RedisConfig
	PostgreSQLConfig PostgreSQLConfig
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUsername string
	DBPassword string
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
}

type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Sender         string
	AlertRecipient string
}

type JobConfig struct {
	AlertPollInterval       time.Duration
	ConnectionProbeInterval time.Duration
}
