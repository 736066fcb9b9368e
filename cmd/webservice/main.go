package main

import (
	"context"
	"os"
	"time"

	_ "time/tzdata"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/app"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/monitor"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Logger = logger

	config := config.CreateNewConfig()

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	settings, err := app.OpenSettingsRepository(config.StorageConfig)
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.StorageConfig.Driver).Msg("Failed to open settings storage")
	}

	application := &app.App{
		Config:   config,
		Settings: settings,
	}

	var producer *kafka.Producer
	if config.KafkaConfig.BrokerAddress != "" {
		producer = kafka.CreateKafkaProducer(config)
		application.Publisher = producer
	}

	notifiers := monitor.MultiNotifier{monitor.LogNotifier{}}
	if config.SMTPConfig.Host != "" && config.SMTPConfig.AlertRecipient != "" {
		notifiers = append(notifiers, monitor.CreateEmailNotifier(utils.SMTPConfig{
			Host:     config.SMTPConfig.Host,
			Port:     config.SMTPConfig.Port,
			Username: config.SMTPConfig.Username,
			Password: config.SMTPConfig.Password,
		}, config.SMTPConfig.Sender, config.SMTPConfig.AlertRecipient))
	}
	application.Notifier = notifiers

	if err := application.Build(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to build application")
	}

	go func() {
		if err := application.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	operations := map[string]gfshutdown.Operation{
		"http-server": application.StopServer,
		"scheduler":   application.StopScheduler,
		"tracing":     application.StopTracing,
		"settings": func(ctx context.Context) error {
			return settings.Close()
		},
	}
	if producer != nil {
		operations["kafka-producer"] = func(ctx context.Context) error {
			if err := application.StopEvents(ctx); err != nil {
				log.Warn().Err(err).Msg("product events were not all published")
			}
			return producer.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, operations)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("inventory dashboard stopped")
	os.Exit(exitCode)
}
