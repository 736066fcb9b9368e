package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/connection"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/controller"
	circuitbreaker "github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/infrastructure/tracing"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/liststate"
	localmiddleware "github.com/alimikegami/point-of-sales/inventory-dashboard/internal/middleware"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/monitor"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/repository"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/service"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/httpclient"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/response"
)

type App struct {
	Config *config.Config
	Server *echo.Echo

	Settings repository.SettingsRepository
	// Publisher is optional; product writes are announced when it is set.
	Publisher service.Publisher
	// Notifier defaults to logging low-stock alerts.
	Notifier monitor.Notifier

	metrics       *echo.Echo
	scheduler     gocron.Scheduler
	traceProvider *sdktrace.TracerProvider
	events        *service.EventPublishingProductService
}

// Build wires every component and registers the routes. Nothing is started.
func (app *App) Build(ctx context.Context) error {
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		return err
	}
	app.traceProvider = traceProvider

	apiConfig := app.Config.APIConfig
	client := httpclient.NewClient(httpclient.Config{
		BaseURL:       apiConfig.BaseURL,
		Timeout:       apiConfig.Timeout,
		RetryAttempts: apiConfig.RetryAttempts,
		RetryDelay:    apiConfig.RetryDelay,
		NewBreaker: func(baseURL string) *gobreaker.CircuitBreaker[*httpclient.Result] {
			return circuitbreaker.CreateCircuitBreaker[*httpclient.Result](baseURL, apiConfig.BreakerOpenTimeout, httpclient.IsBreakerFailure)
		},
	})

	conn, err := connection.New(ctx, client, app.Settings, app.Config.SettingsKey)
	if err != nil {
		return err
	}

	var productSvc service.ProductService = service.CreateProductService(client)
	if app.Publisher != nil {
		app.events = service.CreateEventPublishingProductService(productSvc, app.Publisher)
		productSvc = app.events
	}
	categorySvc := service.CreateCategoryService(client)

	list := liststate.New(productSvc, app.Config.DefaultPageSize)

	notifier := app.Notifier
	if notifier == nil {
		notifier = monitor.LogNotifier{}
	}
	alerts := monitor.CreateAlertMonitor(productSvc, notifier, apiConfig.Timeout*time.Duration(apiConfig.RetryAttempts+1))
	probe := monitor.CreateConnectionProbe(conn, apiConfig.Timeout*time.Duration(apiConfig.RetryAttempts+1))

	app.scheduler, err = monitor.CreateScheduler(app.Config.JobConfig, alerts, probe)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(localmiddleware.Tracing(traceProvider.Tracer(tracing.ServiceName)))

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)

	g := e.Group("/api/v1")
	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "", "pong")
	})

	controller.CreateController(g, productSvc, categorySvc, list, conn, alerts, apiConfig.LowStockThreshold)

	app.Server = e

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())

	return nil
}

// Start runs the scheduler and both servers. It blocks until the API server stops.
func (app *App) Start() error {
	app.scheduler.Start()

	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	log.Info().Str("port", app.Config.ServicePort).Msg("inventory dashboard started")

	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer(ctx context.Context) error {
	return errors.Join(app.Server.Shutdown(ctx), app.metrics.Shutdown(ctx))
}

func (app *App) StopScheduler(ctx context.Context) error {
	return app.scheduler.Shutdown()
}

// StopEvents flushes queued product events. It runs before the publisher is closed.
func (app *App) StopEvents(ctx context.Context) error {
	if app.events == nil {
		return nil
	}

	return app.events.Close(ctx)
}

func (app *App) StopTracing(ctx context.Context) error {
	return app.traceProvider.Shutdown(ctx)
}
