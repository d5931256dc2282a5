package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/api"
	"github.com/wms-platform/warehouse-ops/internal/api/contract"
	"github.com/wms-platform/warehouse-ops/internal/api/handlers"
	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/bootstrap"
	"github.com/wms-platform/warehouse-ops/internal/config"
	"github.com/wms-platform/warehouse-ops/internal/fixtures"
	"github.com/wms-platform/warehouse-ops/internal/workflows"
	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/idempotency"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
	"github.com/wms-platform/warehouse-ops/pkg/temporal"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.DefaultConfig("warehouse-ops")).WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	logConfig := logging.DefaultConfig(cfg.ServiceName)
	logConfig.Level = cfg.LogLevel
	logConfig.Environment = cfg.Environment
	logConfig.Version = version
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting warehouse-ops API", "storage", cfg.StorageDriver, "auth", cfg.AuthEnabled)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("API stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Tracing.ServiceVersion = version
	tracerProvider, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider.Exporting() {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", cfg.Tracing.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(cfg.ServiceName))
	middleware.InitValidator()

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to close storage")
		}
	}()

	if cfg.SeedFixtures {
		if _, err := fixtures.Seed(ctx, storage.FixtureStores(), fixtures.NewBuilder(time.Now()), logger); err != nil {
			return err
		}
	}

	queryCache, cacheCloser := bootstrap.NewQueryCache(ctx, cfg, logger, m)
	if cacheCloser != nil {
		defer cacheCloser.Close()
	}

	if cfg.KafkaEnabled {
		events, err := contract.NewEventValidator()
		if err != nil {
			return err
		}
		publisher, err := bootstrap.StartPublisher(ctx, cfg, storage.Outbox, events, logger, m)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Stop(); err != nil {
				logger.WithError(err).Error("Failed to stop outbox publisher")
			}
		}()
	}

	var orchestrator application.PickingOrchestrator
	if cfg.TemporalEnabled {
		temporalClient, err := temporal.NewClient(cfg.Temporal, logger, m)
		if err != nil {
			return err
		}
		defer temporalClient.Close()
		orchestrator = workflows.NewOrchestrator(temporalClient)
		logger.Info("Connected to Temporal", "hostPort", cfg.Temporal.HostPort)
	}

	tokens := auth.NewTokenService(cfg.Auth)

	picking := application.NewPickingApplicationService(storage.PickTasks, storage.Orders, queryCache, orchestrator,
		application.PickingConfig{ScanSimulation: cfg.ScanSimulation}, logger, m)
	packing := application.NewPackingApplicationService(storage.PackTasks, storage.PickTasks, queryCache, logger, m)
	orders := application.NewOrderApplicationService(storage.Orders, queryCache, orchestrator, logger, m)
	returns := application.NewReturnApplicationService(storage.Returns, storage.Orders, storage.Transactor, queryCache, logger, m)
	counts := application.NewCycleCountApplicationService(storage.CycleCounts, queryCache, logger, m)
	accounts := application.NewAuthApplicationService(storage.Users, tokens, logger)
	settings := application.NewSettingsApplicationService(storage.Settings, nil, logger)
	dashboards := application.NewDashboardApplicationService(storage.Dashboard, logger)

	routerConfig := api.RouterConfig{
		ServiceName: cfg.ServiceName,
		Logger:      logger,
		Metrics:     m,
		Tracing:     cfg.Tracing.Enabled,
		CORSOrigins: cfg.CORSOrigins,
		Idempotency: idempotency.NewOptions(cfg.ServiceName, storage.Keys, logger),
		Ready: func() error {
			readyCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return storage.Ready(readyCtx)
		},
	}
	if cfg.AuthEnabled {
		routerConfig.TokenValidator = tokens
	}
	if cfg.OpenAPIValidation {
		requests, err := contract.NewRequestValidator()
		if err != nil {
			return err
		}
		routerConfig.RequestValidator = requests
	}

	router := api.NewRouter(routerConfig, api.Handlers{
		Picking:     handlers.NewPickingHandlers(picking, logger),
		Packing:     handlers.NewPackingHandlers(packing, logger),
		Orders:      handlers.NewOrderHandlers(orders, returns, logger),
		CycleCounts: handlers.NewCycleCountHandlers(counts, logger),
		Accounts:    handlers.NewAccountHandlers(accounts, settings, logger),
		Dashboards:  handlers.NewDashboardHandlers(dashboards, logger),
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
	return nil
}
