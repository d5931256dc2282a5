package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"go.temporal.io/sdk/workflow"
	"golang.org/x/sync/errgroup"

	"github.com/wms-platform/warehouse-ops/internal/activities"
	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/bootstrap"
	"github.com/wms-platform/warehouse-ops/internal/config"
	"github.com/wms-platform/warehouse-ops/internal/jobs"
	"github.com/wms-platform/warehouse-ops/internal/workflows"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/temporal"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.DefaultConfig("warehouse-ops-worker")).WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	logConfig := logging.DefaultConfig(cfg.ServiceName + "-worker")
	logConfig.Level = cfg.LogLevel
	logConfig.Environment = cfg.Environment
	logConfig.Version = version
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting warehouse-ops worker", "temporal", cfg.TemporalEnabled)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Worker stopped with error")
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(metrics.DefaultConfig(cfg.ServiceName + "-worker"))

	cfg.Tracing.ServiceName = cfg.ServiceName + "-worker"
	cfg.Tracing.ServiceVersion = version
	tracerProvider, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logger.WithError(err).Warn("Tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
			defer cancel()
			_ = tracerProvider.Shutdown(shutdownCtx)
		}()
	}

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to close storage")
		}
	}()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	jobsConfig := jobs.DefaultConfig()
	jobsConfig.OutboxRetention = cfg.OutboxRetention
	runner := jobs.NewRunner(jobsConfig, storage.Outbox, storage.Keys, storage.PickTasks, logger, m)
	if err := runner.Schedule(ctx, scheduler); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		logger.Info("Scheduler started", "jobs", len(scheduler.Jobs()))
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if cfg.TemporalEnabled {
		temporalClient, err := temporal.NewClient(cfg.Temporal, logger, m)
		if err != nil {
			return err
		}
		defer temporalClient.Close()
		logger.Info("Connected to Temporal", "hostPort", cfg.Temporal.HostPort)

		queryCache, cacheCloser := bootstrap.NewQueryCache(ctx, cfg, logger, m)
		if cacheCloser != nil {
			defer cacheCloser.Close()
		}
		picking := application.NewPickingApplicationService(storage.PickTasks, storage.Orders, queryCache, nil,
			application.PickingConfig{ScanSimulation: cfg.ScanSimulation}, logger, m)
		packing := application.NewPackingApplicationService(storage.PackTasks, storage.PickTasks, queryCache, logger, m)

		w := temporalClient.NewWorker(temporal.DefaultWorkerOptions(temporal.TaskQueues.Picking))
		w.RegisterWorkflowWithOptions(workflows.PickingWorkflow, workflow.RegisterOptions{Name: temporal.WorkflowNames.Picking})
		w.RegisterActivity(activities.NewPickingActivities(picking, packing, m))
		logger.Info("Registered workflow and activities", "workflow", temporal.WorkflowNames.Picking)

		g.Go(func() error {
			interrupt := make(chan interface{})
			go func() {
				<-ctx.Done()
				close(interrupt)
			}()
			logger.Info("Temporal worker started", "taskQueue", temporal.TaskQueues.Picking)
			return w.Run(interrupt)
		})
	}

	return g.Wait()
}
