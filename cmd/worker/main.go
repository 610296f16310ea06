// Package main is the Temporal worker entry point.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	temporalactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/tinkerloft/opsdesk/internal/activity"
	"github.com/tinkerloft/opsdesk/internal/app"
	internalclient "github.com/tinkerloft/opsdesk/internal/client"
	"github.com/tinkerloft/opsdesk/internal/config"
	"github.com/tinkerloft/opsdesk/internal/logging"
	"github.com/tinkerloft/opsdesk/internal/metrics"
	"github.com/tinkerloft/opsdesk/internal/workflow"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	// Validate configuration at startup
	configMode := activity.ConfigModeWarn
	if os.Getenv("REQUIRE_CONFIG") == "true" {
		configMode = activity.ConfigModeRequire
	}
	if err := activity.CheckConfig(configMode); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	cfg := config.Default()
	if path := os.Getenv("OPSDESK_CONFIG"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if addr := os.Getenv("TEMPORAL_ADDRESS"); addr != "" {
		cfg.Temporal.HostPort = addr
	}

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	defer a.Close()

	c, err := internalclient.Dial(internalclient.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logging.NewSlogAdapter(logger),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()

	logger.Info("connected to Temporal",
		"address", cfg.Temporal.HostPort, "task_queue", internalclient.TaskQueue)

	// Expose Prometheus metrics alongside the worker
	metricsAddr := os.Getenv("OPSDESK_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Error("metrics listener failed", "err", err)
		}
	}()

	activities := &activity.InquiryActivities{
		Classifier: a.Classifier,
		Resolver:   a.Resolver,
		Router:     a.Router,
		Ticketer:   a.Ticketer,
		Recorder:   a.Outcomes,
	}

	w := worker.New(c, internalclient.TaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{metrics.NewInterceptor(a.Metrics)},
	})

	w.RegisterWorkflow(workflow.Inquiry)

	// Register activities with explicit names to match workflow constants
	w.RegisterActivityWithOptions(activities.Classify, temporalactivity.RegisterOptions{Name: activity.ActivityClassify})
	w.RegisterActivityWithOptions(activities.SearchKnowledge, temporalactivity.RegisterOptions{Name: activity.ActivitySearchKnowledge})
	w.RegisterActivityWithOptions(activities.RouteTeam, temporalactivity.RegisterOptions{Name: activity.ActivityRouteTeam})
	w.RegisterActivityWithOptions(activities.CreateTicket, temporalactivity.RegisterOptions{Name: activity.ActivityCreateTicket})
	w.RegisterActivityWithOptions(activities.RecordOutcome, temporalactivity.RegisterOptions{Name: activity.ActivityRecordOutcome})

	logger.Info("worker started")

	// Run worker - Temporal's InterruptCh handles graceful shutdown
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}

	logger.Info("worker stopped")
}
