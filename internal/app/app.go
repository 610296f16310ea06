// Package app wires the pipeline collaborators from configuration. Every
// entry point (HTTP server, Slack bot, Temporal worker) shares this
// construction so they cannot drift apart.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tinkerloft/opsdesk/internal/classify"
	"github.com/tinkerloft/opsdesk/internal/config"
	"github.com/tinkerloft/opsdesk/internal/knowledge"
	"github.com/tinkerloft/opsdesk/internal/metrics"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
	"github.com/tinkerloft/opsdesk/internal/pipeline"
	"github.com/tinkerloft/opsdesk/internal/resolve"
	"github.com/tinkerloft/opsdesk/internal/router"
	"github.com/tinkerloft/opsdesk/internal/ticket"
)

// App holds the constructed collaborators for one process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Index      *knowledge.Index
	Store      knowledge.Store
	Resolver   *resolve.Resolver
	Classifier classify.Classifier
	Router     *router.Router
	Ticketer   ticket.Ticketer
	Outcomes   *outcome.Store
	Supervisor *pipeline.Supervisor
}

// Build constructs the full pipeline from configuration. The knowledge base
// is loaded and embedded before returning, so a process never serves traffic
// with an empty index by accident.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.Register(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	embedder, err := knowledge.NewOllamaEmbedder(cfg.Embedding.Host, cfg.Embedding.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	index := knowledge.NewIndex(embedder)
	entries, err := LoadEntries(cfg)
	if err != nil {
		return nil, err
	}
	if err := index.Load(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to index knowledge base: %w", err)
	}
	logger.Info("knowledge base loaded", "entries", index.Count())

	store := knowledge.NewCached(index, cfg.Knowledge.CacheSize, cfg.Knowledge.CacheTTL).
		WithObserver(m.CacheObserver())

	resolver := resolve.New(store, cfg.Resolve)
	classifier := classify.NewClaudeClassifier(cfg.Classify.Model)
	rt := router.New(cfg.Routing)

	// Escalation must always be possible, so ticketing is not optional.
	if cfg.Ticket.Owner == "" || cfg.Ticket.Repo == "" {
		return nil, fmt.Errorf("ticket.owner and ticket.repo must be configured")
	}
	token := os.Getenv(config.EnvGitHubToken)
	if token == "" {
		return nil, fmt.Errorf("%s is required for filing tickets", config.EnvGitHubToken)
	}
	ticketer, err := ticket.NewGitHubTicketer(ctx, token, cfg.Ticket.Owner, cfg.Ticket.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticketer: %w", err)
	}

	outcomes, err := outcome.NewStore(cfg.Outcome.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open outcome store: %w", err)
	}

	supervisor := pipeline.New(classifier, resolver, rt, ticketer, outcomes,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Metrics:    m,
		Index:      index,
		Store:      store,
		Resolver:   resolver,
		Classifier: classifier,
		Router:     rt,
		Ticketer:   ticketer,
		Outcomes:   outcomes,
		Supervisor: supervisor,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.Outcomes != nil {
		return a.Outcomes.Close()
	}
	return nil
}

// LoadEntries reads knowledge entries from the configured file and/or
// directory sources.
func LoadEntries(cfg *config.Config) ([]model.KnowledgeEntry, error) {
	var entries []model.KnowledgeEntry

	if cfg.Knowledge.Path != "" {
		fromFile, err := knowledge.LoadFile(cfg.Knowledge.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge file: %w", err)
		}
		entries = append(entries, fromFile...)
	}

	if cfg.Knowledge.Dir != "" {
		fromDir, err := knowledge.LoadDir(cfg.Knowledge.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge dir: %w", err)
		}
		entries = append(entries, fromDir...)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no knowledge entries configured (set knowledge.path or knowledge.dir)")
	}

	return entries, nil
}
