package main

import (
	"context"
	"fmt"

	"gadgetbot/internal/config"
	"gadgetbot/internal/graph"
	"gadgetbot/internal/handler"
	"gadgetbot/internal/logging"
	"gadgetbot/internal/observability"
	"gadgetbot/internal/repository"
	"gadgetbot/internal/service"

	"go.uber.org/zap"
)

var _ service.ListingQuerier = (*repository.PostgresRepository)(nil)
var _ service.DeviceSource = (*graph.Store)(nil)
var _ handler.GraphInfo = (*graph.Store)(nil)

// app holds the process-wide resources, opened once at startup
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	graph   *graph.Store
	repo    *repository.PostgresRepository
	metrics *observability.Collector
	chat    *service.ChatService
}

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}

// bootstrap loads the knowledge graph, opens the listings pool and wires
// the pipeline. A graph that fails to load leaves the service up with the
// graph marked unavailable.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewCollector("gadgetbot"),
	}

	store, err := graph.Load(cfg.Graph.Path)
	if err != nil {
		logger.Error("❌ knowledge base not loaded", zap.String("path", cfg.Graph.Path), zap.Error(err))
	} else {
		a.graph = store
		logger.Info("✅ knowledge base loaded",
			zap.String("path", cfg.Graph.Path),
			zap.Int("triples", store.Triples()),
			zap.String("status", store.Status()),
		)
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.Table,
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
		logger,
	)
	if err != nil {
		logger.Warn("market database disabled", zap.Error(err))
	} else {
		a.repo = repo
	}

	generator, err := service.NewGenerator(ctx, cfg.Generator, cfg.Breaker, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build generator: %w", err)
	}

	var devices service.DeviceSource
	if a.graph != nil {
		devices = a.graph
	}
	var listings service.ListingQuerier
	if a.repo != nil {
		listings = a.repo
	}

	a.chat = service.NewChatService(
		service.NewSpecCatalog(devices),
		service.NewMarketIndex(listings, cfg.Pipeline.MarketRowCap, logger, a.metrics),
		service.NewPromptAssembler(cfg.Pipeline.MaxPromptFacts),
		generator,
		logger,
		a.metrics,
	)

	return a, nil
}

// graphInfo returns the graph for health reporting, nil when not loaded
func (a *app) graphInfo() handler.GraphInfo {
	if a.graph == nil {
		return nil
	}
	return a.graph
}

// Close releases the listings pool and flushes the logger
func (a *app) Close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Warn("failed to close market database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
