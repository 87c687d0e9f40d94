package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxquotes/aggregate"
	"github.com/sig-0/fxquotes/cache"
	"github.com/sig-0/fxquotes/ingest"
	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/provider/regions"
	"github.com/sig-0/fxquotes/server"
	"github.com/sig-0/fxquotes/server/config"
	"github.com/sig-0/fxquotes/storage"
	"github.com/sig-0/fxquotes/storage/types"
)

// setup reads the server configuration (if any) and creates the logger
func (c *serveCfg) setup() (*slog.Logger, error) {
	// Read the server configuration, if any
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	logger, err := newLogger(os.Stdout, c.logLevel, c.logFormat)
	if err != nil {
		return nil, fmt.Errorf("unable to create logger, %w", err)
	}

	return logger, nil
}

// run wires the quote pipeline over the given store, and serves it
// until the context is canceled [BLOCKING]
func (c *serveCfg) run(ctx context.Context, logger *slog.Logger, store storage.Storage) error {
	region, err := regions.Parse(c.region)
	if err != nil {
		return fmt.Errorf("unable to parse region, %w", err)
	}

	metrics.Init()

	// Create the region extractors
	extractors, err := regions.Extractors(
		region,
		provider.WithLogger(logger.With("component", "extractor")),
		provider.WithTimeout(c.fetchTimeout),
	)
	if err != nil {
		return fmt.Errorf("unable to create extractors, %w", err)
	}

	table := map[types.Region][]aggregate.Extractor{
		region: make([]aggregate.Extractor, 0, len(extractors)),
	}

	for _, e := range extractors {
		table[region] = append(table[region], e)
	}

	aggregator := aggregate.New(
		table,
		aggregate.WithLogger(logger.With("component", "aggregator")),
	)

	// Create the snapshot cache
	manager := cache.New(
		region,
		aggregator,
		store,
		cache.WithLogger(logger.With("component", "cache")),
		cache.WithRefreshInterval(c.refreshInterval),
		cache.WithStaleAfter(c.staleAfter),
		cache.WithHistoryKeep(c.historyKeep),
	)

	// Create the refresh scheduler
	orchestrator := ingest.New(ingest.WithLogger(logger.With("component", "ingest")))
	if err = orchestrator.Register(manager); err != nil {
		return fmt.Errorf("unable to register refresh job: %w", err)
	}

	// Create the server instance
	s, err := server.New(
		manager,
		store,
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	s.Routes(func(router chi.Router) {
		router.Handle("/metrics", metrics.Handler())
	})

	logger.Info(
		"starting quote service",
		"region", region.String(),
		"sources", len(extractors),
		"refresh_interval", c.refreshInterval.String(),
	)

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the refresh scheduler
	group.Go(func() error {
		return orchestrator.Start(gCtx)
	})

	err = group.Wait()

	// Let pending history writes finish
	manager.Wait()

	return err
}
