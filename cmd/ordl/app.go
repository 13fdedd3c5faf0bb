package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"svw.info/ordl/internal/clock"
	"svw.info/ordl/internal/config"
	"svw.info/ordl/internal/corpus"
	"svw.info/ordl/internal/infrastructure/storage"
	"svw.info/ordl/internal/logging"
	"svw.info/ordl/internal/ports"
	"svw.info/ordl/internal/progress"
	"svw.info/ordl/internal/selector"
	"svw.info/ordl/internal/usecase"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer ports.Closer
}

func loadApp(configPath, logLevel, storageBackend, storagePath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if storageBackend != "" {
		cfg.Storage.Backend = storageBackend
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)}, nil
}

// service wires corpus, clock, storage and progress into a game service.
func (a *app) service(ctx context.Context, m ports.Metrics) (*usecase.Service, error) {
	c, err := corpus.Open(a.cfg.Corpus.Path)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	kv, closer, err := storage.Open(ctx, a.cfg.Storage.Backend, a.cfg.Storage.Path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", a.cfg.Storage.Backend, err)
	}
	a.closer = closer

	clk := clock.New(a.cfg.LaunchDate(), a.cfg.Puzzle.RolloverHour)
	sel := selector.New(c, a.cfg.Puzzle.ShuffleConstant)
	st := progress.New(kv, clk, a.logger)
	a.logger.Debug("service ready",
		"events", c.Len(),
		"puzzles", sel.TotalPuzzles(),
		"storage", a.cfg.Storage.Backend,
		"launch", a.cfg.Puzzle.Launch,
	)
	return usecase.NewService(clk, sel, st, m, a.logger), nil
}

func (a *app) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
