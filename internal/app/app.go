// Package app wires configuration into a logger, a book source and a progress sink.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/api"
	"github.com/tatianab/gamebook/internal/config"
	"github.com/tatianab/gamebook/internal/logger"
	"github.com/tatianab/gamebook/internal/progress"
	"github.com/tatianab/gamebook/internal/source"
)

// App holds the collaborators selected by the configuration.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Source source.Source
	Sink   progress.Sink

	closers []func()
}

// New builds the collaborators for cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: log}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	if err := a.init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("Application initialized",
		zap.String("source", cfg.Source),
		zap.String("progress", cfg.Progress),
	)
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	var client *api.Client
	if cfg.Source == config.SourceHTTP || cfg.Progress == config.ProgressHTTP {
		c, err := api.NewClient(cfg.APIBaseURL, cfg.APIPrefix, cfg.HTTPTimeout, a.Logger)
		if err != nil {
			return err
		}
		client = c
	}

	switch cfg.Source {
	case config.SourceDir:
		a.Source = source.NewDir(cfg.BooksDir, a.Logger)
	case config.SourceHTTP:
		a.Source = source.NewHTTP(client, a.Logger)
	case config.SourceGemini:
		g, err := source.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.BooksDir, a.Logger)
		if err != nil {
			return fmt.Errorf("create gemini source: %w", err)
		}
		a.Source = g
		a.closers = append(a.closers, g.Close)
	default:
		return fmt.Errorf("unknown source %q", cfg.Source)
	}

	switch cfg.Progress {
	case config.ProgressFile:
		a.Sink = progress.NewFileSink(cfg.SaveDir, a.Logger)
	case config.ProgressSQLite:
		s, err := progress.OpenSQLite(cfg.ProgressDB, a.Logger)
		if err != nil {
			return err
		}
		a.Sink = s
		a.closers = append(a.closers, func() { _ = s.Close() })
	case config.ProgressHTTP:
		a.Sink = progress.NewHTTPSink(client, a.Logger)
	default:
		return fmt.Errorf("unknown progress sink %q", cfg.Progress)
	}
	return nil
}

// Close releases the collaborators in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
