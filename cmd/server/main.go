package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	httpDelivery "github.com/ix-ath/shelf-sense/internal/delivery/http"
	"github.com/ix-ath/shelf-sense/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shelfsense server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Production: cfg.Server.IsProduction(),
		Console:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ShelfSense",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("search_grounding", cfg.Gemini.SearchGrounding),
		zap.String("storage", cfg.Storage.Type),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}()

	handler := httpDelivery.NewHandler(a.Session, a.History, a.Prefs, log)
	return httpDelivery.Serve(ctx, cfg, handler, log)
}
