// Package app wires configuration into the services shared by the server
// and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/ix-ath/shelf-sense/internal/infrastructure/gemini"
	"github.com/ix-ath/shelf-sense/internal/infrastructure/kvstore"
	"github.com/ix-ath/shelf-sense/internal/usecase"
	"go.uber.org/zap"
)

// App holds the long-lived services
type App struct {
	Store   kvstore.Store
	History *usecase.HistoryService
	Prefs   *usecase.PreferenceService
	Session *usecase.ScanSession

	logger *zap.Logger
}

// New opens storage, restores history and preferences, and builds a session
// around analyzer. A nil analyzer uses the Gemini client from cfg.
func New(ctx context.Context, cfg *config.Config, analyzer domain.Analyzer, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := kvstore.Open(ctx, kvstore.Options{
		Type:     cfg.Storage.Type,
		Path:     cfg.Storage.Path,
		RedisURL: cfg.Storage.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Type, err)
	}

	history := usecase.NewHistoryService(store, usecase.HistoryServiceConfig{}, logger)
	prefs := usecase.NewPreferenceService(store, usecase.NewTagMatcher(usecase.TagMatcherConfig{}), logger)

	restored := history.Load(ctx)
	prefs.Load(ctx)

	if analyzer == nil {
		analyzer = NewAnalyzer(cfg, logger)
	}

	logger.Info("storage ready",
		zap.String("type", cfg.Storage.Type),
		zap.Int("history", len(restored)),
		zap.Strings("tags", prefs.Tags()),
		zap.String("theme", string(prefs.Theme().ID)),
	)

	return &App{
		Store:   store,
		History: history,
		Prefs:   prefs,
		Session: usecase.NewScanSession(analyzer, history, prefs, logger),
		logger:  logger,
	}, nil
}

// NewAnalyzer builds the Gemini analysis client from cfg
func NewAnalyzer(cfg *config.Config, logger *zap.Logger) *gemini.Client {
	return gemini.NewClient(gemini.ClientConfig{
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		Temperature:       float32(cfg.Gemini.Temperature),
		SearchGrounding:   cfg.Gemini.SearchGrounding,
		Timeout:           cfg.Gemini.Timeout,
		RequestsPerMinute: cfg.RateLimit.AnalysisPerMinute,
		Burst:             cfg.RateLimit.Burst,
	}, logger)
}

// Close releases storage
func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
