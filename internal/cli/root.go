// Package cli is the shelfsense command line: one-shot scans plus history,
// dietary tag and theme management against the same storage the server uses.
package cli

import (
	"context"
	"fmt"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	"github.com/ix-ath/shelf-sense/internal/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Opener builds the services a command needs. offline commands never call
// the analysis service and do not require an API key.
type Opener func(ctx context.Context, configFile string, offline bool) (*app.App, *config.Config, *zap.Logger, error)

// NewRoot builds the command tree around open
func NewRoot(open Opener) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "shelfsense",
		Short:        "Find the right product on a store shelf from a photo",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches ., ./config, $HOME/.shelfsense)")

	env := &environment{open: open, configFile: &configFile}

	root.AddCommand(
		scanCmd(env),
		historyCmd(env),
		tagsCmd(env),
		themeCmd(env),
		serveCmd(env),
	)
	return root
}

// environment lazily opens the app for a command and closes it afterwards
type environment struct {
	open       Opener
	configFile *string
}

func (e *environment) run(cmd *cobra.Command, offline bool, fn func(a *app.App, cfg *config.Config, log *zap.Logger) error) error {
	a, cfg, log, err := e.open(cmd.Context(), *e.configFile, offline)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
		_ = log.Sync()
	}()
	return fn(a, cfg, log)
}

// OpenApp loads configuration and opens storage. CLI logs go to the log file
// only so stdout carries nothing but command output.
func OpenApp(ctx context.Context, configFile string, offline bool) (*app.App, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWith(config.LoadOptions{File: configFile, Offline: offline})
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Production: cfg.Server.IsProduction(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a, err := app.New(ctx, cfg, nil, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, cfg, log, nil
}
