package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ix-ath/shelf-sense/config"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the API until ctx is cancelled, then shuts down gracefully
func Serve(ctx context.Context, cfg *config.Config, handler *Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           SetupRouter(cfg, handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
