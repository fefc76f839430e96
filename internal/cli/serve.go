package cli

import (
	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	httpDelivery "github.com/ix-ath/shelf-sense/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local API for the browser UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, false, func(a *app.App, cfg *config.Config, log *zap.Logger) error {
				handler := httpDelivery.NewHandler(a.Session, a.History, a.Prefs, log)
				return httpDelivery.Serve(cmd.Context(), cfg, handler, log)
			})
		},
	}
}
