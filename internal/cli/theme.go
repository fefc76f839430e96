package cli

import (
	"fmt"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func themeCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Color theme",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the active theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
					t := a.Prefs.Theme()
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", t.Name, t.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <theme>",
			Short: "Change the theme",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
					if err := a.Prefs.SetTheme(cmd.Context(), domain.ThemeID(args[0])); err != nil {
						return err
					}
					t := a.Prefs.Theme()
					fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", themeStyle(t).Render(t.Name))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List available themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
					active := a.Prefs.Theme().ID
					for _, t := range domain.Themes {
						marker := " "
						if t.ID == active {
							marker = "*"
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %s\n", marker, t.ID, themeStyle(t).Render(t.Name))
					}
					return nil
				})
			},
		},
	)
	return cmd
}
