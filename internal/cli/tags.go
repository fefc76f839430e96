package cli

import (
	"fmt"
	"strings"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func tagsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Dietary tags applied to every scan",
	}
	cmd.AddCommand(tagsListCmd(env), tagsToggleCmd(env), tagsCatalogCmd(env))
	return cmd
}

func tagsListCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show active dietary tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				printTags(cmd, a.Prefs.Tags())
				return nil
			})
		},
	}
}

func tagsToggleCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <tag>...",
		Short: "Add or remove dietary tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				var tags []string
				for _, tag := range args {
					updated, err := a.Prefs.ToggleTag(cmd.Context(), tag)
					if err != nil {
						return err
					}
					tags = updated
				}
				printTags(cmd, tags)
				return nil
			})
		},
	}
}

func tagsCatalogCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show every offered dietary tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				settings := view.NewSettings(a.Prefs.Theme(), a.Prefs.Tags(), 0)
				for _, group := range settings.Tags {
					fmt.Fprintln(cmd.OutOrStdout(), headingStyle.Render(group.Name))
					var opts []string
					for _, opt := range group.Options {
						if opt.Selected {
							opts = append(opts, selectedStyle.Render("["+opt.Tag+"]"))
						} else {
							opts = append(opts, opt.Tag)
						}
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", strings.Join(opts, ", "))
				}
				if len(settings.CustomTags) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), headingStyle.Render("Custom"))
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", strings.Join(settings.CustomTags, ", "))
				}
				return nil
			})
		},
	}
}

func printTags(cmd *cobra.Command, tags []string) {
	if len(tags) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dietary tags set.")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags, ", "))
}
