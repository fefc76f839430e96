package cli

import (
	"fmt"
	"strconv"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func historyCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Recent scans",
	}
	cmd.AddCommand(historyListCmd(env), historyShowCmd(env), historyClearCmd(env))
	return cmd
}

func historyListCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				entries := view.NewHistory(a.History.List())
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recent scans.")
					return nil
				}
				for i, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s  %s  %s\n",
						i+1,
						e.Time.Local().Format("2006-01-02 15:04"),
						badgeStyle(e.Badge.Tone).Render(e.Badge.Label),
						e.ProductName,
						mutedStyle.Render(e.ID),
					)
					fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", e.LocationDescription)
				}
				return nil
			})
		},
	}
}

func historyShowCmd(env *environment) *cobra.Command {
	var focus int

	cmd := &cobra.Command{
		Use:   "show <id|number>",
		Short: "Show a past result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				item, err := findHistory(a, args[0])
				if err != nil {
					return err
				}

				a.Session.LoadHistory(item)
				if focus != domain.PrimaryItemIndex {
					if err := a.Session.SelectItem(focus); err != nil {
						return err
					}
				}

				snap := a.Session.Snapshot()
				result, err := view.NewResult(snap.Result, snap.SelectedIndex, snap.HasImage)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderResult(result, a.Prefs.Theme()))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&focus, "focus", domain.PrimaryItemIndex, "show a supplementary item by index")
	return cmd
}

// findHistory accepts an entry id or its 1-based position in the list
func findHistory(a *app.App, ref string) (domain.ScanHistoryItem, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		items := a.History.List()
		if n < 1 || n > len(items) {
			return domain.ScanHistoryItem{}, fmt.Errorf("%w: no scan number %d", domain.ErrNotFound, n)
		}
		return items[n-1], nil
	}
	return a.History.Get(ref)
}

func historyClearCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recent scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd, true, func(a *app.App, _ *config.Config, _ *zap.Logger) error {
				if err := a.History.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			})
		},
	}
}
