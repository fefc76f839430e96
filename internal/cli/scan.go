package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/app"
	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func scanCmd(env *environment) *cobra.Command {
	var (
		query string
		tags  []string
		focus int
	)

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Analyze a shelf photo and show the best match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			return env.run(cmd, false, func(a *app.App, cfg *config.Config, log *zap.Logger) error {
				s := a.Session
				if err := s.SetImage(image); err != nil {
					return userError(err)
				}
				if err := s.SetQuery(query); err != nil {
					return userError(err)
				}
				if cmd.Flags().Changed("tag") {
					if err := s.SetTags(tags); err != nil {
						return userError(err)
					}
				}

				if _, err := s.Submit(cmd.Context()); err != nil {
					log.Debug("scan failed", zap.Error(err))
					return userError(err)
				}

				if focus != domain.PrimaryItemIndex {
					if err := s.SelectItem(focus); err != nil {
						return err
					}
				}

				snap := s.Snapshot()
				result, err := view.NewResult(snap.Result, snap.SelectedIndex, snap.HasImage)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderResult(result, a.Prefs.Theme()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "what you are looking for")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "dietary tag for this scan only (repeatable, overrides saved tags)")
	cmd.Flags().IntVar(&focus, "focus", domain.PrimaryItemIndex, "show a supplementary item by index instead of the main result")
	return cmd
}

// userError replaces errors with the message shown to the user
func userError(err error) error {
	if errors.Is(err, domain.ErrValidation) || domain.IsRemoteFailure(err) {
		return errors.New(domain.UserMessage(err))
	}
	return err
}
