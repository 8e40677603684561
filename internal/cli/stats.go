package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		granularity string
		today       string
		habit       string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks, rankings and activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := domain.StatsInput{
				UserID:      storage.LocalUserID,
				Granularity: granularity,
				Location:    a.loc,
			}
			if today != "" {
				parsed, err := time.ParseInLocation(domain.DateLayout, today, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --today value, expected YYYY-MM-DD: %w", err)
				}
				input.Today = parsed
			}

			if err := a.open(); err != nil {
				return err
			}

			var (
				result   any
				rendered string
			)
			if habit != "" {
				grid, err := a.stats.GetHabitGrid(cmd.Context(), input, habit)
				if err != nil {
					return err
				}
				result, rendered = grid, renderGrid(grid)
			} else {
				summary, err := a.stats.GetSummary(cmd.Context(), input)
				if err != nil {
					return err
				}
				result, rendered = summary, renderSummary(summary)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVarP(&granularity, "granularity", "g", "day", "chart buckets: day, week or month")
	cmd.Flags().StringVar(&today, "today", "", "reference day (YYYY-MM-DD), defaults to now")
	cmd.Flags().StringVar(&habit, "habit", "", "show the period grid of one entry type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}
