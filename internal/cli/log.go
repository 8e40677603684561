package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		date   string
		points float64
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "log <type-id>",
		Short: "Log an entry for an entry type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt := time.Now()
			if date != "" {
				parsed, err := time.ParseInLocation(domain.DateLayout, date, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --date value, expected YYYY-MM-DD: %w", err)
				}
				createdAt = parsed
			}

			input := services.CreateEntryInput{
				EntryTypeID: args[0],
				UserID:      storage.LocalUserID,
				CreatedAt:   createdAt,
				Notes:       notes,
			}
			if cmd.Flags().Changed("points") {
				p := domain.Points(points)
				input.Points = &p
			}

			if err := a.open(); err != nil {
				return err
			}
			entry, err := a.entries.Create(cmd.Context(), input)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Logged %s on %s (%s pts)",
				entry.EntryTypeID, entry.DateKey(a.loc), formatPoints(entry.Points))))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day of the entry (YYYY-MM-DD), defaults to today")
	cmd.Flags().Float64Var(&points, "points", 0, "points of the entry, defaults to the type's points")
	cmd.Flags().StringVar(&notes, "notes", "", "free text attached to the entry")
	return cmd
}
