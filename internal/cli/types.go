package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
)

func newTypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "type",
		Aliases: []string{"types"},
		Short:   "Manage entry types",
	}
	cmd.AddCommand(newTypeAddCmd(a))
	cmd.AddCommand(newTypeListCmd(a))
	cmd.AddCommand(newTypeRenameCmd(a))
	cmd.AddCommand(newTypeRemoveCmd(a))
	return cmd
}

func newTypeAddCmd(a *app) *cobra.Command {
	var (
		routine string
		points  float64
		step    float64
		colors  []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an entry type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := parseColors(colors)
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}

			t, err := a.types.Create(cmd.Context(), services.CreateEntryTypeInput{
				UserID:        storage.LocalUserID,
				Title:         strings.Join(args, " "),
				Routine:       routine,
				DefaultPoints: domain.Points(points),
				PointStep:     domain.Points(step),
				ThemeColors:   theme,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Added %s (%s, %s)", t.Title, t.ID, t.Routine)))
			return nil
		},
	}

	cmd.Flags().StringVar(&routine, "routine", "daily", "daily, weekly, monthly or adhoc")
	cmd.Flags().Float64Var(&points, "points", 1, "points given to a new entry")
	cmd.Flags().Float64Var(&step, "step", 1, "increment used when adjusting points")
	cmd.Flags().StringSliceVar(&colors, "colors", nil, "two theme colors, e.g. #2E7D32,#A5D6A7")
	return cmd
}

func parseColors(colors []string) ([2]string, error) {
	var theme [2]string
	switch len(colors) {
	case 0:
	case 2:
		theme[0], theme[1] = colors[0], colors[1]
	default:
		return theme, fmt.Errorf("--colors takes exactly two values, got %d", len(colors))
	}
	return theme, nil
}

func newTypeListCmd(a *app) *cobra.Command {
	var ranked bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entry types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			types, err := a.types.List(cmd.Context(), storage.LocalUserID, ranked)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTypes(types))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ranked, "ranked", false, "order by number of logged entries")
	return cmd
}

func newTypeRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new title>",
		Short: "Rename an entry type; its entries follow the new id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			t, err := a.types.Update(cmd.Context(), services.UpdateEntryTypeInput{
				ID:     args[0],
				UserID: storage.LocalUserID,
				Title:  strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Renamed %s to %s (%s)", args[0], t.Title, t.ID)))
			return nil
		},
	}
}

func newTypeRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete an entry type and all of its entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			if err := a.types.Delete(cmd.Context(), storage.LocalUserID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+args[0]))
			return nil
		},
	}
}
