package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the diary to a JSON file (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.snapshot(cmd)
			if err != nil {
				return err
			}

			if args[0] == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Exported to "+args[0]))
			return nil
		},
	}
}

// snapshot encodes the whole local diary.
func (a *app) snapshot(cmd *cobra.Command) ([]byte, error) {
	if err := a.open(); err != nil {
		return nil, err
	}
	snap, err := a.backups.Export(cmd.Context(), storage.LocalUserID)
	if err != nil {
		return nil, err
	}
	return snap.Encode()
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the diary with a JSON export (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return a.restore(cmd, data)
		},
	}
}

// restore replaces the local diary with an encoded snapshot.
func (a *app) restore(cmd *cobra.Command, data []byte) error {
	snap, err := domain.ParseSnapshot(data)
	if err != nil {
		return err
	}
	if err := a.open(); err != nil {
		return err
	}
	result, err := a.backups.Import(cmd.Context(), storage.LocalUserID, snap)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Imported %d entry types and %d entries", result.EntryTypes, result.Entries)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", result.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
	return nil
}
