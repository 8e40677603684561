package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage backups stored by the API",
	}
	cmd.AddCommand(newBackupListCmd(a))
	cmd.AddCommand(newBackupUploadCmd(a))
	cmd.AddCommand(newBackupPullCmd(a))
	cmd.AddCommand(newBackupPushCmd(a))
	return cmd
}

func newBackupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List remote backups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			backups, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBackups(backups))
			return nil
		},
	}
}

func newBackupUploadCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload the local diary as a remote backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			data, err := a.snapshot(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				name = domain.DefaultBackupFilename(time.Now())
			}

			backup, err := client.Upload(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Uploaded %s (%s)", backup.Filename, backup.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filename of the backup, defaults to a timestamped one")
	return cmd
}

func newBackupPullCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <id>",
		Short: "Replace the local diary with a remote backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			backup, err := client.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.restore(cmd, backup.Content)
		},
	}
}

func newBackupPushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Ask the API to commit a snapshot to GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			if err := client.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Push queued"))
			return nil
		},
	}
}
