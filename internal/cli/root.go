// Package cli implements the kanso command line client. It keeps the diary in
// a local SQLite store and talks to the API only for remote backups.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/remote"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-diary/internal/config"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
	"github.com/comitanigiacomo/kanso-diary/internal/keyring"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

type app struct {
	configPath string
	dataDir    string
	apiURL     string
	timezone   string
	verbose    bool

	cfg   *config.Config
	loc   *time.Location
	store *storage.Store

	types   *services.EntryTypeService
	entries *services.EntryService
	stats   *services.StatsService
	backups *services.BackupService
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	a := &app{}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kanso",
		Short:         "A habit diary with streaks and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.load()
		},
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/kanso/config.toml)")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory of the local diary")
	flags.StringVar(&a.apiURL, "api-url", "", "base URL of the kanso API")
	flags.StringVar(&a.timezone, "tz", "", "IANA timezone used to bucket entries by day")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newTypeCmd(a))
	rootCmd.AddCommand(newLogCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newBackupCmd(a))

	return rootCmd
}

// load resolves the configuration with flags taking precedence over the file
// and the environment.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dataDir != "" {
		cfg.Client.DataDir = a.dataDir
	}
	if a.apiURL != "" {
		cfg.Client.APIURL = a.apiURL
	}
	if a.timezone != "" {
		cfg.Client.Timezone = a.timezone
	}

	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, File: cfg.Log.File, Prefix: "kanso-cli"}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := cfg.Client.Location()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loc = loc
	return nil
}

// open opens the local store on first use and builds the services over it.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}

	path := a.cfg.Client.DBFile()
	store, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open diary: %w", err)
	}
	logger.Debug("Local store opened", "path", path)

	typeRepo, entryRepo := storage.NewLocalRepositories(store, a.loc)

	a.store = store
	a.types = services.NewEntryTypeService(typeRepo, entryRepo, nil)
	a.entries = services.NewEntryService(entryRepo, typeRepo, nil)
	a.stats = services.NewStatsService(typeRepo, entryRepo)
	a.backups = services.NewBackupService(repository.NewInMemoryBackupRepository(), typeRepo, entryRepo, nil)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close local store", "error", err)
	}
	a.store = nil
}

// remote builds an API client authenticated with the token saved by login.
func (a *app) remote() (*remote.Client, error) {
	token, err := keyring.GetToken()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, err
	}
	client, err := remote.NewClient(a.cfg.Client.APIURL, token)
	if errors.Is(err, remote.ErrNoToken) {
		return nil, fmt.Errorf("%w: run kanso login --token <token>", err)
	}
	return client, err
}
