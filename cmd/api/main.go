package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/github"
	adapterHTTP "github.com/comitanigiacomo/kanso-diary/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-diary/internal/adapters/seal"
	"github.com/comitanigiacomo/kanso-diary/internal/config"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/services"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

type repositories struct {
	users   domain.UserRepository
	types   domain.EntryTypeRepository
	entries domain.EntryInstanceRepository
	backups domain.BackupRepository
}

func main() {
	startTime := time.Now()

	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}

	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	repos := memoryRepositories()

	if cfg.Database.Enabled() {
		logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host)
		db, err = repository.Open(ctx, cfg.Database.Driver, cfg.Database.DSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()
		logger.Info("Database connected successfully")
		repos = postgresRepositories(db)
	} else {
		logger.Warn("No database configured, data is kept in memory")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedisClient(ctx, cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache and rate limiting", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
			repos.types = repository.NewCachedEntryTypeRepository(repos.types, rdb)
		}
	}

	worker := newBackupWorker(cfg, repos)
	if worker.Enabled() {
		worker.Start(ctx)
	}

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, repos.users)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(repos.users), tokenService),
		EntryTypeHandler: adapterHTTP.NewEntryTypeHandler(services.NewEntryTypeService(repos.types, repos.entries, worker)),
		EntryHandler:     adapterHTTP.NewEntryHandler(services.NewEntryService(repos.entries, repos.types, worker)),
		StatsHandler:     adapterHTTP.NewStatsHandler(services.NewStatsService(repos.types, repos.entries)),
		BackupHandler:    adapterHTTP.NewBackupHandler(services.NewBackupService(repos.backups, repos.types, repos.entries, worker)),
		TokenService:     tokenService,
		DB:               db,
		Redis:            rdb,
		StartTime:        startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Kanso Diary API running", "addr", "http://localhost:"+cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Critical server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}

func memoryRepositories() repositories {
	return repositories{
		users:   repository.NewInMemoryUserRepository(),
		types:   repository.NewInMemoryEntryTypeRepository(),
		entries: repository.NewInMemoryEntryRepository(),
		backups: repository.NewInMemoryBackupRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		users:   repository.NewPostgresUserRepository(db),
		types:   repository.NewPostgresEntryTypeRepository(db),
		entries: repository.NewPostgresEntryRepository(db),
		backups: repository.NewPostgresBackupRepository(db),
	}
}

// newBackupWorker returns a worker that commits snapshots to GitHub when it
// is configured, sealing them when a passphrase is set. Otherwise the worker
// is disabled and enqueues are no-ops.
func newBackupWorker(cfg *config.Config, repos repositories) *workers.BackupWorker {
	if !cfg.GitHub.Enabled() {
		return workers.NewBackupWorker(repos.types, repos.entries, nil, nil)
	}

	committer, err := github.NewCommitter(github.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
		Owner:   cfg.GitHub.Owner,
		Repo:    cfg.GitHub.Repo,
		Branch:  cfg.GitHub.Branch,
	})
	if err != nil {
		logger.Fatal("Invalid GitHub configuration", "error", err)
	}

	var sealer workers.Sealer
	if cfg.Backup.Passphrase != "" {
		s, err := seal.New(cfg.Backup.Passphrase, cfg.Backup.WorkFactor)
		if err != nil {
			logger.Fatal("Invalid backup passphrase", "error", err)
		}
		sealer = s
	}

	logger.Info("GitHub backups enabled", "repo", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo, "sealed", sealer != nil)
	return workers.NewBackupWorker(repos.types, repos.entries, committer, sealer)
}
