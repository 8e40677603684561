// Package config resolves settings for the API server and the CLI from
// built-in defaults, an optional TOML file, a .env file and the environment,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Auth     AuthConfig     `toml:"auth"`
	GitHub   GitHubConfig   `toml:"github"`
	Backup   BackupConfig   `toml:"backup"`
	Log      LogConfig      `toml:"log"`
	Client   ClientConfig   `toml:"client"`
}

type ServerConfig struct {
	Port            string        `toml:"port"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver   string `toml:"driver"` // pgx or postgres (lib/pq)
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// Enabled reports whether a database was configured. Without one the API
// keeps everything in memory.
func (d DatabaseConfig) Enabled() bool {
	return d.Name != ""
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	Issuer    string        `toml:"issuer"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

type GitHubConfig struct {
	Token   string `toml:"token"`
	Owner   string `toml:"owner"`
	Repo    string `toml:"repo"`
	Branch  string `toml:"branch"`
	BaseURL string `toml:"base_url"`
}

func (g GitHubConfig) Enabled() bool {
	return g.Token != "" && g.Owner != "" && g.Repo != ""
}

type BackupConfig struct {
	Passphrase string `toml:"passphrase"`
	WorkFactor int    `toml:"work_factor"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	JSON  bool   `toml:"json"`
}

type ClientConfig struct {
	APIURL   string `toml:"api_url"`
	DataDir  string `toml:"data_dir"`
	Timezone string `toml:"timezone"`
}

// DBFile is the SQLite file of the local store.
func (c ClientConfig) DBFile() string {
	return filepath.Join(c.DataDir, "kanso.db")
}

// Location resolves the configured zone, falling back to the system one.
func (c ClientConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Paths are the XDG locations used by kanso.
type Paths struct {
	ConfigDir  string
	DataDir    string
	ConfigFile string
}

func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := filepath.Join(envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config")), "kanso")
	dataDir := filepath.Join(envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share")), "kanso")

	return Paths{
		ConfigDir:  configDir,
		DataDir:    dataDir,
		ConfigFile: filepath.Join(configDir, "config.toml"),
	}
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  "pgx",
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		Auth: AuthConfig{
			Issuer:   "kanso-diary",
			TokenTTL: 72 * time.Hour,
		},
		GitHub: GitHubConfig{
			Branch: "main",
		},
		Log: LogConfig{
			Level: "info",
		},
		Client: ClientConfig{
			APIURL:  "http://localhost:8080",
			DataDir: GetPaths().DataDir,
		},
	}
}

// Load builds the configuration. path is the TOML file to read; when empty
// KANSO_CONFIG or the XDG default is used. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = envOr("KANSO_CONFIG", GetPaths().ConfigFile)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateServer checks the settings the API cannot start without.
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

type envOverride struct {
	key   string
	apply func(c *Config, v string) error
}

func setString(field func(c *Config) *string) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

var envOverrides = []envOverride{
	{"PORT", setString(func(c *Config) *string { return &c.Server.Port })},
	{"DB_DRIVER", setString(func(c *Config) *string { return &c.Database.Driver })},
	{"DB_HOST", setString(func(c *Config) *string { return &c.Database.Host })},
	{"DB_PORT", setString(func(c *Config) *string { return &c.Database.Port })},
	{"DB_USER", setString(func(c *Config) *string { return &c.Database.User })},
	{"DB_PASSWORD", setString(func(c *Config) *string { return &c.Database.Password })},
	{"DB_NAME", setString(func(c *Config) *string { return &c.Database.Name })},
	{"DB_SSLMODE", setString(func(c *Config) *string { return &c.Database.SSLMode })},
	{"REDIS_HOST", setString(func(c *Config) *string { return &c.Redis.Host })},
	{"REDIS_PORT", setString(func(c *Config) *string { return &c.Redis.Port })},
	{"REDIS_PASSWORD", setString(func(c *Config) *string { return &c.Redis.Password })},
	{"REDIS_DB", func(c *Config, v string) error {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
		return nil
	}},
	{"JWT_SECRET", setString(func(c *Config) *string { return &c.Auth.JWTSecret })},
	{"JWT_ISSUER", setString(func(c *Config) *string { return &c.Auth.Issuer })},
	{"JWT_TTL", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
		return nil
	}},
	{"GITHUB_TOKEN", setString(func(c *Config) *string { return &c.GitHub.Token })},
	{"GITHUB_OWNER", setString(func(c *Config) *string { return &c.GitHub.Owner })},
	{"GITHUB_REPO", setString(func(c *Config) *string { return &c.GitHub.Repo })},
	{"GITHUB_BRANCH", setString(func(c *Config) *string { return &c.GitHub.Branch })},
	{"GITHUB_API_URL", setString(func(c *Config) *string { return &c.GitHub.BaseURL })},
	{"BACKUP_PASSPHRASE", setString(func(c *Config) *string { return &c.Backup.Passphrase })},
	{"LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FILE", setString(func(c *Config) *string { return &c.Log.File })},
	{"LOG_JSON", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		c.Log.JSON = b
		return nil
	}},
	{"KANSO_API_URL", setString(func(c *Config) *string { return &c.Client.APIURL })},
	{"KANSO_DATA_DIR", setString(func(c *Config) *string { return &c.Client.DataDir })},
	{"KANSO_TZ", setString(func(c *Config) *string { return &c.Client.Timezone })},
}

func (c *Config) applyEnv() error {
	for _, o := range envOverrides {
		v := os.Getenv(o.key)
		if v == "" {
			continue
		}
		if err := o.apply(c, v); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
