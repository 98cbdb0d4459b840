package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/gamerank/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultParallel    = 12
	DefaultRoot        = "list"
	DefaultCoversDir   = "covers"
	DefaultCoverBase   = "https://images.igdb.com/igdb/image/upload"
	DefaultTimeout     = 25 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// Config holds the runtime configuration for gamerank.
// This struct remains the "final, validated" config.
type Config struct {
	Root  string   // Absolute path to the directory holding one folder per list
	Lists []string // List names taken from positional arguments

	ResultLimit int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Global       bool   // Also build the ranking over the union of all lists
	GlobalOutput string // Where the global ranking goes; defaults to Root/aggregated-list.csv

	CoversDir    string
	CoverSize    schema.CoverSize
	CoverBaseURL string
	Force        bool
	Parallel     int
	RateLimit    float64 // Requests per second; 0 disables throttling
	Timeout      time.Duration

	DryRun bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Log LogConfig

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ListArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Root             string `mapstructure:"root"`
	Limit            int    `mapstructure:"limit"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from allCmd.Flags() ---
	Global       bool   `mapstructure:"global"`
	GlobalOutput string `mapstructure:"global-output"`

	// --- Fields from coversCmd.Flags() ---
	CoversDir    string  `mapstructure:"covers-dir"`
	Size         string  `mapstructure:"size"`
	CoverBaseURL string  `mapstructure:"cover-base-url"`
	Force        bool    `mapstructure:"force"`
	Parallel     int     `mapstructure:"parallel"`
	RateLimit    float64 `mapstructure:"rate-limit"`
	Timeout      string  `mapstructure:"timeout"`

	// --- Fields from organizeCmd.Flags() ---
	DryRun bool `mapstructure:"dry-run"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Lists != nil {
		clone.Lists = make([]string, len(c.Lists))
		copy(clone.Lists, c.Lists)
	}
	return &clone
}

// ListDir returns the directory of a named list under the root.
func (c *Config) ListDir(name string) string {
	return filepath.Join(c.Root, name)
}

// GlobalOutputPath resolves where the global ranking is written.
func (c *Config) GlobalOutputPath() string {
	if c.GlobalOutput != "" {
		return c.GlobalOutput
	}
	return filepath.Join(c.Root, schema.AggregatedFileName)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateCoverInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveRoot(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes a backend name, treating empty as none.
func ParseBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	backend, err = ParseBackend(input.HistoryBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// SQLite stores must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Global = input.Global
	cfg.GlobalOutput = input.GlobalOutput
	cfg.DryRun = input.DryRun

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	cfg.Log = LogConfig{Level: input.LogLevel, Format: input.LogFormat}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}
	return nil
}

// validateCoverInputs processes the cover downloader settings.
func validateCoverInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CoversDir = input.CoversDir
	if cfg.CoversDir == "" {
		cfg.CoversDir = DefaultCoversDir
	}
	cfg.CoverBaseURL = strings.TrimRight(input.CoverBaseURL, "/")
	if cfg.CoverBaseURL == "" {
		cfg.CoverBaseURL = DefaultCoverBase
	}
	cfg.Force = input.Force

	cfg.CoverSize = schema.CoverSize(strings.ToLower(input.Size))
	if cfg.CoverSize == "" {
		cfg.CoverSize = schema.BothCovers
	}
	if _, ok := schema.ValidCoverSizes[cfg.CoverSize]; !ok {
		return fmt.Errorf("invalid size '%s'. must be small, big, both", input.Size)
	}

	if input.Parallel <= 0 {
		return fmt.Errorf("parallel must be greater than 0 (received %d)", input.Parallel)
	}
	cfg.Parallel = input.Parallel

	if input.RateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative (received %g)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// resolveRoot makes the lists root absolute and records positional list names.
func resolveRoot(cfg *Config, input *ConfigRawInput) error {
	root := input.Root
	if root == "" {
		root = DefaultRoot
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	cfg.Root = filepath.Clean(absRoot)

	cfg.Lists = nil
	for _, name := range input.ListArgs {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return fmt.Errorf("list name %q must be a folder name under %s", name, cfg.Root)
		}
		cfg.Lists = append(cfg.Lists, name)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RootExists reports whether the configured root is an existing directory.
func (c *Config) RootExists() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("lists root %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("lists root %s is not a directory", c.Root)
	}
	return nil
}
