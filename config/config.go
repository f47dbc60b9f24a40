/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/asyncquery/adapter"
	"github.com/suparena/asyncquery/conformance"
	"github.com/suparena/asyncquery/datastore/ddb"
	"github.com/suparena/asyncquery/datastore/memory"
	"github.com/suparena/asyncquery/datastore/redisstore"
	"github.com/suparena/asyncquery/datastore/sqlstore"
	qerrors "github.com/suparena/asyncquery/errors"
	"github.com/suparena/asyncquery/numeric"
	"github.com/suparena/asyncquery/storagemodels"
)

// Config holds the settings of a conformance run.
type Config struct {
	Provider    string   `yaml:"provider"`
	Operators   []string `yaml:"operators,omitempty"`
	Kinds       []string `yaml:"kinds,omitempty"`
	Policies    []string `yaml:"policies,omitempty"`
	Parallelism int      `yaml:"parallelism"`
	Seed        uint64   `yaml:"seed"`
	Size        int      `yaml:"size"`

	Stream   StreamConfig   `yaml:"stream"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Redis    RedisConfig    `yaml:"redis"`
}

// StreamConfig tunes provider paging.
type StreamConfig struct {
	PageSize     int32  `yaml:"page_size"`
	BufferSize   int    `yaml:"buffer_size"`
	MaxRetries   int    `yaml:"max_retries"`
	RetryBackoff string `yaml:"retry_backoff"`
}

// ReportConfig selects where the run report goes.
type ReportConfig struct {
	Format string `yaml:"format"`
	// Path is the report file; empty writes to stdout.
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	File string `yaml:"file,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// SQLiteConfig configures the sqlite provider.
type SQLiteConfig struct {
	DSN string `yaml:"dsn"`
}

// DynamoDBConfig configures the dynamodb provider.
type DynamoDBConfig struct {
	Region    string `yaml:"region"`
	Table     string `yaml:"table"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// RedisConfig configures the redis provider.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DefaultConfig returns a configuration running the full matrix in memory.
func DefaultConfig() *Config {
	return &Config{
		Provider:    memory.Name,
		Parallelism: conformance.DefaultParallelism,
		Seed:        1,
		Size:        conformance.DefaultSize,
		Stream: StreamConfig{
			PageSize:     100,
			BufferSize:   100,
			MaxRetries:   3,
			RetryBackoff: "1s",
		},
		Report: ReportConfig{Format: "yaml"},
		Log:    LogConfig{Level: "info"},
		SQLite: SQLiteConfig{DSN: ":memory:"},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: redisstore.DefaultKeyPrefix,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadEnv loads the given .env files into the process environment. Without
// arguments it loads ".env" if present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML. Credentials are never written.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ASYNCQUERY_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY"); v != "" {
		c.DynamoDB.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_KEY"); v != "" {
		c.DynamoDB.SecretKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.DynamoDB.Region = v
	}
	if v := os.Getenv("AWS_DDB_TABLE"); v != "" {
		c.DynamoDB.Table = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("SQLITE_DSN"); v != "" {
		c.SQLite.DSN = v
	}
}

// ValidProviders lists the provider names a configuration may select.
var ValidProviders = []string{memory.Name, sqlstore.Name, ddb.Name, redisstore.Name}

// Validate checks names against the known providers, operators, kinds and
// policies, and the provider's required settings.
func (c *Config) Validate() error {
	switch c.Provider {
	case memory.Name:
	case sqlstore.Name:
		if c.SQLite.DSN == "" {
			return qerrors.NewValidationError("sqlite.dsn", "required for the sqlite provider")
		}
	case ddb.Name:
		if c.DynamoDB.Table == "" || c.DynamoDB.Region == "" {
			return qerrors.NewValidationError("dynamodb", "table and region are required (set AWS_DDB_TABLE and AWS_REGION)")
		}
	case redisstore.Name:
		if c.Redis.Addr == "" {
			return qerrors.NewValidationError("redis.addr", "required for the redis provider")
		}
	default:
		return qerrors.NewValidationError("provider", fmt.Sprintf("invalid provider %q (valid: %v)", c.Provider, ValidProviders))
	}

	if _, err := c.RunOptions(); err != nil {
		return err
	}
	if err := c.Stream.validate(); err != nil {
		return err
	}

	switch c.Report.Format {
	case "json", "yaml", "yml":
	default:
		return qerrors.NewValidationError("report.format", fmt.Sprintf("unsupported format %q", c.Report.Format))
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return qerrors.NewValidationError("log.level", err.Error())
	}
	return nil
}

// Build returns a zap logger at the configured level.
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

func (s StreamConfig) validate() error {
	if s.PageSize <= 0 {
		return qerrors.NewValidationError("stream.page_size", "must be positive")
	}
	if s.BufferSize < 0 {
		return qerrors.NewValidationError("stream.buffer_size", "must not be negative")
	}
	if s.MaxRetries < 0 {
		return qerrors.NewValidationError("stream.max_retries", "must not be negative")
	}
	if _, err := time.ParseDuration(s.RetryBackoff); err != nil {
		return qerrors.NewValidationError("stream.retry_backoff", err.Error())
	}
	return nil
}

// StreamOptions converts the stream settings. Invalid values keep the defaults.
func (s StreamConfig) StreamOptions() []storagemodels.StreamOption {
	opts := []storagemodels.StreamOption{
		storagemodels.WithPageSize(s.PageSize),
		storagemodels.WithBufferSize(s.BufferSize),
		storagemodels.WithMaxRetries(s.MaxRetries),
	}
	if d, err := time.ParseDuration(s.RetryBackoff); err == nil {
		opts = append(opts, storagemodels.WithRetryBackoff(d))
	}
	return opts
}

// RunOptions builds the conformance options selected by the configuration.
func (c *Config) RunOptions() (conformance.RunOptions, error) {
	opts := conformance.RunOptions{
		Kinds:       c.Kinds,
		Parallelism: c.Parallelism,
		Seed:        c.Seed,
		Size:        c.Size,
	}

	if c.Size < 0 {
		return opts, qerrors.NewValidationError("size", "must not be negative")
	}
	if c.Parallelism < 0 {
		return opts, qerrors.NewValidationError("parallelism", "must not be negative")
	}

	for _, name := range c.Operators {
		op, err := conformance.ParseOperator(name)
		if err != nil {
			return opts, err
		}
		opts.Operators = append(opts.Operators, op)
	}

	known := numeric.Kinds()
	for _, kind := range c.Kinds {
		if !slices.Contains(known, kind) {
			return opts, qerrors.NewValidationError("kinds", fmt.Sprintf("unknown element kind %q (valid: %v)", kind, known))
		}
	}

	for _, name := range c.Policies {
		p, err := adapter.ParsePolicy(name)
		if err != nil {
			return opts, err
		}
		opts.Policies = append(opts.Policies, p)
	}

	opts.AdapterOptions = []adapter.Option{adapter.WithStreamOptions(c.Stream.StreamOptions()...)}
	return opts, nil
}
