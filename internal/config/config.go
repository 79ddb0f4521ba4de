package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/woby/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "woby.json"

	// DefaultPort is the default playground port.
	DefaultPort = 3000

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultTickMs is the default playground demo tick interval.
	DefaultTickMs = 1000

	// DefaultSnapshotDir is where snapshots are written when no bucket is set.
	DefaultSnapshotDir = "snapshots"
)

// Environment variables that override file values.
const (
	EnvHotReload = "WOBY_HOT_RELOAD"
	EnvPort      = "WOBY_PORT"
	EnvLogLevel  = "WOBY_LOG_LEVEL"
)

// Config represents the complete woby.json configuration.
type Config struct {
	// HotReload makes reconciliation failures log instead of failing.
	HotReload bool `json:"hotReload"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// LogFormat is text or json.
	LogFormat string `json:"logFormat,omitempty"`

	// Playground contains the demo server configuration.
	Playground PlaygroundConfig `json:"playground,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Snapshot contains snapshot output configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PlaygroundConfig configures the playground server.
type PlaygroundConfig struct {
	// Host is the address to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// TickMs is how often the demo state changes, in milliseconds.
	TickMs int `json:"tickMs,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled registers collectors and serves /metrics.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled records one span per reconciliation.
	Enabled bool `json:"enabled"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig configures where rendered snapshots go.
type SnapshotConfig struct {
	// Dir is the local output directory.
	Dir string `json:"dir,omitempty"`

	// Bucket, when set, uploads snapshots to S3 instead.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to object keys.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Playground: PlaygroundConfig{
			Host:   DefaultHost,
			Port:   DefaultPort,
			TickMs: DefaultTickMs,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "woby",
		},
		Tracing: TracingConfig{
			TracerName: "woby",
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for woby.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, except that a missing woby.json yields the defaults
// (with environment overrides) instead of an error.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("W201").
				WithDetail("No woby.json found in " + filepath.Dir(path)).
				WithSuggestion("Create woby.json or run without one to use the defaults").
				Wrap(err)
		}
		return nil, errors.New("W201").Wrap(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("W201").
			WithDetail("Failed to parse woby.json: " + err.Error()).
			WithSuggestion("Check that woby.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("W201").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("W201").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Playground.Host == "" {
		c.Playground.Host = DefaultHost
	}
	if c.Playground.Port == 0 {
		c.Playground.Port = DefaultPort
	}
	if c.Playground.TickMs == 0 {
		c.Playground.TickMs = DefaultTickMs
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "woby"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "woby"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// applyEnv applies environment overrides.
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvHotReload); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("W201").WithDetailf("%s=%q is not a boolean", EnvHotReload, v)
		}
		c.HotReload = b
	}
	if v, ok := os.LookupEnv(EnvPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("W201").WithDetailf("%s=%q is not a number", EnvPort, v)
		}
		c.Playground.Port = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Playground.Port < 0 || c.Playground.Port > 65535 {
		return errors.New("W201").
			WithDetail("playground.port must be between 0 and 65535")
	}
	if c.Playground.TickMs < 0 {
		return errors.New("W201").
			WithDetail("playground.tickMs must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.New("W201").
			WithDetailf("logFormat %q must be text or json", c.LogFormat)
	}
	if c.Snapshot.Bucket != "" && c.Snapshot.Region == "" {
		return errors.New("W201").
			WithDetail("snapshot.region is required when snapshot.bucket is set")
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("W201").
			WithDetailf("logLevel %q must be debug, info, warn or error", s)
	}
}

// PlaygroundAddress returns the address string for the playground server.
func (c *Config) PlaygroundAddress() string {
	return c.Playground.Host + ":" + strconv.Itoa(c.Playground.Port)
}

// Tick returns the playground tick interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Playground.TickMs) * time.Millisecond
}

// SnapshotPath returns the absolute snapshot output directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// UsesS3 reports whether snapshots go to a bucket.
func (c *Config) UsesS3() bool {
	return c.Snapshot.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// woby.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("W201").
				WithDetail("No woby.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest woby.json above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return LoadOrDefault(wd)
	}
	return Load(root)
}
