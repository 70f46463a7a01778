package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for HomeHub Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API        APIConfig        `yaml:"api"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	Blynk      BlynkConfig      `yaml:"blynk"`
	Seed       SeedConfig       `yaml:"seed"`
	Automation AutomationConfig `yaml:"automation"`
	History    HistoryConfig    `yaml:"history"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// BlynkConfig contains cloud platform connection settings.
//
// When Token is empty the poller is disabled and HomeHub runs purely
// from the seed file (dashboard development mode).
type BlynkConfig struct {
	ServerURL    string `yaml:"server_url"`
	Token        string `yaml:"token"`
	PollInterval int    `yaml:"poll_interval"` // seconds between device fetches
	Timeout      int    `yaml:"timeout"`       // seconds per HTTP request
}

// SeedConfig contains seed state settings.
type SeedConfig struct {
	Path string `yaml:"path"`
}

// AutomationConfig contains automation engine settings.
type AutomationConfig struct {
	ScanInterval int `yaml:"scan_interval"` // seconds between schedule scans
}

// HistoryConfig contains the in-memory history recorder settings.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"` // data points retained per device
}

// InfluxDBConfig contains InfluxDB telemetry sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HOMEHUB_SECTION_KEY
// For example: HOMEHUB_BLYNK_TOKEN, HOMEHUB_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Blynk: BlynkConfig{
			ServerURL:    "https://blynk.cloud",
			PollInterval: 15,
			Timeout:      10,
		},
		Seed: SeedConfig{
			Path: "configs/seed.yaml",
		},
		Automation: AutomationConfig{
			ScanInterval: 30,
		},
		History: HistoryConfig{
			Capacity: 288,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMEHUB_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("HOMEHUB_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HOMEHUB_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Blynk (token should never live in the config file)
	if v := os.Getenv("HOMEHUB_BLYNK_SERVER"); v != "" {
		cfg.Blynk.ServerURL = v
	}
	if v := os.Getenv("HOMEHUB_BLYNK_TOKEN"); v != "" {
		cfg.Blynk.Token = v
	}

	// Seed
	if v := os.Getenv("HOMEHUB_SEED_PATH"); v != "" {
		cfg.Seed.Path = v
	}

	// InfluxDB
	if v := os.Getenv("HOMEHUB_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Blynk.Token != "" && c.Blynk.ServerURL == "" {
		errs = append(errs, "blynk.server_url is required when blynk.token is set")
	}
	if c.Blynk.PollInterval < 1 {
		errs = append(errs, "blynk.poll_interval must be at least 1 second")
	}
	if c.Blynk.Timeout < 1 {
		errs = append(errs, "blynk.timeout must be at least 1 second")
	}

	if c.Seed.Path == "" {
		errs = append(errs, "seed.path is required")
	}

	if c.Automation.ScanInterval < 1 {
		errs = append(errs, "automation.scan_interval must be at least 1 second")
	}

	if c.History.Capacity < 1 {
		errs = append(errs, "history.capacity must be at least 1")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetPollInterval returns the Blynk poll interval as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Blynk.PollInterval) * time.Second
}

// GetBlynkTimeout returns the Blynk request timeout as a Duration.
func (c *Config) GetBlynkTimeout() time.Duration {
	return time.Duration(c.Blynk.Timeout) * time.Second
}

// GetScanInterval returns the automation schedule scan interval as a Duration.
func (c *Config) GetScanInterval() time.Duration {
	return time.Duration(c.Automation.ScanInterval) * time.Second
}
