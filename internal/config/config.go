package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/rpggio/folio/internal/domain/pacing"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Tracker   TrackerConfig   `yaml:"tracker"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how MCP clients connect: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the log level and optional rotated log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TrackerConfig holds the cycle and coaching defaults.
type TrackerConfig struct {
	// Timezone is an IANA name or "Local". All calendar math uses it.
	Timezone      string            `yaml:"timezone"`
	DefaultTarget int               `yaml:"default_target"`
	Thresholds    pacing.Thresholds `yaml:"thresholds"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("FOLIO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "folio.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Tracker: TrackerConfig{
			Timezone:   "Local",
			Thresholds: pacing.DefaultThresholds(),
		},
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Tracker.DefaultTarget < 0 {
		return fmt.Errorf("invalid default target %d", c.Tracker.DefaultTarget)
	}
	th := c.Tracker.Thresholds
	if th.Moderate <= 0 || th.Severe < th.Moderate || th.NominalWorkDays <= 0 || th.SmallRemaining < 0 {
		return fmt.Errorf("invalid coaching thresholds: %+v", th)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the tracker timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Tracker.Timezone == "" || c.Tracker.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Tracker.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Tracker.Timezone, err)
	}
	return loc, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("FOLIO_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("FOLIO_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if mode := os.Getenv("FOLIO_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envBool("FOLIO_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if dbPath := os.Getenv("FOLIO_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("FOLIO_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if tz := os.Getenv("FOLIO_TIMEZONE"); tz != "" {
		cfg.Tracker.Timezone = tz
	}
	if err := envInt("FOLIO_DEFAULT_TARGET", &cfg.Tracker.DefaultTarget); err != nil {
		return err
	}
	return nil
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func envBool(name string, dst *bool) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
