// Package config loads the Hermes server configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then HERMES_* environment variables (a .env file in the working
// directory is loaded first if present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sanonone/hermes/internal/logging"
	"github.com/sanonone/hermes/pkg/core/distance"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "HERMES"

// Config holds every tunable of the server.
type Config struct {
	HTTPAddr  string `yaml:"http_addr" envconfig:"HTTP_ADDR"`
	AuthToken string `yaml:"auth_token" envconfig:"AUTH_TOKEN"`

	Metric    string `yaml:"metric" envconfig:"METRIC"`
	Precision string `yaml:"precision" envconfig:"PRECISION"`
	Dimension int    `yaml:"dimension" envconfig:"DIMENSION"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"` // 0 disables
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`

	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	MCPEnabled      bool          `yaml:"mcp_enabled" envconfig:"MCP_ENABLED"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// DefaultConfig listens on :8080 with euclidean float32 vectors,
// no auth, no rate limit.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		Metric:          string(distance.MetricEuclidean),
		Precision:       string(distance.Float32),
		LogFormat:       "text",
		LogLevel:        "info",
		MCPEnabled:      true,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("YAML syntax error in config: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if _, err := distance.ParseMetric(c.Metric); err != nil {
		return err
	}
	if _, err := distance.ParsePrecision(c.Precision); err != nil {
		return err
	}
	if c.Dimension < 0 {
		return fmt.Errorf("dimension must be >= 0, got %d", c.Dimension)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must be >= 0, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("rate_limit_burst must be >= 0, got %d", c.RateLimitBurst)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be 'text' or 'json', got '%s'", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}
