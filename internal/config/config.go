// Package config loads application configuration from environment
// variables (prefix BILLSCAN) merged with an optional YAML file,
// including overrides for the engine's keyword table.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"billscan/internal/billing"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Upload   UploadConfig   `yaml:"upload" envconfig:"UPLOAD"`
	Keywords KeywordsConfig `yaml:"keywords" envconfig:"KEYWORDS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	File   string `yaml:"file" envconfig:"FILE" default:"logs/billscan.log"`
}

// UploadConfig controls temporary storage of uploaded spreadsheets
type UploadConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR" default:"uploads"`
	MaxBytes int64  `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"20971520"`
	// Keep retains uploaded files after analysis instead of
	// deleting them, for debugging bad exports.
	Keep bool `yaml:"keep" envconfig:"KEEP" default:"false"`
}

// KeywordsConfig optionally replaces parts of the engine's keyword
// table. Empty fields keep the defaults, so a partial override file
// only has to name what it changes.
type KeywordsConfig struct {
	Total        string   `yaml:"total"`
	Subtotal     string   `yaml:"subtotal"`
	Price        []string `yaml:"price"`
	Discount     []string `yaml:"discount"`
	Actual       []string `yaml:"actual"`
	AmountHeader []string `yaml:"amount_header"`
	CycleColumn  []string `yaml:"cycle_column"`
	NumberColumn []string `yaml:"number_column"`
	FeeColumn    []string `yaml:"fee_column"`
}

// Load loads configuration from environment variables and, when
// BILLSCAN_CONFIG_FILE points at one (or ./billscan.yml exists), a
// YAML file. File values fill in what the environment left unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BILLSCAN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv("BILLSCAN_CONFIG_FILE")
	if configFile == "" {
		configFile = "billscan.yml"
	}
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays file values onto the env-derived config where
// the file actually set something.
func mergeConfigs(env, file Config) Config {
	out := env
	if file.Server.Port != 0 {
		out.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		out.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		out.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		out.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		out.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Server.RateLimitRPS != 0 {
		out.Server.RateLimitRPS = file.Server.RateLimitRPS
	}
	if file.Server.RateLimitBurst != 0 {
		out.Server.RateLimitBurst = file.Server.RateLimitBurst
	}
	if file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		out.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		out.Logging.Output = file.Logging.Output
	}
	if file.Logging.File != "" {
		out.Logging.File = file.Logging.File
	}
	if file.Upload.Dir != "" {
		out.Upload.Dir = file.Upload.Dir
	}
	if file.Upload.MaxBytes != 0 {
		out.Upload.MaxBytes = file.Upload.MaxBytes
	}
	if file.Upload.Keep {
		out.Upload.Keep = true
	}
	out.Keywords = mergeKeywords(env.Keywords, file.Keywords)
	return out
}

func mergeKeywords(env, file KeywordsConfig) KeywordsConfig {
	out := env
	if file.Total != "" {
		out.Total = file.Total
	}
	if file.Subtotal != "" {
		out.Subtotal = file.Subtotal
	}
	if len(file.Price) > 0 {
		out.Price = file.Price
	}
	if len(file.Discount) > 0 {
		out.Discount = file.Discount
	}
	if len(file.Actual) > 0 {
		out.Actual = file.Actual
	}
	if len(file.AmountHeader) > 0 {
		out.AmountHeader = file.AmountHeader
	}
	if len(file.CycleColumn) > 0 {
		out.CycleColumn = file.CycleColumn
	}
	if len(file.NumberColumn) > 0 {
		out.NumberColumn = file.NumberColumn
	}
	if len(file.FeeColumn) > 0 {
		out.FeeColumn = file.FeeColumn
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive: %d", c.Upload.MaxBytes)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	return nil
}

// EngineKeywords resolves the effective keyword table: the engine
// defaults overlaid with whatever the configuration overrides.
func (c *Config) EngineKeywords() billing.Keywords {
	kw := billing.DefaultKeywords()
	o := c.Keywords
	if o.Total != "" {
		kw.Total = o.Total
	}
	if o.Subtotal != "" {
		kw.Subtotal = o.Subtotal
	}
	if len(o.Price) > 0 {
		kw.Price = o.Price
	}
	if len(o.Discount) > 0 {
		kw.Discount = o.Discount
	}
	if len(o.Actual) > 0 {
		kw.Actual = o.Actual
	}
	if len(o.AmountHeader) > 0 {
		kw.AmountHeader = o.AmountHeader
	}
	if len(o.CycleColumn) > 0 {
		kw.CycleColumn = o.CycleColumn
	}
	if len(o.NumberColumn) > 0 {
		kw.NumberColumn = o.NumberColumn
	}
	if len(o.FeeColumn) > 0 {
		kw.FeeColumn = o.FeeColumn
	}
	return kw
}
