package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Charts   ChartsConfig   `yaml:"charts"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestIPHeader string        `yaml:"request_ip_header"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DatasetConfig describes where the university table is read from.
type DatasetConfig struct {
	// Source is a CSV file path, an http(s) URL, or "db" to read the mirrored table back.
	Source         string        `yaml:"source"`
	HTTPProxy      string        `yaml:"http_proxy"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	Timezone       string        `yaml:"timezone"`
	DateLayouts    []string      `yaml:"date_layouts"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Enabled                bool   `yaml:"enabled"`
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ChartsConfig sets the rendered chart size in inches.
type ChartsConfig struct {
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// DefaultDateLayouts are tried in order when parsing "Established Since".
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02-Jan-2006",
	"January 2006",
	"2006",
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "universities.csv"
	}
	if cfg.Dataset.TimeoutSeconds <= 0 {
		cfg.Dataset.TimeoutSeconds = 30
	}
	cfg.Dataset.Timeout = time.Duration(cfg.Dataset.TimeoutSeconds) * time.Second
	if cfg.Dataset.Timezone == "" {
		cfg.Dataset.Timezone = "UTC"
	}
	if len(cfg.Dataset.DateLayouts) == 0 {
		cfg.Dataset.DateLayouts = append([]string(nil), DefaultDateLayouts...)
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Enabled && cfg.Database.DSN == "" {
		log.Printf("database.dsn is not set; defaulting to in-memory sqlite")
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = "file::memory:?cache=shared"
	}

	if cfg.Charts.WidthInches <= 0 {
		cfg.Charts.WidthInches = 6
	}
	if cfg.Charts.HeightInches <= 0 {
		cfg.Charts.HeightInches = 4
	}
}
