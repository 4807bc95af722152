// Package config loads application settings from JSON with environment
// overrides. A .env file next to the binary is picked up when present.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dcat-quant/dcat-backtest/internal/strategy"
)

// SymbolConfig selects one instrument to backtest.
type SymbolConfig struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"` // stock, etf or index
}

// Config is the application configuration.
type Config struct {
	DataDir     string          `json:"data_dir"`
	OutputDir   string          `json:"output_dir"`
	LogDir      string          `json:"log_dir"`
	Benchmark   string          `json:"benchmark"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Variant     string          `json:"variant"`
	Workers     int             `json:"workers"`
	MetricsAddr string          `json:"metrics_addr"`
	PostgresDSN string          `json:"postgres_dsn"`
	Symbols     []SymbolConfig  `json:"symbols"`
	Strategy    strategy.Params `json:"strategy"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		DataDir:   "data",
		OutputDir: "results",
		LogDir:    "logs",
		Benchmark: "000001.SH",
		Variant:   "classic",
		Strategy:  strategy.DefaultParams(),
	}
}

// Load reads the config file if given, then applies environment overrides.
// Environment variables may come from a .env file in the working directory.
func Load(path string) (Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DCAT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DCAT_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("DCAT_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("DCAT_BENCHMARK"); v != "" {
		cfg.Benchmark = v
	}
	if v := os.Getenv("DCAT_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if v := os.Getenv("DCAT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("DCAT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("DCAT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
}

// Validate checks the parts of the config that fail late and confusingly
// otherwise.
func (c Config) Validate() error {
	if c.Benchmark == "" {
		return fmt.Errorf("benchmark symbol must not be empty")
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	if _, err := c.End(); err != nil {
		return err
	}
	if c.Strategy.TotalCapital <= 0 {
		return fmt.Errorf("total capital must be positive")
	}
	if c.Strategy.DCARatio < 0 || c.Strategy.DCARatio > 1 {
		return fmt.Errorf("dca ratio must be between 0 and 1")
	}
	return nil
}

// Start parses the start date; zero when unset.
func (c Config) Start() (time.Time, error) {
	return parseDate(c.StartDate)
}

// End parses the end date; zero when unset.
func (c Config) End() (time.Time, error) {
	return parseDate(c.EndDate)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
