package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "000001.SH", cfg.Benchmark)
	assert.Equal(t, "classic", cfg.Variant)
	assert.InDelta(t, 500000.0, cfg.Strategy.TotalCapital, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"data_dir": "/data/ashare",
		"start_date": "2020-01-01",
		"end_date": "2024-12-31",
		"variant": "adaptive",
		"symbols": [{"symbol": "510300", "type": "etf"}],
		"strategy": {
			"total_capital": 500000,
			"dca_ratio": 0.7,
			"dca_amount_per_week": 1000,
			"t_amount_per_trade": 5000,
			"max_loss_ratio": 0.03,
			"profit_target": 0.01,
			"commission": 0.0003,
			"slippage": 0.001
		}
	}`), 0o644))

	t.Setenv("DCAT_DATA_DIR", "/override")
	t.Setenv("DCAT_WORKERS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/override", cfg.DataDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "adaptive", cfg.Variant)
	require.Len(t, cfg.Symbols, 1)
	assert.Equal(t, "510300", cfg.Symbols[0].Symbol)

	start, err := cfg.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestValidateRejectsBadDates(t *testing.T) {
	cfg := Default()
	cfg.StartDate = "01/02/2020"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Strategy.DCARatio = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Benchmark = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	assert.Error(t, err)
}
