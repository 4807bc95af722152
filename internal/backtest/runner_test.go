package backtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcat-quant/dcat-backtest/internal/indicator"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
	"github.com/dcat-quant/dcat-backtest/pkg/data"
	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// writeSeries writes a weekday-only CSV series at a constant price.
func writeSeries(t *testing.T, root string, symbolType types.SymbolType, symbol string, start time.Time, days int, price float64) []time.Time {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("date,open,high,low,close,volume,amount\n")

	var dates []time.Time
	day := start
	for len(dates) < days {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			fmt.Fprintf(&sb, "%s,%.2f,%.2f,%.2f,%.2f,%d,%d\n",
				day.Format("2006-01-02"), price, price, price, price, 100000, int(price*100000))
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}

	dir := filepath.Join(root, string(symbolType))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(sb.String()), 0o644))
	return dates
}

func testConfig(symbol string) Config {
	return Config{
		Symbol:     symbol,
		SymbolType: types.SymbolETF,
		Benchmark:  "000001.SH",
		Variant:    VariantClassic,
		Params:     strategy.DefaultParams(),
		Indicators: indicator.DefaultParams(),
	}
}

func TestRunnerFlatMarket(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	dates := writeSeries(t, root, types.SymbolETF, "510300", start, 60, 3.5)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 60, 3000)

	runner := NewRunner(data.NewCSVProvider(root))
	result, err := runner.Run(context.Background(), testConfig("510300"))
	require.NoError(t, err)

	mondays := 0
	for _, d := range dates {
		if d.Weekday() == time.Monday {
			mondays++
		}
	}

	assert.Equal(t, mondays, result.Summary.DCABuyCount)
	assert.Equal(t, 0, result.Summary.DCASellCount)
	assert.Equal(t, 0, result.Summary.TBuyCount)
	assert.Len(t, result.NAVs, 60)

	// flat prices leak only commissions
	assert.Less(t, result.Summary.FinalValue, 500000.0)
	assert.Greater(t, result.Summary.FinalValue, 499000.0)

	// the NAV identity holds on the last day
	last := result.NAVs[len(result.NAVs)-1]
	assert.InDelta(t, last.TotalValue, last.DCACash+last.TCash+last.DCAValue+last.TValue, 1e-6)
}

func TestRunnerMissingSymbol(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 30, 3000)

	runner := NewRunner(data.NewCSVProvider(root))
	_, err := runner.Run(context.Background(), testConfig("999999"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestRunnerMissingBenchmark(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolETF, "510300", start, 30, 3.5)

	runner := NewRunner(data.NewCSVProvider(root))
	_, err := runner.Run(context.Background(), testConfig("510300"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestRunnerUnknownVariant(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolETF, "510300", start, 30, 3.5)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 30, 3000)

	cfg := testConfig("510300")
	cfg.Variant = "martingale"

	runner := NewRunner(data.NewCSVProvider(root))
	_, err := runner.Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunnerCancellation(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolETF, "510300", start, 30, 3.5)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 30, 3000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(data.NewCSVProvider(root))
	_, err := runner.Run(ctx, testConfig("510300"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPoolIsolatesFailures(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolETF, "510300", start, 40, 3.5)
	writeSeries(t, root, types.SymbolETF, "159915", start, 40, 1.8)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 40, 3000)

	runner := NewRunner(data.NewCSVProvider(root))
	pool := NewWorkerPool(runner, 2)

	configs := []Config{
		testConfig("510300"),
		testConfig("000000"), // no data
		testConfig("159915"),
	}
	results := pool.RunAll(context.Background(), configs)
	require.Len(t, results, 3)

	// results come back in job order regardless of completion order
	assert.Equal(t, 0, results[0].Job.ID)
	assert.Equal(t, 1, results[1].Job.ID)
	assert.Equal(t, 2, results[2].Job.ID)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrDataUnavailable)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, Failures(results))

	assert.Equal(t, "510300", results[0].Result.Symbol)
	assert.Equal(t, "159915", results[2].Result.Symbol)
}

func TestRunnerRegimeCacheSharedAcrossRuns(t *testing.T) {
	root := t.TempDir()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeSeries(t, root, types.SymbolETF, "510300", start, 30, 3.5)
	writeSeries(t, root, types.SymbolIndex, "000001.SH", start, 30, 3000)

	cached := data.NewCachedProvider(data.NewCSVProvider(root))
	runner := NewRunner(cached)

	_, err := runner.Run(context.Background(), testConfig("510300"))
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), testConfig("510300"))
	require.NoError(t, err)

	assert.Len(t, runner.regimes, 1)
}
