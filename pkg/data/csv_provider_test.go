package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

func writeTestCSV(t *testing.T, dir string, symbolType types.SymbolType, symbol, content string) {
	t.Helper()
	typeDir := filepath.Join(dir, string(symbolType))
	require.NoError(t, os.MkdirAll(typeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(typeDir, symbol+".csv"), []byte(content), 0o644))
}

func TestCSVProviderGetBars(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, types.SymbolETF, "510300", `date,open,high,low,close,volume,amount
2024-01-02,3.50,3.55,3.48,3.52,1000000,3520000
2024-01-03,3.52,3.60,3.51,3.58,1200000,4296000
2024-01-04,3.58,3.59,3.50,3.51,900000,3159000
`)

	provider := NewCSVProvider(dir)

	bars, err := provider.GetBars("510300", types.SymbolETF, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.InDelta(t, 3.52, bars[0].Close, 1e-9)
	assert.InDelta(t, 1200000.0, bars[1].Volume, 1e-9)
	assert.InDelta(t, 3159000.0, bars[2].Amount, 1e-9)

	assert.NoError(t, provider.ValidateBars(bars))
}

func TestCSVProviderDateRange(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, types.SymbolStock, "600519", `date,open,high,low,close,volume,amount
2024-01-02,100,101,99,100.5,1000,100500
2024-01-03,100.5,102,100,101,1100,111100
2024-01-04,101,103,100,102,1200,122400
2024-01-05,102,104,101,103,1300,133900
`)

	provider := NewCSVProvider(dir)

	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	bars, err := provider.GetBars("600519", types.SymbolStock, start, end)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, start, bars[0].Date)
	assert.Equal(t, end, bars[1].Date)
}

func TestCSVProviderSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, types.SymbolETF, "159915", `date,open,high,low,close,volume,amount
2024-01-02,1.50,1.55,1.48,1.52,1000,1520
not-a-date,1.52,1.60,1.51,1.58,1200,1896
2024-01-03,1.52,abc,1.51,1.58,1200,1896
2024-01-04,1.58,1.59,1.50,-1.51,900,1359
2024-01-05,1.58,1.59,1.50,1.51,900,1359
`)

	provider := NewCSVProvider(dir)

	bars, err := provider.GetBars("159915", types.SymbolETF, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), bars[1].Date)
}

func TestCSVProviderMissingFile(t *testing.T) {
	provider := NewCSVProvider(t.TempDir())

	bars, err := provider.GetBars("000000", types.SymbolStock, time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, bars)
}

func TestValidateBarsRejectsBadSequence(t *testing.T) {
	provider := NewCSVProvider(t.TempDir())

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []types.Bar{
		{Date: day, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Date: day, Open: 10.5, High: 11, Low: 10, Close: 10.8, Volume: 100},
	}
	assert.Error(t, provider.ValidateBars(bars))

	bars[1].Date = day.AddDate(0, 0, 1)
	assert.NoError(t, provider.ValidateBars(bars))

	bars[1].High = 5
	assert.Error(t, provider.ValidateBars(bars))
}

func TestCachedProvider(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, types.SymbolIndex, "000001.SH", `date,open,high,low,close,volume,amount
2024-01-02,3000,3020,2990,3010,500000,1505000000
2024-01-03,3010,3030,3000,3025,520000,1573000000
`)

	cached := NewCachedProvider(NewCSVProvider(dir))
	assert.Equal(t, 0, cached.CacheSize())

	bars, err := cached.GetBars("000001.SH", types.SymbolIndex, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1, cached.CacheSize())

	// Mutating the returned slice must not poison the cache.
	bars[0].Close = -1
	again, err := cached.GetBars("000001.SH", types.SymbolIndex, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 3010.0, again[0].Close, 1e-9)

	cached.ClearCache()
	assert.Equal(t, 0, cached.CacheSize())
}
