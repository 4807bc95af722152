package data

import (
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// BarProvider loads daily bar history for a symbol over a date range.
// Implementations return bars in ascending date order. An empty result is not
// an error at this layer; the backtest driver decides how to treat it.
type BarProvider interface {
	// GetBars returns all bars for the symbol with dates in [start, end].
	GetBars(symbol string, symbolType types.SymbolType, start, end time.Time) ([]types.Bar, error)

	// ValidateBars checks the integrity of a loaded series.
	ValidateBars(bars []types.Bar) error

	// GetName returns the name of the provider.
	GetName() string
}

// BarCache caches loaded bar series keyed by request.
type BarCache interface {
	// Get retrieves a series from cache if available.
	Get(key string) ([]types.Bar, bool)

	// Set stores a series in cache.
	Set(key string, bars []types.Bar)

	// Clear removes all cached series.
	Clear()

	// Size returns the number of cached entries.
	Size() int
}

// CSVColumnMapping defines column positions for a daily-bar CSV layout.
type CSVColumnMapping struct {
	DateCol    int
	OpenCol    int
	HighCol    int
	LowCol     int
	CloseCol   int
	VolumeCol  int
	AmountCol  int
	MinColumns int
	DateFormat string
}

// DefaultCSVFormat matches the downloader's output:
// date,open,high,low,close,volume,amount with ISO dates.
var DefaultCSVFormat = CSVColumnMapping{
	DateCol:    0,
	OpenCol:    1,
	HighCol:    2,
	LowCol:     3,
	CloseCol:   4,
	VolumeCol:  5,
	AmountCol:  6,
	MinColumns: 6,
	DateFormat: "2006-01-02",
}
