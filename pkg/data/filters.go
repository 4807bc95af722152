package data

import (
	"fmt"
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// FilterByDateRange returns the bars whose dates fall inside [start, end].
// A zero start or end leaves that side of the range open.
func FilterByDateRange(bars []types.Bar, start, end time.Time) []types.Bar {
	if len(bars) == 0 {
		return bars
	}

	var filtered []types.Bar
	for _, bar := range bars {
		if !start.IsZero() && bar.Date.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Date.After(end) {
			continue
		}
		filtered = append(filtered, bar)
	}

	return filtered
}

// ValidateTimeSequence checks that bar dates are strictly increasing.
func ValidateTimeSequence(bars []types.Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("bars out of order at index %d: %s does not follow %s",
				i, bars[i].Date.Format("2006-01-02"), bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
