package indicator

import (
	"math"
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// RegimeFlags captures how the benchmark index behaved on a single day.
// Rebound flags refer to yesterday's drop followed by today's recovery.
type RegimeFlags struct {
	DailyReturn  float64
	Drop2        bool // fell more than 2%
	Drop1        bool // fell between 1% and 2%
	Drop2Rebound bool // fell more than 2% yesterday, up more than 0.3% today
	Drop1Rebound bool // fell 1-2% yesterday, up more than 0.2% today
}

// ComputeRegime derives daily market-regime flags from a benchmark index
// series, keyed by trading date.
func ComputeRegime(bars []types.Bar) map[time.Time]RegimeFlags {
	flags := make(map[time.Time]RegimeFlags, len(bars))

	prevDrop2 := false
	prevDrop1 := false
	for i, bar := range bars {
		ret := math.NaN()
		if i > 0 && bars[i-1].Close != 0 {
			ret = bar.Close/bars[i-1].Close - 1.0
		}

		drop2 := ret < -0.02
		drop1 := ret < -0.01 && ret >= -0.02

		flags[bar.Date] = RegimeFlags{
			DailyReturn:  ret,
			Drop2:        drop2,
			Drop1:        drop1,
			Drop2Rebound: prevDrop2 && ret > 0.003,
			Drop1Rebound: prevDrop1 && ret > 0.002,
		}

		prevDrop2 = drop2
		prevDrop1 = drop1
	}

	return flags
}
