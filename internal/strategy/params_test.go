package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcat-quant/dcat-backtest/internal/indicator"
)

func TestSharesForAmountBoardLots(t *testing.T) {
	p := DefaultParams()

	// 5000 budget, 5 yuan commission floor, 10.01 fill after slippage:
	// 4995 / 10.01 = 499.0, truncated to 400 shares
	assert.InDelta(t, 400.0, p.SharesForAmount(5000, 10.0), 1e-9)

	// 1000 budget at 3.5: 995 / 3.5035 = 283.99, one lot
	assert.InDelta(t, 200.0, p.SharesForAmount(1000, 3.5), 1e-9)

	// budget below the commission floor never goes negative
	assert.InDelta(t, 0.0, p.SharesForAmount(3, 10.0), 1e-9)
}

func TestSharesPlainNoLotRounding(t *testing.T) {
	p := DefaultParams()

	// 500 + 5 commission = 505 total at 3.5035 = 144.14, truncated
	assert.InDelta(t, 144.0, p.SharesPlain(500, 3.5), 1e-9)
	assert.InDelta(t, 0.0, p.SharesPlain(500, 1000.0), 1e-9)
}

func TestCapitalSplit(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 350000.0, p.DCACapital(), 1e-9)
	assert.InDelta(t, 150000.0, p.TacticalCapital(), 1e-9)
}

func rowWithATRRatio(ratio float64) BarContext {
	return BarContext{Row: indicator.Row{Close: 10.0, ATR: ratio * 10.0, ATRRatio: ratio}}
}

func TestAdaptiveVolatilityBuckets(t *testing.T) {
	a := NewAdaptive(DefaultParams())

	high := rowWithATRRatio(0.04)
	mid := rowWithATRRatio(0.025)
	low := rowWithATRRatio(0.005)
	neutral := rowWithATRRatio(0.015)

	assert.InDelta(t, 700.0, a.ContributionAmount(high), 1e-9)
	assert.InDelta(t, 850.0, a.ContributionAmount(mid), 1e-9)
	assert.InDelta(t, 1150.0, a.ContributionAmount(low), 1e-9)
	assert.InDelta(t, 1000.0, a.ContributionAmount(neutral), 1e-9)

	assert.InDelta(t, 2.5, a.StopLossMultiplier(high), 1e-9)
	assert.InDelta(t, 2.2, a.StopLossMultiplier(mid), 1e-9)
	assert.InDelta(t, 1.5, a.StopLossMultiplier(low), 1e-9)
	assert.InDelta(t, 2.0, a.StopLossMultiplier(neutral), 1e-9)
}

func TestAdaptiveAmountsDuringWarmup(t *testing.T) {
	a := NewAdaptive(DefaultParams())

	nan := BarContext{Row: indicator.Row{Close: 10.0, ATR: math.NaN(), ATRRatio: math.NaN()}}
	assert.InDelta(t, 1000.0, a.ContributionAmount(nan), 1e-9)
	assert.InDelta(t, 2.0, a.StopLossMultiplier(nan), 1e-9)

	// zero ATR is treated as no-signal, not as a quiet market
	flat := BarContext{Row: indicator.Row{Close: 10.0, ATR: 0, ATRRatio: 0}}
	assert.InDelta(t, 1000.0, a.ContributionAmount(flat), 1e-9)
}

func TestAdaptiveTacticalAmountTrendTilt(t *testing.T) {
	a := NewAdaptive(DefaultParams())

	up := rowWithATRRatio(0.015)
	up.Row.Uptrend = true
	assert.InDelta(t, 5500.0, a.TacticalAmount(up), 1e-9)

	down := rowWithATRRatio(0.04)
	down.Row.Downtrend = true
	assert.InDelta(t, 5000.0*0.7*0.9, a.TacticalAmount(down), 1e-9)
}
