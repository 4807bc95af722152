package strategy

import "github.com/dcat-quant/dcat-backtest/internal/indicator"

// BarContext is everything a variant sees for one trading day: the symbol's
// indicator row plus the benchmark regime flags for the same date.
type BarContext struct {
	Row    indicator.Row
	Regime indicator.RegimeFlags
}

// Variant encapsulates the rule set that distinguishes the classic strategy
// from the adaptive one. All methods are pure functions of the bar context,
// so variants stay stateless and safe to share across runs.
type Variant interface {
	Name() string

	// ContributionAmount is the cash spent on the weekly contribution buy.
	ContributionAmount(ctx BarContext) float64

	// TacticalAmount is the cash budget for a tactical entry.
	TacticalAmount(ctx BarContext) float64

	// StopLossMultiplier scales the ATR distance below the tactical
	// average price at which the position is cut.
	StopLossMultiplier(ctx BarContext) float64

	// TrimSignal reports whether the contribution book should shed a
	// third of its position.
	TrimSignal(ctx BarContext, profitRatio, positionRatio float64) bool

	// EntrySignal reports whether a tactical position should be opened.
	EntrySignal(ctx BarContext) bool

	// CloseSignal reports whether the tactical position should be closed
	// on momentum rollover.
	CloseSignal(ctx BarContext, profitRatio float64) bool
}
