package strategy

// Classic is the fixed-parameter variant: constant contribution and tactical
// amounts, a hard 20% trim threshold and a 2x ATR stop.
type Classic struct {
	params Params
}

// NewClassic creates the fixed-parameter variant.
func NewClassic(params Params) *Classic {
	return &Classic{params: params}
}

func (c *Classic) Name() string { return "classic" }

func (c *Classic) ContributionAmount(_ BarContext) float64 {
	return c.params.DCAAmountPerWeek
}

func (c *Classic) TacticalAmount(_ BarContext) float64 {
	return c.params.TAmountPerTrade
}

func (c *Classic) StopLossMultiplier(_ BarContext) float64 {
	return 2.0
}

// TrimSignal fires when the contribution book dominates its cash pool, sits
// on a 20%+ gain, and the MACD histogram rolls over on heavy volume.
func (c *Classic) TrimSignal(ctx BarContext, profitRatio, positionRatio float64) bool {
	r := ctx.Row
	return positionRatio > 0.7 &&
		profitRatio > 0.2 &&
		r.Hist > 0 &&
		r.VolumeRatio > 1.5 &&
		r.Hist < r.HistPrev
}

// EntrySignal opens on a benchmark rebound after a sharp drop, or on a MACD
// histogram turn below zero confirmed by a bullish candle.
func (c *Classic) EntrySignal(ctx BarContext) bool {
	r := ctx.Row
	if ctx.Regime.Drop2Rebound {
		return true
	}
	if ctx.Regime.Drop1Rebound {
		return true
	}
	return r.Hist < 0 && r.HistPrev > r.HistPrev2 && r.Yang
}

// CloseSignal cuts the tactical position when positive momentum starts
// fading and price loses the 5-day average.
func (c *Classic) CloseSignal(ctx BarContext, _ float64) bool {
	r := ctx.Row
	return r.MA5 > 0 && r.Hist > 0 && r.Hist < r.HistPrev && r.Close < r.MA5
}
