package strategy

// Adaptive scales the classic rules with realized volatility. Amounts, the
// stop distance and the profit target all key off the ATR-to-price ratio,
// bucketed at 3%, 2% and 1%. A NaN ratio during indicator warm-up falls
// through every bucket and yields the base value.
type Adaptive struct {
	params Params
}

// NewAdaptive creates the volatility-adaptive variant.
func NewAdaptive(params Params) *Adaptive {
	return &Adaptive{params: params}
}

func (a *Adaptive) Name() string { return "adaptive" }

// volBucket classifies the day's volatility. A zero ATR means the ratio is
// meaningless, so it lands in the neutral bucket rather than the quiet one.
func volBucket(ctx BarContext) int {
	if ctx.Row.ATR == 0 || ctx.Row.Close == 0 {
		return 0
	}
	switch ratio := ctx.Row.ATRRatio; {
	case ratio > 0.03:
		return 3
	case ratio > 0.02:
		return 2
	case ratio < 0.01:
		return 1
	default:
		return 0
	}
}

// ContributionAmount shrinks the weekly buy in rough markets and grows it in
// quiet ones.
func (a *Adaptive) ContributionAmount(ctx BarContext) float64 {
	base := a.params.DCAAmountPerWeek
	switch volBucket(ctx) {
	case 3:
		return base * 0.7
	case 2:
		return base * 0.85
	case 1:
		return base * 1.15
	default:
		return base
	}
}

// TacticalAmount applies the same volatility scaling as the contribution
// amount, then tilts with the trend.
func (a *Adaptive) TacticalAmount(ctx BarContext) float64 {
	amount := a.params.TAmountPerTrade
	switch volBucket(ctx) {
	case 3:
		amount *= 0.7
	case 2:
		amount *= 0.85
	case 1:
		amount *= 1.15
	}

	if ctx.Row.Uptrend {
		amount *= 1.1
	} else if ctx.Row.Downtrend {
		amount *= 0.9
	}
	return amount
}

// StopLossMultiplier widens the stop when volatility is high so normal noise
// does not shake the position out.
func (a *Adaptive) StopLossMultiplier(ctx BarContext) float64 {
	switch volBucket(ctx) {
	case 3:
		return 2.5
	case 2:
		return 2.2
	case 1:
		return 1.5
	default:
		return 2.0
	}
}

func (a *Adaptive) profitTarget(ctx BarContext) float64 {
	base := a.params.ProfitTarget
	switch volBucket(ctx) {
	case 3:
		return base * 1.3
	case 2:
		return base * 1.15
	case 1:
		return base * 0.85
	default:
		return base
	}
}

// TrimSignal uses a lower position threshold than the classic variant and
// accepts three exit shapes: a momentum rollover on heavy volume, a downtrend
// with 15%+ locked in, or negative momentum with 25%+ locked in.
func (a *Adaptive) TrimSignal(ctx BarContext, profitRatio, positionRatio float64) bool {
	r := ctx.Row
	if positionRatio <= 0.65 || profitRatio <= a.profitTarget(ctx) {
		return false
	}
	return (r.Hist > 0 && r.VolumeRatio > 1.5 && r.Hist < r.HistPrev) ||
		(r.Downtrend && profitRatio > 0.15) ||
		(r.Hist < 0 && profitRatio > 0.25)
}

// EntrySignal mirrors the classic entries, but a deep-drop rebound only
// counts when the symbol itself is trending up.
func (a *Adaptive) EntrySignal(ctx BarContext) bool {
	r := ctx.Row
	if ctx.Regime.Drop2Rebound && r.Uptrend {
		return true
	}
	if ctx.Regime.Drop1Rebound {
		return true
	}
	return r.Hist < 0 && r.HistPrev > r.HistPrev2 && r.Yang
}

// CloseSignal adds a quality gate on top of the classic momentum close: only
// exit when the trade is in profit or volume confirms the rollover.
func (a *Adaptive) CloseSignal(ctx BarContext, profitRatio float64) bool {
	r := ctx.Row
	if !(r.MA5 > 0 && r.Hist > 0 && r.Hist < r.HistPrev && r.Close < r.MA5) {
		return false
	}
	return profitRatio > 0.01 || r.VolumeSurge
}
