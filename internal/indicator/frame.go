package indicator

import (
	"math"
	"time"

	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// Params holds the periods used when computing the indicator frame.
type Params struct {
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	BandWindow  int // rolling quantile window for the DIF bands
	VolumeMA    int
	ATRPeriod   int
	Valuation   int // price percentile lookback, roughly one trading year
	MAShort     int
	MALong      int
	SurgeRatio  float64
	ShrinkRatio float64
	ChipATRMax  float64
}

// DefaultParams returns the standard indicator configuration.
func DefaultParams() Params {
	return Params{
		MACDFast:    6,
		MACDSlow:    13,
		MACDSignal:  5,
		BandWindow:  20,
		VolumeMA:    20,
		ATRPeriod:   14,
		Valuation:   252,
		MAShort:     20,
		MALong:      60,
		SurgeRatio:  1.5,
		ShrinkRatio: 0.8,
		ChipATRMax:  0.02,
	}
}

// Row is one trading day with its computed indicators. Values that have not
// warmed up yet are NaN; comparisons against NaN are false, so signal rules
// skip those days without explicit validity checks.
type Row struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	DIF       float64
	DEA       float64
	Hist      float64
	HistPrev  float64
	HistPrev2 float64
	DIFUpper  float64
	DIFLower  float64

	ATR      float64
	ATRRatio float64

	VolumeMA     float64
	VolumeRatio  float64
	VolumeSurge  bool
	VolumeShrink bool

	ChipConsolidated bool

	PricePercentile float64
	Overvalued      bool
	Undervalued     bool

	MA5  float64
	MA10 float64
	MA20 float64
	MA60 float64

	Uptrend   bool
	Downtrend bool
	Yang      bool
}

// Compute builds the indicator frame for a bar series using the given
// parameters. The returned rows are aligned 1:1 with the input bars.
func Compute(bars []types.Bar, p Params) []Row {
	n := len(bars)
	rows := make([]Row, n)
	if n == 0 {
		return rows
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	// MACD on the close series
	emaFast := ewm(closes, p.MACDFast)
	emaSlow := ewm(closes, p.MACDSlow)
	dif := make([]float64, n)
	for i := range dif {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea := ewm(dif, p.MACDSignal)
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = dif[i] - dea[i]
	}
	histPrev := shift(hist, 1)
	histPrev2 := shift(hist, 2)
	difUpper := rollingQuantile(dif, p.BandWindow, 0.8)
	difLower := rollingQuantile(dif, p.BandWindow, 0.2)

	// True range and ATR. The first bar has no prior close, so its true
	// range collapses to the bar's own high-low span.
	tr := make([]float64, n)
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - closes[i-1])
		lc := math.Abs(bars[i].Low - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	atr := sma(tr, p.ATRPeriod)

	volumeMA := sma(volumes, p.VolumeMA)

	pricePct := rollingRankPct(closes, p.Valuation)

	ma5 := sma(closes, 5)
	ma10 := sma(closes, 10)
	maShort := sma(closes, p.MAShort)
	maLong := sma(closes, p.MALong)

	for i := range rows {
		atrRatio := atr[i] / closes[i]
		volumeRatio := volumes[i] / volumeMA[i]
		shrink := volumeRatio < p.ShrinkRatio

		rows[i] = Row{
			Date:   bars[i].Date,
			Open:   bars[i].Open,
			High:   bars[i].High,
			Low:    bars[i].Low,
			Close:  bars[i].Close,
			Volume: bars[i].Volume,

			DIF:       dif[i],
			DEA:       dea[i],
			Hist:      hist[i],
			HistPrev:  histPrev[i],
			HistPrev2: histPrev2[i],
			DIFUpper:  difUpper[i],
			DIFLower:  difLower[i],

			ATR:      atr[i],
			ATRRatio: atrRatio,

			VolumeMA:     volumeMA[i],
			VolumeRatio:  volumeRatio,
			VolumeSurge:  volumeRatio > p.SurgeRatio,
			VolumeShrink: shrink,

			ChipConsolidated: atrRatio < p.ChipATRMax && shrink,

			PricePercentile: pricePct[i],
			Overvalued:      pricePct[i] > 0.8,
			Undervalued:     pricePct[i] < 0.2,

			MA5:  ma5[i],
			MA10: ma10[i],
			MA20: maShort[i],
			MA60: maLong[i],

			Uptrend:   maShort[i] > maLong[i],
			Downtrend: maShort[i] < maLong[i],
			Yang:      bars[i].Close > bars[i].Open,
		}
	}

	return rows
}
