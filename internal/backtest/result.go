package backtest

import (
	"math"

	"github.com/dcat-quant/dcat-backtest/internal/ledger"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
)

// AnnualReturn is one calendar year's performance, measured between the
// first and last valuation inside that year.
type AnnualReturn struct {
	Year   int     `json:"year"`
	Return float64 `json:"return"`
	Profit float64 `json:"profit"`
}

// Summary is the aggregate performance report of one backtest.
type Summary struct {
	TotalReturn   float64        `json:"total_return"`
	AnnualizedRet float64        `json:"annual_return"`
	MaxDrawdown   float64        `json:"max_drawdown"`
	SharpeRatio   float64        `json:"sharpe_ratio"`
	FinalValue    float64        `json:"final_value"`
	DCABuyCount   int            `json:"dca_buy_count"`
	DCASellCount  int            `json:"dca_sell_count"`
	TBuyCount     int            `json:"t_buy_count"`
	TSellCount    int            `json:"t_sell_count"`
	TProfit       float64        `json:"t_profit"`
	DCACash       float64        `json:"dca_cash"`
	TCash         float64        `json:"t_cash"`
	DCAValue      float64        `json:"dca_value"`
	TValue        float64        `json:"t_value"`
	AnnualReturns []AnnualReturn `json:"annual_returns"`
	DataStartDate string         `json:"data_start_date"`
	DataEndDate   string         `json:"data_end_date"`
}

// Summarize derives the performance summary from a finished strategy run.
// An empty run yields the zero summary.
func Summarize(strat strategy.Strategy) Summary {
	navs := strat.NAVs()
	if len(navs) == 0 {
		return Summary{}
	}

	first := navs[0]
	last := navs[len(navs)-1]

	totalReturn := last.TotalReturn

	annualized := 0.0
	days := last.Date.Sub(first.Date).Hours() / 24
	if days > 0 {
		annualized = math.Pow(1+totalReturn, 365/days) - 1
	}

	dcaBuys, dcaSells := countSides(strat.DCATrades())
	tBuys, tSells := countSides(strat.TacticalTrades())

	tProfit := 0.0
	for _, trade := range strat.TacticalTrades() {
		if trade.Side == ledger.SideSell {
			tProfit += trade.Profit
		}
	}

	return Summary{
		TotalReturn:   totalReturn,
		AnnualizedRet: annualized,
		MaxDrawdown:   maxDrawdown(navs),
		SharpeRatio:   sharpeRatio(navs),
		FinalValue:    last.TotalValue,
		DCABuyCount:   dcaBuys,
		DCASellCount:  dcaSells,
		TBuyCount:     tBuys,
		TSellCount:    tSells,
		TProfit:       tProfit,
		DCACash:       last.DCACash,
		TCash:         last.TCash,
		DCAValue:      last.DCAValue,
		TValue:        last.TValue,
		AnnualReturns: annualReturns(navs),
		DataStartDate: first.Date.Format("2006-01-02"),
		DataEndDate:   last.Date.Format("2006-01-02"),
	}
}

func countSides(trades []ledger.Trade) (buys, sells int) {
	for _, trade := range trades {
		if trade.Side == ledger.SideBuy {
			buys++
		} else {
			sells++
		}
	}
	return buys, sells
}

// maxDrawdown is the deepest peak-to-trough loss of the valuation series,
// reported as a negative fraction.
func maxDrawdown(navs []strategy.NAV) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, nav := range navs {
		if nav.TotalValue > peak {
			peak = nav.TotalValue
		}
		dd := (nav.TotalValue - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// sharpeRatio annualizes the mean daily change of the cumulative return
// series over its sample standard deviation.
func sharpeRatio(navs []strategy.NAV) float64 {
	if len(navs) < 2 {
		return 0
	}

	diffs := make([]float64, 0, len(navs)-1)
	for i := 1; i < len(navs); i++ {
		diffs = append(diffs, navs[i].TotalReturn-navs[i-1].TotalReturn)
	}

	mean := 0.0
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(len(diffs))

	if len(diffs) < 2 {
		return 0
	}
	variance := 0.0
	for _, d := range diffs {
		variance += (d - mean) * (d - mean)
	}
	std := math.Sqrt(variance / float64(len(diffs)-1))
	if std <= 0 {
		return 0
	}

	return mean / std * math.Sqrt(252)
}

func annualReturns(navs []strategy.NAV) []AnnualReturn {
	var out []AnnualReturn
	for i := 0; i < len(navs); {
		year := navs[i].Date.Year()
		start := navs[i].TotalValue

		j := i
		for j+1 < len(navs) && navs[j+1].Date.Year() == year {
			j++
		}
		end := navs[j].TotalValue

		yearReturn := 0.0
		if start > 0 {
			yearReturn = (end - start) / start
		}
		out = append(out, AnnualReturn{
			Year:   year,
			Return: yearReturn,
			Profit: end - start,
		})
		i = j + 1
	}
	return out
}
