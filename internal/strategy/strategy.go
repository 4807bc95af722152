// Package strategy implements the dual-book trading logic: a weekly
// contribution plan on one cash pool and an intraday-style tactical book on
// another, driven by precomputed daily indicators.
package strategy

import (
	"time"

	"github.com/dcat-quant/dcat-backtest/internal/ledger"
)

// NAV is one end-of-day valuation snapshot across both books.
type NAV struct {
	Date        time.Time `json:"date"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	DCACash     float64   `json:"dca_cash"`
	TCash       float64   `json:"t_cash"`
	DCAValue    float64   `json:"dca_value"`
	TValue      float64   `json:"t_value"`
	TotalValue  float64   `json:"total_value"`
	TotalReturn float64   `json:"total_return"`
}

// PositionInfo is the day's exposure and turnover, in units of 10k currency.
type PositionInfo struct {
	Date       time.Time `json:"date"`
	Symbol     string    `json:"symbol"`
	Position   float64   `json:"position"`
	BuyAmount  float64   `json:"buy_amount"`
	SellAmount float64   `json:"sell_amount"`
}

// Strategy consumes one bar context per trading day and accumulates trades
// and valuations. Implementations are not safe for concurrent use; the
// runner gives each backtest its own instance.
type Strategy interface {
	Name() string
	OnBar(ctx BarContext)
	NAVs() []NAV
	PositionInfos() []PositionInfo
	Trades() []ledger.Trade
	DCATrades() []ledger.Trade
	TacticalTrades() []ledger.Trade
	Params() Params
}

func isWeekStart(date time.Time) bool {
	return date.Weekday() == time.Monday
}
