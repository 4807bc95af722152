package strategy

import (
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
)

// DCAOnly is the plain contribution baseline: buy every week, sell the whole
// position once the gain reaches the profit target and price loses its
// 10-day average, then keep contributing. No tactical book.
type DCAOnly struct {
	symbol string
	params Params

	dca *ledger.Account

	navs      []NAV
	positions []PositionInfo

	dailyBuy  float64
	dailySell float64
}

// NewDCAOnly creates the baseline strategy. The whole capital sits in the
// contribution book; ProfitTarget is read as the full-exit threshold.
func NewDCAOnly(symbol string, params Params) *DCAOnly {
	return &DCAOnly{
		symbol: symbol,
		params: params,
		dca:    ledger.NewAccount(ledger.BookDCA, params.TotalCapital),
	}
}

func (s *DCAOnly) Name() string { return "dca_only" }

// Params returns the strategy configuration.
func (s *DCAOnly) Params() Params { return s.params }

// OnBar contributes on the first trading day of the week and exits in full
// when the take-profit condition holds.
func (s *DCAOnly) OnBar(ctx BarContext) {
	price := ctx.Row.Close

	profitRatio := s.dca.ProfitRatio(price)

	if isWeekStart(ctx.Row.Date) && s.dca.Cash >= s.params.DCAAmountPerWeek {
		shares := s.params.SharesPlain(s.params.DCAAmountPerWeek, price)
		if shares > 0 {
			if trade, err := s.dca.Buy(s.symbol, shares, price, s.params.CommissionRate, ctx.Row.Date); err == nil {
				s.dailyBuy += trade.Amount
			}
		}
	}

	if s.dca.HasPosition() && profitRatio >= s.params.ProfitTarget && price < ctx.Row.MA10 {
		if trade, err := s.dca.Sell(s.symbol, s.dca.Position.Shares, price, s.params.CommissionRate, ctx.Row.Date); err == nil {
			s.dailySell += trade.Amount
		}
	}

	s.recordDay(ctx)
}

func (s *DCAOnly) recordDay(ctx BarContext) {
	price := ctx.Row.Close
	value := s.dca.MarketValue(price)
	totalValue := s.dca.Cash + value

	s.navs = append(s.navs, NAV{
		Date:        ctx.Row.Date,
		Symbol:      s.symbol,
		Price:       price,
		DCACash:     s.dca.Cash,
		DCAValue:    value,
		TotalValue:  totalValue,
		TotalReturn: (totalValue - s.params.TotalCapital) / s.params.TotalCapital,
	})

	s.positions = append(s.positions, PositionInfo{
		Date:       ctx.Row.Date,
		Symbol:     s.symbol,
		Position:   value / 10000,
		BuyAmount:  s.dailyBuy / 10000,
		SellAmount: s.dailySell / 10000,
	})

	s.dailyBuy = 0
	s.dailySell = 0
}

// NAVs returns the daily valuation series in bar order.
func (s *DCAOnly) NAVs() []NAV { return s.navs }

// PositionInfos returns the daily exposure series in bar order.
func (s *DCAOnly) PositionInfos() []PositionInfo { return s.positions }

// Trades returns every executed trade in order.
func (s *DCAOnly) Trades() []ledger.Trade { return s.dca.Trades }

// DCATrades returns the contribution trades; identical to Trades here.
func (s *DCAOnly) DCATrades() []ledger.Trade { return s.dca.Trades }

// TacticalTrades always returns nil; this strategy has no tactical book.
func (s *DCAOnly) TacticalTrades() []ledger.Trade { return nil }
