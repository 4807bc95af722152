package strategy

import (
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
)

const maxTrims = 3

// DualPosition runs the contribution book and the tactical book side by
// side. Each book has its own cash pool; the tactical book may only open a
// position while the contribution book carries enough market value to cover
// the trade.
type DualPosition struct {
	symbol  string
	params  Params
	variant Variant

	dca      *ledger.Account
	tactical *ledger.Account

	trimCount int

	trades    []ledger.Trade
	navs      []NAV
	positions []PositionInfo

	dailyBuy  float64
	dailySell float64
}

// NewDualPosition creates a strategy instance for one symbol. The capital
// split between the two books comes from the params.
func NewDualPosition(symbol string, params Params, variant Variant) *DualPosition {
	return &DualPosition{
		symbol:   symbol,
		params:   params,
		variant:  variant,
		dca:      ledger.NewAccount(ledger.BookDCA, params.DCACapital()),
		tactical: ledger.NewAccount(ledger.BookTactical, params.TacticalCapital()),
	}
}

func (s *DualPosition) Name() string { return s.variant.Name() }

// Params returns the strategy configuration.
func (s *DualPosition) Params() Params { return s.params }

// OnBar processes one trading day: contribution logic first, then the
// tactical book, then the end-of-day valuation.
func (s *DualPosition) OnBar(ctx BarContext) {
	s.runContribution(ctx)
	s.runTactical(ctx)
	s.recordDay(ctx)
}

// runContribution places the weekly buy and trims the position when the
// variant's take-profit rule fires. At most a third of the shares go per
// trim, and only three trims ever happen.
func (s *DualPosition) runContribution(ctx BarContext) {
	price := ctx.Row.Close

	// Captured before the weekly buy so a same-day purchase does not
	// dilute the gain used by the trim rule.
	profitRatio := s.dca.ProfitRatio(price)

	if isWeekStart(ctx.Row.Date) {
		amount := s.variant.ContributionAmount(ctx)
		if s.dca.Cash >= amount {
			shares := s.params.SharesForAmount(amount, price)
			if shares > 0 {
				s.buy(s.dca, shares, price, ctx)
			}
		}
	}

	positionRatio := 0.0
	if s.dca.HasPosition() {
		value := s.dca.MarketValue(price)
		positionRatio = value / (s.dca.Cash + value)
	}

	if s.dca.HasPosition() && s.trimCount < maxTrims &&
		s.variant.TrimSignal(ctx, profitRatio, positionRatio) {
		sellShares := s.dca.Position.Shares / 3
		if sellShares > 0 {
			if s.sell(s.dca, sellShares, price, ctx) {
				s.trimCount++
			}
		}
	}
}

// runTactical manages the tactical book. Exits run before entries: the ATR
// stop first, then the momentum close, and only a flat book may open.
func (s *DualPosition) runTactical(ctx BarContext) {
	price := ctx.Row.Close
	profitRatio := s.tactical.ProfitRatio(price)
	dcaValue := s.dca.MarketValue(price)

	if s.tactical.HasPosition() && ctx.Row.ATR > 0 {
		stopPrice := s.tactical.Position.AvgPrice - s.variant.StopLossMultiplier(ctx)*ctx.Row.ATR
		if price < stopPrice {
			s.sell(s.tactical, s.tactical.Position.Shares, price, ctx)
			return
		}
	}

	if s.tactical.HasPosition() && s.variant.CloseSignal(ctx, profitRatio) {
		s.sell(s.tactical, s.tactical.Position.Shares, price, ctx)
		return
	}

	amount := s.variant.TacticalAmount(ctx)
	if !s.tactical.HasPosition() && s.tactical.Cash >= amount && dcaValue >= amount &&
		s.variant.EntrySignal(ctx) {
		shares := s.params.SharesForAmount(amount, price)
		if shares > 0 {
			s.buy(s.tactical, shares, price, ctx)
		}
	}
}

func (s *DualPosition) buy(acct *ledger.Account, shares, price float64, ctx BarContext) bool {
	trade, err := acct.Buy(s.symbol, shares, price, s.params.CommissionRate, ctx.Row.Date)
	if err != nil {
		return false
	}
	s.trades = append(s.trades, trade)
	s.dailyBuy += trade.Amount
	return true
}

func (s *DualPosition) sell(acct *ledger.Account, shares, price float64, ctx BarContext) bool {
	trade, err := acct.Sell(s.symbol, shares, price, s.params.CommissionRate, ctx.Row.Date)
	if err != nil {
		return false
	}
	s.trades = append(s.trades, trade)
	s.dailySell += trade.Amount
	return true
}

func (s *DualPosition) recordDay(ctx BarContext) {
	price := ctx.Row.Close
	dcaValue := s.dca.MarketValue(price)
	tValue := s.tactical.MarketValue(price)
	totalValue := s.dca.Cash + s.tactical.Cash + dcaValue + tValue

	s.navs = append(s.navs, NAV{
		Date:        ctx.Row.Date,
		Symbol:      s.symbol,
		Price:       price,
		DCACash:     s.dca.Cash,
		TCash:       s.tactical.Cash,
		DCAValue:    dcaValue,
		TValue:      tValue,
		TotalValue:  totalValue,
		TotalReturn: (totalValue - s.params.TotalCapital) / s.params.TotalCapital,
	})

	s.positions = append(s.positions, PositionInfo{
		Date:       ctx.Row.Date,
		Symbol:     s.symbol,
		Position:   (dcaValue + tValue) / 10000,
		BuyAmount:  s.dailyBuy / 10000,
		SellAmount: s.dailySell / 10000,
	})

	s.dailyBuy = 0
	s.dailySell = 0
}

// NAVs returns the daily valuation series in bar order.
func (s *DualPosition) NAVs() []NAV { return s.navs }

// PositionInfos returns the daily exposure series in bar order.
func (s *DualPosition) PositionInfos() []PositionInfo { return s.positions }

// Trades returns every trade across both books in execution order.
func (s *DualPosition) Trades() []ledger.Trade { return s.trades }

// DCATrades returns the contribution book's trades.
func (s *DualPosition) DCATrades() []ledger.Trade { return s.dca.Trades }

// TacticalTrades returns the tactical book's trades.
func (s *DualPosition) TacticalTrades() []ledger.Trade { return s.tactical.Trades }
