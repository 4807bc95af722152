package strategy

import (
	"math"

	"github.com/dcat-quant/dcat-backtest/internal/ledger"
)

// Params holds the capital split and trading costs shared by all strategy
// variants. Amounts are in account currency.
type Params struct {
	TotalCapital     float64 `json:"total_capital"`
	DCARatio         float64 `json:"dca_ratio"`
	DCAAmountPerWeek float64 `json:"dca_amount_per_week"`
	TAmountPerTrade  float64 `json:"t_amount_per_trade"`
	MaxLossRatio     float64 `json:"max_loss_ratio"`
	ProfitTarget     float64 `json:"profit_target"`
	CommissionRate   float64 `json:"commission"`
	Slippage         float64 `json:"slippage"`
}

// DefaultParams returns the standard configuration: 500k capital split 70/30
// between the contribution book and the tactical book.
func DefaultParams() Params {
	return Params{
		TotalCapital:     500000.0,
		DCARatio:         0.7,
		DCAAmountPerWeek: 1000.0,
		TAmountPerTrade:  5000.0,
		MaxLossRatio:     0.03,
		ProfitTarget:     0.01,
		CommissionRate:   0.0003,
		Slippage:         0.001,
	}
}

// DefaultDCAOnlyParams returns the baseline configuration used by the plain
// contribution strategy: a smaller weekly amount and a 20% full-exit target.
// The capital split fields are ignored there; the whole capital is one book.
func DefaultDCAOnlyParams() Params {
	p := DefaultParams()
	p.DCAAmountPerWeek = 500.0
	p.ProfitTarget = 0.20
	return p
}

// DCACapital returns the cash allocated to the contribution book.
func (p Params) DCACapital() float64 {
	return p.TotalCapital * p.DCARatio
}

// TacticalCapital returns the cash allocated to the tactical book.
func (p Params) TacticalCapital() float64 {
	return p.TotalCapital * (1 - p.DCARatio)
}

// Commission returns the fee for a trade of the given gross amount.
func (p Params) Commission(amount float64) float64 {
	return ledger.Commission(amount, p.CommissionRate)
}

// SharesForAmount converts a cash budget into a board-lot share count. The
// commission is carved out of the budget and the fill price carries slippage,
// then the result rounds down to a multiple of 100 shares.
func (p Params) SharesForAmount(amount, price float64) float64 {
	actualPrice := price * (1 + p.Slippage)
	available := amount - p.Commission(amount)
	shares := available / actualPrice
	return math.Trunc(shares/100) * 100
}

// SharesPlain converts a cash budget into a whole share count without lot
// rounding. The budget here is spent on top of the commission, so the cash
// outlay slightly exceeds amount.
func (p Params) SharesPlain(amount, price float64) float64 {
	totalCost := amount + p.Commission(amount)
	shares := math.Trunc(totalCost / (price * (1 + p.Slippage)))
	if shares < 0 {
		return 0
	}
	return shares
}
