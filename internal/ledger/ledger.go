// Package ledger tracks cash, positions and trade history for one side of
// the strategy. The contribution book and the tactical book each get their
// own Account so their cash pools never mix.
package ledger

import (
	"errors"
	"time"
)

// MinCommission is the per-trade commission floor in account currency.
const MinCommission = 5.0

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Book identifies which side of the strategy a trade belongs to.
type Book string

const (
	BookDCA      Book = "dca"
	BookTactical Book = "t"
)

// Side is the trade direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is one executed order. Amount is the full cash delta: total cost
// including commission for buys, net proceeds after commission for sells.
type Trade struct {
	Date      time.Time `json:"date"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"type"`
	Book      Book      `json:"strategy"`
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	Profit    float64   `json:"profit,omitempty"`
	CashAfter float64   `json:"cash_after"`
}

// Position is the current holding of an account.
type Position struct {
	Shares    float64
	Cost      float64 // cumulative cost basis including commissions
	AvgPrice  float64 // Cost / Shares
	EntryDate time.Time
}

// Account is a single cash pool with one position and its trade log.
type Account struct {
	Book     Book
	Cash     float64
	Position Position
	Trades   []Trade
}

// NewAccount creates an account with the given starting cash.
func NewAccount(book Book, cash float64) *Account {
	return &Account{Book: book, Cash: cash}
}

// Commission returns the fee for a trade of the given gross amount.
func Commission(amount, rate float64) float64 {
	fee := amount * rate
	if fee < MinCommission {
		return MinCommission
	}
	return fee
}

// Buy executes a purchase of shares at price. The commission is added to the
// cost basis, so the average price carries fees.
func (a *Account) Buy(symbol string, shares, price, commissionRate float64, date time.Time) (Trade, error) {
	amount := shares * price
	cost := amount + Commission(amount, commissionRate)
	if cost > a.Cash {
		return Trade{}, ErrInsufficientFunds
	}

	a.Position.Shares += shares
	a.Position.Cost += cost
	a.Position.AvgPrice = a.Position.Cost / a.Position.Shares
	if a.Book == BookTactical {
		a.Position.EntryDate = date
	}

	a.Cash -= cost

	trade := Trade{
		Date:      date,
		Symbol:    symbol,
		Side:      SideBuy,
		Book:      a.Book,
		Shares:    shares,
		Price:     price,
		Amount:    cost,
		CashAfter: a.Cash,
	}
	a.Trades = append(a.Trades, trade)
	return trade, nil
}

// Sell closes out shares at price. The cost basis is released at the average
// price, and profit is net proceeds minus the released basis.
func (a *Account) Sell(symbol string, shares, price, commissionRate float64, date time.Time) (Trade, error) {
	if shares > a.Position.Shares {
		return Trade{}, ErrInsufficientShares
	}

	amount := shares * price
	costAmount := a.Position.AvgPrice * shares
	net := amount - Commission(amount, commissionRate)
	profit := net - costAmount

	a.Position.Shares -= shares
	a.Position.Cost -= costAmount
	if a.Position.Shares == 0 {
		a.Position.AvgPrice = 0
		a.Position.EntryDate = time.Time{}
	}

	a.Cash += net

	trade := Trade{
		Date:      date,
		Symbol:    symbol,
		Side:      SideSell,
		Book:      a.Book,
		Shares:    shares,
		Price:     price,
		Amount:    net,
		Profit:    profit,
		CashAfter: a.Cash,
	}
	a.Trades = append(a.Trades, trade)
	return trade, nil
}

// MarketValue returns the current value of the position at price.
func (a *Account) MarketValue(price float64) float64 {
	return a.Position.Shares * price
}

// ProfitRatio returns the unrealized gain of the position relative to its
// average price, or 0 when flat.
func (a *Account) ProfitRatio(price float64) float64 {
	if a.Position.AvgPrice <= 0 {
		return 0
	}
	return (price - a.Position.AvgPrice) / a.Position.AvgPrice
}

// HasPosition reports whether the account holds any shares.
func (a *Account) HasPosition() bool {
	return a.Position.Shares > 0
}
