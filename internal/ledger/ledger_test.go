package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestCommissionFloor(t *testing.T) {
	// 0.03% of 10000 is 3, below the 5 yuan floor
	assert.InDelta(t, 5.0, Commission(10000, 0.0003), 1e-9)
	// 0.03% of 100000 is 30, above the floor
	assert.InDelta(t, 30.0, Commission(100000, 0.0003), 1e-9)
	assert.InDelta(t, 5.0, Commission(0, 0.0003), 1e-9)
}

func TestBuyCarriesCommissionInBasis(t *testing.T) {
	acct := NewAccount(BookDCA, 50000)

	trade, err := acct.Buy("510300", 1000, 10.0, 0.0003, testDay)
	require.NoError(t, err)

	// 10000 gross plus the 5 yuan floor
	assert.InDelta(t, 10005.0, trade.Amount, 1e-9)
	assert.InDelta(t, 39995.0, acct.Cash, 1e-9)
	assert.InDelta(t, 1000.0, acct.Position.Shares, 1e-9)
	assert.InDelta(t, 10005.0, acct.Position.Cost, 1e-9)
	assert.InDelta(t, 10.005, acct.Position.AvgPrice, 1e-9)
	assert.Equal(t, SideBuy, trade.Side)
	assert.Equal(t, BookDCA, trade.Book)
}

func TestBuyInsufficientFunds(t *testing.T) {
	acct := NewAccount(BookDCA, 100)

	_, err := acct.Buy("510300", 1000, 10.0, 0.0003, testDay)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.InDelta(t, 100.0, acct.Cash, 1e-9)
	assert.Empty(t, acct.Trades)
}

func TestSellReleasesBasisProportionally(t *testing.T) {
	acct := NewAccount(BookDCA, 50000)
	_, err := acct.Buy("510300", 1000, 10.0, 0.0003, testDay)
	require.NoError(t, err)

	trade, err := acct.Sell("510300", 400, 11.0, 0.0003, testDay.AddDate(0, 0, 5))
	require.NoError(t, err)

	// gross 4400, commission floor 5, basis released 400 * 10.005
	assert.InDelta(t, 4395.0, trade.Amount, 1e-9)
	assert.InDelta(t, 4395.0-4002.0, trade.Profit, 1e-9)
	assert.InDelta(t, 600.0, acct.Position.Shares, 1e-9)
	assert.InDelta(t, 10005.0-4002.0, acct.Position.Cost, 1e-9)
	// average price unchanged by a partial sell
	assert.InDelta(t, 10.005, acct.Position.AvgPrice, 1e-9)
}

func TestSellFullPositionResetsAverage(t *testing.T) {
	acct := NewAccount(BookTactical, 20000)
	_, err := acct.Buy("159915", 500, 2.0, 0.0003, testDay)
	require.NoError(t, err)
	assert.Equal(t, testDay, acct.Position.EntryDate)

	_, err = acct.Sell("159915", 500, 2.2, 0.0003, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.InDelta(t, 0.0, acct.Position.Shares, 1e-9)
	assert.InDelta(t, 0.0, acct.Position.AvgPrice, 1e-9)
	assert.True(t, acct.Position.EntryDate.IsZero())
	assert.False(t, acct.HasPosition())
}

func TestSellInsufficientShares(t *testing.T) {
	acct := NewAccount(BookTactical, 20000)
	_, err := acct.Buy("159915", 500, 2.0, 0.0003, testDay)
	require.NoError(t, err)

	_, err = acct.Sell("159915", 600, 2.2, 0.0003, testDay)
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestBasisConservation(t *testing.T) {
	acct := NewAccount(BookDCA, 1000000)

	prices := []float64{10.0, 10.4, 9.8, 10.9, 11.3}
	for i, p := range prices {
		_, err := acct.Buy("510300", 700, p, 0.0003, testDay.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	_, err := acct.Sell("510300", 1200, 11.0, 0.0003, testDay.AddDate(0, 0, 10))
	require.NoError(t, err)

	// avg price times shares always equals the remaining cost basis
	assert.InDelta(t, acct.Position.Cost, acct.Position.AvgPrice*acct.Position.Shares, 1e-6)
}

func TestProfitRatio(t *testing.T) {
	acct := NewAccount(BookDCA, 50000)
	assert.InDelta(t, 0.0, acct.ProfitRatio(10.0), 1e-9)

	_, err := acct.Buy("510300", 1000, 10.0, 0.0003, testDay)
	require.NoError(t, err)

	// avg is 10.005 after the commission floor
	assert.InDelta(t, (11.0-10.005)/10.005, acct.ProfitRatio(11.0), 1e-9)
	assert.InDelta(t, 11000.0, acct.MarketValue(11.0), 1e-9)
}
