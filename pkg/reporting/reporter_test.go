package reporting

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
)

func sampleResult() *backtest.Result {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	buy := ledger.Trade{
		Date: day, Symbol: "510300", Side: ledger.SideBuy, Book: ledger.BookDCA,
		Shares: 200, Price: 3.5, Amount: 705, CashAfter: 349295,
	}
	sell := ledger.Trade{
		Date: day.AddDate(0, 0, 10), Symbol: "510300", Side: ledger.SideSell, Book: ledger.BookTactical,
		Shares: 1400, Price: 3.6, Amount: 5035, Profit: 130, CashAfter: 150130,
	}

	return &backtest.Result{
		Symbol:  "510300",
		Variant: "classic",
		Summary: backtest.Summary{
			TotalReturn:   0.05,
			FinalValue:    525000,
			DCABuyCount:   1,
			TSellCount:    1,
			TProfit:       130,
			DataStartDate: "2024-01-01",
			DataEndDate:   "2024-01-11",
		},
		NAVs: []strategy.NAV{
			{Date: day, Symbol: "510300", Price: 3.5, TotalValue: 500000},
			{Date: day.AddDate(0, 0, 10), Symbol: "510300", Price: 3.6, TotalValue: 525000, TotalReturn: 0.05},
		},
		Positions: []strategy.PositionInfo{
			{Date: day, Symbol: "510300", Position: 0.07, BuyAmount: 0.0705},
		},
		Trades:         []ledger.Trade{buy, sell},
		DCATrades:      []ledger.Trade{buy},
		TacticalTrades: []ledger.Trade{sell},
		Params:         strategy.DefaultParams(),
	}
}

func TestSaveAllWritesFileSet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveAll(sampleResult(), dir))

	for _, name := range FileSet {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestResultsJSONFieldNames(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()
	require.NoError(t, WriteResultsJSON(result.Summary, filepath.Join(dir, "results.json")))

	raw, err := os.ReadFile(filepath.Join(dir, "results.json"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"total_return", "annual_return", "max_drawdown", "sharpe_ratio",
		"final_value", "dca_buy_count", "dca_sell_count", "t_buy_count",
		"t_sell_count", "t_profit", "dca_cash", "t_cash", "dca_value",
		"t_value", "annual_returns", "data_start_date", "data_end_date",
	} {
		assert.Contains(t, decoded, key)
	}

	assert.InDelta(t, 0.05, decoded["total_return"].(float64), 1e-9)
}

func TestTradesCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()
	path := filepath.Join(dir, "trades.csv")
	require.NoError(t, WriteTradesCSV(result.Trades, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "date", records[0][0])
	assert.Equal(t, "2024-01-01", records[1][0])
	assert.Equal(t, "buy", records[1][2])
	assert.Equal(t, "dca", records[1][3])
	assert.Equal(t, "sell", records[2][2])
	assert.Equal(t, "t", records[2][3])
}

func TestParamsJSONKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy_params.json")
	require.NoError(t, WriteParamsJSON(strategy.DefaultParams(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"total_capital", "dca_ratio", "dca_amount_per_week", "t_amount_per_trade",
		"max_loss_ratio", "profit_target", "commission", "slippage",
	} {
		assert.Contains(t, decoded, key)
	}
}

func TestSaveSweep(t *testing.T) {
	dir := t.TempDir()

	results := []backtest.JobResult{
		{Job: backtest.Job{ID: 0, Config: backtest.Config{Symbol: "510300", Variant: "classic"}}, Result: sampleResult()},
		{Job: backtest.Job{ID: 1, Config: backtest.Config{Symbol: "000000", Variant: "classic"}}, Err: backtest.ErrDataUnavailable},
	}
	require.NoError(t, SaveSweep(results, dir))

	raw, err := os.ReadFile(filepath.Join(dir, "backtest_summary.json"))
	require.NoError(t, err)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0], "error")
	assert.Contains(t, entries[1], "error")

	file, err := os.Open(filepath.Join(dir, "backtest_summary.csv"))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	// header plus the one successful run
	require.Len(t, records, 2)
	assert.Equal(t, "510300", records[1][0])
}
