package reporting

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
)

// WriteTradesCSV writes a trade log to a CSV file.
func WriteTradesCSV(trades []ledger.Trade, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"date", "symbol", "type", "strategy", "shares", "price", "amount", "profit", "cash_after"}); err != nil {
		return err
	}

	for _, trade := range trades {
		record := []string{
			trade.Date.Format("2006-01-02"),
			trade.Symbol,
			string(trade.Side),
			string(trade.Book),
			fmt.Sprintf("%.4f", trade.Shares),
			fmt.Sprintf("%.4f", trade.Price),
			fmt.Sprintf("%.2f", trade.Amount),
			fmt.Sprintf("%.2f", trade.Profit),
			fmt.Sprintf("%.2f", trade.CashAfter),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteNAVCSV writes the daily valuation series to a CSV file.
func WriteNAVCSV(navs []strategy.NAV, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"date", "symbol", "price", "dca_cash", "t_cash", "dca_value", "t_value", "total_value", "total_return"}); err != nil {
		return err
	}

	for _, nav := range navs {
		record := []string{
			nav.Date.Format("2006-01-02"),
			nav.Symbol,
			fmt.Sprintf("%.4f", nav.Price),
			fmt.Sprintf("%.2f", nav.DCACash),
			fmt.Sprintf("%.2f", nav.TCash),
			fmt.Sprintf("%.2f", nav.DCAValue),
			fmt.Sprintf("%.2f", nav.TValue),
			fmt.Sprintf("%.2f", nav.TotalValue),
			fmt.Sprintf("%.6f", nav.TotalReturn),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

// WritePositionInfoCSV writes the daily exposure series to a CSV file.
// Values are in units of 10k currency.
func WritePositionInfoCSV(infos []strategy.PositionInfo, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"date", "symbol", "position", "buy_amount", "sell_amount"}); err != nil {
		return err
	}

	for _, info := range infos {
		record := []string{
			info.Date.Format("2006-01-02"),
			info.Symbol,
			fmt.Sprintf("%.4f", info.Position),
			fmt.Sprintf("%.4f", info.BuyAmount),
			fmt.Sprintf("%.4f", info.SellAmount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteSweepSummaryCSV writes one summary row per successful run.
func WriteSweepSummaryCSV(results []backtest.JobResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"symbol", "strategy", "total_return", "annual_return", "max_drawdown",
		"sharpe_ratio", "final_value", "dca_buy_count", "dca_sell_count",
		"t_buy_count", "t_sell_count", "t_profit", "data_start_date", "data_end_date",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		s := res.Result.Summary
		record := []string{
			res.Result.Symbol,
			res.Result.Variant,
			fmt.Sprintf("%.6f", s.TotalReturn),
			fmt.Sprintf("%.6f", s.AnnualizedRet),
			fmt.Sprintf("%.6f", s.MaxDrawdown),
			fmt.Sprintf("%.4f", s.SharpeRatio),
			fmt.Sprintf("%.2f", s.FinalValue),
			fmt.Sprintf("%d", s.DCABuyCount),
			fmt.Sprintf("%d", s.DCASellCount),
			fmt.Sprintf("%d", s.TBuyCount),
			fmt.Sprintf("%d", s.TSellCount),
			fmt.Sprintf("%.2f", s.TProfit),
			s.DataStartDate,
			s.DataEndDate,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
