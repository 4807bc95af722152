package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputResult prints one backtest result to console
func (r *DefaultConsoleReporter) OutputResult(result *backtest.Result) {
	s := result.Summary

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Printf("📊 BACKTEST RESULTS - %s (%s)\n", result.Symbol, result.Variant)
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("📅 Period:             %s ~ %s\n", s.DataStartDate, s.DataEndDate)
	fmt.Printf("💰 Final Value:        %.2f\n", s.FinalValue)
	fmt.Printf("📈 Total Return:       %.2f%%\n", s.TotalReturn*100)
	fmt.Printf("📈 Annualized Return:  %.2f%%\n", s.AnnualizedRet*100)
	fmt.Printf("📉 Max Drawdown:       %.2f%%\n", s.MaxDrawdown*100)
	fmt.Printf("📊 Sharpe Ratio:       %.2f\n", s.SharpeRatio)
	fmt.Printf("🔄 Plan Buys/Sells:    %d / %d\n", s.DCABuyCount, s.DCASellCount)
	fmt.Printf("🔄 Tactical Buys/Sells: %d / %d\n", s.TBuyCount, s.TSellCount)
	fmt.Printf("💹 Tactical Profit:    %.2f\n", s.TProfit)
	fmt.Printf("💵 Cash (plan/tact):   %.2f / %.2f\n", s.DCACash, s.TCash)
	fmt.Printf("📦 Value (plan/tact):  %.2f / %.2f\n", s.DCAValue, s.TValue)

	if len(s.AnnualReturns) > 0 {
		fmt.Println("\n📆 Yearly breakdown:")
		for _, year := range s.AnnualReturns {
			fmt.Printf("   %d: %+.2f%% (%+.2f)\n", year.Year, year.Return*100, year.Profit)
		}
	}
}

// OutputComparison renders a sweep's results side by side.
func (r *DefaultConsoleReporter) OutputComparison(results []backtest.JobResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Symbol", "Strategy", "Return", "Annualized", "Max DD", "Sharpe",
		"Plan B/S", "Tact B/S", "Tact Profit", "Status",
	})

	for _, res := range results {
		if res.Err != nil {
			t.AppendRow(table.Row{
				res.Job.Config.Symbol, res.Job.Config.Variant,
				"-", "-", "-", "-", "-", "-", "-",
				text.FgRed.Sprintf("FAILED: %v", res.Err),
			})
			continue
		}

		s := res.Result.Summary
		t.AppendRow(table.Row{
			res.Result.Symbol,
			res.Result.Variant,
			fmt.Sprintf("%.2f%%", s.TotalReturn*100),
			fmt.Sprintf("%.2f%%", s.AnnualizedRet*100),
			fmt.Sprintf("%.2f%%", s.MaxDrawdown*100),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%d/%d", s.DCABuyCount, s.DCASellCount),
			fmt.Sprintf("%d/%d", s.TBuyCount, s.TSellCount),
			fmt.Sprintf("%.2f", s.TProfit),
			text.FgGreen.Sprint("OK"),
		})
	}

	fmt.Println("\n📊 SWEEP COMPARISON")
	t.Render()

	if failed := backtest.Failures(results); failed > 0 {
		fmt.Printf("⚠️ %d of %d runs failed\n", failed, len(results))
	}
}
