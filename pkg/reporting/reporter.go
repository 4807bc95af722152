package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
)

// FileSet names every artifact SaveAll produces inside the output directory.
var FileSet = []string{
	"results.json",
	"strategy_params.json",
	"trades.csv",
	"dca_trades.csv",
	"t_trades.csv",
	"daily_nav.csv",
	"daily_position_info.csv",
	"trades.xlsx",
}

// SaveAll writes the full artifact set for one backtest run.
func SaveAll(result *backtest.Result, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	join := func(name string) string { return filepath.Join(outputDir, name) }

	if err := WriteResultsJSON(result.Summary, join("results.json")); err != nil {
		return err
	}
	if err := WriteParamsJSON(result.Params, join("strategy_params.json")); err != nil {
		return err
	}
	if err := WriteTradesCSV(result.Trades, join("trades.csv")); err != nil {
		return err
	}
	if err := WriteTradesCSV(result.DCATrades, join("dca_trades.csv")); err != nil {
		return err
	}
	if err := WriteTradesCSV(result.TacticalTrades, join("t_trades.csv")); err != nil {
		return err
	}
	if err := WriteNAVCSV(result.NAVs, join("daily_nav.csv")); err != nil {
		return err
	}
	if err := WritePositionInfoCSV(result.Positions, join("daily_position_info.csv")); err != nil {
		return err
	}
	return WriteTradesXLSX(result, join("trades.xlsx"))
}

// SaveSweep writes the aggregate summary files for a sweep.
func SaveSweep(results []backtest.JobResult, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := WriteSweepSummaryJSON(results, filepath.Join(outputDir, "backtest_summary.json")); err != nil {
		return err
	}
	return WriteSweepSummaryCSV(results, filepath.Join(outputDir, "backtest_summary.csv"))
}
