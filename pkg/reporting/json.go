package reporting

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
)

func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteResultsJSON writes the run's summary as results.json.
func WriteResultsJSON(summary backtest.Summary, path string) error {
	return writeJSON(summary, path)
}

// WriteParamsJSON writes the strategy configuration used for the run.
func WriteParamsJSON(params strategy.Params, path string) error {
	return writeJSON(params, path)
}

// sweepEntry is one line of the sweep summary file.
type sweepEntry struct {
	Symbol   string            `json:"symbol"`
	Strategy string            `json:"strategy"`
	Error    string            `json:"error,omitempty"`
	Summary  *backtest.Summary `json:"summary,omitempty"`
}

// WriteSweepSummaryJSON writes every run's outcome, failures included.
func WriteSweepSummaryJSON(results []backtest.JobResult, path string) error {
	entries := make([]sweepEntry, 0, len(results))
	for _, res := range results {
		entry := sweepEntry{
			Symbol:   res.Job.Config.Symbol,
			Strategy: res.Job.Config.Variant,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else {
			entry.Strategy = res.Result.Variant
			summary := res.Result.Summary
			entry.Summary = &summary
		}
		entries = append(entries, entry)
	}
	return writeJSON(entries, path)
}
