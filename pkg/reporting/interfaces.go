package reporting

import (
	"github.com/dcat-quant/dcat-backtest/internal/backtest"
)

// Package reporting turns backtest results into console output and files.

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResult(result *backtest.Result)
	OutputComparison(results []backtest.JobResult)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteTradesCSV(result *backtest.Result, path string) error
	WriteNAVCSV(result *backtest.Result, path string) error
	WriteTradesXLSX(result *backtest.Result, path string) error
	WriteResultsJSON(result *backtest.Result, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	DefaultOutputDir(symbol, variant string) string
	EnsureDirectoryExists(path string) error
}
