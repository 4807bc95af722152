package main

import "flag"

// Flags holds the command line options for a single backtest run.
type Flags struct {
	ConfigFile string
	Symbol     string
	SymbolType string
	Benchmark  string
	Start      string
	End        string
	Variant    string
	DataDir    string
	OutputDir  string
	LogDir     string
	DSN        string
	NoFiles    bool
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file")
	flag.StringVar(&f.Symbol, "symbol", "", "Symbol to backtest (required unless set in config)")
	flag.StringVar(&f.SymbolType, "type", "etf", "Symbol type: stock, etf or index")
	flag.StringVar(&f.Benchmark, "benchmark", "", "Benchmark index symbol (default from config)")
	flag.StringVar(&f.Start, "start", "", "Start date YYYY-MM-DD (default: all data)")
	flag.StringVar(&f.End, "end", "", "End date YYYY-MM-DD (default: all data)")
	flag.StringVar(&f.Variant, "strategy", "", "Strategy variant: classic, adaptive or dca_only")
	flag.StringVar(&f.DataDir, "data", "", "Data directory with <type>/<symbol>.csv files")
	flag.StringVar(&f.OutputDir, "output", "", "Output directory for result files")
	flag.StringVar(&f.LogDir, "logs", "", "Directory for run logs")
	flag.StringVar(&f.DSN, "postgres", "", "PostgreSQL DSN for persisting the summary (optional)")
	flag.BoolVar(&f.NoFiles, "no-files", false, "Print to console only, skip result files")

	flag.Parse()
	return f
}
