package main

import "flag"

// Flags holds the command line options for a sweep across symbols and
// strategy variants.
type Flags struct {
	ConfigFile  string
	Symbols     string
	SymbolType  string
	Variants    string
	Start       string
	End         string
	DataDir     string
	OutputDir   string
	Workers     int
	MetricsAddr string
	DSN         string
}

func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to JSON config file")
	flag.StringVar(&f.Symbols, "symbols", "", "Comma-separated symbols (default: config symbol list)")
	flag.StringVar(&f.SymbolType, "type", "etf", "Symbol type for -symbols: stock, etf or index")
	flag.StringVar(&f.Variants, "strategies", "classic,adaptive", "Comma-separated strategy variants to compare")
	flag.StringVar(&f.Start, "start", "", "Start date YYYY-MM-DD")
	flag.StringVar(&f.End, "end", "", "End date YYYY-MM-DD")
	flag.StringVar(&f.DataDir, "data", "", "Data directory with <type>/<symbol>.csv files")
	flag.StringVar(&f.OutputDir, "output", "", "Output directory for the sweep summary")
	flag.IntVar(&f.Workers, "workers", 0, "Parallel workers (default: CPU count)")
	flag.StringVar(&f.MetricsAddr, "metrics", "", "Address for the Prometheus endpoint, e.g. :9090 (optional)")
	flag.StringVar(&f.DSN, "postgres", "", "PostgreSQL DSN for persisting summaries (optional)")

	flag.Parse()
	return f
}
