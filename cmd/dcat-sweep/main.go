package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/config"
	"github.com/dcat-quant/dcat-backtest/internal/indicator"
	"github.com/dcat-quant/dcat-backtest/internal/monitoring"
	"github.com/dcat-quant/dcat-backtest/internal/storage"
	"github.com/dcat-quant/dcat-backtest/pkg/data"
	"github.com/dcat-quant/dcat-backtest/pkg/reporting"
	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	applyFlags(&cfg, flags)

	symbols := symbolList(cfg, flags)
	if len(symbols) == 0 {
		log.Fatal("❌ No symbols given: use -symbols or list symbols in the config file")
	}
	variants := splitList(flags.Variants)
	if len(variants) == 0 {
		log.Fatal("❌ No strategy variants given")
	}

	start, err := cfg.Start()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	end, err := cfg.End()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := data.NewCachedProvider(data.NewCSVProvider(cfg.DataDir))
	runner := backtest.NewRunner(provider)

	var metrics *monitoring.Metrics
	if cfg.MetricsAddr != "" {
		metrics = monitoring.NewMetrics()
		runner.SetMetrics(metrics)
		go func() {
			log.Printf("📡 Metrics on %s/metrics", cfg.MetricsAddr)
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Printf("⚠️ Metrics server: %v", err)
			}
		}()
	}

	var configs []backtest.Config
	for _, sym := range symbols {
		for _, variant := range variants {
			configs = append(configs, backtest.Config{
				Symbol:     sym.Symbol,
				SymbolType: types.SymbolType(sym.Type),
				Benchmark:  cfg.Benchmark,
				Start:      start,
				End:        end,
				Variant:    variant,
				Params:     cfg.Strategy,
				Indicators: indicator.DefaultParams(),
			})
		}
	}

	log.Printf("🚀 Sweeping %d runs (%d symbols x %d strategies)",
		len(configs), len(symbols), len(variants))

	pool := backtest.NewWorkerPool(runner, cfg.Workers)
	results := pool.RunAll(ctx, configs)

	console := reporting.NewDefaultConsoleReporter()
	console.OutputComparison(results)

	if err := reporting.SaveSweep(results, cfg.OutputDir); err != nil {
		log.Fatalf("❌ Saving sweep summary: %v", err)
	}
	log.Printf("💾 Sweep summary saved to %s", cfg.OutputDir)

	if cfg.PostgresDSN != "" {
		store, err := storage.NewSummaryStore(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		defer store.Close()
		if err := store.SaveAll(ctx, results); err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		log.Printf("💾 Summaries stored in PostgreSQL")
	}

	if failed := backtest.Failures(results); failed > 0 {
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, flags *Flags) {
	if flags.Start != "" {
		cfg.StartDate = flags.Start
	}
	if flags.End != "" {
		cfg.EndDate = flags.End
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.MetricsAddr != "" {
		cfg.MetricsAddr = flags.MetricsAddr
	}
	if flags.DSN != "" {
		cfg.PostgresDSN = flags.DSN
	}
}

func symbolList(cfg config.Config, flags *Flags) []config.SymbolConfig {
	if flags.Symbols != "" {
		var out []config.SymbolConfig
		for _, sym := range splitList(flags.Symbols) {
			out = append(out, config.SymbolConfig{Symbol: sym, Type: flags.SymbolType})
		}
		return out
	}
	return cfg.Symbols
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
