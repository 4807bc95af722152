package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
	"github.com/dcat-quant/dcat-backtest/internal/config"
	"github.com/dcat-quant/dcat-backtest/internal/indicator"
	"github.com/dcat-quant/dcat-backtest/internal/logger"
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

	if flags.Symbol == "" && len(cfg.Symbols) == 0 {
		log.Fatal("❌ No symbol given: use -symbol or list symbols in the config file")
	}
	symbol := flags.Symbol
	symbolType := flags.SymbolType
	if symbol == "" {
		symbol = cfg.Symbols[0].Symbol
		symbolType = cfg.Symbols[0].Type
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

	runLog, err := logger.NewLogger(cfg.LogDir, symbol, cfg.Variant)
	if err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}
	defer runLog.Close()

	provider := data.NewCachedProvider(data.NewCSVProvider(cfg.DataDir))
	runner := backtest.NewRunner(provider)

	runCfg := backtest.Config{
		Symbol:     symbol,
		SymbolType: types.SymbolType(symbolType),
		Benchmark:  cfg.Benchmark,
		Start:      start,
		End:        end,
		Variant:    cfg.Variant,
		Params:     cfg.Strategy,
		Indicators: indicator.DefaultParams(),
	}

	runLog.Info("Starting backtest: symbol=%s strategy=%s range=%s~%s",
		symbol, cfg.Variant, cfg.StartDate, cfg.EndDate)

	result, err := runner.Run(ctx, runCfg)
	if err != nil {
		runLog.Error("Backtest failed: %v", err)
		log.Fatalf("❌ Backtest failed: %v", err)
	}

	runLog.Status("Finished in %s: return=%.2f%% trades=%d",
		result.Duration, result.Summary.TotalReturn*100, len(result.Trades))
	for _, trade := range result.Trades {
		runLog.Trade("%s %s %s %.2f @ %.4f", trade.Date.Format("2006-01-02"),
			trade.Book, trade.Side, trade.Shares, trade.Price)
	}

	console := reporting.NewDefaultConsoleReporter()
	console.OutputResult(result)

	if !flags.NoFiles {
		paths := reporting.NewDefaultPathManager(cfg.OutputDir)
		outDir := paths.DefaultOutputDir(symbol, result.Variant)
		if err := reporting.SaveAll(result, outDir); err != nil {
			log.Fatalf("❌ Saving results: %v", err)
		}
		log.Printf("💾 Results saved to %s", outDir)
	}

	if cfg.PostgresDSN != "" {
		store, err := storage.NewSummaryStore(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		defer store.Close()
		if err := store.SaveSummary(ctx, result); err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		log.Printf("💾 Summary stored in PostgreSQL")
	}
}

func applyFlags(cfg *config.Config, flags *Flags) {
	if flags.Benchmark != "" {
		cfg.Benchmark = flags.Benchmark
	}
	if flags.Start != "" {
		cfg.StartDate = flags.Start
	}
	if flags.End != "" {
		cfg.EndDate = flags.End
	}
	if flags.Variant != "" {
		cfg.Variant = flags.Variant
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}
	if flags.LogDir != "" {
		cfg.LogDir = flags.LogDir
	}
	if flags.DSN != "" {
		cfg.PostgresDSN = flags.DSN
	}
}
