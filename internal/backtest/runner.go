// Package backtest drives strategy simulations over historical daily bars
// and aggregates their performance.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dcat-quant/dcat-backtest/internal/indicator"
	"github.com/dcat-quant/dcat-backtest/internal/ledger"
	"github.com/dcat-quant/dcat-backtest/internal/monitoring"
	"github.com/dcat-quant/dcat-backtest/internal/strategy"
	"github.com/dcat-quant/dcat-backtest/pkg/data"
	"github.com/dcat-quant/dcat-backtest/pkg/types"
)

// ErrDataUnavailable marks a run that could not start because the symbol or
// the benchmark has no bars inside the requested range.
var ErrDataUnavailable = errors.New("market data unavailable")

// Variant names accepted by Config.Variant.
const (
	VariantClassic  = "classic"
	VariantAdaptive = "adaptive"
	VariantDCAOnly  = "dca_only"
)

// Config describes one backtest run.
type Config struct {
	Symbol     string
	SymbolType types.SymbolType
	Benchmark  string
	Start      time.Time
	End        time.Time
	Variant    string
	Params     strategy.Params
	Indicators indicator.Params
}

// Result is the complete output of one run.
type Result struct {
	Symbol         string
	Variant        string
	Summary        Summary
	NAVs           []strategy.NAV
	Positions      []strategy.PositionInfo
	Trades         []ledger.Trade
	DCATrades      []ledger.Trade
	TacticalTrades []ledger.Trade
	Params         strategy.Params
	Duration       time.Duration
}

// Runner executes backtests against a bar provider. Benchmark regime flags
// are cached per date range so a sweep computes them once, not per symbol.
type Runner struct {
	provider data.BarProvider
	metrics  *monitoring.Metrics

	regimeMu sync.Mutex
	regimes  map[string]map[time.Time]indicator.RegimeFlags
}

// NewRunner creates a runner on top of the given provider.
func NewRunner(provider data.BarProvider) *Runner {
	return &Runner{
		provider: provider,
		regimes:  make(map[string]map[time.Time]indicator.RegimeFlags),
	}
}

// SetMetrics attaches a metric set. A nil receiver on the metric side keeps
// every record call a no-op.
func (r *Runner) SetMetrics(m *monitoring.Metrics) {
	r.metrics = m
}

// Run executes one backtest. The context is checked between bars so long
// sweeps can be cancelled promptly.
func (r *Runner) Run(ctx context.Context, cfg Config) (result *Result, err error) {
	startedAt := time.Now()
	defer func() {
		r.metrics.ObserveRun(time.Since(startedAt), err)
	}()

	bars, err := r.provider.GetBars(cfg.Symbol, cfg.SymbolType, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Symbol, ErrDataUnavailable)
	}
	if err := r.provider.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("validating %s: %w", cfg.Symbol, err)
	}

	regime, err := r.regimeFlags(cfg)
	if err != nil {
		return nil, err
	}

	rows := indicator.Compute(bars, cfg.Indicators)

	strat, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("🚀 Backtesting %s (%s) over %d bars", cfg.Symbol, strat.Name(), len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strat.OnBar(strategy.BarContext{
			Row:    row,
			Regime: regime[row.Date],
		})
	}

	r.metrics.AddBars(len(rows))
	for _, trade := range strat.Trades() {
		r.metrics.RecordTrade(string(trade.Book), string(trade.Side))
	}

	return &Result{
		Symbol:         cfg.Symbol,
		Variant:        strat.Name(),
		Summary:        Summarize(strat),
		NAVs:           strat.NAVs(),
		Positions:      strat.PositionInfos(),
		Trades:         strat.Trades(),
		DCATrades:      strat.DCATrades(),
		TacticalTrades: strat.TacticalTrades(),
		Params:         cfg.Params,
		Duration:       time.Since(startedAt),
	}, nil
}

// regimeFlags returns the benchmark regime for the run's date range, loading
// and caching it on first use.
func (r *Runner) regimeFlags(cfg Config) (map[time.Time]indicator.RegimeFlags, error) {
	key := fmt.Sprintf("%s|%s|%s", cfg.Benchmark,
		cfg.Start.Format("2006-01-02"), cfg.End.Format("2006-01-02"))

	r.regimeMu.Lock()
	defer r.regimeMu.Unlock()

	if cached, ok := r.regimes[key]; ok {
		return cached, nil
	}

	bars, err := r.provider.GetBars(cfg.Benchmark, types.SymbolIndex, cfg.Start, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("loading benchmark %s: %w", cfg.Benchmark, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("benchmark %s: %w", cfg.Benchmark, ErrDataUnavailable)
	}

	flags := indicator.ComputeRegime(bars)
	r.regimes[key] = flags
	return flags, nil
}

func newStrategy(cfg Config) (strategy.Strategy, error) {
	switch cfg.Variant {
	case VariantClassic, "":
		return strategy.NewDualPosition(cfg.Symbol, cfg.Params, strategy.NewClassic(cfg.Params)), nil
	case VariantAdaptive:
		return strategy.NewDualPosition(cfg.Symbol, cfg.Params, strategy.NewAdaptive(cfg.Params)), nil
	case VariantDCAOnly:
		return strategy.NewDCAOnly(cfg.Symbol, cfg.Params), nil
	default:
		return nil, fmt.Errorf("unknown strategy variant %q", cfg.Variant)
	}
}
