// Package storage persists backtest summaries to PostgreSQL so sweep runs
// can be compared across time without re-parsing result directories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/dcat-quant/dcat-backtest/internal/backtest"
)

// SummaryStore writes run summaries to a summaries table, one row per
// (symbol, strategy, period), upserted on re-run.
type SummaryStore struct {
	db *sql.DB
}

// NewSummaryStore connects to PostgreSQL and runs migrations.
func NewSummaryStore(dsn string) (*SummaryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SummaryStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *SummaryStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS backtest_summaries (
			id SERIAL PRIMARY KEY,
			symbol VARCHAR(20) NOT NULL,
			strategy VARCHAR(20) NOT NULL,
			data_start_date DATE NOT NULL,
			data_end_date DATE NOT NULL,
			total_return DECIMAL(12, 6) NOT NULL,
			annual_return DECIMAL(12, 6) NOT NULL,
			max_drawdown DECIMAL(12, 6) NOT NULL,
			sharpe_ratio DECIMAL(12, 4) NOT NULL,
			final_value DECIMAL(20, 2) NOT NULL,
			dca_buy_count INTEGER NOT NULL,
			dca_sell_count INTEGER NOT NULL,
			t_buy_count INTEGER NOT NULL,
			t_sell_count INTEGER NOT NULL,
			t_profit DECIMAL(20, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (symbol, strategy, data_start_date, data_end_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_symbol ON backtest_summaries (symbol)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveSummary upserts one run's summary.
func (s *SummaryStore) SaveSummary(ctx context.Context, result *backtest.Result) error {
	sum := result.Summary

	query := `
		INSERT INTO backtest_summaries (
			symbol, strategy, data_start_date, data_end_date,
			total_return, annual_return, max_drawdown, sharpe_ratio,
			final_value, dca_buy_count, dca_sell_count,
			t_buy_count, t_sell_count, t_profit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (symbol, strategy, data_start_date, data_end_date)
		DO UPDATE SET
			total_return = EXCLUDED.total_return,
			annual_return = EXCLUDED.annual_return,
			max_drawdown = EXCLUDED.max_drawdown,
			sharpe_ratio = EXCLUDED.sharpe_ratio,
			final_value = EXCLUDED.final_value,
			dca_buy_count = EXCLUDED.dca_buy_count,
			dca_sell_count = EXCLUDED.dca_sell_count,
			t_buy_count = EXCLUDED.t_buy_count,
			t_sell_count = EXCLUDED.t_sell_count,
			t_profit = EXCLUDED.t_profit,
			created_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		result.Symbol, result.Variant, sum.DataStartDate, sum.DataEndDate,
		sum.TotalReturn, sum.AnnualizedRet, sum.MaxDrawdown, sum.SharpeRatio,
		sum.FinalValue, sum.DCABuyCount, sum.DCASellCount,
		sum.TBuyCount, sum.TSellCount, sum.TProfit,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary for %s: %w", result.Symbol, err)
	}
	return nil
}

// SaveAll persists every successful run of a sweep.
func (s *SummaryStore) SaveAll(ctx context.Context, results []backtest.JobResult) error {
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if err := s.SaveSummary(ctx, res.Result); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database connection.
func (s *SummaryStore) Close() error {
	return s.db.Close()
}
