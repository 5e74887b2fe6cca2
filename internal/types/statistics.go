package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type PnLStatistics struct {
	// Sum of realized PnL of all positions, net of commissions.
	Total float64 `yaml:"total"`
	// Mean realized PnL per position.
	Mean float64 `yaml:"mean"`
	// Standard deviation of realized PnL per position.
	StdDev float64 `yaml:"std_dev"`
	// Largest loss of a single position.
	Min float64 `yaml:"min"`
	// Largest profit of a single position.
	Max float64 `yaml:"max"`
}

type PositionStatistics struct {
	// Count of all positions, open and closed.
	Total int `yaml:"total"`
	// Closed positions with positive realized PnL.
	Winners int `yaml:"winners"`
	// Closed positions with negative realized PnL.
	Losers int `yaml:"losers"`
	// Winners divided by closed positions.
	WinRate float64 `yaml:"win_rate"`
	// Average time a closed position was held, in seconds.
	AvgHoldingSeconds float64 `yaml:"avg_holding_seconds"`
}

// BacktestStatistics is written to stats.yaml at the end of a run.
type BacktestStatistics struct {
	// ID is the unique identifier for this backtest run.
	RunID string `yaml:"run_id"`
	// TraderID is the trader that ran the strategies.
	TraderID TraderID `yaml:"trader_id"`
	// Start and End are the timestamps of the first and last replayed bar.
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
	// BarsProcessed is the number of bars replayed.
	BarsProcessed int `yaml:"bars_processed"`
	// Orders is the number of orders created.
	Orders int `yaml:"orders"`
	// Fills is the number of fills.
	Fills     int                `yaml:"fills"`
	Positions PositionStatistics `yaml:"positions"`
	// Realized PnL per currency.
	PnL map[Currency]PnLStatistics `yaml:"pnl"`
	// Commissions per currency.
	Commissions map[Currency]float64 `yaml:"commissions"`
	// Final balances per venue account.
	Balances map[AccountID][]AccountBalance `yaml:"balances"`
	// ElapsedSeconds is the wall clock duration of the run.
	ElapsedSeconds float64 `yaml:"elapsed_seconds"`
}

// WriteStatistics writes the statistics as YAML.
func WriteStatistics(path string, stats BacktestStatistics) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest statistics to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest statistics to file: %w", err)
	}

	return nil
}

// ReadStatistics reads a stats.yaml file.
func ReadStatistics(path string) (BacktestStatistics, error) {
	var stats BacktestStatistics

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to read backtest statistics: %w", err)
	}

	if err := yaml.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("failed to parse backtest statistics: %w", err)
	}

	return stats, nil
}
