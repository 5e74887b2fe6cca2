// Package csvbars replays 1-minute bars loaded from a NinjaTrader CSV export and reports
// progress while counting them.
package csvbars

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"go.uber.org/zap"
)

// ProgressInterval is the number of bars between progress log entries.
const ProgressInterval = 10_000

type DemoStrategy struct {
	*trading.Strategy
	primaryBarType types.BarType

	BarCount        int
	ProgressReports int
	StartedAt       time.Time
	Duration        time.Duration
}

func NewDemoStrategy(primaryBarType types.BarType) *DemoStrategy {
	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-001"), primaryBarType: primaryBarType}
}

func (s *DemoStrategy) OnStart() error {
	s.StartedAt = time.Now()
	s.Log().Info("Starting strategy", zap.Time("wall_time", s.StartedAt))

	return s.SubscribeBars(s.primaryBarType)
}

func (s *DemoStrategy) OnBar(_ types.Bar) error {
	s.BarCount++

	if s.BarCount%ProgressInterval == 0 {
		s.ProgressReports++
		s.Log().Info("Processed bars", zap.Int("bars", s.BarCount))
	}

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Duration = time.Since(s.StartedAt)

	s.Log().Info("Total time", zap.Duration("duration", s.Duration))
	s.Log().Info("Total bars processed", zap.Int("bars", s.BarCount))

	return nil
}

func (s *DemoStrategy) OnReset() error {
	s.BarCount = 0
	s.ProgressReports = 0
	s.StartedAt = time.Time{}

	return nil
}

type Result struct {
	BarCount        int
	ProgressReports int
	Duration        time.Duration
	// CountAfterReset is the strategy bar count after the engine was reset.
	CountAfterReset int
}

// Run streams the bars through the strategy, prints the reports and resets the engine.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 3*ProgressInterval)
	if err != nil {
		return nil, err
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy := NewDemoStrategy(barType)

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         bars,
		Strategies:   []trading.StrategyComponent{strategy},
		Streaming:    true,
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BarCount:        strategy.BarCount,
		ProgressReports: strategy.ProgressReports,
		Duration:        strategy.Duration,
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}

	result.CountAfterReset = strategy.BarCount

	return result, nil
}
