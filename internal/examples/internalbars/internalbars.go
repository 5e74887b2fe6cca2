// Package internalbars subscribes to external 1-minute bars and to 5-minute bars aggregated
// from them inside the engine, and trades on the 5-minute bars.
package internalbars

import (
	"context"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EntryBar = 5
	ExitBar  = 8
)

type DemoStrategy struct {
	*trading.Strategy
	instrument *types.Instrument
	minuteBars types.BarType
	fiveMinute types.BarType

	Bars1Min int
	Bars5Min int
}

func NewDemoStrategy(instrument *types.Instrument) *DemoStrategy {
	id := instrument.ID.String()

	return &DemoStrategy{
		Strategy:   trading.NewStrategy("DemoStrategy-006"),
		instrument: instrument,
		minuteBars: types.MustParseBarType(id + "-1-MINUTE-LAST-EXTERNAL"),
		fiveMinute: types.MustParseBarType(id + "-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL"),
	}
}

func (s *DemoStrategy) OnStart() error {
	if err := s.SubscribeBars(s.minuteBars); err != nil {
		return err
	}

	return s.SubscribeBars(s.fiveMinute)
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	if bar.BarType.Equal(s.minuteBars) {
		s.Bars1Min++

		return nil
	}

	if !bar.BarType.Equal(s.fiveMinute.Standard()) {
		return nil
	}

	s.Bars5Min++
	s.Log().Debug("5-minute bar", zap.Int("count", s.Bars5Min), zap.Stringer("bar", bar))

	switch s.Bars5Min {
	case EntryBar:
		return s.SubmitOrder(s.OrderFactory().Market(s.instrument.ID, types.OrderSideBuy, decimal.NewFromInt(1)))
	case ExitBar:
		return s.CloseAllPositions(s.instrument.ID)
	}

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Total bars processed",
		zap.Int("1_minute", s.Bars1Min),
		zap.Int("5_minute", s.Bars5Min),
	)

	return nil
}

func (s *DemoStrategy) OnReset() error {
	s.Bars1Min = 0
	s.Bars5Min = 0

	return nil
}

type Result struct {
	Bars1Min   int
	Bars5Min   int
	Statistics types.BacktestStatistics
	// Bars5MinAfterReset is the 5-minute count after the engine was reset.
	Bars5MinAfterReset int
}

func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)

	bars, err := exampleutil.LoadBars(opts, instrument, exampleutil.MinuteBarType(instrument), 24*60)
	if err != nil {
		return nil, err
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy := NewDemoStrategy(instrument)

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
		Bars1Min:   strategy.Bars1Min,
		Bars5Min:   strategy.Bars5Min,
		Statistics: e.Result(),
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}

	result.Bars5MinAfterReset = strategy.Bars5Min

	return result, nil
}
