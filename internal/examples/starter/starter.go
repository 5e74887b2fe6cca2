// Package starter is the template every other example starts from: count bars, enter a
// position with a market order and close it a few bars later.
package starter

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	entryBar = 2
	exitBar  = 5
)

type Config struct {
	Instrument     *types.Instrument `validate:"required"`
	PrimaryBarType types.BarType
}

type DemoStrategy struct {
	*trading.Strategy
	config Config

	BarsProcessed int
}

func NewDemoStrategy(config Config) (*DemoStrategy, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeComponentConfigError, "invalid starter strategy config", err)
	}

	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-000"), config: config}, nil
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeBars(s.config.PrimaryBarType)
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	s.BarsProcessed++

	switch s.BarsProcessed {
	case entryBar:
		order := s.OrderFactory().Market(s.config.Instrument.ID, types.OrderSideBuy, decimal.NewFromInt(1))

		return s.SubmitOrder(order)
	case exitBar:
		return s.CloseAllPositions(s.config.Instrument.ID)
	}

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Total bars processed", zap.Int("bars", s.BarsProcessed))

	return nil
}

type Result struct {
	BarsProcessed int
	Statistics    types.BacktestStatistics
}

// Run replays synthetic (or CSV) 1-minute 6E bars through the demo strategy.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 100)
	if err != nil {
		return nil, err
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy, err := NewDemoStrategy(Config{Instrument: instrument, PrimaryBarType: barType})
	if err != nil {
		return nil, err
	}

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         bars,
		Strategies:   []trading.StrategyComponent{strategy},
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{BarsProcessed: strategy.BarsProcessed, Statistics: e.Result()}, nil
}
