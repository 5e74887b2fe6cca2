// Package cacheconfig raises the cache bar capacity so the strategy can read old bars
// back from the cache when it stops, and charges a per-contract commission.
package cacheconfig

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// BarCapacity is the number of bars kept per bar type.
	BarCapacity = 100_000
	// LookupIndex is the cache index read on stop. Index 0 is the newest bar.
	LookupIndex = 29_000
)

type Config struct {
	Instrument     *types.Instrument
	PrimaryBarType types.BarType
	LookupIndex    int
}

type DemoStrategy struct {
	*trading.Strategy
	config Config

	BarsProcessed int
	LookedUp      optional.Option[types.Bar]
}

func NewDemoStrategy(config Config) *DemoStrategy {
	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-003"), config: config}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeBars(s.config.PrimaryBarType)
}

func (s *DemoStrategy) OnBar(_ types.Bar) error {
	s.BarsProcessed++

	switch s.BarsProcessed {
	case 2:
		return s.SubmitOrder(s.OrderFactory().Market(s.config.Instrument.ID, types.OrderSideBuy, decimal.NewFromInt(1)))
	case 5:
		return s.CloseAllPositions(s.config.Instrument.ID)
	}

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Total 1-min bars processed", zap.Int("bars", s.BarsProcessed))

	s.LookedUp = s.Cache().Bar(s.config.PrimaryBarType.String(), s.config.LookupIndex)
	if s.LookedUp.IsNone() {
		s.Log().Warn("Bar index not in cache",
			zap.Int("index", s.config.LookupIndex),
			zap.Int("cached", s.Cache().BarCount(s.config.PrimaryBarType.String())),
		)

		return nil
	}

	s.Log().Info("Accessing bar", zap.Int("index", s.config.LookupIndex), zap.Stringer("bar", s.LookedUp.Unwrap()))

	return nil
}

type Result struct {
	BarsProcessed int
	CachedBars    int
	LookedUp      optional.Option[types.Bar]
	Statistics    types.BacktestStatistics
}

// Run replays a month of 1-minute bars for the dated March 2024 contract 6EH4.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	const venue types.Venue = "GLBX"

	instrument, err := instruments.EURUSDFuture(2024, 3, venue)
	if err != nil {
		return nil, err
	}

	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 31*24*60)
	if err != nil {
		return nil, err
	}

	config := opts.EngineConfig()
	config.Cache.BarCapacity = BarCapacity
	config.Cache.TickCapacity = BarCapacity

	e, err := exampleutil.NewEngine(config, exampleutil.PerContractVenue(venue, types.NewMoney(2.50, types.USD)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy := NewDemoStrategy(Config{Instrument: instrument, PrimaryBarType: barType, LookupIndex: LookupIndex})

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         bars,
		Strategies:   []trading.StrategyComponent{strategy},
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		BarsProcessed: strategy.BarsProcessed,
		CachedBars:    e.Cache().BarCount(barType.String()),
		LookedUp:      strategy.LookedUp,
		Statistics:    e.Result(),
	}, nil
}
