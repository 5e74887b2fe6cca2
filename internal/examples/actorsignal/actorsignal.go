// Package actorsignal has an actor publish its bar count as a named signal on every bar.
package actorsignal

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"go.uber.org/zap"
)

// SignalName is the name of the published signal.
const SignalName = "signal_count_bars"

type CountBarsActor struct {
	*trading.Actor
	barType types.BarType

	count int
}

func NewCountBarsActor(barType types.BarType) *CountBarsActor {
	return &CountBarsActor{Actor: trading.NewActor("CountBarsActor"), barType: barType}
}

func (a *CountBarsActor) OnStart() error {
	return a.SubscribeBars(a.barType)
}

func (a *CountBarsActor) OnBar(bar types.Bar) error {
	a.count++
	a.PublishSignal(SignalName, a.count, bar.TsEvent)

	return nil
}

func (a *CountBarsActor) OnReset() error {
	a.count = 0

	return nil
}

type DemoStrategy struct {
	*trading.Strategy

	Values []int
	Last   time.Time
}

func NewDemoStrategy() *DemoStrategy {
	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-011")}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeSignal(SignalName)
}

func (s *DemoStrategy) OnSignal(signal types.Signal) error {
	value, ok := signal.Value.(int)
	if !ok {
		return nil
	}

	s.Values = append(s.Values, value)
	s.Last = signal.TsEvent
	s.Log().Debug("Received signal", zap.String("name", signal.Name), zap.Int("value", value), zap.Time("ts_event", signal.TsEvent))

	return nil
}

type Result struct {
	Values []int
	Last   time.Time
}

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

	strategy := NewDemoStrategy()

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument: instrument,
		Bars:       bars,
		Actors:     []trading.Component{NewCountBarsActor(barType)},
		Strategies: []trading.StrategyComponent{strategy},
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{Values: strategy.Values, Last: strategy.Last}, nil
}
