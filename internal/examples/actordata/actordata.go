// Package actordata has an actor publish custom data every tenth bar that a strategy
// subscribes to by data type.
package actordata

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"go.uber.org/zap"
)

// BarCountData is the running bar count of the actor.
type BarCountData struct {
	Value   int
	TsEvent time.Time
}

func (d BarCountData) DataType() string     { return "BarCountData" }
func (d BarCountData) Timestamp() time.Time { return d.TsEvent }

// BarCountDataActor publishes a BarCountData every tenth bar.
type BarCountDataActor struct {
	*trading.Actor
	barType types.BarType

	count int
}

func NewBarCountDataActor(barType types.BarType) *BarCountDataActor {
	return &BarCountDataActor{Actor: trading.NewActor("BarCountDataActor"), barType: barType}
}

func (a *BarCountDataActor) OnStart() error {
	return a.SubscribeBars(a.barType)
}

func (a *BarCountDataActor) OnBar(bar types.Bar) error {
	a.count++

	if a.count%10 == 0 {
		a.PublishData(BarCountData{Value: a.count, TsEvent: bar.TsEvent})
	}

	return nil
}

func (a *BarCountDataActor) OnReset() error {
	a.count = 0

	return nil
}

type DemoStrategy struct {
	*trading.Strategy

	Received []BarCountData
}

func NewDemoStrategy() *DemoStrategy {
	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-010")}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeData(BarCountData{}.DataType())
}

func (s *DemoStrategy) OnData(data types.Data) error {
	d, ok := data.(BarCountData)
	if !ok {
		return nil
	}

	s.Received = append(s.Received, d)
	s.Log().Info("Received BarCountData", zap.Int("value", d.Value), zap.Time("ts_event", d.TsEvent))

	return nil
}

type Result struct {
	Received []BarCountData
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
		Actors:     []trading.Component{NewBarCountDataActor(barType)},
		Strategies: []trading.StrategyComponent{strategy},
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{Received: strategy.Received}, nil
}
