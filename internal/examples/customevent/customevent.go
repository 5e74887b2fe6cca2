// Package customevent publishes a custom event on the message bus every tenth bar and
// handles it in a subscriber of the same strategy.
package customevent

import (
	"context"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/msgbus"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"go.uber.org/zap"
)

// Topic is the message bus topic the event is published on.
const Topic = "each_10th_bar_event"

// Each10thBarEvent carries the bar that triggered it.
type Each10thBarEvent struct {
	Bar types.Bar
}

type DemoStrategy struct {
	*trading.Strategy
	barType      types.BarType
	subscription msgbus.SubscriptionID

	BarsProcessed int
	Received      []Each10thBarEvent
}

func NewDemoStrategy(barType types.BarType) *DemoStrategy {
	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-009"), barType: barType}
}

func (s *DemoStrategy) OnStart() error {
	id, err := s.MsgBus().Subscribe(Topic, s.onEach10thBar)
	if err != nil {
		return err
	}

	s.subscription = id

	return s.SubscribeBars(s.barType)
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	s.BarsProcessed++

	if s.BarsProcessed%10 == 0 {
		s.MsgBus().Publish(Topic, Each10thBarEvent{Bar: bar})
	}

	return nil
}

func (s *DemoStrategy) onEach10thBar(msg any) {
	event, ok := msg.(Each10thBarEvent)
	if !ok {
		return
	}

	s.Received = append(s.Received, event)
	s.Log().Info("Received Each10thBarEvent", zap.Stringer("bar", event.Bar))
}

func (s *DemoStrategy) OnStop() error {
	s.MsgBus().Unsubscribe(Topic, s.subscription)

	return nil
}

type Result struct {
	BarsProcessed int
	Received      []Each10thBarEvent
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

	strategy := NewDemoStrategy(barType)

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument: instrument,
		Bars:       bars,
		Strategies: []trading.StrategyComponent{strategy},
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{BarsProcessed: strategy.BarsProcessed, Received: strategy.Received}, nil
}
