// Package adaptiveordering shows how adaptive high/low ordering changes the path the
// exchange walks through an OHLC bar, and with it the order in which resting orders fill.
package adaptiveordering

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FirstBar is one minute after midnight, the time of the first bar.
var FirstBar = time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)

// Bars returns the two bars of the example. The first has its high closer to the open,
// the second its low.
func Bars(instrument *types.Instrument, barType types.BarType) []types.Bar {
	bar := func(i int, open, high, low, close float64) types.Bar {
		ts := FirstBar.Add(time.Duration(i) * time.Minute)

		return types.Bar{
			BarType: barType,
			Open:    instrument.MakePrice(open),
			High:    instrument.MakePrice(high),
			Low:     instrument.MakePrice(low),
			Close:   instrument.MakePrice(close),
			Volume:  decimal.NewFromInt(100),
			TsEvent: ts,
			TsInit:  ts,
		}
	}

	return []types.Bar{
		bar(0, 1.3, 1.4, 1.1, 1.2),
		bar(1, 1.2, 1.4, 1.1, 1.3),
	}
}

// DemoStrategy rests a buy limit below and a buy stop above the first close. Both are
// crossed by the second bar, the one reached first fills first.
type DemoStrategy struct {
	*trading.Strategy
	instrument *types.Instrument
	barType    types.BarType

	BarsProcessed int
	FillOrder     []types.OrderType
}

func NewDemoStrategy(instrument *types.Instrument, barType types.BarType) *DemoStrategy {
	return &DemoStrategy{
		Strategy:   trading.NewStrategy("DemoStrategy-013"),
		instrument: instrument,
		barType:    barType,
	}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeBars(s.barType)
}

func (s *DemoStrategy) OnBar(_ types.Bar) error {
	s.BarsProcessed++

	if s.BarsProcessed != 1 {
		return nil
	}

	qty := decimal.NewFromInt(100_000)
	factory := s.OrderFactory()

	if err := s.SubmitOrder(factory.Limit(s.instrument.ID, types.OrderSideBuy, qty, s.instrument.MakePrice(1.15))); err != nil {
		return err
	}

	return s.SubmitOrder(factory.StopMarket(s.instrument.ID, types.OrderSideBuy, qty, s.instrument.MakePrice(1.35)))
}

func (s *DemoStrategy) OnOrderFilled(fill types.OrderFilled) error {
	s.FillOrder = append(s.FillOrder, fill.OrderType)
	s.Log().Debug("Order filled", zap.String("type", string(fill.OrderType)), zap.String("price", fill.LastPx.String()))

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Strategy stopped", zap.Int("bars_processed", s.BarsProcessed))

	return nil
}

type Result struct {
	// Paths are the exchange price path labels of the bars, such as "O-H-L-C".
	Paths      []string
	FillOrder  []types.OrderType
	Statistics types.BacktestStatistics
}

// Run replays the bars with adaptive ordering enabled.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	return RunWithOrdering(ctx, opts, true)
}

// RunWithOrdering replays the bars with adaptive ordering set as given.
func RunWithOrdering(ctx context.Context, opts exampleutil.Options, adaptive bool) (*Result, error) {
	instrument, err := instruments.DefaultFXCcy("EUR/USD", exampleutil.DefaultVenue)
	if err != nil {
		return nil, err
	}

	barType := exampleutil.MinuteBarType(instrument)
	bars := Bars(instrument, barType)

	venue := exampleutil.DeterministicVenue(exampleutil.DefaultVenue)
	venue.BarAdaptiveHighLowOrdering = adaptive

	e, err := exampleutil.NewEngine(opts.EngineConfig(), venue)
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy := NewDemoStrategy(instrument, barType)

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         bars,
		Strategies:   []trading.StrategyComponent{strategy},
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{FillOrder: strategy.FillOrder, Statistics: e.Result()}

	if exchange := e.Exchange(exampleutil.DefaultVenue); exchange.IsSome() {
		for _, bar := range bars {
			_, label := exchange.Unwrap().PricePath(bar)
			result.Paths = append(result.Paths, label)
		}
	}

	return result, nil
}
