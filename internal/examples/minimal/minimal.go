// Package minimal is the smallest complete backtest: ten hand-built bars, one sell and one
// buy market order, and the reports printed afterwards.
package minimal

import (
	"context"
	"time"

	v1 "github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// BarCount is the number of bars built by Bars.
	BarCount = 10
	// SellBar and BuyBar are the 1-based bars on which the orders are submitted.
	SellBar = 3
	BuyBar  = 8
)

// FirstBar is the timestamp of the first bar.
var FirstBar = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

// Bars builds count bars rising by 0.0001 per minute, each with a 0.1 high wick.
func Bars(barType types.BarType, count int, volume int64) []types.Bar {
	bars := make([]types.Bar, 0, count)
	step := decimal.RequireFromString("0.0001")

	for i := 0; i < count; i++ {
		offset := step.Mul(decimal.NewFromInt(int64(i)))
		price := decimal.RequireFromString("1.1").Add(offset)
		ts := FirstBar.Add(time.Duration(i) * time.Minute)

		bars = append(bars, types.Bar{
			BarType: barType,
			Open:    price,
			High:    decimal.RequireFromString("1.2").Add(offset),
			Low:     price,
			Close:   price,
			Volume:  decimal.NewFromInt(volume),
			TsEvent: ts,
			TsInit:  ts,
		})
	}

	return bars
}

type DemoStrategy struct {
	*trading.Strategy
	instrument *types.Instrument
	barType    types.BarType
	quantity   decimal.Decimal

	BarsProcessed int
}

func NewDemoStrategy(instrument *types.Instrument, barType types.BarType, quantity decimal.Decimal) *DemoStrategy {
	return &DemoStrategy{
		Strategy:   trading.NewStrategy("DemoStrategy-005"),
		instrument: instrument,
		barType:    barType,
		quantity:   quantity,
	}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeBars(s.barType)
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	s.BarsProcessed++
	s.Log().Debug("Bar", zap.Int("bars_processed", s.BarsProcessed), zap.Stringer("bar", bar))

	switch s.BarsProcessed {
	case SellBar:
		return s.SubmitOrder(s.OrderFactory().Market(s.instrument.ID, types.OrderSideSell, s.quantity))
	case BuyBar:
		return s.SubmitOrder(s.OrderFactory().Market(s.instrument.ID, types.OrderSideBuy, s.quantity))
	}

	return nil
}

type Result struct {
	BarsProcessed int
	Statistics    types.BacktestStatistics
}

// Run trades 100,000 EUR/USD on a maker/taker fee venue.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument, err := instruments.DefaultFXCcy("EUR/USD", exampleutil.DefaultVenue)
	if err != nil {
		return nil, err
	}

	return run(ctx, opts, instrument, exampleutil.DeterministicVenue(exampleutil.DefaultVenue), decimal.NewFromInt(100_000), 999_999)
}

// RunFuture trades one 6E contract on a venue charging 2.50 USD per contract.
func RunFuture(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	venue := exampleutil.PerContractVenue(exampleutil.DefaultVenue, types.NewMoney(2.50, types.USD))
	venue.FillModel = v1.FillModelConfig{}

	return run(ctx, opts, instrument, venue, decimal.NewFromInt(1), 100)
}

func run(
	ctx context.Context,
	opts exampleutil.Options,
	instrument *types.Instrument,
	venue v1.VenueConfig,
	quantity decimal.Decimal,
	volume int64,
) (*Result, error) {
	barType := exampleutil.MinuteBarType(instrument)

	e, err := exampleutil.NewEngine(opts.EngineConfig(), venue)
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy := NewDemoStrategy(instrument, barType, quantity)

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         Bars(barType, BarCount, volume),
		Strategies:   []trading.StrategyComponent{strategy},
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{BarsProcessed: strategy.BarsProcessed, Statistics: e.Result()}, nil
}
