// Package indicators chains two exponential moving averages: EMA(10) is fed by the bars and
// EMA(20) by the EMA(10) values. Both keep a newest-first history.
package indicators

import (
	"context"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/indicator"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"go.uber.org/zap"
)

const (
	FastPeriod = 10
	SlowPeriod = 20
	// HistorySize is the number of values kept per indicator.
	HistorySize = 100
)

// History holds indicator values, index 0 being the newest.
type History []float64

func (h History) push(value float64) History {
	h = append(h, 0)
	copy(h[1:], h)
	h[0] = value

	if len(h) > HistorySize {
		h = h[:HistorySize]
	}

	return h
}

type DemoStrategy struct {
	*trading.Strategy
	barType types.BarType

	ema10 *indicator.ExponentialMovingAverage
	ema20 *indicator.ExponentialMovingAverage

	EMA10History History
	EMA20History History
	// ReadyAt is the 1-based bar on which both averages were first initialized.
	ReadyAt       int
	BarsProcessed int
}

func NewDemoStrategy(barType types.BarType) (*DemoStrategy, error) {
	ema10, err := indicator.NewExponentialMovingAverage(FastPeriod)
	if err != nil {
		return nil, err
	}

	ema20, err := indicator.NewExponentialMovingAverage(SlowPeriod)
	if err != nil {
		return nil, err
	}

	return &DemoStrategy{
		Strategy: trading.NewStrategy("DemoStrategy-008"),
		barType:  barType,
		ema10:    ema10,
		ema20:    ema20,
	}, nil
}

func (s *DemoStrategy) OnStart() error {
	if err := s.RegisterIndicatorForBars(s.barType, s.ema10); err != nil {
		return err
	}

	return s.SubscribeBars(s.barType)
}

// OnBar runs after the registered EMA(10) has seen the bar.
func (s *DemoStrategy) OnBar(_ types.Bar) error {
	s.BarsProcessed++

	if s.ema10.Initialized() {
		s.EMA10History = s.EMA10History.push(s.ema10.Value())
		s.ema20.UpdateRaw(s.ema10.Value())
	}

	if !s.ema20.Initialized() {
		s.Log().Debug("Waiting for indicators to initialize", zap.Int("bars", s.BarsProcessed))

		return nil
	}

	s.EMA20History = s.EMA20History.push(s.ema20.Value())

	if s.ReadyAt == 0 {
		s.ReadyAt = s.BarsProcessed
	}

	fields := []zap.Field{
		zap.Float64("ema10", s.ema10.Value()),
		zap.Float64("ema20", s.ema20.Value()),
		zap.Float64("ema20_history_0", s.EMA20History[0]),
	}

	if len(s.EMA20History) > 4 {
		fields = append(fields, zap.Float64("ema20_history_4", s.EMA20History[4]))
	}

	s.Log().Info("Indicators", fields...)

	return nil
}

func (s *DemoStrategy) OnReset() error {
	s.ema20.Reset()
	s.EMA10History = nil
	s.EMA20History = nil
	s.ReadyAt = 0
	s.BarsProcessed = 0

	return nil
}

type Result struct {
	BarsProcessed int
	ReadyAt       int
	EMA10History  History
	EMA20History  History
}

func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 200)
	if err != nil {
		return nil, err
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy, err := NewDemoStrategy(barType)
	if err != nil {
		return nil, err
	}

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument: instrument,
		Bars:       bars,
		Strategies: []trading.StrategyComponent{strategy},
	}, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		BarsProcessed: strategy.BarsProcessed,
		ReadyAt:       strategy.ReadyAt,
		EMA10History:  strategy.EMA10History,
		EMA20History:  strategy.EMA20History,
	}, nil
}
