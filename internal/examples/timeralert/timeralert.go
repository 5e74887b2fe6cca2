// Package timeralert shows the clock API: a recurring timer that logs every minute and a
// one-time alert that opens a LIMIT-entry bracket when the strategy is flat.
package timeralert

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	TimerName = "every_minute"
	AlertName = "open-trade-alert"
)

// DefaultAlertTime is when the bracket order is fired.
var DefaultAlertTime = time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)

type Config struct {
	Instrument     *types.Instrument `validate:"required"`
	PrimaryBarType types.BarType
	AlertTime      time.Time `validate:"required"`
	// BracketTicks is the distance of the take-profit and stop-loss from the entry.
	BracketTicks int `validate:"gt=0"`
}

type DemoStrategy struct {
	*trading.Strategy
	config Config

	BarsProcessed int
	TimerEvents   int
	LastPrice     optional.Option[decimal.Decimal]
	Bracket       *types.OrderList
}

func NewDemoStrategy(config Config) (*DemoStrategy, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeComponentConfigError, "invalid timer alert strategy config", err)
	}

	return &DemoStrategy{Strategy: trading.NewStrategy("DemoStrategy-002"), config: config}, nil
}

func (s *DemoStrategy) OnStart() error {
	if err := s.SubscribeBars(s.config.PrimaryBarType); err != nil {
		return err
	}

	none := optional.None[time.Time]()
	if err := s.Clock().SetTimer(TimerName, time.Minute, none, none, s.onTimer); err != nil {
		return err
	}

	return s.Clock().SetTimeAlert(AlertName, s.config.AlertTime, s.WrapTimeEvent(s.onAlert))
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	s.BarsProcessed++
	s.LastPrice = optional.Some(bar.Close)

	return nil
}

func (s *DemoStrategy) onTimer(event types.TimeEvent) {
	if event.Name != TimerName {
		return
	}

	s.TimerEvents++
	s.Log().Debug("Event from timer arrived", zap.String("name", event.Name), zap.Time("ts_event", event.TsEvent))
}

func (s *DemoStrategy) onAlert(event types.TimeEvent) error {
	if event.Name != AlertName {
		return nil
	}

	s.Log().Info("Open trade alert detected", zap.Time("now", s.Clock().UtcNow()))

	return s.fireBracketOrder()
}

func (s *DemoStrategy) fireBracketOrder() error {
	instrument := s.config.Instrument

	if !s.Portfolio().IsFlat(instrument.ID) {
		return nil
	}

	if s.LastPrice.IsNone() {
		s.Log().Warn("No price yet, skipping bracket order")

		return nil
	}

	entry := s.LastPrice.Unwrap()
	offset := instrument.Ticks(s.config.BracketTicks)

	bracket, err := s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    instrument.ID,
		Side:            types.OrderSideBuy,
		Quantity:        instrument.MakeQty(1),
		EntryType:       types.OrderTypeLimit,
		EntryPrice:      optional.Some(instrument.RoundPrice(entry)),
		TakeProfitPrice: instrument.RoundPrice(entry.Add(offset)),
		StopLossTrigger: instrument.RoundPrice(entry.Sub(offset)),
		TimeInForce:     types.TimeInForceGTC,
	})
	if err != nil {
		return err
	}

	if err := s.SubmitOrderList(bracket); err != nil {
		return err
	}

	s.Bracket = bracket
	s.Log().Info("Submitted bracket order",
		zap.String("entry", entry.String()),
		zap.String("take_profit", entry.Add(offset).String()),
		zap.String("stop_loss", entry.Sub(offset).String()),
	)

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Total 1-min bars processed", zap.Int("bars", s.BarsProcessed))

	return nil
}

type Result struct {
	BarsProcessed int
	TimerEvents   int
	Bracket       *types.OrderList
	Statistics    types.BacktestStatistics
}

// Run replays a day of 1-minute bars. The alert fires at DefaultAlertTime.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 24*60)
	if err != nil {
		return nil, err
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	strategy, err := NewDemoStrategy(Config{
		Instrument:     instrument,
		PrimaryBarType: barType,
		AlertTime:      DefaultAlertTime,
		BracketTicks:   20,
	})
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

	return &Result{
		BarsProcessed: strategy.BarsProcessed,
		TimerEvents:   strategy.TimerEvents,
		Bracket:       strategy.Bracket,
		Statistics:    e.Result(),
	}, nil
}
