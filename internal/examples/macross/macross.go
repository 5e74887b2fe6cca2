// Package macross trades a moving average crossover with bracket orders on the 6EH4
// future: long while the fast average is above the slow one, short while it is below.
package macross

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	v1 "github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/indicator"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Venue is the CME Globex venue the future trades on.
const Venue types.Venue = "GLBX"

// Commission is charged per contract on every fill.
var Commission = types.NewMoney(2.36, types.USD)

type Config struct {
	Instrument     *types.Instrument `validate:"required"`
	PrimaryBarType types.BarType
	TradeSize      decimal.Decimal
	MAType         indicator.MovingAverageType `validate:"required"`
	FastPeriod     int                         `validate:"gt=0,ltfield=SlowPeriod"`
	SlowPeriod     int                         `validate:"gt=0"`
	ProfitTicks    int                         `validate:"gt=0"`
	StopLossTicks  int                         `validate:"gt=0"`
}

// DefaultConfig crosses SMA(20) over SMA(50) with one contract and 20-tick brackets.
func DefaultConfig(instrument *types.Instrument) Config {
	return Config{
		Instrument:     instrument,
		PrimaryBarType: exampleutil.MinuteBarType(instrument),
		TradeSize:      decimal.NewFromInt(1),
		MAType:         indicator.MovingAverageTypeSimple,
		FastPeriod:     20,
		SlowPeriod:     50,
		ProfitTicks:    20,
		StopLossTicks:  20,
	}
}

// EMAConfig crosses EMA(10) over EMA(20) with otherwise default settings.
func EMAConfig(instrument *types.Instrument) Config {
	config := DefaultConfig(instrument)
	config.MAType = indicator.MovingAverageTypeExponential
	config.FastPeriod = 10
	config.SlowPeriod = 20

	return config
}

// Trade is a bracket fired by the strategy.
type Trade struct {
	Side    types.OrderSide
	Bracket *types.OrderList
	TsInit  time.Time
}

type MACrossStrategy struct {
	*trading.Strategy
	config Config

	fast indicator.MovingAverage
	slow indicator.MovingAverage

	Trades []Trade
}

func NewMACrossStrategy(config Config) (*MACrossStrategy, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeComponentConfigError, "invalid moving average cross config", err)
	}

	if !config.TradeSize.IsPositive() {
		return nil, errors.New(errors.ErrCodeComponentConfigError, "trade size must be positive")
	}

	factory := indicator.MovingAverageFactory{}

	fast, err := factory.Create(config.FastPeriod, config.MAType)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeComponentConfigError, "invalid fast moving average", err)
	}

	slow, err := factory.Create(config.SlowPeriod, config.MAType)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeComponentConfigError, "invalid slow moving average", err)
	}

	return &MACrossStrategy{
		Strategy: trading.NewStrategy("MACrossStrategy-014"),
		config:   config,
		fast:     fast,
		slow:     slow,
	}, nil
}

func (s *MACrossStrategy) OnStart() error {
	if err := s.RegisterIndicatorForBars(s.config.PrimaryBarType, s.fast); err != nil {
		return err
	}

	if err := s.RegisterIndicatorForBars(s.config.PrimaryBarType, s.slow); err != nil {
		return err
	}

	return s.SubscribeBars(s.config.PrimaryBarType)
}

func (s *MACrossStrategy) OnBar(bar types.Bar) error {
	if !s.IndicatorsInitialized() {
		s.Log().Debug("Waiting for indicators to initialize",
			zap.Int("bars", s.Cache().BarCount(s.config.PrimaryBarType.String())),
		)

		return nil
	}

	id := s.config.Instrument.ID
	portfolio := s.Portfolio()

	switch {
	case s.fast.Value() > s.slow.Value():
		if portfolio.IsFlat(id) {
			return s.enter(types.OrderSideBuy, bar, false)
		}

		if portfolio.IsNetShort(id) {
			return s.enter(types.OrderSideBuy, bar, true)
		}
	case s.fast.Value() < s.slow.Value():
		if portfolio.IsFlat(id) {
			return s.enter(types.OrderSideSell, bar, false)
		}

		if portfolio.IsNetLong(id) {
			return s.enter(types.OrderSideSell, bar, true)
		}
	}

	return nil
}

// enter cancels the working orders, closes the open position when reversing and fires a
// new bracket.
func (s *MACrossStrategy) enter(side types.OrderSide, bar types.Bar, reverse bool) error {
	id := s.config.Instrument.ID

	if err := s.CancelAllOrders(id); err != nil {
		return err
	}

	if reverse {
		if err := s.CloseAllPositions(id); err != nil {
			return err
		}
	}

	return s.fireTrade(side, bar)
}

func (s *MACrossStrategy) fireTrade(side types.OrderSide, bar types.Bar) error {
	instrument := s.config.Instrument
	last := bar.Close
	profit := instrument.Ticks(s.config.ProfitTicks)
	stop := instrument.Ticks(s.config.StopLossTicks)

	takeProfit, stopLoss := last.Add(profit), last.Sub(stop)
	if side == types.OrderSideSell {
		takeProfit, stopLoss = last.Sub(profit), last.Add(stop)
	}

	bracket, err := s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    instrument.ID,
		Side:            side,
		Quantity:        instrument.MakeQty(s.config.TradeSize.InexactFloat64()),
		EntryType:       types.OrderTypeMarket,
		EntryPrice:      optional.None[decimal.Decimal](),
		TakeProfitPrice: instrument.RoundPrice(takeProfit),
		StopLossTrigger: instrument.RoundPrice(stopLoss),
		TimeInForce:     types.TimeInForceGTC,
	})
	if err != nil {
		return err
	}

	if err := s.SubmitOrderList(bracket); err != nil {
		return err
	}

	s.Trades = append(s.Trades, Trade{Side: side, Bracket: bracket, TsInit: bar.TsInit})
	s.Log().Info("Fired bracket",
		zap.String("side", string(side)),
		zap.String("last", last.String()),
		zap.Float64("fast", s.fast.Value()),
		zap.Float64("slow", s.slow.Value()),
	)

	return nil
}

func (s *MACrossStrategy) OnStop() error {
	s.Log().Info("Strategy stopped", zap.Int("trades", len(s.Trades)))

	return nil
}

func (s *MACrossStrategy) OnReset() error {
	s.Trades = nil

	return nil
}

type Result struct {
	BarsProcessed int
	Trades        []Trade
	Statistics    types.BacktestStatistics
}

// Run trades the SMA(20, 50) cross for two days.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	return RunWithConfig(ctx, opts, DefaultConfig)
}

// RunEMACross trades the EMA(10, 20) cross for two days.
func RunEMACross(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	return RunWithConfig(ctx, opts, EMAConfig)
}

// RunWithConfig trades the strategy built from the config returned for the instrument.
func RunWithConfig(ctx context.Context, opts exampleutil.Options, configure func(*types.Instrument) Config) (*Result, error) {
	instrument, err := instruments.EURUSDFuture(2024, 3, Venue)
	if err != nil {
		return nil, err
	}

	config := configure(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, config.PrimaryBarType, 3*24*60)
	if err != nil {
		return nil, err
	}

	strategy, err := NewMACrossStrategy(config)
	if err != nil {
		return nil, err
	}

	venue := exampleutil.PerContractVenue(Venue, Commission)
	venue.FillModel = v1.FillModelConfig{ProbSlippage: 1, RandomSeed: 42}

	e, err := exampleutil.NewEngine(engineConfig(opts), venue)
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   instrument,
		Bars:         bars,
		Strategies:   []trading.StrategyComponent{strategy},
		End:          optional.Some(opts.FirstBar().AddDate(0, 0, 2)),
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	stats := e.Result()

	return &Result{BarsProcessed: stats.BarsProcessed, Trades: strategy.Trades, Statistics: stats}, nil
}

// engineConfig logs INFO to stdout and DEBUG to logs/macross.log unless the options
// configure logging themselves.
func engineConfig(opts exampleutil.Options) v1.BacktestEngineV1Config {
	if opts.Config.IsNone() && !opts.Logging.Bypass && opts.Logging.FileLevel == "" {
		opts.Logging.FileLevel = "debug"
		opts.Logging.Directory = "logs"
		opts.Logging.FileName = "macross.log"
	}

	return opts.EngineConfig()
}
