// Package parquetcatalog writes an instrument and its bars to a parquet data catalog,
// reads them back and replays them through a bar-counting strategy.
package parquetcatalog

import (
	"context"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/data/catalog"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	AlertName        = "open-trade-alert"
	ProgressInterval = 100_000
	LookupIndex      = 75_000
)

type DemoStrategy struct {
	*trading.Strategy
	instrument *types.Instrument
	barType    types.BarType
	alertTime  time.Time

	BarCount  int
	LastPrice optional.Option[decimal.Decimal]
	Bracket   *types.OrderList
	LookedUp  optional.Option[types.Bar]
}

func NewDemoStrategy(instrument *types.Instrument, barType types.BarType, alertTime time.Time) *DemoStrategy {
	return &DemoStrategy{
		Strategy:   trading.NewStrategy("DemoStrategy-004"),
		instrument: instrument,
		barType:    barType,
		alertTime:  alertTime,
	}
}

func (s *DemoStrategy) OnStart() error {
	if err := s.SubscribeBars(s.barType); err != nil {
		return err
	}

	return s.Clock().SetTimeAlert(AlertName, s.alertTime, s.WrapTimeEvent(s.onAlert))
}

func (s *DemoStrategy) OnBar(bar types.Bar) error {
	s.BarCount++
	s.LastPrice = optional.Some(bar.Close)

	if s.BarCount%ProgressInterval == 0 {
		s.Log().Info("Processed bars", zap.Int("bars", s.BarCount))
	}

	return nil
}

func (s *DemoStrategy) onAlert(_ types.TimeEvent) error {
	if !s.Portfolio().IsFlat(s.instrument.ID) || s.LastPrice.IsNone() {
		return nil
	}

	price := s.LastPrice.Unwrap()
	offset := s.instrument.Ticks(20)

	bracket, err := s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    s.instrument.ID,
		Side:            types.OrderSideBuy,
		Quantity:        s.instrument.MakeQty(1),
		EntryType:       types.OrderTypeLimit,
		EntryPrice:      optional.Some(s.instrument.RoundPrice(price)),
		TakeProfitPrice: s.instrument.RoundPrice(price.Add(offset)),
		StopLossTrigger: s.instrument.RoundPrice(price.Sub(offset)),
		TimeInForce:     types.TimeInForceGTC,
	})
	if err != nil {
		return err
	}

	if err := s.SubmitOrderList(bracket); err != nil {
		return err
	}

	s.Bracket = bracket

	return nil
}

func (s *DemoStrategy) OnStop() error {
	s.Log().Info("Total bars processed", zap.Int("bars", s.BarCount))

	s.LookedUp = s.Cache().Bar(s.barType.String(), LookupIndex)
	if s.LookedUp.IsSome() {
		s.Log().Info("Accessing bar", zap.Int("index", LookupIndex), zap.Stringer("bar", s.LookedUp.Unwrap()))
	}

	return nil
}

func (s *DemoStrategy) OnReset() error {
	s.BarCount = 0
	s.LastPrice = optional.None[decimal.Decimal]()
	s.Bracket = nil

	return nil
}

type Result struct {
	CatalogDir string
	// StoredBars is the number of bars the catalog holds for the bar type.
	StoredBars int
	Instrument *types.Instrument
	BarCount   int
	Bracket    *types.OrderList
	Statistics types.BacktestStatistics
	// CountAfterReset is the strategy bar count after the engine was reset.
	CountAfterReset int
}

// Run writes the bars to the catalog at opts.CatalogDir, or a temporary directory removed
// afterwards, and replays what the catalog returns for the 1-minute bar type.
func Run(ctx context.Context, opts exampleutil.Options) (*Result, error) {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	bars, err := exampleutil.LoadBars(opts, instrument, barType, 24*60)
	if err != nil {
		return nil, err
	}

	dir := opts.CatalogDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "catalog-*")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogWrite, "failed to create catalog directory", err)
		}
		defer func() { _ = os.RemoveAll(dir) }()
	}

	e, err := exampleutil.NewEngine(opts.EngineConfig(), exampleutil.DefaultVenueConfig())
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Dispose() }()

	c, err := catalog.NewParquetDataCatalog(dir, e.Logger())
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteInstruments(instrument); err != nil {
		return nil, err
	}

	if err := c.WriteBars(bars); err != nil {
		return nil, err
	}

	stored, err := c.Count(barType.String())
	if err != nil {
		return nil, err
	}

	loaded, err := c.Instrument(instrument.ID.String())
	if err != nil {
		return nil, err
	}

	replay, err := c.Bars([]string{barType.String()}, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return nil, err
	}

	alertTime := opts.FirstBar().Add(11 * time.Hour)
	strategy := NewDemoStrategy(loaded, barType, alertTime)

	err = exampleutil.RunBacktest(ctx, e, exampleutil.Backtest{
		Instrument:   loaded,
		Bars:         replay,
		Strategies:   []trading.StrategyComponent{strategy},
		Streaming:    true,
		PrintReports: true,
	}, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		CatalogDir: c.Root(),
		StoredBars: stored,
		Instrument: loaded,
		BarCount:   strategy.BarCount,
		Bracket:    strategy.Bracket,
		Statistics: e.Result(),
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}

	result.CountAfterReset = strategy.BarCount

	return result, nil
}
