// Package portfoliocache opens a position and logs what the portfolio and the cache report
// about it while it is open.
package portfoliocache

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
	EntryBar   = 2
	InspectBar = 5
	ExitBar    = 10
)

// Snapshot is what the strategy read from the portfolio and the cache on InspectBar.
type Snapshot struct {
	Account        optional.Option[*types.Account]
	NetExposure    optional.Option[types.Money]
	BalancesLocked map[types.Currency]types.Money
	MarginsInit    map[types.InstrumentID]types.Money
	MarginsMaint   map[types.InstrumentID]types.Money
	OpenPositions  int
	Orders         int
}

type DemoStrategy struct {
	*trading.Strategy
	instrument *types.Instrument
	barType    types.BarType

	BarsProcessed int
	Snapshot      optional.Option[Snapshot]
}

func NewDemoStrategy(instrument *types.Instrument, barType types.BarType) *DemoStrategy {
	return &DemoStrategy{
		Strategy:   trading.NewStrategy("DemoStrategy-007"),
		instrument: instrument,
		barType:    barType,
	}
}

func (s *DemoStrategy) OnStart() error {
	return s.SubscribeBars(s.barType)
}

func (s *DemoStrategy) OnBar(_ types.Bar) error {
	s.BarsProcessed++

	switch s.BarsProcessed {
	case EntryBar:
		return s.SubmitOrder(s.OrderFactory().Market(s.instrument.ID, types.OrderSideBuy, decimal.NewFromInt(1)))
	case InspectBar:
		s.inspect()
	case ExitBar:
		return s.CloseAllPositions(s.instrument.ID)
	}

	return nil
}

func (s *DemoStrategy) inspect() {
	venue := s.instrument.ID.Venue
	portfolio := s.Portfolio()

	snapshot := Snapshot{
		Account:        portfolio.Account(venue),
		NetExposure:    portfolio.NetExposure(s.instrument.ID),
		BalancesLocked: portfolio.BalancesLocked(venue),
		MarginsInit:    portfolio.MarginsInit(venue),
		MarginsMaint:   portfolio.MarginsMaint(venue),
		OpenPositions:  len(s.Cache().PositionsOpenForInstrument(s.instrument.ID)),
		Orders:         len(s.Cache().OrdersForInstrument(s.instrument.ID)),
	}

	if snapshot.Account.IsSome() {
		account := snapshot.Account.Unwrap()
		for _, ccy := range account.Currencies() {
			s.Log().Info("Portfolio: account balance",
				zap.String("account", string(account.ID)),
				zap.Stringer("total", account.BalanceTotal(ccy)),
				zap.Stringer("free", account.BalanceFree(ccy)),
			)
		}
	}

	if snapshot.NetExposure.IsSome() {
		s.Log().Info("Portfolio: net exposure", zap.Stringer("exposure", snapshot.NetExposure.Unwrap()))
	}

	for ccy, money := range snapshot.BalancesLocked {
		s.Log().Info("Portfolio: balance locked", zap.String("currency", string(ccy)), zap.Stringer("locked", money))
	}

	for id, money := range snapshot.MarginsInit {
		s.Log().Info("Portfolio: initial margin", zap.Stringer("instrument", id), zap.Stringer("margin", money))
	}

	for id, money := range snapshot.MarginsMaint {
		s.Log().Info("Portfolio: maintenance margin", zap.Stringer("instrument", id), zap.Stringer("margin", money))
	}

	s.Log().Info("Cache",
		zap.Int("open_positions", snapshot.OpenPositions),
		zap.Int("orders", snapshot.Orders),
	)

	s.Snapshot = optional.Some(snapshot)
}

type Result struct {
	Snapshot   optional.Option[Snapshot]
	Statistics types.BacktestStatistics
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

	return &Result{Snapshot: strategy.Snapshot, Statistics: e.Result()}, nil
}
