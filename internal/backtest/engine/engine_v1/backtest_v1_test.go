package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	testStart   = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	testBarType = types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
)

// recordingStrategy counts bars and records every callback it receives.
type recordingStrategy struct {
	*trading.Strategy
	barType types.BarType
	onBar   func(s *recordingStrategy, bar types.Bar) error
	onStart func(s *recordingStrategy) error

	bars     []types.Bar
	events   []string
	fills    []types.OrderFilled
	rejected []*types.Order
	closed   []*types.Position
	stops    int
	resets   int
}

func newRecordingStrategy(id string, barType types.BarType) *recordingStrategy {
	return &recordingStrategy{Strategy: trading.NewStrategy(id), barType: barType}
}

func (s *recordingStrategy) OnStart() error {
	if err := s.SubscribeBars(s.barType); err != nil {
		return err
	}

	if s.onStart != nil {
		return s.onStart(s)
	}

	return nil
}

func (s *recordingStrategy) OnStop() error {
	s.stops++

	return nil
}

func (s *recordingStrategy) OnReset() error {
	s.resets++
	s.bars = nil
	s.events = nil

	return nil
}

func (s *recordingStrategy) OnBar(bar types.Bar) error {
	s.bars = append(s.bars, bar)
	s.events = append(s.events, fmt.Sprintf("bar %s %s", bar.BarType.Spec, bar.TsInit.Format("15:04")))

	if s.onBar != nil {
		return s.onBar(s, bar)
	}

	return nil
}

func (s *recordingStrategy) OnOrderFilled(fill types.OrderFilled) error {
	s.fills = append(s.fills, fill)

	return nil
}

func (s *recordingStrategy) OnOrderRejected(order *types.Order) error {
	s.rejected = append(s.rejected, order)

	return nil
}

func (s *recordingStrategy) OnPositionClosed(position *types.Position) error {
	s.closed = append(s.closed, position)

	return nil
}

// buyAndClose buys one contract on the 2nd bar and closes the position on the 5th.
func buyAndClose(s *recordingStrategy, bar types.Bar) error {
	switch len(s.bars) {
	case 2:
		return s.SubmitOrder(s.OrderFactory().Market(bar.BarType.InstrumentID, types.OrderSideBuy, decimal.NewFromInt(1)))
	case 5:
		return s.CloseAllPositions(bar.BarType.InstrumentID)
	}

	return nil
}

type BacktestEngineV1TestSuite struct {
	suite.Suite
	engine     *BacktestEngineV1
	instrument *types.Instrument
}

func TestBacktestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(BacktestEngineV1TestSuite))
}

func (suite *BacktestEngineV1TestSuite) SetupTest() {
	config := EmptyConfig()
	config.Logging.Bypass = true

	venue := DefaultVenueConfig("SIM")
	venue.FillModel = FillModelConfig{}
	config.Venues = []VenueConfig{venue}

	e, err := NewBacktestEngineV1(config)
	suite.Require().NoError(err)

	suite.engine = e
	suite.instrument = instruments.Create6EInstrument("SIM")
	suite.Require().NoError(e.AddInstrument(suite.instrument))
}

func (suite *BacktestEngineV1TestSuite) TearDownTest() {
	suite.NoError(suite.engine.Dispose())
}

// bars builds count one-minute bars closing at 10:01, 10:02, ... rising by one tick per bar.
func (suite *BacktestEngineV1TestSuite) bars(count int) []types.Bar {
	tick := decimal.RequireFromString("0.00005")
	open := decimal.RequireFromString("1.10000")

	bars := make([]types.Bar, 0, count)

	for i := 0; i < count; i++ {
		ts := testStart.Add(time.Duration(i+1) * time.Minute)
		px := open.Add(tick.Mul(decimal.NewFromInt(int64(i))))

		bars = append(bars, types.Bar{
			BarType: testBarType,
			Open:    px,
			High:    px.Add(tick),
			Low:     px.Sub(tick),
			Close:   px.Add(tick),
			Volume:  decimal.NewFromInt(1000),
			TsEvent: ts,
			TsInit:  ts,
		})
	}

	return bars
}

func (suite *BacktestEngineV1TestSuite) run(opts engine.RunOptions) error {
	return suite.engine.Run(context.Background(), opts)
}

func (suite *BacktestEngineV1TestSuite) TestRunPreconditions() {
	err := suite.run(engine.RunOptions{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoComponent))

	suite.Require().NoError(suite.engine.AddStrategy(newRecordingStrategy("Counting-001", testBarType)))

	err = suite.run(engine.RunOptions{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoData))

	suite.Require().NoError(suite.engine.AddData(suite.bars(3)))

	err = suite.run(engine.RunOptions{Start: optional.Some(testStart.Add(time.Hour))})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoData))
}

func (suite *BacktestEngineV1TestSuite) TestRegistrationErrors() {
	err := suite.engine.AddInstrument(instruments.Create6EInstrument("OTHER"))
	suite.True(errors.HasCode(err, errors.ErrCodeVenueNotFound))

	err = suite.engine.AddVenue(DefaultVenueConfig("SIM"))
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateVenue))

	bars := suite.bars(1)
	bars[0].BarType = types.MustParseBarType("ES.SIM-1-MINUTE-LAST-EXTERNAL")
	err = suite.engine.AddData(bars)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownInstrument))

	err = suite.engine.AddData(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoData))

	suite.Require().NoError(suite.engine.AddStrategy(newRecordingStrategy("Counting-001", testBarType)))
	err = suite.engine.AddStrategy(newRecordingStrategy("Counting-001", testBarType))
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateComponent))

	suite.True(suite.engine.Exchange("SIM").IsSome())
	suite.True(suite.engine.Exchange("OTHER").IsNone())
}

func (suite *BacktestEngineV1TestSuite) TestRunBuyAndClose() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	strategy.onBar = buyAndClose

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	suite.Len(strategy.bars, 10)
	suite.Equal(1, strategy.stops)
	suite.Equal(trading.ComponentStateStopped, strategy.State())
	suite.Len(strategy.fills, 2)
	suite.Require().Len(strategy.closed, 1)
	suite.Equal(10, suite.engine.Iteration())
	suite.NotEmpty(suite.engine.RunID())
	suite.Equal(EngineStateIdle, suite.engine.State())

	// bought at the close of bar 2 and sold at the close of bar 5
	fills := strategy.fills
	suite.Equal("1.1001", fills[0].LastPx.String())
	suite.Equal("1.10025", fills[1].LastPx.String())

	result := suite.engine.Result()
	suite.Equal(10, result.BarsProcessed)
	suite.Equal(2, result.Orders)
	suite.Equal(2, result.Fills)
	suite.Equal(1, result.Positions.Total)
	suite.Equal(1, result.Positions.Winners)
	suite.InDelta(1.0, result.Positions.WinRate, 1e-9)
	suite.InDelta(180.0, result.Positions.AvgHoldingSeconds, 1e-9)
	suite.Equal(testStart.Add(time.Minute), result.Start)
	suite.Equal(testStart.Add(10*time.Minute), result.End)
	suite.Contains(result.PnL, types.USD)
	suite.Contains(result.Balances, types.AccountID("SIM-001"))
}

func (suite *BacktestEngineV1TestSuite) TestRunWindow() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))

	err := suite.run(engine.RunOptions{
		Start: optional.Some(testStart.Add(3 * time.Minute)),
		End:   optional.Some(testStart.Add(6 * time.Minute)),
	})
	suite.Require().NoError(err)

	suite.Require().Len(strategy.bars, 4)
	suite.Equal(testStart.Add(3*time.Minute), strategy.bars[0].TsInit)
	suite.Equal(testStart.Add(6*time.Minute), strategy.bars[3].TsInit)
}

func (suite *BacktestEngineV1TestSuite) TestRunWindowFromConfig() {
	config := TestConfig(testStart.Add(8*time.Minute), testStart.Add(time.Hour))
	config.Venues = []VenueConfig{DefaultVenueConfig("SIM")}

	e, err := NewBacktestEngineV1(config)
	suite.Require().NoError(err)
	defer e.Dispose()

	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(e.AddInstrument(instruments.Create6EInstrument("SIM")))
	suite.Require().NoError(e.AddStrategy(strategy))
	suite.Require().NoError(e.AddData(suite.bars(10)))
	suite.Require().NoError(e.Run(context.Background(), engine.RunOptions{}))

	suite.Len(strategy.bars, 3)
}

func (suite *BacktestEngineV1TestSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())

	strategy := newRecordingStrategy("Counting-001", testBarType)
	strategy.onBar = func(s *recordingStrategy, _ types.Bar) error {
		if len(s.bars) == 3 {
			cancel()
		}

		return nil
	}

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))

	err := suite.engine.Run(ctx, engine.RunOptions{})
	suite.ErrorIs(err, context.Canceled)
	suite.Len(strategy.bars, 3)
	suite.Equal(1, strategy.stops)
	suite.Equal(EngineStateIdle, suite.engine.State())
}

func (suite *BacktestEngineV1TestSuite) TestCallbacks() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(5)))

	var (
		startedID string
		total     int
		progress  []int
		endedID   string
		endErr    error
	)

	onStart := engine.OnRunStartCallback(func(runID string, totalBars int) error {
		startedID = runID
		total = totalBars

		return nil
	})
	onData := engine.OnProcessDataCallback(func(current, _ int) error {
		progress = append(progress, current)

		return nil
	})
	onEnd := engine.OnRunEndCallback(func(runID string, err error) {
		endedID = runID
		endErr = err
	})

	err := suite.run(engine.RunOptions{Callbacks: engine.LifecycleCallbacks{
		OnRunStart:    &onStart,
		OnProcessData: &onData,
		OnRunEnd:      &onEnd,
	}})
	suite.Require().NoError(err)

	suite.NotEmpty(startedID)
	suite.Equal(startedID, endedID)
	suite.Equal(5, total)
	suite.Equal([]int{1, 2, 3, 4, 5}, progress)
	suite.NoError(endErr)
}

func (suite *BacktestEngineV1TestSuite) TestCallbackErrorAbortsRun() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(5)))

	stop := fmt.Errorf("stop here")
	onData := engine.OnProcessDataCallback(func(current, _ int) error {
		if current == 2 {
			return stop
		}

		return nil
	})

	var endErr error
	onEnd := engine.OnRunEndCallback(func(_ string, err error) { endErr = err })

	err := suite.run(engine.RunOptions{Callbacks: engine.LifecycleCallbacks{OnProcessData: &onData, OnRunEnd: &onEnd}})
	suite.ErrorIs(err, stop)
	suite.ErrorIs(endErr, stop)
	suite.Len(strategy.bars, 2)
}

func (suite *BacktestEngineV1TestSuite) TestHandlerErrorAbortsRun() {
	strategy := newRecordingStrategy("Failing-001", testBarType)
	strategy.onBar = func(s *recordingStrategy, _ types.Bar) error {
		if len(s.bars) == 3 {
			return fmt.Errorf("broken strategy")
		}

		return nil
	}

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))

	err := suite.run(engine.RunOptions{})
	suite.True(errors.HasCode(err, errors.ErrCodeComponentHandlerError))
	suite.Contains(err.Error(), "broken strategy")
	suite.Len(strategy.bars, 3)
	suite.Equal(trading.ComponentStateFaulted, strategy.State())
}

func (suite *BacktestEngineV1TestSuite) TestTimersFireBeforeBars() {
	strategy := newRecordingStrategy("Timers-001", testBarType)
	strategy.onStart = func(s *recordingStrategy) error {
		if err := s.Clock().SetTimeAlert("alert", testStart.Add(2*time.Minute), func(event types.TimeEvent) {
			s.events = append(s.events, "alert "+event.TsEvent.Format("15:04"))
		}); err != nil {
			return err
		}

		return s.Clock().SetTimer("every-2m", 2*time.Minute, optional.None[time.Time](), optional.None[time.Time](), func(event types.TimeEvent) {
			s.events = append(s.events, "timer "+event.TsEvent.Format("15:04"))
		})
	}

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(4)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	// the timer starts at the first bar (10:01)
	suite.Equal([]string{
		"bar 1-MINUTE-LAST 10:01",
		"alert 10:02",
		"bar 1-MINUTE-LAST 10:02",
		"timer 10:03",
		"bar 1-MINUTE-LAST 10:03",
		"bar 1-MINUTE-LAST 10:04",
	}, strategy.events)
}

func (suite *BacktestEngineV1TestSuite) TestCompositeBars() {
	composite := types.MustParseBarType("6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL")

	minute := newRecordingStrategy("Minute-001", testBarType)
	fiveMinute := newRecordingStrategy("FiveMinute-001", composite)

	suite.Require().NoError(suite.engine.AddStrategy(minute))
	suite.Require().NoError(suite.engine.AddStrategy(fiveMinute))
	suite.Require().NoError(suite.engine.AddData(suite.bars(12)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	suite.Len(minute.bars, 12)
	suite.Require().Len(fiveMinute.bars, 2)

	first := fiveMinute.bars[0]
	suite.Equal(composite.Standard(), first.BarType)
	suite.Equal(testStart.Add(5*time.Minute), first.TsInit)
	suite.Equal("1.1", first.Open.String())
	suite.Equal("1.10025", first.Close.String())
	suite.Equal("5000", first.Volume.String())
	suite.Equal(2, suite.engine.Cache().BarCount(composite.Standard().String()))
}

func (suite *BacktestEngineV1TestSuite) TestDeniedOrderIsRoutedAsRejected() {
	strategy := newRecordingStrategy("Denied-001", testBarType)
	strategy.onBar = func(s *recordingStrategy, _ types.Bar) error {
		if len(s.bars) != 1 {
			return nil
		}

		return s.SubmitOrder(s.OrderFactory().Market(types.NewInstrumentID("6E", "OTHER"), types.OrderSideBuy, decimal.NewFromInt(1)))
	}

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(3)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	suite.Require().Len(strategy.rejected, 1)
	suite.Equal(types.OrderStatusDenied, strategy.rejected[0].Status())
	suite.Contains(strategy.rejected[0].Reason, "venue OTHER not found")
}

func (suite *BacktestEngineV1TestSuite) TestOrderEntryErrors() {
	order := types.NewOrder(types.Order{ClientOrderID: "O-1"})
	suite.Require().NoError(order.Deny("test", testStart))

	err := suite.engine.SubmitOrder(order)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))

	err = suite.engine.SubmitOrder(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))

	err = suite.engine.SubmitOrderList(&types.OrderList{})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))

	err = suite.engine.CancelOrder("O-UNKNOWN")
	suite.True(errors.HasCode(err, errors.ErrCodeOrderNotFound))
}

func (suite *BacktestEngineV1TestSuite) TestBracketThroughEngine() {
	strategy := newRecordingStrategy("Bracket-001", testBarType)
	strategy.onBar = func(s *recordingStrategy, bar types.Bar) error {
		if len(s.bars) != 1 {
			return nil
		}

		tick := decimal.RequireFromString("0.00005")
		list, err := s.OrderFactory().Bracket(trading.BracketParams{
			InstrumentID:    bar.BarType.InstrumentID,
			Side:            types.OrderSideBuy,
			Quantity:        decimal.NewFromInt(1),
			TakeProfitPrice: bar.Close.Add(tick.Mul(decimal.NewFromInt(3))),
			StopLossTrigger: bar.Close.Sub(tick.Mul(decimal.NewFromInt(20))),
		})
		if err != nil {
			return err
		}

		return s.SubmitOrderList(list)
	}

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	suite.Require().Len(strategy.fills, 2)
	suite.Require().Len(strategy.closed, 1)
	suite.Equal("1.1002", strategy.fills[1].LastPx.String())
	suite.Empty(suite.engine.Cache().OrdersOpen())
	suite.Len(suite.engine.Cache().OrdersClosed(), 3)
}

func (suite *BacktestEngineV1TestSuite) TestResetAndRerun() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	strategy.onBar = buyAndClose

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	first := suite.engine.Result()
	firstBalance := suite.engine.Portfolio().Account("SIM").Unwrap().BalanceTotal(types.USD)

	suite.Require().NoError(suite.engine.Reset())
	suite.Equal(1, strategy.resets)
	suite.Equal(trading.ComponentStateReady, strategy.State())
	suite.Empty(suite.engine.RunID())
	suite.Zero(suite.engine.Iteration())
	suite.Empty(suite.engine.Cache().Orders())
	suite.Empty(suite.engine.Cache().Positions())
	suite.Equal("1000000", suite.engine.Portfolio().Account("SIM").Unwrap().BalanceTotal(types.USD).Amount.String())

	strategy.fills = nil
	strategy.closed = nil
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	second := suite.engine.Result()
	suite.NotEqual(first.RunID, second.RunID)
	suite.Equal(first.Fills, second.Fills)
	suite.Equal(first.PnL, second.PnL)
	suite.True(firstBalance.Amount.Equal(suite.engine.Portfolio().Account("SIM").Unwrap().BalanceTotal(types.USD).Amount))
	suite.Equal(types.ClientOrderID(fmt.Sprintf("O-%s-001-001-1", testStart.Add(2*time.Minute).Format("20060102-150405"))),
		strategy.fills[0].ClientOrderID)
}

func (suite *BacktestEngineV1TestSuite) TestStreaming() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(suite.engine.AddStrategy(strategy))

	bars := suite.bars(10)
	suite.Require().NoError(suite.engine.AddData(bars[:4]))
	suite.Require().NoError(suite.run(engine.RunOptions{Streaming: true}))
	suite.Equal(trading.ComponentStateRunning, strategy.State())

	runID := suite.engine.RunID()

	suite.Require().NoError(suite.engine.AddData(bars[4:]))
	suite.Require().NoError(suite.run(engine.RunOptions{Streaming: true}))
	suite.Equal(runID, suite.engine.RunID())
	suite.Equal(trading.ComponentStateRunning, strategy.State())

	suite.Require().NoError(suite.engine.End())
	suite.Equal(trading.ComponentStateStopped, strategy.State())
	suite.Len(strategy.bars, 10)
	suite.Equal(10, suite.engine.Iteration())
}

func (suite *BacktestEngineV1TestSuite) TestDispose() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(3)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	suite.Require().NoError(suite.engine.Dispose())
	suite.Equal(EngineStateDisposed, suite.engine.State())
	suite.Equal(trading.ComponentStateDisposed, strategy.State())
	suite.NoError(suite.engine.Dispose())

	err := suite.run(engine.RunOptions{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestDisposed))

	err = suite.engine.AddData(suite.bars(1))
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestDisposed))

	err = suite.engine.Reset()
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestDisposed))
}

func (suite *BacktestEngineV1TestSuite) TestReportsAndResults() {
	strategy := newRecordingStrategy("Counting-001", testBarType)
	strategy.onBar = buyAndClose

	suite.Require().NoError(suite.engine.AddStrategy(strategy))
	suite.Require().NoError(suite.engine.AddData(suite.bars(10)))
	suite.Require().NoError(suite.run(engine.RunOptions{}))

	account, err := suite.engine.AccountReport("SIM")
	suite.Require().NoError(err)
	suite.Contains(account, "Account report for venue: SIM")
	suite.Contains(account, "1000000.00")

	_, err = suite.engine.AccountReport("OTHER")
	suite.True(errors.HasCode(err, errors.ErrCodeVenueNotFound))

	suite.Contains(suite.engine.OrderFillsReport(), string(strategy.fills[0].ClientOrderID))
	suite.Contains(suite.engine.PositionsReport(), "6E.SIM-Counting-001")

	var out bytes.Buffer
	suite.Require().NoError(suite.engine.PrintReports(&out))
	suite.Contains(out.String(), "Order fills report")

	folder := filepath.Join(suite.T().TempDir(), "results")
	suite.Require().NoError(suite.engine.WriteResults(folder))

	stats, err := types.ReadStatistics(filepath.Join(folder, "stats.yaml"))
	suite.Require().NoError(err)
	suite.Equal(10, stats.BarsProcessed)
	suite.Equal(2, stats.Fills)
	suite.Equal(suite.engine.RunID(), stats.RunID)

	fills, err := os.ReadFile(filepath.Join(folder, "fills.csv"))
	suite.Require().NoError(err)
	suite.Contains(string(fills), "client_order_id,venue_order_id,trade_id")
	suite.Contains(string(fills), "SIM-1-001")

	positions, err := os.ReadFile(filepath.Join(folder, "positions.csv"))
	suite.Require().NoError(err)
	suite.Contains(string(positions), "6E.SIM-Counting-001")
}

func (suite *BacktestEngineV1TestSuite) TestGetConfigSchema() {
	schema, err := suite.engine.GetConfigSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "backtest-engine-v1-config")
}
