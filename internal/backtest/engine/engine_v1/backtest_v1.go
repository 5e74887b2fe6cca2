package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-examples/internal/clock"
	"github.com/rxtech-lab/argo-examples/internal/data/aggregation"
	"github.com/rxtech-lab/argo-examples/internal/fsm"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/msgbus"
	"github.com/rxtech-lab/argo-examples/internal/portfolio"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"go.uber.org/zap"
)

type component struct {
	actor    *trading.Actor
	strategy *trading.Strategy
	clock    *clock.TestClock
}

// BacktestEngineV1 replays bars through simulated exchanges into actors and strategies
// on a single goroutine.
type BacktestEngineV1 struct {
	config    BacktestEngineV1Config
	log       *logger.Logger
	state     *fsm.StateMachine[EngineState, EngineTrigger]
	clock     *clock.TestClock
	cache     *cache.CacheV1
	portfolio *portfolio.Portfolio
	msgbus    *msgbus.MessageBus

	venues    []types.Venue
	exchanges map[types.Venue]*SimulatedExchange

	data       []types.Bar
	components []*component
	byID       map[string]*component
	strategies map[types.StrategyID]*component

	aggregators map[string]*aggregation.TimeBarAggregator
	bySource    map[string][]*aggregation.TimeBarAggregator

	runID     string
	started   bool
	runErr    error
	iteration int
	firstTs   time.Time
	lastTs    time.Time
	wallStart time.Time
	elapsed   time.Duration
}

var (
	_ engine.Engine         = (*BacktestEngineV1)(nil)
	_ trading.TradingSystem = (*BacktestEngineV1)(nil)
	_ trading.DataEngine    = (*BacktestEngineV1)(nil)
	_ EventSink             = (*BacktestEngineV1)(nil)
)

// NewBacktestEngineV1 creates an engine and the venues listed in the config.
func NewBacktestEngineV1(config BacktestEngineV1Config) (*BacktestEngineV1, error) {
	if config.TraderID == "" {
		config.TraderID = DefaultTraderID
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Logging.FileName == "" {
		config.Logging.FileName = fmt.Sprintf("%s.log", config.TraderID)
	}

	log, err := logger.NewLoggerWithConfig(config.Logging)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
	}

	c := cache.NewCacheV1(config.Cache)

	e := &BacktestEngineV1{
		config:      config,
		log:         log.Named("BacktestEngine"),
		state:       newEngineStateMachine(),
		clock:       clock.NewTestClock(),
		cache:       c,
		portfolio:   portfolio.NewPortfolio(c),
		msgbus:      msgbus.NewMessageBus(log),
		exchanges:   make(map[types.Venue]*SimulatedExchange),
		byID:        make(map[string]*component),
		strategies:  make(map[types.StrategyID]*component),
		aggregators: make(map[string]*aggregation.TimeBarAggregator),
		bySource:    make(map[string][]*aggregation.TimeBarAggregator),
	}

	for _, venue := range config.Venues {
		if err := e.AddVenue(venue); err != nil {
			return nil, err
		}
	}

	e.log.Debug("Backtest engine initialized", zap.String("trader_id", string(config.TraderID)))

	return e, nil
}

func (e *BacktestEngineV1) checkUsable() error {
	switch e.state.State() {
	case EngineStateDisposed:
		return errors.New(errors.ErrCodeBacktestDisposed, "backtest engine is disposed")
	case EngineStateRunning:
		return errors.New(errors.ErrCodeBacktestRunning, "backtest engine is running")
	default:
		return nil
	}
}

// AddVenue creates a simulated exchange and its account.
func (e *BacktestEngineV1) AddVenue(config VenueConfig) error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return err
	}

	if _, ok := e.exchanges[config.Name]; ok {
		return errors.Newf(errors.ErrCodeDuplicateVenue, "venue %s already added", config.Name)
	}

	fees, err := commission_fee.NewFeeModel(config.FeeModel)
	if err != nil {
		return err
	}

	exchange, err := NewSimulatedExchange(config, e.cache, fees, e, e.log, e.clock.UtcNow())
	if err != nil {
		return err
	}

	if err := e.portfolio.AddAccount(config.Name, exchange.Account()); err != nil {
		return err
	}

	e.exchanges[config.Name] = exchange
	e.venues = append(e.venues, config.Name)

	e.log.Info("Added venue",
		zap.String("venue", string(config.Name)),
		zap.String("oms_type", string(config.OmsType)),
		zap.String("account_type", string(config.AccountType)),
		zap.String("fee_model", string(config.FeeModel.Type)),
	)

	return nil
}

// Exchange returns the simulated exchange of a venue.
func (e *BacktestEngineV1) Exchange(venue types.Venue) optional.Option[*SimulatedExchange] {
	if exchange, ok := e.exchanges[venue]; ok {
		return optional.Some(exchange)
	}

	return optional.None[*SimulatedExchange]()
}

// AddInstrument implements engine.Engine.
func (e *BacktestEngineV1) AddInstrument(instrument *types.Instrument) error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	if instrument == nil {
		return errors.New(errors.ErrCodeInvalidInstrument, "instrument is nil")
	}

	if err := instrument.Validate(); err != nil {
		return err
	}

	exchange, ok := e.exchanges[instrument.ID.Venue]
	if !ok {
		return errors.Newf(errors.ErrCodeVenueNotFound, "venue %s for instrument %s has not been added", instrument.ID.Venue, instrument.ID)
	}

	e.cache.AddInstrument(instrument)
	exchange.AddInstrument(instrument)

	e.log.Info("Added instrument", zap.String("instrument_id", instrument.ID.String()))

	return nil
}

// AddData implements engine.Engine. Bars with equal ts_init keep the order they were added in.
func (e *BacktestEngineV1) AddData(bars []types.Bar) error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	if len(bars) == 0 {
		return errors.New(errors.ErrCodeBacktestNoData, "no bars to add")
	}

	for _, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if e.cache.Instrument(bar.BarType.InstrumentID).IsNone() {
			return errors.Newf(errors.ErrCodeUnknownInstrument, "instrument %s for bar type %s has not been added", bar.BarType.InstrumentID, bar.BarType)
		}
	}

	e.data = append(e.data, bars...)
	sort.SliceStable(e.data, func(i, j int) bool { return e.data[i].TsInit.Before(e.data[j].TsInit) })

	e.log.Info("Added data",
		zap.String("bar_type", bars[0].BarType.String()),
		zap.Int("bars", len(bars)),
		zap.Int("total", len(e.data)),
	)

	return nil
}

// AddActor implements engine.Engine.
func (e *BacktestEngineV1) AddActor(actor trading.Component) error {
	if actor == nil {
		return errors.New(errors.ErrCodeComponentConfigError, "actor is nil")
	}

	return e.addComponent(actor.Base(), nil, actor)
}

// AddStrategy implements engine.Engine.
func (e *BacktestEngineV1) AddStrategy(strategy trading.StrategyComponent) error {
	if strategy == nil {
		return errors.New(errors.ErrCodeComponentConfigError, "strategy is nil")
	}

	return e.addComponent(strategy.Base(), strategy.StrategyBase(), strategy)
}

func (e *BacktestEngineV1) addComponent(actor *trading.Actor, strategy *trading.Strategy, self any) error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	if _, ok := e.byID[actor.ID()]; ok {
		return errors.Newf(errors.ErrCodeDuplicateComponent, "component %s already added", actor.ID())
	}

	clk := clock.NewTestClock()
	clk.SetTime(e.clock.UtcNow())

	kernel := trading.Kernel{
		TraderID:  e.config.TraderID,
		Clock:     clk,
		Cache:     e.cache,
		Portfolio: e.portfolio,
		MsgBus:    e.msgbus,
		Logger:    e.log,
		Data:      e,
		Trading:   e,
		OnError:   e.onComponentError,
	}

	var err error
	if strategy != nil {
		err = strategy.Register(kernel, self)
	} else {
		err = actor.Register(kernel, self)
	}

	if err != nil {
		return err
	}

	c := &component{actor: actor, strategy: strategy, clock: clk}
	e.components = append(e.components, c)
	e.byID[actor.ID()] = c

	if strategy != nil {
		e.strategies[strategy.StrategyID()] = c
	}

	e.log.Info("Added component", zap.String("component_id", actor.ID()), zap.Bool("strategy", strategy != nil))

	return nil
}

func (e *BacktestEngineV1) onComponentError(componentID string, err error) {
	e.log.Error("Component callback failed", zap.String("component_id", componentID), zap.Error(err))

	if e.runErr == nil {
		e.runErr = err
	}
}

// Run implements engine.Engine.
func (e *BacktestEngineV1) Run(ctx context.Context, opts engine.RunOptions) (err error) {
	if err := e.checkUsable(); err != nil {
		return err
	}

	if len(e.components) == 0 {
		return errors.New(errors.ErrCodeBacktestNoComponent, "no actors or strategies added")
	}

	if len(e.data) == 0 {
		return errors.New(errors.ErrCodeBacktestNoData, "no data added")
	}

	bars := e.window(either(opts.Start, e.config.StartTime), either(opts.End, e.config.EndTime))
	if len(bars) == 0 {
		return errors.New(errors.ErrCodeBacktestNoData, "no bars in the run window")
	}

	if err := e.state.Trigger(EngineTriggerRun); err != nil {
		return err
	}

	defer func() {
		if triggerErr := e.state.Trigger(EngineTriggerFinish); triggerErr != nil && err == nil {
			err = triggerErr
		}

		opts.Callbacks.RunEnd(e.runID, err)
	}()

	if e.runID == "" {
		e.runID = uuid.NewString()
		e.wallStart = time.Now()
		e.firstTs = bars[0].TsInit
		e.setTime(bars[0].TsInit)
	}

	e.runErr = nil

	for _, c := range e.components {
		if c.actor.State() != trading.ComponentStateReady {
			continue
		}

		if err := c.actor.Start(); err != nil {
			return err
		}
	}

	e.started = true

	if err := e.drain(); err != nil {
		return e.abort(err)
	}

	if err := opts.Callbacks.RunStart(e.runID, len(bars)); err != nil {
		return e.abort(err)
	}

	e.log.Info("Backtest run started",
		zap.String("run_id", e.runID),
		zap.Int("bars", len(bars)),
		zap.Time("start", bars[0].TsInit),
		zap.Time("end", bars[len(bars)-1].TsInit),
	)

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return e.abort(err)
		}

		if err := e.processBar(bar); err != nil {
			return e.abort(err)
		}

		if err := opts.Callbacks.ProcessData(i+1, len(bars)); err != nil {
			return e.abort(err)
		}
	}

	if opts.Streaming {
		e.data = nil

		return nil
	}

	return e.end()
}

// abort ends the run and returns the error that caused it.
func (e *BacktestEngineV1) abort(cause error) error {
	e.log.Error("Backtest run aborted", zap.String("run_id", e.runID), zap.Error(cause))

	if err := e.end(); err != nil {
		e.log.Warn("Failed to end aborted run", zap.Error(err))
	}

	return cause
}

func either(value, fallback optional.Option[time.Time]) optional.Option[time.Time] {
	if value.IsSome() {
		return value
	}

	return fallback
}

func (e *BacktestEngineV1) window(start, end optional.Option[time.Time]) []types.Bar {
	from := 0
	if start.IsSome() {
		from = sort.Search(len(e.data), func(i int) bool { return !e.data[i].TsInit.Before(start.Unwrap()) })
	}

	to := len(e.data)
	if end.IsSome() {
		to = sort.Search(len(e.data), func(i int) bool { return e.data[i].TsInit.After(end.Unwrap()) })
	}

	if from >= to {
		return nil
	}

	return e.data[from:to]
}

func (e *BacktestEngineV1) processBar(bar types.Bar) error {
	if err := e.advanceClocks(bar.TsInit); err != nil {
		return err
	}

	e.setTime(bar.TsInit)

	if exchange, ok := e.exchanges[bar.BarType.InstrumentID.Venue]; ok {
		if err := exchange.ProcessBar(bar); err != nil {
			return err
		}

		if err := e.drain(); err != nil {
			return err
		}
	}

	if err := e.publishBar(bar); err != nil {
		return err
	}

	for _, aggregator := range e.bySource[bar.BarType.String()] {
		for _, internal := range aggregator.HandleBar(bar) {
			if err := e.publishBar(internal); err != nil {
				return err
			}
		}
	}

	e.iteration++
	e.lastTs = bar.TsInit

	return nil
}

func (e *BacktestEngineV1) publishBar(bar types.Bar) error {
	e.cache.AddBar(bar)
	e.msgbus.Publish(msgbus.BarsTopic(bar.BarType.String()), bar)

	if e.runErr != nil {
		return e.runErr
	}

	return e.drain()
}

// advanceClocks fires every timer and alert due up to ts, across all component clocks,
// in time order and then in component order.
func (e *BacktestEngineV1) advanceClocks(ts time.Time) error {
	type due struct {
		handler clock.TimeEventHandler
		index   int
	}

	for {
		var events []due

		for i, c := range e.components {
			for _, h := range c.clock.AdvanceTime(ts) {
				events = append(events, due{handler: h, index: i})
			}
		}

		if len(events) == 0 {
			return nil
		}

		sort.SliceStable(events, func(i, j int) bool {
			a, b := events[i].handler.Event.TsEvent, events[j].handler.Event.TsEvent
			if !a.Equal(b) {
				return a.Before(b)
			}

			return events[i].index < events[j].index
		})

		for _, ev := range events {
			e.setTime(ev.handler.Event.TsEvent)
			ev.handler.Handle()

			if err := e.drain(); err != nil {
				return err
			}
		}

		e.setTime(ts)
	}
}

func (e *BacktestEngineV1) setTime(ts time.Time) {
	e.clock.SetTime(ts)

	for _, exchange := range e.exchanges {
		exchange.SetTime(ts)
	}

	for _, c := range e.components {
		c.clock.SetTime(ts)
	}
}

// drain processes the command queues of every exchange until all are empty.
func (e *BacktestEngineV1) drain() error {
	for {
		pending := false

		for _, venue := range e.venues {
			exchange := e.exchanges[venue]
			if !exchange.HasCommands() {
				continue
			}

			pending = true

			if err := exchange.ProcessCommands(); err != nil {
				return err
			}
		}

		if e.runErr != nil {
			return e.runErr
		}

		if !pending {
			return nil
		}
	}
}

// End implements engine.Engine.
func (e *BacktestEngineV1) End() error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	return e.end()
}

func (e *BacktestEngineV1) end() error {
	if !e.started {
		return nil
	}

	var firstErr error

	for _, c := range e.components {
		if !c.actor.IsRunning() {
			continue
		}

		if err := c.actor.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := e.drain(); err != nil && firstErr == nil {
		firstErr = err
	}

	e.started = false
	e.elapsed = time.Since(e.wallStart)

	e.log.Info("Backtest run finished",
		zap.String("run_id", e.runID),
		zap.Int("iterations", e.iteration),
		zap.Int("orders", len(e.cache.Orders())),
		zap.Int("positions", len(e.cache.Positions())),
		zap.Duration("elapsed", e.elapsed),
	)

	return firstErr
}

// Reset implements engine.Engine.
func (e *BacktestEngineV1) Reset() error {
	if err := e.checkUsable(); err != nil {
		return err
	}

	if err := e.end(); err != nil {
		return err
	}

	for _, c := range e.components {
		if err := c.actor.Reset(); err != nil {
			return err
		}

		if c.strategy != nil {
			c.strategy.OrderFactory().Reset()
		}
	}

	e.cache.Reset()
	e.portfolio.Reset()

	for _, venue := range e.venues {
		exchange := e.exchanges[venue]
		if err := exchange.Reset(); err != nil {
			return err
		}

		if err := e.portfolio.AddAccount(venue, exchange.Account()); err != nil {
			return err
		}
	}

	for _, aggregator := range e.aggregators {
		aggregator.Reset()
	}

	e.runID = ""
	e.runErr = nil
	e.iteration = 0
	e.firstTs = time.Time{}
	e.lastTs = time.Time{}
	e.elapsed = 0

	e.log.Info("Backtest engine reset")

	return nil
}

// Dispose implements engine.Engine.
func (e *BacktestEngineV1) Dispose() error {
	if e.state.State() == EngineStateDisposed {
		return nil
	}

	if err := e.checkUsable(); err != nil {
		return err
	}

	var firstErr error

	if err := e.end(); err != nil {
		firstErr = err
	}

	for _, c := range e.components {
		if err := c.actor.Dispose(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	e.data = nil

	if err := e.state.Trigger(EngineTriggerDispose); err != nil && firstErr == nil {
		firstErr = err
	}

	e.log.Info("Backtest engine disposed")
	_ = e.log.Sync()

	return firstErr
}

// Cache implements engine.Engine.
func (e *BacktestEngineV1) Cache() *cache.CacheV1 {
	return e.cache
}

// Portfolio implements engine.Engine.
func (e *BacktestEngineV1) Portfolio() *portfolio.Portfolio {
	return e.portfolio
}

// Logger returns the engine logger.
func (e *BacktestEngineV1) Logger() *logger.Logger {
	return e.log
}

// State returns the engine lifecycle state.
func (e *BacktestEngineV1) State() EngineState {
	return e.state.State()
}

// Iteration returns the number of bars processed since the last reset.
func (e *BacktestEngineV1) Iteration() int {
	return e.iteration
}

// RunID returns the id of the current run, empty before the first run.
func (e *BacktestEngineV1) RunID() string {
	return e.runID
}

// GetConfigSchema implements engine.Engine.
func (e *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := e.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// SubscribeBars implements trading.DataEngine. Composite bar types start an aggregator
// fed by their source bars.
func (e *BacktestEngineV1) SubscribeBars(barType types.BarType) error {
	if !barType.IsComposite() {
		return nil
	}

	key := barType.String()
	if _, ok := e.aggregators[key]; ok {
		return nil
	}

	aggregator, err := aggregation.NewTimeBarAggregator(barType)
	if err != nil {
		return err
	}

	source := barType.Composite().String()
	e.aggregators[key] = aggregator
	e.bySource[source] = append(e.bySource[source], aggregator)

	e.log.Debug("Started bar aggregation", zap.String("bar_type", key))

	return nil
}

// SubmitOrder implements trading.TradingSystem.
func (e *BacktestEngineV1) SubmitOrder(order *types.Order) error {
	if order == nil {
		return errors.New(errors.ErrCodeInvalidOrder, "order is nil")
	}

	exchange, err := e.prepare(order)
	if err != nil || exchange == nil {
		return err
	}

	exchange.Submit(order)

	return nil
}

// SubmitOrderList implements trading.TradingSystem. An invalid order denies the whole list.
func (e *BacktestEngineV1) SubmitOrderList(list *types.OrderList) error {
	if list == nil || len(list.Orders) == 0 {
		return errors.New(errors.ErrCodeInvalidOrder, "order list is empty")
	}

	for _, order := range list.Orders {
		if order.Status() != types.OrderStatusInitialized {
			return errors.Newf(errors.ErrCodeInvalidOrder, "order %s was already submitted", order.ClientOrderID)
		}
	}

	var reason string

	for _, order := range list.Orders {
		e.cache.AddOrder(order)

		if err := order.Validate(); err != nil && reason == "" {
			reason = err.Error()
		}
	}

	exchange, ok := e.exchanges[list.InstrumentID.Venue]
	if !ok && reason == "" {
		reason = fmt.Sprintf("venue %s not found", list.InstrumentID.Venue)
	}

	if reason != "" {
		for _, order := range list.Orders {
			if err := e.deny(order, reason); err != nil {
				return err
			}
		}

		return nil
	}

	for _, order := range list.Orders {
		if err := order.Submit(e.clock.UtcNow()); err != nil {
			return err
		}
	}

	exchange.SubmitList(list.Orders)

	return nil
}

// CancelOrder implements trading.TradingSystem.
func (e *BacktestEngineV1) CancelOrder(id types.ClientOrderID) error {
	found := e.cache.Order(id)
	if found.IsNone() {
		return errors.Newf(errors.ErrCodeOrderNotFound, "order %s not found", id)
	}

	exchange, ok := e.exchanges[found.Unwrap().InstrumentID.Venue]
	if !ok {
		return errors.Newf(errors.ErrCodeVenueNotFound, "venue %s not found", found.Unwrap().InstrumentID.Venue)
	}

	exchange.Cancel(id)

	return nil
}

// prepare caches and submits an order, or denies it. A nil exchange means the order was denied.
func (e *BacktestEngineV1) prepare(order *types.Order) (*SimulatedExchange, error) {
	if order.Status() != types.OrderStatusInitialized {
		return nil, errors.Newf(errors.ErrCodeInvalidOrder, "order %s was already submitted", order.ClientOrderID)
	}

	e.cache.AddOrder(order)

	if err := order.Validate(); err != nil {
		return nil, e.deny(order, err.Error())
	}

	exchange, ok := e.exchanges[order.InstrumentID.Venue]
	if !ok {
		return nil, e.deny(order, fmt.Sprintf("venue %s not found", order.InstrumentID.Venue))
	}

	if err := order.Submit(e.clock.UtcNow()); err != nil {
		return nil, err
	}

	return exchange, nil
}

func (e *BacktestEngineV1) deny(order *types.Order, reason string) error {
	if err := order.Deny(reason, e.clock.UtcNow()); err != nil {
		return err
	}

	e.log.Warn("Order denied",
		zap.String("client_order_id", string(order.ClientOrderID)),
		zap.String("reason", reason),
	)

	e.OrderRejected(order)

	return nil
}

func (e *BacktestEngineV1) owner(id types.StrategyID) *trading.Actor {
	if c, ok := e.strategies[id]; ok {
		return c.actor
	}

	return nil
}

// OrderFilled implements EventSink.
func (e *BacktestEngineV1) OrderFilled(order *types.Order, fill types.OrderFilled) {
	if actor := e.owner(order.StrategyID); actor != nil {
		actor.HandleOrderFilled(fill)
	}
}

// OrderRejected implements EventSink.
func (e *BacktestEngineV1) OrderRejected(order *types.Order) {
	if actor := e.owner(order.StrategyID); actor != nil {
		actor.HandleOrderRejected(order)
	}
}

// OrderCanceled implements EventSink.
func (e *BacktestEngineV1) OrderCanceled(order *types.Order) {
	if actor := e.owner(order.StrategyID); actor != nil {
		actor.HandleOrderCanceled(order)
	}
}

// PositionOpened implements EventSink.
func (e *BacktestEngineV1) PositionOpened(position *types.Position) {
	if actor := e.owner(position.StrategyID); actor != nil {
		actor.HandlePositionOpened(position)
	}
}

// PositionChanged implements EventSink.
func (e *BacktestEngineV1) PositionChanged(position *types.Position) {
	if actor := e.owner(position.StrategyID); actor != nil {
		actor.HandlePositionChanged(position)
	}
}

// PositionClosed implements EventSink.
func (e *BacktestEngineV1) PositionClosed(position *types.Position) {
	if actor := e.owner(position.StrategyID); actor != nil {
		actor.HandlePositionClosed(position)
	}
}
