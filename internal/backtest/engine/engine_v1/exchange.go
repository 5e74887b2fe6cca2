package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventSink receives the execution events of a simulated exchange.
type EventSink interface {
	OrderFilled(order *types.Order, fill types.OrderFilled)
	OrderRejected(order *types.Order)
	OrderCanceled(order *types.Order)
	PositionOpened(position *types.Position)
	PositionChanged(position *types.Position)
	PositionClosed(position *types.Position)
}

type commandKind int

const (
	commandSubmit commandKind = iota
	commandCancel
)

type command struct {
	kind   commandKind
	orders []*types.Order
	cancel types.ClientOrderID
}

// SimulatedExchange matches the orders of one venue against bar price paths with a
// NETTING order management system and a MARGIN account.
type SimulatedExchange struct {
	config VenueConfig
	cache  *cache.CacheV1
	fees   commission_fee.FeeModel
	fills  *FillModel
	sink   EventSink
	log    *logger.Logger

	account     *types.Account
	leverage    decimal.Decimal
	instruments map[types.InstrumentID]*types.Instrument

	// working orders rest in the market, held orders wait for their OTO parent to fill.
	working  []*types.Order
	held     []*types.Order
	commands []command

	now        time.Time
	orderCount int
}

func NewSimulatedExchange(config VenueConfig, c *cache.CacheV1, fees commission_fee.FeeModel, sink EventSink, log *logger.Logger, ts time.Time) (*SimulatedExchange, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	e := &SimulatedExchange{
		config:      config,
		cache:       c,
		fees:        fees,
		sink:        sink,
		log:         log.Named(fmt.Sprintf("SimulatedExchange-%s", config.Name)),
		instruments: make(map[types.InstrumentID]*types.Instrument),
		now:         ts,
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}

	return e, nil
}

// Venue returns the venue name.
func (e *SimulatedExchange) Venue() types.Venue {
	return e.config.Name
}

// Account returns the venue account.
func (e *SimulatedExchange) Account() *types.Account {
	return e.account
}

// AddInstrument makes the instrument tradable at the venue.
func (e *SimulatedExchange) AddInstrument(instrument *types.Instrument) {
	e.instruments[instrument.ID] = instrument
}

// SetTime sets the timestamp of subsequent events.
func (e *SimulatedExchange) SetTime(ts time.Time) {
	e.now = ts
}

// Reset drops all orders and recreates the account with its starting balances.
func (e *SimulatedExchange) Reset() error {
	e.leverage = decimal.NewFromFloat(e.config.DefaultLeverage)
	if !e.leverage.IsPositive() {
		e.leverage = decimal.NewFromInt(1)
	}

	account, err := types.NewMarginAccount(types.AccountID(fmt.Sprintf("%s-001", e.config.Name)),
		e.config.BaseCurrency, e.leverage, e.config.StartingBalances, e.now)
	if err != nil {
		return err
	}

	e.account = account
	e.fills = NewFillModel(e.config.FillModel)
	e.working = nil
	e.held = nil
	e.commands = nil
	e.orderCount = 0

	return nil
}

// Submit queues an order for processing.
func (e *SimulatedExchange) Submit(order *types.Order) {
	e.commands = append(e.commands, command{kind: commandSubmit, orders: []*types.Order{order}})
}

// SubmitList queues the orders of a list, entry first.
func (e *SimulatedExchange) SubmitList(orders []*types.Order) {
	e.commands = append(e.commands, command{kind: commandSubmit, orders: orders})
}

// Cancel queues the cancellation of an open order.
func (e *SimulatedExchange) Cancel(id types.ClientOrderID) {
	e.commands = append(e.commands, command{kind: commandCancel, cancel: id})
}

// HasCommands reports whether commands are waiting.
func (e *SimulatedExchange) HasCommands() bool {
	return len(e.commands) > 0
}

// WorkingOrders returns the orders resting in the market.
func (e *SimulatedExchange) WorkingOrders() []*types.Order {
	return append([]*types.Order(nil), e.working...)
}

// ProcessCommands processes queued commands in order, including those queued while processing.
func (e *SimulatedExchange) ProcessCommands() error {
	for len(e.commands) > 0 {
		cmd := e.commands[0]
		e.commands = e.commands[1:]

		switch cmd.kind {
		case commandSubmit:
			for _, order := range cmd.orders {
				if err := e.processSubmit(order); err != nil {
					return err
				}
			}
		case commandCancel:
			if err := e.processCancel(cmd.cancel); err != nil {
				return err
			}
		}
	}

	return nil
}

// ProcessBar walks the bar's price path and matches the working orders of its instrument.
func (e *SimulatedExchange) ProcessBar(bar types.Bar) error {
	instrument, ok := e.instruments[bar.BarType.InstrumentID]
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownInstrument, "instrument %s is not traded at venue %s", bar.BarType.InstrumentID, e.config.Name)
	}

	if err := e.expireDayOrders(bar.TsInit); err != nil {
		return err
	}

	path, label := e.PricePath(bar)
	e.log.Debug("Processing bar",
		zap.String("bar_type", bar.BarType.String()),
		zap.String("path", label),
		zap.Time("ts", bar.TsInit),
	)

	for i, px := range path {
		e.cache.SetLastPrice(instrument.ID, px)

		if err := e.iterate(instrument, px, i == 0); err != nil {
			return err
		}
	}

	return nil
}

// PricePath returns the prices a bar is walked through and a label such as "O-H-L-C".
func (e *SimulatedExchange) PricePath(bar types.Bar) ([]decimal.Decimal, string) {
	if e.config.BarAdaptiveHighLowOrdering && bar.Open.Sub(bar.Low).Abs().LessThan(bar.High.Sub(bar.Open).Abs()) {
		return []decimal.Decimal{bar.Open, bar.Low, bar.High, bar.Close}, "O-L-H-C"
	}

	return []decimal.Decimal{bar.Open, bar.High, bar.Low, bar.Close}, "O-H-L-C"
}

func (e *SimulatedExchange) iterate(instrument *types.Instrument, px decimal.Decimal, isOpen bool) error {
	for _, order := range e.WorkingOrders() {
		if order.InstrumentID != instrument.ID || !order.IsOpen() || !e.isWorking(order) {
			continue
		}

		buy := order.Side == types.OrderSideBuy

		switch order.Type {
		case types.OrderTypeLimit:
			price := order.Price.Unwrap()
			crossed := (buy && px.LessThan(price)) || (!buy && px.GreaterThan(price))

			if crossed || (px.Equal(price) && e.fills.IsLimitFilled()) {
				if err := e.fill(instrument, order, price, types.LiquiditySideMaker); err != nil {
					return err
				}
			}
		case types.OrderTypeStopMarket:
			trigger := order.TriggerPrice.Unwrap()
			crossed := (buy && px.GreaterThan(trigger)) || (!buy && px.LessThan(trigger))

			if crossed || (px.Equal(trigger) && e.fills.IsStopFilled()) {
				fillPx := trigger
				if crossed && isOpen {
					fillPx = px
				}

				if err := e.fill(instrument, order, e.slip(instrument, order, fillPx), types.LiquiditySideTaker); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (e *SimulatedExchange) processSubmit(order *types.Order) error {
	if order.Status() != types.OrderStatusSubmitted {
		return nil
	}

	instrument, ok := e.instruments[order.InstrumentID]
	if !ok {
		return e.reject(order, fmt.Sprintf("instrument %s not found at venue %s", order.InstrumentID, e.config.Name))
	}

	if !instrument.IsActive(e.now) {
		return e.reject(order, fmt.Sprintf("instrument %s is not active at %s", instrument.ID, e.now.Format(time.RFC3339)))
	}

	if order.ParentOrderID != "" {
		parent := e.cache.Order(order.ParentOrderID)
		if parent.IsNone() {
			return e.reject(order, fmt.Sprintf("parent order %s not found", order.ParentOrderID))
		}

		p := parent.Unwrap()

		switch {
		case p.Status() == types.OrderStatusFilled:
		case p.IsClosed():
			return e.reject(order, fmt.Sprintf("parent order %s is %s", p.ClientOrderID, p.Status()))
		default:
			e.held = append(e.held, order)
			e.log.Debug("Order held until parent fills",
				zap.String("client_order_id", string(order.ClientOrderID)),
				zap.String("parent_order_id", string(order.ParentOrderID)),
			)

			return nil
		}
	}

	return e.activate(instrument, order)
}

func (e *SimulatedExchange) activate(instrument *types.Instrument, order *types.Order) error {
	last, ok := e.lastPrice(instrument.ID)
	if !ok {
		return e.reject(order, fmt.Sprintf("no market for %s", instrument.ID))
	}

	reducing := e.reduces(order)
	if order.ReduceOnly && !reducing {
		return e.reject(order, "reduce-only order would increase the position")
	}

	if !reducing {
		required := e.initialMargin(instrument, order.Quantity, e.orderPrice(order, last))
		free := e.account.BalanceFree(required.Currency)

		if required.Amount.GreaterThan(free.Amount) {
			return e.reject(order, fmt.Sprintf("insufficient free balance: initial margin %s exceeds free %s", required, free))
		}
	}

	marketable := false

	switch order.Type {
	case types.OrderTypeStopMarket:
		trigger := order.TriggerPrice.Unwrap()
		if (order.Side == types.OrderSideBuy && !trigger.GreaterThan(last)) ||
			(order.Side == types.OrderSideSell && !trigger.LessThan(last)) {
			return e.reject(order, fmt.Sprintf("stop trigger %s is already in the market at %s", trigger, last))
		}
	case types.OrderTypeLimit:
		price := order.Price.Unwrap()
		marketable = (order.Side == types.OrderSideBuy && !price.LessThan(last)) ||
			(order.Side == types.OrderSideSell && !price.GreaterThan(last))

		if marketable && order.PostOnly {
			return e.reject(order, fmt.Sprintf("post-only limit %s would take liquidity at %s", price, last))
		}
	}

	e.orderCount++
	if err := order.Accept(types.VenueOrderID(fmt.Sprintf("%s-1-%03d", e.config.Name, e.orderCount)), e.now); err != nil {
		return err
	}

	e.log.Debug("Order accepted",
		zap.String("client_order_id", string(order.ClientOrderID)),
		zap.String("venue_order_id", string(order.VenueOrderID)),
		zap.String("type", string(order.Type)),
	)

	switch {
	case order.Type == types.OrderTypeMarket:
		return e.fill(instrument, order, e.slip(instrument, order, last), types.LiquiditySideTaker)
	case marketable:
		return e.fill(instrument, order, last, types.LiquiditySideTaker)
	case order.TimeInForce == types.TimeInForceIOC || order.TimeInForce == types.TimeInForceFOK:
		return e.cancel(order)
	}

	e.working = append(e.working, order)
	e.updateMargins(instrument)

	return nil
}

func (e *SimulatedExchange) processCancel(id types.ClientOrderID) error {
	found := e.cache.Order(id)
	if found.IsNone() {
		e.log.Warn("Cannot cancel unknown order", zap.String("client_order_id", string(id)))

		return nil
	}

	order := found.Unwrap()
	if !order.IsOpen() {
		e.log.Debug("Order already closed", zap.String("client_order_id", string(id)), zap.String("status", string(order.Status())))

		return nil
	}

	return e.cancel(order)
}

func (e *SimulatedExchange) fill(instrument *types.Instrument, order *types.Order, px decimal.Decimal, liquidity types.LiquiditySide) error {
	if order.ReduceOnly && !e.reduces(order) {
		e.log.Debug("Cancelling reduce-only order with nothing to reduce", zap.String("client_order_id", string(order.ClientOrderID)))

		return e.cancel(order)
	}

	commission := e.fees.Commission(instrument, order.Quantity, px, liquidity)
	fill := types.NewOrderFilled(order, e.account.ID, types.TradeID(uuid.NewString()), order.Quantity, px,
		instrument.SettlementCurrency(), commission, liquidity, e.now)

	if err := order.Fill(fill); err != nil {
		return err
	}

	e.remove(order)

	e.log.Info("Order filled",
		zap.String("client_order_id", string(order.ClientOrderID)),
		zap.String("side", string(order.Side)),
		zap.String("qty", fill.LastQty.String()),
		zap.String("px", fill.LastPx.String()),
		zap.String("commission", commission.String()),
		zap.String("liquidity", string(liquidity)),
	)

	e.sink.OrderFilled(order, fill)

	if err := e.applyToPosition(instrument, fill); err != nil {
		return err
	}

	switch order.Contingency {
	case types.ContingencyOTO:
		if err := e.releaseChildren(instrument, order); err != nil {
			return err
		}
	case types.ContingencyOCO:
		for _, id := range order.LinkedOrderIDs {
			sibling := e.cache.Order(id)
			if sibling.IsSome() && sibling.Unwrap().IsOpen() {
				if err := e.cancel(sibling.Unwrap()); err != nil {
					return err
				}
			}
		}
	}

	e.updateMargins(instrument)

	return nil
}

func (e *SimulatedExchange) releaseChildren(instrument *types.Instrument, parent *types.Order) error {
	var children, rest []*types.Order

	for _, o := range e.held {
		if o.ParentOrderID == parent.ClientOrderID {
			children = append(children, o)
		} else {
			rest = append(rest, o)
		}
	}

	e.held = rest

	for _, child := range children {
		if !child.IsOpen() {
			continue
		}

		if err := e.activate(instrument, child); err != nil {
			return err
		}
	}

	return nil
}

func (e *SimulatedExchange) applyToPosition(instrument *types.Instrument, fill types.OrderFilled) error {
	current := e.cache.Position(fill.PositionID)
	if current.IsNone() || current.Unwrap().IsClosed() {
		return e.openPosition(instrument, fill)
	}

	position := current.Unwrap()
	if !position.WouldFlip(fill) {
		return e.updatePosition(position, fill)
	}

	closing := fill.WithQty(position.Quantity())
	remainder := fill.WithQty(fill.LastQty.Sub(position.Quantity()))
	remainder.Commission = types.Money{Amount: fill.Commission.Amount.Sub(closing.Commission.Amount), Currency: fill.Commission.Currency}

	if err := e.updatePosition(position, closing); err != nil {
		return err
	}

	return e.openPosition(instrument, remainder)
}

func (e *SimulatedExchange) openPosition(instrument *types.Instrument, fill types.OrderFilled) error {
	position, err := types.NewPosition(instrument, fill)
	if err != nil {
		return err
	}

	e.cache.AddPosition(position)
	e.account.ApplyPnL(position.RealizedPnL, e.now)
	e.sink.PositionOpened(position)

	return nil
}

func (e *SimulatedExchange) updatePosition(position *types.Position, fill types.OrderFilled) error {
	before := position.RealizedPnL.Amount

	if err := position.Apply(fill); err != nil {
		return err
	}

	e.account.ApplyPnL(types.Money{Amount: position.RealizedPnL.Amount.Sub(before), Currency: position.RealizedPnL.Currency}, e.now)

	if position.IsClosed() {
		e.cache.ClosePosition(position)
		e.sink.PositionClosed(position)

		return nil
	}

	e.sink.PositionChanged(position)

	return nil
}

func (e *SimulatedExchange) reject(order *types.Order, reason string) error {
	if err := order.Reject(reason, e.now); err != nil {
		return err
	}

	e.log.Warn("Order rejected",
		zap.String("client_order_id", string(order.ClientOrderID)),
		zap.String("reason", reason),
	)

	e.sink.OrderRejected(order)

	return nil
}

func (e *SimulatedExchange) cancel(order *types.Order) error {
	if err := order.Cancel(e.now); err != nil {
		return err
	}

	e.remove(order)

	e.log.Debug("Order canceled", zap.String("client_order_id", string(order.ClientOrderID)))
	e.sink.OrderCanceled(order)

	for _, child := range append([]*types.Order(nil), e.held...) {
		if child.ParentOrderID == order.ClientOrderID && child.IsOpen() {
			if err := e.cancel(child); err != nil {
				return err
			}
		}
	}

	if instrument, ok := e.instruments[order.InstrumentID]; ok {
		e.updateMargins(instrument)
	}

	return nil
}

func (e *SimulatedExchange) expireDayOrders(ts time.Time) error {
	day := ts.UTC().Truncate(24 * time.Hour)

	for _, order := range e.WorkingOrders() {
		if order.TimeInForce != types.TimeInForceDAY || !order.TsInit.UTC().Truncate(24*time.Hour).Before(day) {
			continue
		}

		if err := order.Expire(ts); err != nil {
			return err
		}

		e.remove(order)
		e.log.Info("Order expired", zap.String("client_order_id", string(order.ClientOrderID)))

		if instrument, ok := e.instruments[order.InstrumentID]; ok {
			e.updateMargins(instrument)
		}
	}

	return nil
}

func (e *SimulatedExchange) remove(order *types.Order) {
	e.working = removeOrder(e.working, order)
	e.held = removeOrder(e.held, order)
}

func removeOrder(orders []*types.Order, order *types.Order) []*types.Order {
	for i, o := range orders {
		if o == order {
			return append(orders[:i:i], orders[i+1:]...)
		}
	}

	return orders
}

func (e *SimulatedExchange) isWorking(order *types.Order) bool {
	for _, o := range e.working {
		if o == order {
			return true
		}
	}

	return false
}

// reduces reports whether the order only reduces the strategy's open position.
func (e *SimulatedExchange) reduces(order *types.Order) bool {
	found := e.cache.Position(types.NewPositionID(order.InstrumentID, order.StrategyID))
	if found.IsNone() || found.Unwrap().IsClosed() {
		return false
	}

	position := found.Unwrap()
	opposite := (position.IsLong() && order.Side == types.OrderSideSell) || (position.IsShort() && order.Side == types.OrderSideBuy)

	return opposite && !order.Quantity.GreaterThan(position.Quantity())
}

func (e *SimulatedExchange) lastPrice(id types.InstrumentID) (decimal.Decimal, bool) {
	last := e.cache.LastPrice(id)
	if last.IsNone() {
		return decimal.Zero, false
	}

	return last.Unwrap(), true
}

func (e *SimulatedExchange) orderPrice(order *types.Order, last decimal.Decimal) decimal.Decimal {
	switch order.Type {
	case types.OrderTypeLimit:
		return order.Price.Unwrap()
	case types.OrderTypeStopMarket:
		return order.TriggerPrice.Unwrap()
	default:
		return last
	}
}

// slip moves a taker price one tick against the order when the fill model says so.
func (e *SimulatedExchange) slip(instrument *types.Instrument, order *types.Order, px decimal.Decimal) decimal.Decimal {
	if !e.fills.IsSlipped() {
		return px
	}

	if order.Side == types.OrderSideBuy {
		return px.Add(instrument.PriceIncrement)
	}

	return px.Sub(instrument.PriceIncrement)
}

func (e *SimulatedExchange) initialMargin(instrument *types.Instrument, qty, px decimal.Decimal) types.Money {
	notional := instrument.NotionalValue(qty, px)

	return types.Money{
		Amount:   notional.Amount.Abs().Mul(instrument.MarginInit).Div(e.leverage).Round(notional.Currency.Precision()),
		Currency: notional.Currency,
	}
}

// updateMargins recalculates the initial margin of working orders and the maintenance
// margin of open positions for the instrument.
func (e *SimulatedExchange) updateMargins(instrument *types.Instrument) {
	ccy := instrument.SettlementCurrency()
	last, hasMarket := e.lastPrice(instrument.ID)

	ordersInit := decimal.Zero

	for _, order := range e.working {
		if order.InstrumentID != instrument.ID || order.ReduceOnly {
			continue
		}

		ordersInit = ordersInit.Add(e.initialMargin(instrument, order.LeavesQty(), e.orderPrice(order, last)).Amount)
	}

	positionMaint := decimal.Zero

	if hasMarket {
		for _, position := range e.cache.PositionsOpenForInstrument(instrument.ID) {
			notional := instrument.NotionalValue(position.Quantity(), last)
			positionMaint = positionMaint.Add(notional.Amount.Abs().Mul(instrument.MarginMaint).Div(e.leverage))
		}
	}

	e.account.UpdateMargins(instrument.ID,
		types.Money{Amount: ordersInit, Currency: ccy},
		types.Money{Amount: positionMaint.Round(ccy.Precision()), Currency: ccy},
		e.now,
	)
}
