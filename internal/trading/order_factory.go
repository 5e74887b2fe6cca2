package trading

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/clock"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	TagEntry      = "ENTRY"
	TagTakeProfit = "TAKE_PROFIT"
	TagStopLoss   = "STOP_LOSS"
)

// OrderOption customizes an order built by the factory.
type OrderOption func(*types.Order)

// WithTimeInForce sets the time in force.
func WithTimeInForce(tif types.TimeInForce) OrderOption {
	return func(o *types.Order) { o.TimeInForce = tif }
}

// WithPostOnly marks a limit order post-only.
func WithPostOnly() OrderOption {
	return func(o *types.Order) { o.PostOnly = true }
}

// WithReduceOnly marks the order reduce-only.
func WithReduceOnly() OrderOption {
	return func(o *types.Order) { o.ReduceOnly = true }
}

// WithTags adds tags to the order.
func WithTags(tags ...string) OrderOption {
	return func(o *types.Order) { o.Tags = append(o.Tags, tags...) }
}

// OrderFactory builds orders for one strategy with ids of the form
// O-YYYYMMDD-HHMMSS-<trader tag>-<strategy tag>-<count>.
type OrderFactory struct {
	traderID   types.TraderID
	strategyID types.StrategyID
	clock      clock.Clock
	orderCount int
	listCount  int
}

// NewOrderFactory creates a factory for the trader and strategy.
func NewOrderFactory(traderID types.TraderID, strategyID types.StrategyID, clk clock.Clock) *OrderFactory {
	return &OrderFactory{traderID: traderID, strategyID: strategyID, clock: clk}
}

// Count returns the number of client order ids generated.
func (f *OrderFactory) Count() int {
	return f.orderCount
}

// Reset restarts the id counters.
func (f *OrderFactory) Reset() {
	f.orderCount = 0
	f.listCount = 0
}

func tag(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 {
		return id[i+1:]
	}

	return id
}

func (f *OrderFactory) datetimeTag() string {
	return f.clock.UtcNow().UTC().Format("20060102-150405")
}

// NextClientOrderID generates the next client order id.
func (f *OrderFactory) NextClientOrderID() types.ClientOrderID {
	f.orderCount++

	return types.ClientOrderID(fmt.Sprintf("O-%s-%s-%s-%d",
		f.datetimeTag(), tag(string(f.traderID)), tag(string(f.strategyID)), f.orderCount))
}

// NextOrderListID generates the next order list id.
func (f *OrderFactory) NextOrderListID() types.OrderListID {
	f.listCount++

	return types.OrderListID(fmt.Sprintf("OL-%s-%s-%s-%d",
		f.datetimeTag(), tag(string(f.traderID)), tag(string(f.strategyID)), f.listCount))
}

func (f *OrderFactory) build(o types.Order, opts []OrderOption) *types.Order {
	o.ClientOrderID = f.NextClientOrderID()
	o.TraderID = f.traderID
	o.StrategyID = f.strategyID
	o.TsInit = f.clock.UtcNow()

	for _, opt := range opts {
		opt(&o)
	}

	return types.NewOrder(o)
}

// Market builds a MARKET order.
func (f *OrderFactory) Market(instrumentID types.InstrumentID, side types.OrderSide, qty decimal.Decimal, opts ...OrderOption) *types.Order {
	return f.build(types.Order{
		InstrumentID: instrumentID,
		Side:         side,
		Type:         types.OrderTypeMarket,
		Quantity:     qty,
	}, opts)
}

// Limit builds a LIMIT order.
func (f *OrderFactory) Limit(instrumentID types.InstrumentID, side types.OrderSide, qty, price decimal.Decimal, opts ...OrderOption) *types.Order {
	return f.build(types.Order{
		InstrumentID: instrumentID,
		Side:         side,
		Type:         types.OrderTypeLimit,
		Quantity:     qty,
		Price:        optional.Some(price),
	}, opts)
}

// StopMarket builds a STOP_MARKET order.
func (f *OrderFactory) StopMarket(instrumentID types.InstrumentID, side types.OrderSide, qty, triggerPrice decimal.Decimal, opts ...OrderOption) *types.Order {
	return f.build(types.Order{
		InstrumentID: instrumentID,
		Side:         side,
		Type:         types.OrderTypeStopMarket,
		Quantity:     qty,
		TriggerPrice: optional.Some(triggerPrice),
	}, opts)
}

// BracketParams describes an entry with attached take-profit and stop-loss orders.
type BracketParams struct {
	InstrumentID types.InstrumentID
	Side         types.OrderSide
	Quantity     decimal.Decimal
	// EntryType is MARKET or LIMIT. Empty means MARKET.
	EntryType types.OrderType
	// EntryPrice is required for a LIMIT entry.
	EntryPrice      optional.Option[decimal.Decimal]
	TakeProfitPrice decimal.Decimal
	StopLossTrigger decimal.Decimal
	TimeInForce     types.TimeInForce
	EntryPostOnly   bool
}

// Bracket builds an entry (OTO) with a LIMIT take-profit and a STOP_MARKET stop-loss
// that cancel each other (OCO). The children only work once the entry is filled.
func (f *OrderFactory) Bracket(params BracketParams) (*types.OrderList, error) {
	entryType := params.EntryType
	if entryType == "" {
		entryType = types.OrderTypeMarket
	}

	exit := params.Side.Opposite()

	switch {
	case params.Side == types.OrderSideBuy && !params.StopLossTrigger.LessThan(params.TakeProfitPrice):
		return nil, errors.Newf(errors.ErrCodeInvalidOrder, "buy bracket stop-loss %s must be below take-profit %s", params.StopLossTrigger, params.TakeProfitPrice)
	case params.Side == types.OrderSideSell && !params.StopLossTrigger.GreaterThan(params.TakeProfitPrice):
		return nil, errors.Newf(errors.ErrCodeInvalidOrder, "sell bracket stop-loss %s must be above take-profit %s", params.StopLossTrigger, params.TakeProfitPrice)
	}

	var entry *types.Order

	switch entryType {
	case types.OrderTypeMarket:
		entry = f.Market(params.InstrumentID, params.Side, params.Quantity, WithTags(TagEntry))
	case types.OrderTypeLimit:
		if params.EntryPrice.IsNone() {
			return nil, errors.New(errors.ErrCodeInvalidOrder, "limit bracket entry requires a price")
		}

		entry = f.Limit(params.InstrumentID, params.Side, params.Quantity, params.EntryPrice.Unwrap(), WithTags(TagEntry))
		entry.PostOnly = params.EntryPostOnly
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidOrder, "unsupported bracket entry type %s", entryType)
	}

	tp := f.Limit(params.InstrumentID, exit, params.Quantity, params.TakeProfitPrice, WithReduceOnly(), WithTags(TagTakeProfit))
	sl := f.StopMarket(params.InstrumentID, exit, params.Quantity, params.StopLossTrigger, WithReduceOnly(), WithTags(TagStopLoss))

	listID := f.NextOrderListID()

	entry.Contingency = types.ContingencyOTO
	entry.LinkedOrderIDs = []types.ClientOrderID{tp.ClientOrderID, sl.ClientOrderID}

	tp.Contingency = types.ContingencyOCO
	tp.ParentOrderID = entry.ClientOrderID
	tp.LinkedOrderIDs = []types.ClientOrderID{sl.ClientOrderID}

	sl.Contingency = types.ContingencyOCO
	sl.ParentOrderID = entry.ClientOrderID
	sl.LinkedOrderIDs = []types.ClientOrderID{tp.ClientOrderID}

	orders := []*types.Order{entry, tp, sl}
	for _, o := range orders {
		o.OrderListID = listID

		if params.TimeInForce != "" {
			o.TimeInForce = params.TimeInForce
		}
	}

	return &types.OrderList{
		ID:           listID,
		InstrumentID: params.InstrumentID,
		StrategyID:   f.strategyID,
		Orders:       orders,
		TsInit:       f.clock.UtcNow(),
	}, nil
}
