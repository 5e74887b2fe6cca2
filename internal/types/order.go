package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/fsm"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

type OrderSide string

type OrderType string

type OrderStatus string

type TimeInForce string

type ContingencyType string

type LiquiditySide string

type OrderTrigger string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
)

const (
	OrderStatusInitialized OrderStatus = "INITIALIZED"
	OrderStatusDenied      OrderStatus = "DENIED"
	OrderStatusSubmitted   OrderStatus = "SUBMITTED"
	OrderStatusAccepted    OrderStatus = "ACCEPTED"
	OrderStatusRejected    OrderStatus = "REJECTED"
	OrderStatusCanceled    OrderStatus = "CANCELED"
	OrderStatusExpired     OrderStatus = "EXPIRED"
	OrderStatusFilled      OrderStatus = "FILLED"
)

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForceDAY TimeInForce = "DAY"
)

const (
	ContingencyNone ContingencyType = "NONE"
	ContingencyOTO  ContingencyType = "OTO"
	ContingencyOCO  ContingencyType = "OCO"
)

const (
	LiquiditySideMaker LiquiditySide = "MAKER"
	LiquiditySideTaker LiquiditySide = "TAKER"
)

const (
	OrderTriggerSubmit OrderTrigger = "SUBMIT"
	OrderTriggerDeny   OrderTrigger = "DENY"
	OrderTriggerAccept OrderTrigger = "ACCEPT"
	OrderTriggerReject OrderTrigger = "REJECT"
	OrderTriggerCancel OrderTrigger = "CANCEL"
	OrderTriggerExpire OrderTrigger = "EXPIRE"
	OrderTriggerFill   OrderTrigger = "FILL"
)

// Opposite returns the other side.
func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}

	return OrderSideBuy
}

// Sign is +1 for BUY and -1 for SELL.
func (s OrderSide) Sign() decimal.Decimal {
	if s == OrderSideBuy {
		return decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(-1)
}

var orderTable = fsm.Table[OrderStatus, OrderTrigger]{
	{State: OrderStatusInitialized, Trigger: OrderTriggerDeny}:   OrderStatusDenied,
	{State: OrderStatusInitialized, Trigger: OrderTriggerSubmit}: OrderStatusSubmitted,
	{State: OrderStatusSubmitted, Trigger: OrderTriggerAccept}:   OrderStatusAccepted,
	{State: OrderStatusSubmitted, Trigger: OrderTriggerReject}:   OrderStatusRejected,
	{State: OrderStatusSubmitted, Trigger: OrderTriggerCancel}:   OrderStatusCanceled,
	{State: OrderStatusAccepted, Trigger: OrderTriggerCancel}:    OrderStatusCanceled,
	{State: OrderStatusAccepted, Trigger: OrderTriggerExpire}:    OrderStatusExpired,
	{State: OrderStatusAccepted, Trigger: OrderTriggerFill}:      OrderStatusFilled,
}

// Order is a single order and its lifecycle state.
type Order struct {
	ClientOrderID ClientOrderID   `validate:"required"`
	VenueOrderID  VenueOrderID
	TraderID      TraderID        `validate:"required"`
	StrategyID    StrategyID      `validate:"required"`
	InstrumentID  InstrumentID    `validate:"required"`
	Side          OrderSide       `validate:"required,oneof=BUY SELL"`
	Type          OrderType       `validate:"required,oneof=MARKET LIMIT STOP_MARKET"`
	Quantity      decimal.Decimal
	TimeInForce   TimeInForce     `validate:"required,oneof=GTC IOC FOK DAY"`
	// Price is set for LIMIT orders.
	Price optional.Option[decimal.Decimal]
	// TriggerPrice is set for STOP_MARKET orders.
	TriggerPrice   optional.Option[decimal.Decimal]
	PostOnly       bool
	ReduceOnly     bool
	Contingency    ContingencyType `validate:"required,oneof=NONE OTO OCO"`
	OrderListID    OrderListID
	ParentOrderID  ClientOrderID
	LinkedOrderIDs []ClientOrderID
	Tags           []string
	PositionID     PositionID
	FilledQty      decimal.Decimal
	AvgPx          decimal.Decimal
	Reason         string
	TsInit         time.Time
	TsLast         time.Time

	state *fsm.StateMachine[OrderStatus, OrderTrigger]
}

// NewOrder creates an order in the INITIALIZED state.
func NewOrder(o Order) *Order {
	order := o
	if order.Contingency == "" {
		order.Contingency = ContingencyNone
	}

	if order.TimeInForce == "" {
		order.TimeInForce = TimeInForceGTC
	}

	order.TsLast = order.TsInit
	order.state = fsm.MustNew(orderTable, OrderStatusInitialized)

	return &order
}

// Validate checks struct tags and the price fields required by the order type.
func (o *Order) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	if !o.Quantity.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidOrder, "order %s quantity must be positive", o.ClientOrderID)
	}

	switch o.Type {
	case OrderTypeLimit:
		if o.Price.IsNone() {
			return errors.Newf(errors.ErrCodeInvalidOrder, "limit order %s requires a price", o.ClientOrderID)
		}
	case OrderTypeStopMarket:
		if o.TriggerPrice.IsNone() {
			return errors.Newf(errors.ErrCodeInvalidOrder, "stop market order %s requires a trigger price", o.ClientOrderID)
		}
	case OrderTypeMarket:
		if o.PostOnly {
			return errors.Newf(errors.ErrCodeInvalidOrder, "market order %s cannot be post-only", o.ClientOrderID)
		}
	}

	return nil
}

// Status returns the current lifecycle status.
func (o *Order) Status() OrderStatus {
	return o.state.State()
}

// IsOpen reports whether the order is working or waiting for activation at the venue.
func (o *Order) IsOpen() bool {
	s := o.Status()

	return s == OrderStatusSubmitted || s == OrderStatusAccepted
}

// IsClosed reports whether the order reached a terminal status.
func (o *Order) IsClosed() bool {
	switch o.Status() {
	case OrderStatusDenied, OrderStatusRejected, OrderStatusCanceled, OrderStatusExpired, OrderStatusFilled:
		return true
	default:
		return false
	}
}

// LeavesQty is the unfilled quantity.
func (o *Order) LeavesQty() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQty)
}

// HasTag reports whether the order carries a tag.
func (o *Order) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// Submit moves the order to SUBMITTED.
func (o *Order) Submit(ts time.Time) error {
	return o.apply(OrderTriggerSubmit, ts)
}

// Deny moves the order to DENIED before it reaches a venue.
func (o *Order) Deny(reason string, ts time.Time) error {
	o.Reason = reason

	return o.apply(OrderTriggerDeny, ts)
}

// Accept moves the order to ACCEPTED with the venue order id.
func (o *Order) Accept(venueOrderID VenueOrderID, ts time.Time) error {
	o.VenueOrderID = venueOrderID

	return o.apply(OrderTriggerAccept, ts)
}

// Reject moves the order to REJECTED.
func (o *Order) Reject(reason string, ts time.Time) error {
	o.Reason = reason

	return o.apply(OrderTriggerReject, ts)
}

// Cancel moves the order to CANCELED.
func (o *Order) Cancel(ts time.Time) error {
	return o.apply(OrderTriggerCancel, ts)
}

// Expire moves the order to EXPIRED.
func (o *Order) Expire(ts time.Time) error {
	return o.apply(OrderTriggerExpire, ts)
}

// Fill applies a complete fill.
func (o *Order) Fill(fill OrderFilled) error {
	if err := o.apply(OrderTriggerFill, fill.TsEvent); err != nil {
		return err
	}

	o.FilledQty = fill.LastQty
	o.AvgPx = fill.LastPx
	o.PositionID = fill.PositionID

	return nil
}

func (o *Order) apply(trigger OrderTrigger, ts time.Time) error {
	if err := o.state.Trigger(trigger); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidOrder, err, "order %s", o.ClientOrderID)
	}

	o.TsLast = ts

	return nil
}

// OrderList groups the orders of a bracket. The first order is the entry.
type OrderList struct {
	ID           OrderListID
	InstrumentID InstrumentID
	StrategyID   StrategyID
	Orders       []*Order
	TsInit       time.Time
}

// First returns the entry order of the list.
func (l *OrderList) First() *Order {
	if len(l.Orders) == 0 {
		return nil
	}

	return l.Orders[0]
}
