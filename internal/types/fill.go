package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilled is emitted by the simulated exchange for every fill.
type OrderFilled struct {
	EventID       string
	TraderID      TraderID
	StrategyID    StrategyID
	InstrumentID  InstrumentID
	AccountID     AccountID
	ClientOrderID ClientOrderID
	VenueOrderID  VenueOrderID
	TradeID       TradeID
	PositionID    PositionID
	OrderSide     OrderSide
	OrderType     OrderType
	LastQty       decimal.Decimal
	LastPx        decimal.Decimal
	Currency      Currency
	Commission    Money
	LiquiditySide LiquiditySide
	TsEvent       time.Time
	TsInit        time.Time
}

// NewOrderFilled builds a fill event for the order with a fresh event id.
func NewOrderFilled(order *Order, accountID AccountID, tradeID TradeID, qty, px decimal.Decimal,
	currency Currency, commission Money, liquidity LiquiditySide, ts time.Time) OrderFilled {
	return OrderFilled{
		EventID:       uuid.NewString(),
		TraderID:      order.TraderID,
		StrategyID:    order.StrategyID,
		InstrumentID:  order.InstrumentID,
		AccountID:     accountID,
		ClientOrderID: order.ClientOrderID,
		VenueOrderID:  order.VenueOrderID,
		TradeID:       tradeID,
		PositionID:    NewPositionID(order.InstrumentID, order.StrategyID),
		OrderSide:     order.Side,
		OrderType:     order.Type,
		LastQty:       qty,
		LastPx:        px,
		Currency:      currency,
		Commission:    commission,
		LiquiditySide: liquidity,
		TsEvent:       ts,
		TsInit:        ts,
	}
}

// SignedQty is the fill quantity signed by side.
func (f OrderFilled) SignedQty() decimal.Decimal {
	return f.LastQty.Mul(f.OrderSide.Sign())
}

// WithQty returns a copy of the fill with a different quantity and a commission scaled to it.
func (f OrderFilled) WithQty(qty decimal.Decimal) OrderFilled {
	out := f
	if f.LastQty.IsPositive() {
		out.Commission = Money{
			Amount:   f.Commission.Amount.Mul(qty).Div(f.LastQty).Round(f.Commission.Currency.Precision()),
			Currency: f.Commission.Currency,
		}
	}

	out.LastQty = qty

	return out
}
