package types

import (
	"time"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

type PositionSide string

const (
	PositionSideFlat  PositionSide = "FLAT"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// Position is a netting position for one instrument and strategy.
//
// Realized PnL is net of commissions. A fill larger than the open quantity on the opposite
// side flips the position: the closed part is realized and the remainder opens at the fill price.
type Position struct {
	ID             PositionID
	InstrumentID   InstrumentID
	StrategyID     StrategyID
	AccountID      AccountID
	OpeningOrderID ClientOrderID
	ClosingOrderID ClientOrderID
	EntrySide      OrderSide
	Side           PositionSide
	SignedQty      decimal.Decimal
	PeakQty        decimal.Decimal
	Multiplier     decimal.Decimal
	Currency       Currency
	AvgPxOpen      decimal.Decimal
	AvgPxClose     decimal.Decimal
	RealizedPnL    Money
	Commissions    Money
	TsOpened       time.Time
	TsClosed       time.Time
	TsLast         time.Time
	Events         []OrderFilled

	closedQty decimal.Decimal
}

// NewPosition opens a position from its first fill.
func NewPosition(instrument *Instrument, fill OrderFilled) (*Position, error) {
	if instrument.ID != fill.InstrumentID {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fill instrument %s does not match %s", fill.InstrumentID, instrument.ID)
	}

	ccy := instrument.SettlementCurrency()
	p := &Position{
		ID:             fill.PositionID,
		InstrumentID:   fill.InstrumentID,
		StrategyID:     fill.StrategyID,
		AccountID:      fill.AccountID,
		OpeningOrderID: fill.ClientOrderID,
		Side:           PositionSideFlat,
		Multiplier:     instrument.Multiplier,
		Currency:       ccy,
		RealizedPnL:    ZeroMoney(ccy),
		Commissions:    ZeroMoney(ccy),
		TsOpened:       fill.TsEvent,
	}

	if err := p.Apply(fill); err != nil {
		return nil, err
	}

	return p, nil
}

// Quantity is the absolute open quantity.
func (p *Position) Quantity() decimal.Decimal {
	return p.SignedQty.Abs()
}

// IsOpen reports whether the position has a non-zero quantity.
func (p *Position) IsOpen() bool {
	return !p.SignedQty.IsZero()
}

// IsClosed reports whether the position went back to flat.
func (p *Position) IsClosed() bool {
	return p.SignedQty.IsZero()
}

// IsLong reports whether the position is long.
func (p *Position) IsLong() bool {
	return p.Side == PositionSideLong
}

// IsShort reports whether the position is short.
func (p *Position) IsShort() bool {
	return p.Side == PositionSideShort
}

// Duration is how long the position was open. Zero while still open.
func (p *Position) Duration() time.Duration {
	if p.IsOpen() || p.TsClosed.IsZero() {
		return 0
	}

	return p.TsClosed.Sub(p.TsOpened)
}

// WouldFlip reports whether the fill would reverse the position side.
func (p *Position) WouldFlip(fill OrderFilled) bool {
	if p.SignedQty.IsZero() {
		return false
	}

	after := p.SignedQty.Add(fill.SignedQty())

	return !after.IsZero() && after.Sign() != p.SignedQty.Sign()
}

// Apply updates the position with a fill.
func (p *Position) Apply(fill OrderFilled) error {
	if fill.InstrumentID != p.InstrumentID {
		return errors.Newf(errors.ErrCodeInvalidParameter, "fill instrument %s does not match position %s", fill.InstrumentID, p.ID)
	}

	if !fill.LastQty.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "fill quantity must be positive, got %s", fill.LastQty)
	}

	commission := fill.Commission.Amount
	if fill.Commission.Currency != "" && fill.Commission.Currency != p.Currency {
		return errors.Newf(errors.ErrCodeInvalidMoney, "commission currency %s does not match position currency %s", fill.Commission.Currency, p.Currency)
	}

	p.Commissions.Amount = p.Commissions.Amount.Add(commission)
	p.RealizedPnL.Amount = p.RealizedPnL.Amount.Sub(commission)

	signed := fill.SignedQty()

	switch {
	case p.SignedQty.IsZero():
		p.open(fill, signed)
	case p.SignedQty.Sign() == signed.Sign():
		total := p.SignedQty.Abs().Add(fill.LastQty)
		p.AvgPxOpen = p.AvgPxOpen.Mul(p.SignedQty.Abs()).Add(fill.LastPx.Mul(fill.LastQty)).Div(total)
		p.SignedQty = p.SignedQty.Add(signed)
	default:
		closing := decimal.Min(p.SignedQty.Abs(), fill.LastQty)
		p.realize(closing, fill.LastPx)

		remainder := fill.LastQty.Sub(closing)
		p.SignedQty = p.SignedQty.Add(signed)
		p.ClosingOrderID = fill.ClientOrderID

		if p.SignedQty.IsZero() {
			p.Side = PositionSideFlat
			p.TsClosed = fill.TsEvent
		} else if remainder.IsPositive() {
			p.open(fill, remainder.Mul(fill.OrderSide.Sign()))
		}
	}

	if p.SignedQty.Abs().GreaterThan(p.PeakQty) {
		p.PeakQty = p.SignedQty.Abs()
	}

	p.TsLast = fill.TsEvent
	p.Events = append(p.Events, fill)

	return nil
}

func (p *Position) open(fill OrderFilled, signed decimal.Decimal) {
	p.SignedQty = signed
	p.AvgPxOpen = fill.LastPx
	p.AvgPxClose = decimal.Zero
	p.closedQty = decimal.Zero
	p.EntrySide = fill.OrderSide
	p.OpeningOrderID = fill.ClientOrderID
	p.TsOpened = fill.TsEvent
	p.TsClosed = time.Time{}

	if signed.IsPositive() {
		p.Side = PositionSideLong
	} else {
		p.Side = PositionSideShort
	}
}

func (p *Position) realize(qty, px decimal.Decimal) {
	p.RealizedPnL.Amount = p.RealizedPnL.Amount.Add(p.pnl(p.AvgPxOpen, px, qty))

	total := p.closedQty.Add(qty)
	p.AvgPxClose = p.AvgPxClose.Mul(p.closedQty).Add(px.Mul(qty)).Div(total)
	p.closedQty = total
}

func (p *Position) pnl(open, close, qty decimal.Decimal) decimal.Decimal {
	diff := close.Sub(open)
	if p.Side == PositionSideShort {
		diff = diff.Neg()
	}

	return diff.Mul(qty).Mul(p.Multiplier)
}

// UnrealizedPnL values the open quantity at the last price.
func (p *Position) UnrealizedPnL(last decimal.Decimal) Money {
	if p.SignedQty.IsZero() {
		return ZeroMoney(p.Currency)
	}

	return Money{Amount: p.pnl(p.AvgPxOpen, last, p.SignedQty.Abs()), Currency: p.Currency}
}

// TotalPnL is realized plus unrealized PnL.
func (p *Position) TotalPnL(last decimal.Decimal) Money {
	return Money{Amount: p.RealizedPnL.Amount.Add(p.UnrealizedPnL(last).Amount), Currency: p.Currency}
}

// NotionalValue is the signed open quantity valued at the last price.
func (p *Position) NotionalValue(last decimal.Decimal) Money {
	return Money{Amount: p.SignedQty.Mul(p.Multiplier).Mul(last), Currency: p.Currency}
}
