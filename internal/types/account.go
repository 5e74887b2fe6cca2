package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

type AccountType string

type OmsType string

const (
	AccountTypeMargin AccountType = "MARGIN"
	AccountTypeCash   AccountType = "CASH"
)

const (
	OmsTypeNetting OmsType = "NETTING"
	OmsTypeHedging OmsType = "HEDGING"
)

// AccountBalance is the balance of one currency.
type AccountBalance struct {
	Total  Money `yaml:"total" json:"total"`
	Locked Money `yaml:"locked" json:"locked"`
	Free   Money `yaml:"free" json:"free"`
}

// MarginBalance holds the margins of one instrument.
type MarginBalance struct {
	InstrumentID InstrumentID `yaml:"instrument_id" json:"instrument_id"`
	Initial      Money        `yaml:"initial" json:"initial"`
	Maintenance  Money        `yaml:"maintenance" json:"maintenance"`
}

// AccountState is a snapshot of an account emitted on every change.
type AccountState struct {
	EventID      string           `yaml:"event_id" json:"event_id"`
	AccountID    AccountID        `yaml:"account_id" json:"account_id"`
	AccountType  AccountType      `yaml:"account_type" json:"account_type"`
	BaseCurrency Currency         `yaml:"base_currency" json:"base_currency"`
	Balances     []AccountBalance `yaml:"balances" json:"balances"`
	Margins      []MarginBalance  `yaml:"margins" json:"margins"`
	TsEvent      time.Time        `yaml:"ts_event" json:"ts_event"`
}

// Account is a MARGIN account at a simulated venue.
type Account struct {
	ID           AccountID
	Type         AccountType
	BaseCurrency Currency
	Leverage     decimal.Decimal

	total        map[Currency]decimal.Decimal
	marginsInit  map[InstrumentID]Money
	marginsMaint map[InstrumentID]Money
	lockedOrders map[InstrumentID]Money
	events       []AccountState
}

// NewMarginAccount creates an account with its starting balances.
func NewMarginAccount(id AccountID, baseCurrency Currency, leverage decimal.Decimal, starting []Money, ts time.Time) (*Account, error) {
	if len(starting) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "account requires at least one starting balance")
	}

	if !leverage.IsPositive() {
		leverage = decimal.NewFromInt(1)
	}

	a := &Account{
		ID:           id,
		Type:         AccountTypeMargin,
		BaseCurrency: baseCurrency,
		Leverage:     leverage,
		total:        make(map[Currency]decimal.Decimal),
		marginsInit:  make(map[InstrumentID]Money),
		marginsMaint: make(map[InstrumentID]Money),
		lockedOrders: make(map[InstrumentID]Money),
	}

	for _, m := range starting {
		if m.Amount.IsNegative() {
			return nil, errors.Newf(errors.ErrCodeInvalidMoney, "starting balance %s cannot be negative", m)
		}

		a.total[m.Currency] = a.total[m.Currency].Add(m.Amount)
	}

	a.snapshot(ts)

	return a, nil
}

// Currencies returns the account currencies in a stable order.
func (a *Account) Currencies() []Currency {
	out := make([]Currency, 0, len(a.total))
	for c := range a.total {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// BalanceTotal returns the total balance of the currency.
func (a *Account) BalanceTotal(ccy Currency) Money {
	return Money{Amount: a.total[ccy], Currency: ccy}
}

// BalanceLocked returns initial margin of working orders plus maintenance margin of positions.
func (a *Account) BalanceLocked(ccy Currency) Money {
	locked := decimal.Zero

	for _, m := range a.lockedOrders {
		if m.Currency == ccy {
			locked = locked.Add(m.Amount)
		}
	}

	for _, m := range a.marginsMaint {
		if m.Currency == ccy {
			locked = locked.Add(m.Amount)
		}
	}

	return Money{Amount: locked, Currency: ccy}
}

// BalanceFree returns total minus locked.
func (a *Account) BalanceFree(ccy Currency) Money {
	return Money{Amount: a.total[ccy].Sub(a.BalanceLocked(ccy).Amount), Currency: ccy}
}

// Balance returns the total, locked and free balance of a currency.
func (a *Account) Balance(ccy Currency) AccountBalance {
	return AccountBalance{Total: a.BalanceTotal(ccy), Locked: a.BalanceLocked(ccy), Free: a.BalanceFree(ccy)}
}

// MarginsInit returns the initial margin per instrument.
func (a *Account) MarginsInit() map[InstrumentID]Money {
	out := make(map[InstrumentID]Money, len(a.marginsInit))
	for k, v := range a.marginsInit {
		out[k] = v
	}

	return out
}

// MarginsMaint returns the maintenance margin per instrument.
func (a *Account) MarginsMaint() map[InstrumentID]Money {
	out := make(map[InstrumentID]Money, len(a.marginsMaint))
	for k, v := range a.marginsMaint {
		out[k] = v
	}

	return out
}

// ApplyPnL settles realized PnL or a commission into the balance.
func (a *Account) ApplyPnL(m Money, ts time.Time) {
	if m.IsZero() {
		return
	}

	a.total[m.Currency] = a.total[m.Currency].Add(m.Amount)
	a.snapshot(ts)
}

// UpdateMargins replaces the order and position margins of an instrument.
func (a *Account) UpdateMargins(instrumentID InstrumentID, ordersInit, positionMaint Money, ts time.Time) {
	if ordersInit.IsZero() {
		delete(a.lockedOrders, instrumentID)
		delete(a.marginsInit, instrumentID)
	} else {
		a.lockedOrders[instrumentID] = ordersInit
		a.marginsInit[instrumentID] = ordersInit
	}

	if positionMaint.IsZero() {
		delete(a.marginsMaint, instrumentID)
	} else {
		a.marginsMaint[instrumentID] = positionMaint
	}

	a.snapshot(ts)
}

// Events returns every account state snapshot in order.
func (a *Account) Events() []AccountState {
	return a.events
}

// LastEvent returns the latest snapshot.
func (a *Account) LastEvent() AccountState {
	return a.events[len(a.events)-1]
}

func (a *Account) snapshot(ts time.Time) {
	state := AccountState{
		EventID:      uuid.NewString(),
		AccountID:    a.ID,
		AccountType:  a.Type,
		BaseCurrency: a.BaseCurrency,
		TsEvent:      ts,
	}

	for _, c := range a.Currencies() {
		state.Balances = append(state.Balances, a.Balance(c))
	}

	ids := make([]InstrumentID, 0, len(a.marginsInit)+len(a.marginsMaint))
	seen := make(map[InstrumentID]bool)

	for id := range a.marginsInit {
		ids = append(ids, id)
		seen[id] = true
	}

	for id := range a.marginsMaint {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		ccy := a.BaseCurrency
		if m, ok := a.marginsMaint[id]; ok {
			ccy = m.Currency
		} else if m, ok := a.marginsInit[id]; ok {
			ccy = m.Currency
		}

		state.Margins = append(state.Margins, MarginBalance{
			InstrumentID: id,
			Initial:      moneyOr(a.marginsInit, id, ccy),
			Maintenance:  moneyOr(a.marginsMaint, id, ccy),
		})
	}

	a.events = append(a.events, state)
}

func moneyOr(m map[InstrumentID]Money, id InstrumentID, ccy Currency) Money {
	if v, ok := m[id]; ok {
		return v
	}

	return ZeroMoney(ccy)
}
