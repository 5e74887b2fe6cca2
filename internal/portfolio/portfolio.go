// Package portfolio answers account and exposure queries over the cache.
package portfolio

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// Portfolio aggregates the accounts of every venue and the positions in the cache.
type Portfolio struct {
	cache    *cache.CacheV1
	accounts map[types.Venue]*types.Account
}

// NewPortfolio creates a portfolio reading positions from the cache.
func NewPortfolio(c *cache.CacheV1) *Portfolio {
	return &Portfolio{cache: c, accounts: make(map[types.Venue]*types.Account)}
}

// AddAccount registers the account of a venue.
func (p *Portfolio) AddAccount(venue types.Venue, account *types.Account) error {
	if _, ok := p.accounts[venue]; ok {
		return errors.Newf(errors.ErrCodeDuplicateVenue, "account for venue %s already registered", venue)
	}

	p.accounts[venue] = account

	return nil
}

// Account returns the account of a venue.
func (p *Portfolio) Account(venue types.Venue) optional.Option[*types.Account] {
	account, ok := p.accounts[venue]
	if !ok {
		return optional.None[*types.Account]()
	}

	return optional.Some(account)
}

// BalancesLocked returns the locked balance per currency of a venue's account.
func (p *Portfolio) BalancesLocked(venue types.Venue) map[types.Currency]types.Money {
	out := make(map[types.Currency]types.Money)

	account, ok := p.accounts[venue]
	if !ok {
		return out
	}

	for _, ccy := range account.Currencies() {
		out[ccy] = account.BalanceLocked(ccy)
	}

	return out
}

// MarginsInit returns the initial margins of a venue's account.
func (p *Portfolio) MarginsInit(venue types.Venue) map[types.InstrumentID]types.Money {
	if account, ok := p.accounts[venue]; ok {
		return account.MarginsInit()
	}

	return map[types.InstrumentID]types.Money{}
}

// MarginsMaint returns the maintenance margins of a venue's account.
func (p *Portfolio) MarginsMaint(venue types.Venue) map[types.InstrumentID]types.Money {
	if account, ok := p.accounts[venue]; ok {
		return account.MarginsMaint()
	}

	return map[types.InstrumentID]types.Money{}
}

// NetPosition is the signed open quantity of an instrument.
func (p *Portfolio) NetPosition(id types.InstrumentID) decimal.Decimal {
	net := decimal.Zero
	for _, position := range p.cache.PositionsOpenForInstrument(id) {
		net = net.Add(position.SignedQty)
	}

	return net
}

// NetExposure is the signed notional of the open positions at the last price.
// None when no price was seen yet for the instrument.
func (p *Portfolio) NetExposure(id types.InstrumentID) optional.Option[types.Money] {
	last := p.cache.LastPrice(id)
	if last.IsNone() {
		return optional.None[types.Money]()
	}

	exposure := types.ZeroMoney(p.currency(id))
	for _, position := range p.cache.PositionsOpenForInstrument(id) {
		exposure.Amount = exposure.Amount.Add(position.NotionalValue(last.Unwrap()).Amount)
	}

	return optional.Some(exposure)
}

// UnrealizedPnL values the open positions of an instrument at the last price.
func (p *Portfolio) UnrealizedPnL(id types.InstrumentID) optional.Option[types.Money] {
	last := p.cache.LastPrice(id)
	if last.IsNone() {
		return optional.None[types.Money]()
	}

	pnl := types.ZeroMoney(p.currency(id))
	for _, position := range p.cache.PositionsOpenForInstrument(id) {
		pnl.Amount = pnl.Amount.Add(position.UnrealizedPnL(last.Unwrap()).Amount)
	}

	return optional.Some(pnl)
}

// RealizedPnL sums the realized PnL of every position of an instrument, net of commissions.
func (p *Portfolio) RealizedPnL(id types.InstrumentID) types.Money {
	pnl := types.ZeroMoney(p.currency(id))

	for _, position := range p.cache.Positions() {
		if position.InstrumentID == id {
			pnl.Amount = pnl.Amount.Add(position.RealizedPnL.Amount)
		}
	}

	return pnl
}

// IsFlat reports whether the instrument has no open position.
func (p *Portfolio) IsFlat(id types.InstrumentID) bool {
	return p.NetPosition(id).IsZero()
}

// IsNetLong reports whether the instrument's net position is long.
func (p *Portfolio) IsNetLong(id types.InstrumentID) bool {
	return p.NetPosition(id).IsPositive()
}

// IsNetShort reports whether the instrument's net position is short.
func (p *Portfolio) IsNetShort(id types.InstrumentID) bool {
	return p.NetPosition(id).IsNegative()
}

// IsCompletelyFlat reports whether no instrument has an open position.
func (p *Portfolio) IsCompletelyFlat() bool {
	return len(p.cache.PositionsOpen()) == 0
}

// Reset forgets every account.
func (p *Portfolio) Reset() {
	p.accounts = make(map[types.Venue]*types.Account)
}

func (p *Portfolio) currency(id types.InstrumentID) types.Currency {
	if instrument := p.cache.Instrument(id); instrument.IsSome() {
		return instrument.Unwrap().SettlementCurrency()
	}

	return types.USD
}
