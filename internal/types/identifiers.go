package types

import (
	"strings"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// Venue is the name of a trading venue such as "SIM" or "CME".
type Venue string

// InstrumentID identifies an instrument as "<symbol>.<venue>", e.g. "6E.SIM".
type InstrumentID struct {
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	Venue  Venue  `yaml:"venue" json:"venue" validate:"required"`
}

// NewInstrumentID creates an instrument id from a symbol and a venue.
func NewInstrumentID(symbol string, venue Venue) InstrumentID {
	return InstrumentID{Symbol: symbol, Venue: venue}
}

// ParseInstrumentID parses "<symbol>.<venue>". The venue is the part after the last dot
// so symbols such as "EUR/USD" or "ES.FUT" keep their own separators.
func ParseInstrumentID(value string) (InstrumentID, error) {
	idx := strings.LastIndex(value, ".")
	if idx <= 0 || idx == len(value)-1 {
		return InstrumentID{}, errors.Newf(errors.ErrCodeInvalidInstrumentID, "invalid instrument id %q, expected <symbol>.<venue>", value)
	}

	return InstrumentID{Symbol: value[:idx], Venue: Venue(value[idx+1:])}, nil
}

func (id InstrumentID) String() string {
	return id.Symbol + "." + string(id.Venue)
}

// IsZero reports whether the id is empty.
func (id InstrumentID) IsZero() bool {
	return id.Symbol == "" && id.Venue == ""
}

// MarshalText implements encoding.TextMarshaler so ids can be used as YAML and JSON map keys.
func (id InstrumentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *InstrumentID) UnmarshalText(text []byte) error {
	parsed, err := ParseInstrumentID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// TraderID identifies the trader that owns a set of strategies, e.g. "BACKTESTER-001".
type TraderID string

// StrategyID identifies a strategy or actor inside a trader, e.g. "DemoStrategy-000".
type StrategyID string

// ClientOrderID is the id assigned by the order factory.
type ClientOrderID string

// VenueOrderID is the id assigned by the simulated exchange.
type VenueOrderID string

// OrderListID groups the orders of a bracket.
type OrderListID string

// PositionID identifies a netting position ("<instrument_id>-<strategy_id>").
type PositionID string

// TradeID identifies a single fill.
type TradeID string

// AccountID identifies a venue account, e.g. "SIM-001".
type AccountID string

// NewPositionID builds the netting position id for an instrument and strategy.
func NewPositionID(instrumentID InstrumentID, strategyID StrategyID) PositionID {
	return PositionID(instrumentID.String() + "-" + string(strategyID))
}
