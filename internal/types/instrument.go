package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

type AssetClass string

type InstrumentClass string

const (
	AssetClassFX     AssetClass = "FX"
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassIndex  AssetClass = "INDEX"
)

const (
	InstrumentClassFuture       InstrumentClass = "FUTURE"
	InstrumentClassCurrencyPair InstrumentClass = "CURRENCY_PAIR"
)

// Instrument holds the contract specification used for price rounding, margin and fees.
type Instrument struct {
	ID              InstrumentID    `yaml:"id" json:"id" validate:"required"`
	RawSymbol       string          `yaml:"raw_symbol" json:"raw_symbol" validate:"required"`
	AssetClass      AssetClass      `yaml:"asset_class" json:"asset_class" validate:"required"`
	InstrumentClass InstrumentClass `yaml:"instrument_class" json:"instrument_class" validate:"required,oneof=FUTURE CURRENCY_PAIR"`
	// BaseCurrency is only set for currency pairs.
	BaseCurrency   Currency        `yaml:"base_currency,omitempty" json:"base_currency,omitempty"`
	QuoteCurrency  Currency        `yaml:"quote_currency" json:"quote_currency" validate:"required,len=3"`
	PricePrecision int32           `yaml:"price_precision" json:"price_precision" validate:"gte=0,lte=9"`
	PriceIncrement decimal.Decimal `yaml:"price_increment" json:"price_increment"`
	SizePrecision  int32           `yaml:"size_precision" json:"size_precision" validate:"gte=0,lte=9"`
	SizeIncrement  decimal.Decimal `yaml:"size_increment" json:"size_increment"`
	Multiplier     decimal.Decimal `yaml:"multiplier" json:"multiplier"`
	LotSize        decimal.Decimal `yaml:"lot_size" json:"lot_size"`
	// Underlying is only set for futures.
	Underlying     string          `yaml:"underlying,omitempty" json:"underlying,omitempty"`
	Exchange       string          `yaml:"exchange,omitempty" json:"exchange,omitempty"`
	Activation     time.Time       `yaml:"activation" json:"activation"`
	Expiration     time.Time       `yaml:"expiration" json:"expiration"`
	MarginInit     decimal.Decimal `yaml:"margin_init" json:"margin_init"`
	MarginMaint    decimal.Decimal `yaml:"margin_maint" json:"margin_maint"`
	MakerFee       decimal.Decimal `yaml:"maker_fee" json:"maker_fee"`
	TakerFee       decimal.Decimal `yaml:"taker_fee" json:"taker_fee"`
	TsEvent        time.Time       `yaml:"ts_event" json:"ts_event"`
	TsInit         time.Time       `yaml:"ts_init" json:"ts_init"`
}

// Validate checks field constraints and the positivity of increments and multipliers.
func (i *Instrument) Validate() error {
	if err := validator.New().Struct(i); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInstrument, "invalid instrument", err)
	}

	if !i.PriceIncrement.IsPositive() || !i.SizeIncrement.IsPositive() || !i.Multiplier.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidInstrument, "instrument %s must have positive increments and multiplier", i.ID)
	}

	if !i.Expiration.IsZero() && !i.Activation.IsZero() && !i.Expiration.After(i.Activation) {
		return errors.Newf(errors.ErrCodeInvalidInstrument, "instrument %s expires before activation", i.ID)
	}

	return nil
}

// SettlementCurrency is the currency PnL and margins are expressed in.
func (i *Instrument) SettlementCurrency() Currency {
	return i.QuoteCurrency
}

// MakePrice rounds a value onto the instrument's price grid.
func (i *Instrument) MakePrice(value float64) decimal.Decimal {
	return i.RoundPrice(decimal.NewFromFloat(value))
}

// RoundPrice rounds a decimal to the nearest price increment at the instrument precision.
func (i *Instrument) RoundPrice(value decimal.Decimal) decimal.Decimal {
	if i.PriceIncrement.IsPositive() {
		value = value.Div(i.PriceIncrement).Round(0).Mul(i.PriceIncrement)
	}

	return value.Round(i.PricePrecision)
}

// MakeQty rounds a quantity to the size precision.
func (i *Instrument) MakeQty(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(i.SizePrecision)
}

// Ticks returns n price increments.
func (i *Instrument) Ticks(n int) decimal.Decimal {
	return i.PriceIncrement.Mul(decimal.NewFromInt(int64(n)))
}

// NotionalValue returns qty × multiplier × price in the settlement currency.
func (i *Instrument) NotionalValue(qty, price decimal.Decimal) Money {
	return Money{Amount: qty.Mul(i.Multiplier).Mul(price), Currency: i.SettlementCurrency()}
}

// IsActive reports whether the instrument trades at the given time. Zero activation or
// expiration bounds are open.
func (i *Instrument) IsActive(at time.Time) bool {
	if !i.Activation.IsZero() && at.Before(i.Activation) {
		return false
	}

	if !i.Expiration.IsZero() && !at.Before(i.Expiration) {
		return false
	}

	return true
}
