// Package instruments builds the instrument definitions used by the examples.
package instruments

import (
	"strings"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

var monthCodes = [12]string{"F", "G", "H", "J", "K", "M", "N", "Q", "U", "V", "X", "Z"}

// Create6EInstrument creates a synthetic, never expiring CME Euro FX futures contract.
func Create6EInstrument(venue types.Venue) *types.Instrument {
	return &types.Instrument{
		ID:              types.NewInstrumentID("6E", venue),
		RawSymbol:       "6E",
		AssetClass:      types.AssetClassFX,
		InstrumentClass: types.InstrumentClassFuture,
		QuoteCurrency:   types.USD,
		PricePrecision:  5,
		PriceIncrement:  decimal.RequireFromString("0.00005"),
		SizePrecision:   0,
		SizeIncrement:   decimal.NewFromInt(1),
		Multiplier:      decimal.NewFromInt(125000),
		LotSize:         decimal.NewFromInt(1),
		Underlying:      "EUR/USD",
		Exchange:        "CME",
		Expiration:      time.Date(2099, 12, 17, 14, 16, 0, 0, time.UTC),
		// about 3,500 USD per contract at 1.10
		MarginInit:  decimal.RequireFromString("0.0254"),
		MarginMaint: decimal.RequireFromString("0.0218"),
		// about 2.50 USD per contract at 1.10
		MakerFee: decimal.RequireFromString("0.0000182"),
		TakerFee: decimal.RequireFromString("0.0000182"),
	}
}

// EURUSDFuture creates a dated 6E futures contract, e.g. 6EH4 for March 2024.
func EURUSDFuture(expiryYear int, expiryMonth int, venue types.Venue) (*types.Instrument, error) {
	code, err := ContractMonthCode(expiryMonth)
	if err != nil {
		return nil, err
	}

	activation := FirstFridayTwoYearsSixMonthsAgo(expiryYear, expiryMonth).Add(21*time.Hour + 30*time.Minute)
	expiration := ThirdFridayOfMonth(expiryYear, expiryMonth).Add(14*time.Hour + 30*time.Minute)
	rawSymbol := "6E" + code + string(rune('0'+expiryYear%10))

	return &types.Instrument{
		ID:              types.NewInstrumentID(rawSymbol, venue),
		RawSymbol:       rawSymbol,
		AssetClass:      types.AssetClassFX,
		InstrumentClass: types.InstrumentClassFuture,
		QuoteCurrency:   types.USD,
		PricePrecision:  5,
		PriceIncrement:  decimal.RequireFromString("0.00005"),
		SizePrecision:   0,
		SizeIncrement:   decimal.NewFromInt(1),
		Multiplier:      decimal.NewFromInt(125000),
		LotSize:         decimal.NewFromInt(1),
		Underlying:      "6E",
		Exchange:        string(venue),
		Activation:      activation,
		Expiration:      expiration,
		TsEvent:         activation,
		TsInit:          activation,
	}, nil
}

// ContractMonthCode returns the futures month letter (F for January ... Z for December).
func ContractMonthCode(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "invalid expiry month %d, use [1, 12]", month)
	}

	return monthCodes[month-1], nil
}

// ThirdFridayOfMonth returns midnight UTC of the third Friday.
func ThirdFridayOfMonth(year int, month int) time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	return first.AddDate(0, 0, daysUntilFriday(first)+14)
}

// FirstFridayTwoYearsSixMonthsAgo returns midnight UTC of the first Friday of the month
// two years and six months before the given month.
func FirstFridayTwoYearsSixMonthsAgo(year int, month int) time.Time {
	targetYear := year - 2
	targetMonth := month - 6

	if targetMonth <= 0 {
		targetYear--
		targetMonth += 12
	}

	first := time.Date(targetYear, time.Month(targetMonth), 1, 0, 0, 0, 0, time.UTC)

	return first.AddDate(0, 0, daysUntilFriday(first))
}

func daysUntilFriday(t time.Time) int {
	return (int(time.Friday) - int(t.Weekday()) + 7) % 7
}

// DefaultFXCcy creates a currency pair instrument such as "EUR/USD" at the venue.
func DefaultFXCcy(symbol string, venue types.Venue) (*types.Instrument, error) {
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || len(base) != 3 || len(quote) != 3 {
		return nil, errors.Newf(errors.ErrCodeInvalidInstrument, "invalid currency pair %q, expected BASE/QUOTE", symbol)
	}

	precision := int32(5)
	increment := decimal.RequireFromString("0.00001")

	if types.Currency(quote) == types.JPY {
		precision = 3
		increment = decimal.RequireFromString("0.001")
	}

	return &types.Instrument{
		ID:              types.NewInstrumentID(symbol, venue),
		RawSymbol:       symbol,
		AssetClass:      types.AssetClassFX,
		InstrumentClass: types.InstrumentClassCurrencyPair,
		BaseCurrency:    types.Currency(base),
		QuoteCurrency:   types.Currency(quote),
		PricePrecision:  precision,
		PriceIncrement:  increment,
		SizePrecision:   0,
		SizeIncrement:   decimal.NewFromInt(1),
		Multiplier:      decimal.NewFromInt(1),
		LotSize:         decimal.NewFromInt(1000),
		MarginInit:      decimal.RequireFromString("0.03"),
		MarginMaint:     decimal.RequireFromString("0.03"),
		MakerFee:        decimal.RequireFromString("0.00002"),
		TakerFee:        decimal.RequireFromString("0.00002"),
	}, nil
}
