package types

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// Currency is an ISO currency code such as "USD".
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
	GBP Currency = "GBP"
)

// Precision returns the number of decimals used for amounts in this currency.
func (c Currency) Precision() int32 {
	if c == JPY {
		return 0
	}

	return 2
}

// Money is an amount in a currency.
type Money struct {
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
	Currency Currency        `yaml:"currency" json:"currency"`
}

// NewMoney creates money from a float amount.
func NewMoney(amount float64, currency Currency) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

// ZeroMoney returns zero in the currency.
func ZeroMoney(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// ParseMoney parses "<amount> <currency>", e.g. "2.50 USD".
func ParseMoney(value string) (Money, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return Money{}, errors.Newf(errors.ErrCodeInvalidMoney, "invalid money %q, expected <amount> <currency>", value)
	}

	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Money{}, errors.Wrapf(errors.ErrCodeInvalidMoney, err, "invalid money amount %q", fields[0])
	}

	if len(fields[1]) != 3 {
		return Money{}, errors.Newf(errors.ErrCodeInvalidMoney, "invalid currency %q", fields[1])
	}

	return Money{Amount: amount, Currency: Currency(strings.ToUpper(fields[1]))}, nil
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, errors.Newf(errors.ErrCodeInvalidMoney, "cannot add %s to %s", other.Currency, m.Currency)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(m.Currency.Precision()), m.Currency)
}

// MarshalText implements encoding.TextMarshaler.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config files can write "1_000_000 USD".
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(strings.ReplaceAll(string(text), "_", ""))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
