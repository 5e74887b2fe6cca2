package commission_fee

import (
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// FeeModel calculates the commission charged for a single fill.
type FeeModel interface {
	Commission(instrument *types.Instrument, qty, px decimal.Decimal, liquidity types.LiquiditySide) types.Money
}

type Type string

const (
	TypeMakerTaker        Type = "maker_taker"
	TypePerContract       Type = "per_contract"
	TypeFixed             Type = "fixed"
	TypeInteractiveBroker Type = "interactive_broker"
	TypeZero              Type = "zero_commission"
)

var AllFeeModels = []any{
	TypeMakerTaker,
	TypePerContract,
	TypeFixed,
	TypeInteractiveBroker,
	TypeZero,
}

// Config selects a fee model for a venue.
type Config struct {
	Type Type `yaml:"type" json:"type" validate:"required,oneof=maker_taker per_contract fixed interactive_broker zero_commission" jsonschema:"title=Fee Model,description=How commissions are charged"`
	// Commission is the amount per contract (per_contract) or per fill (fixed), e.g. "2.50 USD".
	Commission types.Money `yaml:"commission,omitempty" json:"commission,omitempty" jsonschema:"title=Commission,description=Commission amount such as 2.50 USD"`
	// Minimum is the lowest commission per fill for per_contract. Zero means no minimum.
	Minimum types.Money `yaml:"minimum,omitempty" json:"minimum,omitempty" jsonschema:"title=Minimum,description=Minimum commission per fill"`
}

// DefaultConfig charges the instrument maker and taker fees.
func DefaultConfig() Config {
	return Config{Type: TypeMakerTaker}
}

// NewFeeModel builds the fee model described by the config.
func NewFeeModel(cfg Config) (FeeModel, error) {
	switch cfg.Type {
	case TypeMakerTaker, "":
		return NewMakerTakerFeeModel(), nil
	case TypePerContract:
		if !cfg.Commission.Amount.IsPositive() {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "per_contract fee model requires a positive commission")
		}

		return NewPerContractFeeModel(cfg.Commission, cfg.Minimum)
	case TypeFixed:
		if cfg.Commission.Currency == "" || cfg.Commission.Amount.IsNegative() {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "fixed fee model requires a non-negative commission")
		}

		return NewFixedFeeModel(cfg.Commission), nil
	case TypeInteractiveBroker:
		return NewInteractiveBrokerFeeModel(), nil
	case TypeZero:
		return NewZeroFeeModel(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown fee model %q", cfg.Type)
	}
}

// MakerTakerFeeModel charges notional × instrument maker or taker fee.
type MakerTakerFeeModel struct{}

func NewMakerTakerFeeModel() *MakerTakerFeeModel {
	return &MakerTakerFeeModel{}
}

func (m *MakerTakerFeeModel) Commission(instrument *types.Instrument, qty, px decimal.Decimal, liquidity types.LiquiditySide) types.Money {
	notional := instrument.NotionalValue(qty, px)

	rate := instrument.TakerFee
	if liquidity == types.LiquiditySideMaker {
		rate = instrument.MakerFee
	}

	return types.Money{
		Amount:   notional.Amount.Mul(rate).Round(notional.Currency.Precision()),
		Currency: notional.Currency,
	}
}

// PerContractFeeModel charges a fixed amount per contract with an optional minimum per fill.
type PerContractFeeModel struct {
	commission types.Money
	minimum    types.Money
}

func NewPerContractFeeModel(commission types.Money, minimum types.Money) (*PerContractFeeModel, error) {
	if !minimum.IsZero() && minimum.Currency != commission.Currency {
		return nil, errors.Newf(errors.ErrCodeInvalidMoney, "minimum %s and commission %s use different currencies", minimum, commission)
	}

	return &PerContractFeeModel{commission: commission, minimum: minimum}, nil
}

// NewInteractiveBrokerFeeModel charges 0.005 USD per contract with a 1.00 USD minimum.
func NewInteractiveBrokerFeeModel() *PerContractFeeModel {
	return &PerContractFeeModel{
		commission: types.Money{Amount: decimal.RequireFromString("0.005"), Currency: types.USD},
		minimum:    types.Money{Amount: decimal.NewFromInt(1), Currency: types.USD},
	}
}

func (m *PerContractFeeModel) Commission(_ *types.Instrument, qty, _ decimal.Decimal, _ types.LiquiditySide) types.Money {
	amount := m.commission.Amount.Mul(qty.Abs())
	if !m.minimum.IsZero() && amount.LessThan(m.minimum.Amount) {
		amount = m.minimum.Amount
	}

	return types.Money{Amount: amount.Round(m.commission.Currency.Precision()), Currency: m.commission.Currency}
}

// FixedFeeModel charges the same amount for every fill.
type FixedFeeModel struct {
	commission types.Money
}

func NewFixedFeeModel(commission types.Money) *FixedFeeModel {
	return &FixedFeeModel{commission: commission}
}

func (m *FixedFeeModel) Commission(_ *types.Instrument, _, _ decimal.Decimal, _ types.LiquiditySide) types.Money {
	return m.commission
}

// ZeroFeeModel never charges a commission.
type ZeroFeeModel struct{}

func NewZeroFeeModel() *ZeroFeeModel {
	return &ZeroFeeModel{}
}

func (m *ZeroFeeModel) Commission(instrument *types.Instrument, _, _ decimal.Decimal, _ types.LiquiditySide) types.Money {
	return types.ZeroMoney(instrument.SettlementCurrency())
}
