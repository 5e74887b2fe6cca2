package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BarTestSuite struct {
	suite.Suite
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func (suite *BarTestSuite) TestParseBarType() {
	tests := []struct {
		name        string
		input       string
		expected    string
		composite   bool
		stepMinutes int
		expectError bool
	}{
		{name: "external minute", input: "6E.SIM-1-MINUTE-LAST-EXTERNAL", expected: "6E.SIM-1-MINUTE-LAST-EXTERNAL", stepMinutes: 1},
		{name: "currency pair", input: "EUR/USD.SIM-1-MINUTE-BID-EXTERNAL", expected: "EUR/USD.SIM-1-MINUTE-BID-EXTERNAL", stepMinutes: 1},
		{name: "composite", input: "6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL", expected: "6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL", composite: true, stepMinutes: 5},
		{name: "hour", input: "6EH4.CME-1-HOUR-LAST-EXTERNAL", expected: "6EH4.CME-1-HOUR-LAST-EXTERNAL", stepMinutes: 60},
		{name: "missing source", input: "6E.SIM-1-MINUTE-LAST", expectError: true},
		{name: "bad aggregation", input: "6E.SIM-1-TICKS-LAST-EXTERNAL", expectError: true},
		{name: "zero step", input: "6E.SIM-0-MINUTE-LAST-EXTERNAL", expectError: true},
		{name: "composite with price type", input: "6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-LAST-EXTERNAL", expectError: true},
		{name: "external composite", input: "6E.SIM-5-MINUTE-LAST-EXTERNAL@1-MINUTE-EXTERNAL", expectError: true},
		{name: "no venue", input: "6E-1-MINUTE-LAST-EXTERNAL", expectError: true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bt, err := ParseBarType(tc.input)
			if tc.expectError {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidBarType))

				return
			}

			suite.Require().NoError(err)
			suite.Equal(tc.expected, bt.String())
			suite.Equal(tc.composite, bt.IsComposite())
			suite.Equal(time.Duration(tc.stepMinutes)*time.Minute, bt.Spec.Duration())
		})
	}
}

func (suite *BarTestSuite) TestCompositeParts() {
	bt := MustParseBarType("6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL")

	suite.Equal("6E.SIM-5-MINUTE-LAST-INTERNAL", bt.Standard().String())
	suite.Equal("6E.SIM-1-MINUTE-LAST-EXTERNAL", bt.Composite().String())
	suite.Equal(AggregationSourceInternal, bt.Source)
	suite.True(bt.Equal(MustParseBarType(bt.String())))
	suite.False(bt.Equal(bt.Standard()))
}

func (suite *BarTestSuite) TestBarValidate() {
	bt := MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	d := decimal.RequireFromString
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	valid := Bar{BarType: bt, Open: d("1.1000"), High: d("1.1010"), Low: d("1.0990"), Close: d("1.1005"), Volume: d("10"), TsEvent: ts, TsInit: ts}
	suite.NoError(valid.Validate())

	highBelowClose := valid
	highBelowClose.High = d("1.1001")
	suite.Error(highBelowClose.Validate())

	lowAboveOpen := valid
	lowAboveOpen.Low = d("1.1001")
	suite.Error(lowAboveOpen.Validate())

	suite.Contains(valid.String(), "6E.SIM-1-MINUTE-LAST-EXTERNAL,1.1,1.101,1.099,1.1005")
}

func (suite *BarTestSuite) TestInstrumentID() {
	id, err := ParseInstrumentID("EUR/USD.SIM")
	suite.NoError(err)
	suite.Equal("EUR/USD", id.Symbol)
	suite.Equal(Venue("SIM"), id.Venue)

	_, err = ParseInstrumentID("SIM.")
	suite.Error(err)

	suite.Equal(PositionID("6E.SIM-DemoStrategy-000"), NewPositionID(NewInstrumentID("6E", "SIM"), "DemoStrategy-000"))
}

func (suite *BarTestSuite) TestParseMoney() {
	m, err := ParseMoney("2.50 USD")
	suite.NoError(err)
	suite.Equal("2.50 USD", m.String())

	var cfg Money
	suite.NoError(cfg.UnmarshalText([]byte("1_000_000 USD")))
	suite.True(cfg.Amount.Equal(decimal.NewFromInt(1_000_000)))

	_, err = ParseMoney("2.50")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMoney))

	_, err = m.Add(NewMoney(1, EUR))
	suite.Error(err)
}
