package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MovingAverageTestSuite struct {
	suite.Suite
}

func TestMovingAverageSuite(t *testing.T) {
	suite.Run(t, new(MovingAverageTestSuite))
}

func feed(ma Indicator, values ...float64) {
	for _, v := range values {
		ma.UpdateRaw(v)
	}
}

func (suite *MovingAverageTestSuite) TestSimpleMovingAverage() {
	sma, err := NewSimpleMovingAverage(3)
	suite.Require().NoError(err)
	suite.Equal("SMA(3)", sma.Name())
	suite.False(sma.HasInputs())

	feed(sma, 1, 2)
	suite.True(sma.HasInputs())
	suite.False(sma.Initialized())
	suite.InDelta(1.5, sma.Value(), 1e-12)

	feed(sma, 3)
	suite.True(sma.Initialized())
	suite.InDelta(2.0, sma.Value(), 1e-12)

	feed(sma, 4)
	suite.InDelta(3.0, sma.Value(), 1e-12)
	suite.Equal(4, sma.Count())

	sma.Reset()
	suite.False(sma.HasInputs())
	suite.Equal(0.0, sma.Value())
}

func (suite *MovingAverageTestSuite) TestExponentialMovingAverage() {
	ema, err := NewExponentialMovingAverage(3)
	suite.Require().NoError(err)
	suite.InDelta(0.5, ema.Alpha(), 1e-12)

	feed(ema, 1)
	suite.InDelta(1.0, ema.Value(), 1e-12)

	feed(ema, 2, 3)
	suite.True(ema.Initialized())
	suite.InDelta(2.25, ema.Value(), 1e-12)
}

func (suite *MovingAverageTestSuite) TestWeightedMovingAverage() {
	wma, err := NewWeightedMovingAverage(3)
	suite.Require().NoError(err)

	feed(wma, 1, 2, 3)
	suite.InDelta(14.0/6.0, wma.Value(), 1e-12)

	feed(wma, 4)
	suite.InDelta(20.0/6.0, wma.Value(), 1e-12)
}

func (suite *MovingAverageTestSuite) TestWilderMovingAverage() {
	rma, err := NewWilderMovingAverage(2)
	suite.Require().NoError(err)

	feed(rma, 1, 3)
	suite.True(rma.Initialized())
	suite.InDelta(2.0, rma.Value(), 1e-12)
}

func (suite *MovingAverageTestSuite) TestDoubleExponentialMovingAverage() {
	dema, err := NewDoubleExponentialMovingAverage(3)
	suite.Require().NoError(err)

	feed(dema, 1, 2)
	suite.InDelta(1.75, dema.Value(), 1e-12)
	suite.False(dema.Initialized())

	feed(dema, 3)
	suite.True(dema.Initialized())
}

func (suite *MovingAverageTestSuite) TestHullMovingAverageOnConstantInput() {
	hma, err := NewHullMovingAverage(4)
	suite.Require().NoError(err)

	feed(hma, 5, 5, 5)
	suite.False(hma.Initialized())

	feed(hma, 5)
	suite.True(hma.Initialized())
	suite.InDelta(5.0, hma.Value(), 1e-12)
}

func (suite *MovingAverageTestSuite) TestHandleBarUsesClose() {
	sma, err := NewSimpleMovingAverage(1)
	suite.Require().NoError(err)

	bar := types.Bar{
		BarType: types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL"),
		Open:    decimal.RequireFromString("1.1"),
		High:    decimal.RequireFromString("1.3"),
		Low:     decimal.RequireFromString("1.0"),
		Close:   decimal.RequireFromString("1.2"),
		Volume:  decimal.NewFromInt(1),
		TsEvent: time.Date(2024, 1, 15, 0, 1, 0, 0, time.UTC),
	}

	sma.HandleBar(bar)
	suite.InDelta(1.2, sma.Value(), 1e-12)
}

func (suite *MovingAverageTestSuite) TestFactory() {
	factory := MovingAverageFactory{}

	tests := []struct {
		maType MovingAverageType
		name   string
	}{
		{MovingAverageTypeSimple, "SMA(10)"},
		{MovingAverageTypeExponential, "EMA(10)"},
		{MovingAverageTypeWeighted, "WMA(10)"},
		{MovingAverageTypeWilder, "RMA(10)"},
		{MovingAverageTypeDoubleExponential, "DEMA(10)"},
		{MovingAverageTypeHull, "HMA(10)"},
	}

	for _, tc := range tests {
		suite.Run(string(tc.maType), func() {
			ma, err := factory.Create(10, tc.maType)
			suite.Require().NoError(err)
			suite.Equal(tc.name, ma.Name())
			suite.Equal(10, ma.Period())
		})
	}

	_, err := factory.Create(10, "KAMA")
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedMAType))

	_, err = factory.Create(0, MovingAverageTypeSimple)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *MovingAverageTestSuite) TestParseMovingAverageType() {
	t, err := ParseMovingAverageType("exponential")
	suite.NoError(err)
	suite.Equal(MovingAverageTypeExponential, t)

	_, err = ParseMovingAverageType("unknown")
	suite.Error(err)
}
