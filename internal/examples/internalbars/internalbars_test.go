package internalbars

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/stretchr/testify/suite"
)

type InternalBarsTestSuite struct {
	suite.Suite
}

func TestInternalBarsSuite(t *testing.T) {
	suite.Run(t, new(InternalBarsTestSuite))
}

func (suite *InternalBarsTestSuite) TestAggregatesAndTrades() {
	opts := exampleutil.Quiet()
	opts.Bars = 60

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(60, result.Bars1Min)
	// the 00:00 bar closes a bucket on its own, then every fifth minute closes one
	suite.Equal(12, result.Bars5Min)

	suite.Equal(2, result.Statistics.Fills)
	suite.Equal(1, result.Statistics.Positions.Total)
	// entered at the fifth and closed at the eighth 5-minute bar
	suite.InDelta(15*60, result.Statistics.Positions.AvgHoldingSeconds, 1e-9)

	suite.Zero(result.Bars5MinAfterReset)
}

func (suite *InternalBarsTestSuite) TestTooFewBarsToTrade() {
	opts := exampleutil.Quiet()
	opts.Bars = 16

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(4, result.Bars5Min)
	suite.Zero(result.Statistics.Orders)
}

func (suite *InternalBarsTestSuite) TestStrategyBarTypes() {
	strategy := NewDemoStrategy(instruments.Create6EInstrument(exampleutil.DefaultVenue))

	suite.Equal("6E.SIM-1-MINUTE-LAST-EXTERNAL", strategy.minuteBars.String())
	suite.Equal("6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL", strategy.fiveMinute.String())
	suite.True(strategy.fiveMinute.IsComposite())
	suite.Equal(strategy.minuteBars, strategy.fiveMinute.Composite())
}
