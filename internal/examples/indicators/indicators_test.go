package indicators

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/indicator"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/stretchr/testify/suite"
)

type IndicatorsTestSuite struct {
	suite.Suite
}

func TestIndicatorsSuite(t *testing.T) {
	suite.Run(t, new(IndicatorsTestSuite))
}

func (suite *IndicatorsTestSuite) TestHistoryPush() {
	var h History
	for i := 0; i < HistorySize+5; i++ {
		h = h.push(float64(i))
	}

	suite.Len(h, HistorySize)
	suite.Equal(float64(HistorySize+4), h[0])
	suite.Equal(float64(5), h[HistorySize-1])
}

func (suite *IndicatorsTestSuite) TestChainedAverages() {
	opts := exampleutil.Quiet()
	opts.Bars = 40

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(40, result.BarsProcessed)
	// EMA(10) is ready on bar 10, EMA(20) after twenty EMA(10) values
	suite.Equal(FastPeriod+SlowPeriod-1, result.ReadyAt)
	suite.Len(result.EMA10History, 40-FastPeriod+1)
	suite.Len(result.EMA20History, 40-result.ReadyAt+1)

	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	bars, err := exampleutil.LoadBars(opts, instrument, exampleutil.MinuteBarType(instrument), 0)
	suite.Require().NoError(err)

	ema10, err := indicator.NewExponentialMovingAverage(FastPeriod)
	suite.Require().NoError(err)
	ema20, err := indicator.NewExponentialMovingAverage(SlowPeriod)
	suite.Require().NoError(err)

	for _, bar := range bars {
		ema10.HandleBar(bar)
		if ema10.Initialized() {
			ema20.UpdateRaw(ema10.Value())
		}
	}

	suite.InDelta(ema10.Value(), result.EMA10History[0], 1e-12)
	suite.InDelta(ema20.Value(), result.EMA20History[0], 1e-12)
}

func (suite *IndicatorsTestSuite) TestNeverReady() {
	opts := exampleutil.Quiet()
	opts.Bars = 15

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Zero(result.ReadyAt)
	suite.Empty(result.EMA20History)
	suite.Len(result.EMA10History, 6)
}
