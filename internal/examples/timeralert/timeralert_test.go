package timeralert

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TimerAlertTestSuite struct {
	suite.Suite
}

func TestTimerAlertSuite(t *testing.T) {
	suite.Run(t, new(TimerAlertTestSuite))
}

func (suite *TimerAlertTestSuite) TestAlertFiresBracket() {
	result, err := Run(context.Background(), exampleutil.Quiet())
	suite.Require().NoError(err)

	suite.Equal(24*60, result.BarsProcessed)
	// the timer first fires one minute after the first bar
	suite.Equal(24*60-1, result.TimerEvents)

	suite.Require().NotNil(result.Bracket)
	suite.Require().Len(result.Bracket.Orders, 3)

	entry, tp, sl := result.Bracket.Orders[0], result.Bracket.Orders[1], result.Bracket.Orders[2]
	suite.Equal(types.OrderTypeLimit, entry.Type)
	suite.Equal(types.OrderStatusFilled, entry.Status())
	suite.True(entry.HasTag(trading.TagEntry))
	suite.True(entry.TsInit.Equal(DefaultAlertTime))

	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	price := entry.Price.Unwrap()
	suite.True(tp.Price.Unwrap().Equal(price.Add(instrument.Ticks(20))))
	suite.True(sl.TriggerPrice.Unwrap().Equal(price.Sub(instrument.Ticks(20))))
	suite.Equal(3, result.Statistics.Orders)
}

func (suite *TimerAlertTestSuite) TestAlertAfterLastBar() {
	opts := exampleutil.Quiet()
	opts.Bars = 60

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(60, result.BarsProcessed)
	suite.Equal(59, result.TimerEvents)
	suite.Nil(result.Bracket)
	suite.Zero(result.Statistics.Orders)
}

func (suite *TimerAlertTestSuite) TestInvalidConfig() {
	_, err := NewDemoStrategy(Config{Instrument: instruments.Create6EInstrument("SIM"), AlertTime: DefaultAlertTime})
	suite.True(errors.HasCode(err, errors.ErrCodeComponentConfigError))
}
