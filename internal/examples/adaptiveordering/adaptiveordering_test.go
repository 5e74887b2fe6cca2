package adaptiveordering

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/stretchr/testify/suite"
)

type AdaptiveOrderingTestSuite struct {
	suite.Suite
}

func TestAdaptiveOrderingSuite(t *testing.T) {
	suite.Run(t, new(AdaptiveOrderingTestSuite))
}

func (suite *AdaptiveOrderingTestSuite) TestAdaptive() {
	result, err := Run(context.Background(), exampleutil.Quiet())
	suite.Require().NoError(err)

	suite.Equal([]string{"O-H-L-C", "O-L-H-C"}, result.Paths)
	suite.Equal([]types.OrderType{types.OrderTypeLimit, types.OrderTypeStopMarket}, result.FillOrder)
	suite.Equal(2, result.Statistics.BarsProcessed)
}

func (suite *AdaptiveOrderingTestSuite) TestFixedOrdering() {
	result, err := RunWithOrdering(context.Background(), exampleutil.Quiet(), false)
	suite.Require().NoError(err)

	suite.Equal([]string{"O-H-L-C", "O-H-L-C"}, result.Paths)
	suite.Equal([]types.OrderType{types.OrderTypeStopMarket, types.OrderTypeLimit}, result.FillOrder)
}
