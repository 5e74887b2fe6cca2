package portfoliocache

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/stretchr/testify/suite"
)

type PortfolioCacheTestSuite struct {
	suite.Suite
}

func TestPortfolioCacheSuite(t *testing.T) {
	suite.Run(t, new(PortfolioCacheTestSuite))
}

func (suite *PortfolioCacheTestSuite) TestSnapshotWhileLong() {
	result, err := Run(context.Background(), exampleutil.Quiet())
	suite.Require().NoError(err)

	suite.Require().True(result.Snapshot.IsSome())
	snapshot := result.Snapshot.Unwrap()
	id := instruments.Create6EInstrument(exampleutil.DefaultVenue).ID

	suite.True(snapshot.Account.IsSome())
	suite.Require().True(snapshot.NetExposure.IsSome())
	suite.True(snapshot.NetExposure.Unwrap().Amount.IsPositive())
	suite.Equal(1, snapshot.OpenPositions)
	suite.Equal(1, snapshot.Orders)
	suite.Contains(snapshot.MarginsMaint, id)
	// nothing is working, so no order margin is held
	suite.NotContains(snapshot.MarginsInit, id)

	suite.Equal(2, result.Statistics.Fills)
	suite.Equal(1, result.Statistics.Positions.Total)
}

func (suite *PortfolioCacheTestSuite) TestNoSnapshotBeforeInspectBar() {
	opts := exampleutil.Quiet()
	opts.Bars = InspectBar - 1

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.True(result.Snapshot.IsNone())
	suite.Equal(1, result.Statistics.Fills)
}
