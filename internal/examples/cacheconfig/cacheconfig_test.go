package cacheconfig

import (
	"context"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/stretchr/testify/suite"
)

type CacheConfigTestSuite struct {
	suite.Suite
}

func TestCacheConfigSuite(t *testing.T) {
	suite.Run(t, new(CacheConfigTestSuite))
}

func (suite *CacheConfigTestSuite) TestLookupOldestBar() {
	opts := exampleutil.Quiet()
	opts.Bars = LookupIndex + 1

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(LookupIndex+1, result.BarsProcessed)
	// more bars than the default capacity stay cached
	suite.Equal(LookupIndex+1, result.CachedBars)
	suite.Require().True(result.LookedUp.IsSome())
	suite.True(result.LookedUp.Unwrap().TsInit.Equal(exampleutil.DefaultStart))
}

func (suite *CacheConfigTestSuite) TestLookupMissing() {
	opts := exampleutil.Quiet()
	opts.Bars = 50

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(50, result.CachedBars)
	suite.True(result.LookedUp.IsNone())
}

func (suite *CacheConfigTestSuite) TestPerContractCommission() {
	opts := exampleutil.Quiet()
	opts.Bars = 10

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	suite.Equal(2, result.Statistics.Fills)
	suite.InDelta(5.0, result.Statistics.Commissions[types.USD], 1e-9)
}
