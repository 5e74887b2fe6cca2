package starter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-examples/internal/data/ninjatrader"
	"github.com/rxtech-lab/argo-examples/internal/data/synthetic"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StarterTestSuite struct {
	suite.Suite
}

func TestStarterSuite(t *testing.T) {
	suite.Run(t, new(StarterTestSuite))
}

func (suite *StarterTestSuite) TestRun() {
	result, err := Run(context.Background(), exampleutil.Quiet())
	suite.Require().NoError(err)

	suite.Equal(100, result.BarsProcessed)
	suite.Equal(100, result.Statistics.BarsProcessed)
	suite.Equal(2, result.Statistics.Orders)
	suite.Equal(2, result.Statistics.Fills)
	suite.Equal(1, result.Statistics.Positions.Total)
	suite.Equal(180.0, result.Statistics.Positions.AvgHoldingSeconds)
}

func (suite *StarterTestSuite) TestRunFromCSV() {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	bars, err := synthetic.Generate1MinBars(instrument, exampleutil.MinuteBarType(instrument), exampleutil.DefaultStart, 20)
	suite.Require().NoError(err)

	path := filepath.Join(suite.T().TempDir(), "6E.csv")
	suite.Require().NoError(ninjatrader.WriteNinjaTraderCSVFile(path, bars))

	opts := exampleutil.Quiet()
	opts.CSVPath = path

	result, err := Run(context.Background(), opts)
	suite.Require().NoError(err)
	suite.Equal(20, result.BarsProcessed)
}

func (suite *StarterTestSuite) TestRunWritesResults() {
	opts := exampleutil.Quiet()
	opts.Bars = 10
	opts.ResultsDir = suite.T().TempDir()

	_, err := Run(context.Background(), opts)
	suite.Require().NoError(err)

	for _, name := range []string{"stats.yaml", "fills.csv", "positions.csv"} {
		_, err := os.Stat(filepath.Join(opts.ResultsDir, name))
		suite.NoError(err, name)
	}
}

func (suite *StarterTestSuite) TestInvalidConfig() {
	_, err := NewDemoStrategy(Config{})
	suite.True(errors.HasCode(err, errors.ErrCodeComponentConfigError))
}
