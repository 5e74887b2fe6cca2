package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/data/synthetic"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
	root    string
	catalog *ParquetDataCatalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (suite *CatalogTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()

	catalog, err := NewParquetDataCatalog(suite.root, nil)
	suite.Require().NoError(err)
	suite.catalog = catalog
}

func (suite *CatalogTestSuite) TearDownTest() {
	suite.NoError(suite.catalog.Close())
}

func (suite *CatalogTestSuite) TestManifestCreated() {
	suite.FileExists(filepath.Join(suite.root, "catalog.yaml"))
	suite.Equal("1.1.0", suite.catalog.Manifest().Version)

	reopened, err := NewParquetDataCatalog(suite.root, nil)
	suite.Require().NoError(err)
	suite.Equal(suite.catalog.Manifest().Version, reopened.Manifest().Version)
	suite.NoError(reopened.Close())
}

func (suite *CatalogTestSuite) TestIncompatibleManifest() {
	root := suite.T().TempDir()
	suite.Require().NoError(os.WriteFile(filepath.Join(root, "catalog.yaml"), []byte("version: 2.0.0\n"), 0644))

	_, err := NewParquetDataCatalog(root, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCatalogIncompat))
}

func (suite *CatalogTestSuite) TestWriteAndReadBars() {
	instrument := instruments.Create6EInstrument("SIM")
	barType := types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	bars, err := synthetic.Generate1MinBars(instrument, barType, start, 120)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.catalog.WriteBars(bars))

	expectedFile := filepath.Join(suite.root, "data", "bar", "6E.SIM-1-MINUTE-LAST-EXTERNAL",
		"1705276800000000000-1705283940000000000.parquet")
	suite.FileExists(expectedFile)

	barTypes, err := suite.catalog.BarTypes()
	suite.NoError(err)
	suite.Equal([]string{barType.String()}, barTypes)

	loaded, err := suite.catalog.Bars([]string{barType.String()}, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 120)

	for i := range bars {
		suite.True(bars[i].Open.Equal(loaded[i].Open))
		suite.True(bars[i].Close.Equal(loaded[i].Close))
		suite.True(bars[i].Volume.Equal(loaded[i].Volume))
		suite.Equal(bars[i].TsInit, loaded[i].TsInit)
		suite.Equal(barType.String(), loaded[i].BarType.String())
	}

	window, err := suite.catalog.Bars(nil, optional.Some(start.Add(10*time.Minute)), optional.Some(start.Add(19*time.Minute)))
	suite.NoError(err)
	suite.Len(window, 10)

	count, err := suite.catalog.Count(barType.String())
	suite.NoError(err)
	suite.Equal(120, count)

	missing, err := suite.catalog.Count("ES.SIM-1-MINUTE-LAST-EXTERNAL")
	suite.NoError(err)
	suite.Zero(missing)
}

func (suite *CatalogTestSuite) TestInstrumentsRoundTrip() {
	future := instruments.Create6EInstrument("SIM")
	pair, err := instruments.DefaultFXCcy("EUR/USD", "SIM")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.catalog.WriteInstruments(future, pair))
	suite.FileExists(filepath.Join(suite.root, "data", "future", "6E.SIM", "part-0.parquet"))
	suite.FileExists(filepath.Join(suite.root, "data", "currency_pair", "EUR_USD.SIM", "part-0.parquet"))

	all, err := suite.catalog.Instruments()
	suite.Require().NoError(err)
	suite.Len(all, 2)

	loaded, err := suite.catalog.Instrument("6E.SIM")
	suite.Require().NoError(err)
	suite.Equal(future.ID, loaded.ID)
	suite.True(future.PriceIncrement.Equal(loaded.PriceIncrement))
	suite.True(future.MarginInit.Equal(loaded.MarginInit))
	suite.Equal(future.Expiration, loaded.Expiration)
	suite.True(loaded.Activation.IsZero())

	_, err = suite.catalog.Instrument("NQ.SIM")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownInstrument))
}

func (suite *CatalogTestSuite) TestEmptyCatalog() {
	barTypes, err := suite.catalog.BarTypes()
	suite.NoError(err)
	suite.Empty(barTypes)

	bars, err := suite.catalog.Bars(nil, optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Empty(bars)
}
