package ninjatrader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type NinjaTraderTestSuite struct {
	suite.Suite
	instrument *types.Instrument
	barType    types.BarType
}

func TestNinjaTraderSuite(t *testing.T) {
	suite.Run(t, new(NinjaTraderTestSuite))
}

func (suite *NinjaTraderTestSuite) SetupTest() {
	suite.instrument = instruments.Create6EInstrument("SIM")
	suite.barType = types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
}

func (suite *NinjaTraderTestSuite) TestReadBarsWithVolume() {
	data := "timestamp;open;high;low;close;volume\n" +
		"2024-01-15 10:00:00;1.09500;1.09550;1.09450;1.09520;120\n" +
		"2024-01-15 10:01:00;1.09520;1.09600;1.09500;1.09580;80\n"

	bars, err := ReadBars(strings.NewReader(data), suite.instrument, suite.barType)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)

	first := bars[0]
	suite.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), first.TsEvent)
	suite.Equal(first.TsEvent, first.TsInit)
	suite.Equal("1.095", first.Open.String())
	suite.Equal("1.0955", first.High.String())
	suite.Equal("120", first.Volume.String())
	suite.Equal("1.0958", bars[1].Close.String())
}

func (suite *NinjaTraderTestSuite) TestReadBarsDefaultVolume() {
	data := "timestamp;open;high;low;close\n" +
		"2024-01-15 10:00:00;1.09500;1.09550;1.09450;1.09520\n"

	bars, err := ReadBars(strings.NewReader(data), suite.instrument, suite.barType)
	suite.Require().NoError(err)
	suite.Equal("1000000", bars[0].Volume.String())
}

func (suite *NinjaTraderTestSuite) TestReadBarsRoundsToTick() {
	data := "timestamp;open;high;low;close\n" +
		"2024-01-15 10:00:00;1.095012;1.095512;1.094512;1.095212\n"

	bars, err := ReadBars(strings.NewReader(data), suite.instrument, suite.barType)
	suite.Require().NoError(err)
	suite.Equal("1.095", bars[0].Open.String())
	suite.Equal("1.0952", bars[0].Close.String())
}

func (suite *NinjaTraderTestSuite) TestReadBarsErrors() {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{
			name:     "incoherent high",
			data:     "timestamp;open;high;low;close\n2024-01-15 10:00:00;1.1;1.2;1.0;1.1\n2024-01-15 10:01:00;1.1;1.05;1.0;1.1\n",
			contains: "line 3",
		},
		{
			name:     "bad timestamp",
			data:     "timestamp;open;high;low;close\n15/01/2024 10:00;1.1;1.2;1.0;1.1\n",
			contains: "failed to parse csv",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ReadBars(strings.NewReader(tc.data), suite.instrument, suite.barType)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeCSVParseFailed))
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

func (suite *NinjaTraderTestSuite) TestBarTypeMustMatchInstrument() {
	other := types.MustParseBarType("ES.SIM-1-MINUTE-LAST-EXTERNAL")

	_, err := ReadBars(strings.NewReader(""), suite.instrument, other)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBarType))
}

func (suite *NinjaTraderTestSuite) TestWriteAndLoadFile() {
	data := "timestamp;open;high;low;close;volume\n" +
		"2024-01-15 10:00:00;1.095;1.0955;1.0945;1.0952;120\n" +
		"2024-01-15 10:01:00;1.0952;1.096;1.095;1.0958;80\n"

	bars, err := ReadBars(strings.NewReader(data), suite.instrument, suite.barType)
	suite.Require().NoError(err)

	var buf bytes.Buffer
	suite.Require().NoError(WriteNinjaTraderCSV(&buf, bars))
	suite.Equal(data, buf.String())

	path := filepath.Join(suite.T().TempDir(), "6E.csv")
	suite.Require().NoError(os.WriteFile(path, buf.Bytes(), 0644))

	loaded, err := LoadBarsFromNinjaTraderCSV(path, suite.instrument, suite.barType)
	suite.Require().NoError(err)
	suite.Equal(bars, loaded)

	_, err = LoadBarsFromNinjaTraderCSV(filepath.Join(suite.T().TempDir(), "missing.csv"), suite.instrument, suite.barType)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}
