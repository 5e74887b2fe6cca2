// Package ninjatrader reads and writes 1-minute bars in the NinjaTrader export format:
// semicolon separated with a header row and the columns timestamp;open;high;low;close[;volume].
package ninjatrader

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout of the timestamp column. Timestamps are UTC.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultVolume is used when the file has no volume column.
const DefaultVolume = 1_000_000

type timestamp struct {
	time.Time
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *timestamp) UnmarshalCSV(value string) error {
	parsed, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return err
	}

	t.Time = parsed

	return nil
}

type volume struct {
	value float64
	set   bool
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (v *volume) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}

	v.value = d.InexactFloat64()
	v.set = true

	return nil
}

type row struct {
	Timestamp timestamp `csv:"timestamp"`
	Open      float64   `csv:"open"`
	High      float64   `csv:"high"`
	Low       float64   `csv:"low"`
	Close     float64   `csv:"close"`
	Volume    volume    `csv:"volume"`
}

type outputRow struct {
	Timestamp string `csv:"timestamp"`
	Open      string `csv:"open"`
	High      string `csv:"high"`
	Low       string `csv:"low"`
	Close     string `csv:"close"`
	Volume    string `csv:"volume"`
}

// LoadBarsFromNinjaTraderCSV loads bars from a file. Prices are rounded to the instrument
// precision and ts_event equals ts_init equals the row timestamp.
func LoadBarsFromNinjaTraderCSV(path string, instrument *types.Instrument, barType types.BarType) ([]types.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open csv file %s", path)
	}
	defer file.Close()

	bars, err := ReadBars(file, instrument, barType)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCSVParseFailed, err, "failed to load bars from %s", path)
	}

	return bars, nil
}

// ReadBars parses bars from a reader in the NinjaTrader format.
func ReadBars(r io.Reader, instrument *types.Instrument, barType types.BarType) ([]types.Bar, error) {
	if instrument == nil {
		return nil, errors.New(errors.ErrCodeInvalidInstrument, "instrument cannot be nil")
	}

	if barType.InstrumentID != instrument.ID {
		return nil, errors.Newf(errors.ErrCodeInvalidBarType, "bar type %s does not belong to instrument %s", barType, instrument.ID)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	var rows []row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []types.Bar{}, nil
		}

		return nil, errors.Wrap(errors.ErrCodeCSVParseFailed, "failed to parse csv", err)
	}

	bars := make([]types.Bar, 0, len(rows))
	defaultVolume := decimal.NewFromInt(DefaultVolume).Round(instrument.SizePrecision)

	for i, r := range rows {
		vol := defaultVolume
		if r.Volume.set {
			vol = decimal.NewFromFloat(r.Volume.value).Round(instrument.SizePrecision)
		}

		bar := types.Bar{
			BarType: barType,
			Open:    instrument.MakePrice(r.Open),
			High:    instrument.MakePrice(r.High),
			Low:     instrument.MakePrice(r.Low),
			Close:   instrument.MakePrice(r.Close),
			Volume:  vol,
			TsEvent: r.Timestamp.Time,
			TsInit:  r.Timestamp.Time,
		}

		if err := bar.Validate(); err != nil {
			// the header is line 1
			return nil, errors.Wrapf(errors.ErrCodeCSVParseFailed, err, "line %d", i+2)
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

// WriteNinjaTraderCSV writes bars in the same format the loader reads.
func WriteNinjaTraderCSV(w io.Writer, bars []types.Bar) error {
	rows := make([]outputRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, outputRow{
			Timestamp: b.TsEvent.UTC().Format(TimestampLayout),
			Open:      b.Open.String(),
			High:      b.High.String(),
			Low:       b.Low.String(),
			Close:     b.Close.String(),
			Volume:    b.Volume.String(),
		})
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return errors.Wrap(errors.ErrCodeCSVParseFailed, "failed to write csv", err)
	}

	return nil
}

// WriteNinjaTraderCSVFile writes bars to a file, creating or truncating it.
func WriteNinjaTraderCSVFile(path string, bars []types.Bar) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeCSVParseFailed, err, "failed to create csv file %s", path)
	}
	defer file.Close()

	return WriteNinjaTraderCSV(file, bars)
}
