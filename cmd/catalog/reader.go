package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/data/catalog"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// BarTypeSummary is a bar type stored in the catalog with its bar count.
type BarTypeSummary struct {
	BarType string
	Count   int
}

// openCatalog opens an existing catalog. Browsing never creates one.
func openCatalog(root string) (*catalog.ParquetDataCatalog, error) {
	if _, err := os.Stat(filepath.Join(root, "catalog.yaml")); err != nil {
		return nil, errors.Newf(errors.ErrCodeCatalogRead, "no catalog found at %s", root)
	}

	return catalog.NewParquetDataCatalog(root, logger.NewNopLogger())
}

// ReadBarTypes lists the bar types of the catalog at root.
func ReadBarTypes(root string) ([]BarTypeSummary, error) {
	c, err := openCatalog(root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	barTypes, err := c.BarTypes()
	if err != nil {
		return nil, err
	}

	summaries := make([]BarTypeSummary, 0, len(barTypes))

	for _, barType := range barTypes {
		count, err := c.Count(barType)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, BarTypeSummary{BarType: barType, Count: count})
	}

	return summaries, nil
}

// ReadBars reads the bars of one bar type together with their instrument. A missing
// instrument is not an error.
func ReadBars(root string, barType string) (BarsLoadedMsg, error) {
	parsed, err := types.ParseBarType(barType)
	if err != nil {
		return BarsLoadedMsg{}, err
	}

	c, err := openCatalog(root)
	if err != nil {
		return BarsLoadedMsg{}, err
	}
	defer func() { _ = c.Close() }()

	bars, err := c.Bars([]string{barType}, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return BarsLoadedMsg{}, err
	}

	msg := BarsLoadedMsg{BarType: barType, Bars: bars}

	instrument, err := c.Instrument(parsed.InstrumentID.String())
	if err == nil {
		msg.Instrument = instrument
	} else if !errors.HasCode(err, errors.ErrCodeUnknownInstrument) {
		return BarsLoadedMsg{}, err
	}

	return msg, nil
}
