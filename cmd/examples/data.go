package main

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/rxtech-lab/argo-examples/internal/data/catalog"
	"github.com/rxtech-lab/argo-examples/internal/data/ninjatrader"
	"github.com/rxtech-lab/argo-examples/internal/data/synthetic"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/instruments"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/urfave/cli/v3"
)

// syntheticBars generates the 6E bars described by the synthetic flags.
func syntheticBars(cmd *cli.Command, instrument *types.Instrument, barType types.BarType) ([]types.Bar, error) {
	config := synthetic.DefaultConfig(instrument, barType)
	config.Count = int(cmd.Int("bars"))
	config.Start = cmd.Timestamp("start")

	return synthetic.NewGenerator(int64(cmd.Int("seed"))).Generate(config)
}

func generateCSVAction(_ context.Context, cmd *cli.Command) error {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)

	bars, err := syntheticBars(cmd, instrument, exampleutil.MinuteBarType(instrument))
	if err != nil {
		return err
	}

	path := cmd.String("out")
	if err := ninjatrader.WriteNinjaTraderCSVFile(path, bars); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Wrote %d bars to %s\n", len(bars), path)

	return nil
}

func catalogExportAction(_ context.Context, cmd *cli.Command) error {
	instrument := instruments.Create6EInstrument(exampleutil.DefaultVenue)
	barType := exampleutil.MinuteBarType(instrument)

	var (
		bars []types.Bar
		err  error
	)

	if path := cmd.String("csv"); path != "" {
		bars, err = ninjatrader.LoadBarsFromNinjaTraderCSV(path, instrument, barType)
	} else {
		bars, err = syntheticBars(cmd, instrument, barType)
	}

	if err != nil {
		return err
	}

	c, err := catalog.NewParquetDataCatalog(cmd.String("dir"), logger.NewNopLogger())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteInstruments(instrument); err != nil {
		return err
	}

	if err := c.WriteBars(bars); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Exported %s and %d bars to %s\n", instrument.ID, len(bars), c.Root())

	return nil
}

func catalogInfoAction(_ context.Context, cmd *cli.Command) error {
	c, err := catalog.NewParquetDataCatalog(cmd.String("dir"), logger.NewNopLogger())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	out := cmd.Root().Writer
	manifest := c.Manifest()
	fmt.Fprintf(out, "Catalog %s (schema %s, created by %s)\n", c.Root(), manifest.Version, manifest.CreatedBy)

	barTypes, err := c.BarTypes()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Bar Type", "Bars"})
	table.SetAutoFormatHeaders(false)

	for _, barType := range barTypes {
		count, err := c.Count(barType)
		if err != nil {
			return err
		}

		table.Append([]string{barType, fmt.Sprintf("%d", count)})
	}

	table.Render()

	return nil
}
