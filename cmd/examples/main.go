package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05"}

// newCommand builds the examples CLI.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "examples",
		Usage: "Run the backtest examples and manage their data and configuration",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the available examples",
				Action: listAction,
			},
			{
				Name:      "run",
				Usage:     "Run an example by id or name",
				ArgsUsage: "<id|name>",
				Flags:     runFlags(),
				Action:    runAction,
			},
			{
				Name:  "schema",
				Usage: "Write the engine config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "generate-csv",
				Usage: "Write synthetic 1-minute 6E bars as a NinjaTrader CSV file",
				Flags: append(syntheticFlags(),
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Path of the CSV file to write",
						Required: true,
					},
				),
				Action: generateCSVAction,
			},
			{
				Name:  "catalog",
				Usage: "Manage a parquet data catalog",
				Commands: []*cli.Command{
					{
						Name:  "export",
						Usage: "Write the 6E instrument and its bars into a catalog",
						Flags: append(syntheticFlags(),
							&cli.StringFlag{
								Name:     "dir",
								Aliases:  []string{"d"},
								Usage:    "Catalog directory",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "csv",
								Usage: "NinjaTrader CSV file to export instead of synthetic bars",
							},
						),
						Action: catalogExportAction,
					},
					{
						Name:  "info",
						Usage: "Print the manifest and the bar counts of a catalog",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "dir",
								Aliases:  []string{"d"},
								Usage:    "Catalog directory",
								Required: true,
							},
						},
						Action: catalogInfoAction,
					},
				},
			},
		},
	}
}

func syntheticFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "bars",
			Usage: "Number of synthetic bars",
			Value: 1440,
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "Seed of the synthetic bar generator",
			Value: 42,
		},
		&cli.TimestampFlag{
			Name:  "start",
			Usage: "Timestamp of the first bar in `YYYY-MM-DD` format",
			Value: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Config: cli.TimestampConfig{
				Timezone: time.UTC,
				Layouts:  dateLayouts,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
