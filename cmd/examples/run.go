package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/olekukonko/tablewriter"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine"
	v1 "github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-examples/internal/examples"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "csv",
			Usage: "NinjaTrader CSV file to replay instead of synthetic bars",
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Catalog directory for examples that persist data",
		},
		&cli.StringFlag{
			Name:  "results",
			Usage: "Base directory receiving the run results",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Engine config YAML file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Console log level (debug, info, warn, error)",
			Value: "info",
		},
		&cli.IntFlag{
			Name:  "bars",
			Usage: "Number of synthetic bars, 0 uses the example default",
		},
		&cli.TimestampFlag{
			Name:  "start",
			Usage: "Timestamp of the first synthetic bar in `YYYY-MM-DD` format",
			Config: cli.TimestampConfig{
				Timezone: time.UTC,
				Layouts:  dateLayouts,
			},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Disable logging",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show a progress bar while replaying",
		},
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	table := tablewriter.NewWriter(cmd.Root().Writer)
	table.SetHeader([]string{"ID", "Name", "Description"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, example := range examples.All() {
		table.Append([]string{example.ID, example.Name, example.Description})
	}

	table.Render()

	return nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "run expects exactly one example id or name")
	}

	example, err := examples.Find(cmd.Args().First())
	if err != nil {
		return err
	}

	opts, err := runOptions(cmd, example)
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Writer(), "Running example %s (%s)\n", example.ID, example.Name)

	if err := example.Run(ctx, opts); err != nil {
		return fmt.Errorf("example %s failed: %w", example.ID, err)
	}

	if opts.ResultsDir != "" {
		fmt.Fprintf(opts.Writer(), "Results written to %s\n", opts.ResultsDir)
	}

	return nil
}

// runOptions maps the run flags onto the example options.
func runOptions(cmd *cli.Command, example examples.Example) (exampleutil.Options, error) {
	out := cmd.Root().Writer

	opts := exampleutil.Options{
		CSVPath:    cmd.String("csv"),
		CatalogDir: cmd.String("catalog"),
		Output:     out,
		Bars:       int(cmd.Int("bars")),
		Logging: logger.Config{
			Level:  strings.ToLower(cmd.String("log-level")),
			Bypass: cmd.Bool("quiet"),
		},
	}

	if cmd.IsSet("start") {
		opts.Start = cmd.Timestamp("start")
	}

	if _, err := logger.ParseLevel(opts.Logging.Level); err != nil {
		return exampleutil.Options{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid log level", err)
	}

	if path := cmd.String("config"); path != "" {
		config, err := v1.LoadConfig(path)
		if err != nil {
			return exampleutil.Options{}, err
		}

		if cmd.Bool("quiet") {
			config.Logging.Bypass = true
		}

		opts.Config = optional.Some(config)
	}

	if base := cmd.String("results"); base != "" {
		opts.ResultsDir = v1.ResultFolder(base, example.Name, opts.CSVPath, optional.None[time.Time](), optional.None[time.Time]())
	}

	if cmd.Bool("progress") {
		opts.Callbacks = progressCallbacks(out)
	}

	return opts, nil
}

// progressCallbacks draws one progress bar per engine run.
func progressCallbacks(w io.Writer) engine.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := engine.OnRunStartCallback(func(runID string, totalBars int) error {
		bar = progressbar.NewOptions(totalBars,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("Replaying %s", runID)),
			progressbar.OptionShowCount(),
		)

		return nil
	})

	onProcess := engine.OnProcessDataCallback(func(current int, _ int) error {
		if bar == nil {
			return nil
		}

		return bar.Set(current)
	})

	onEnd := engine.OnRunEndCallback(func(_ string, _ error) {
		if bar != nil {
			_ = bar.Finish()
			fmt.Fprintln(w)
		}

		bar = nil
	})

	return engine.LifecycleCallbacks{
		OnRunStart:    &onStart,
		OnProcessData: &onProcess,
		OnRunEnd:      &onEnd,
	}
}
