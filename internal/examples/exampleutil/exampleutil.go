// Package exampleutil holds the setup shared by the numbered examples: engine and venue
// construction, bar loading and the reports printed after a run.
package exampleutil

import (
	"context"
	"io"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine"
	v1 "github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-examples/internal/data/ninjatrader"
	"github.com/rxtech-lab/argo-examples/internal/data/synthetic"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

const (
	// DefaultVenue is the simulated venue most examples trade on.
	DefaultVenue types.Venue = "SIM"
	// DefaultBarCount is the number of synthetic bars generated when no CSV file is given.
	DefaultBarCount = 5000
	// DefaultSeed seeds the synthetic bar generator.
	DefaultSeed int64 = 42
)

// DefaultStart is the timestamp of the first synthetic bar, a Monday.
var DefaultStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

// Options controls how an example is run.
type Options struct {
	// CSVPath loads NinjaTrader bars instead of generating synthetic ones.
	CSVPath string
	// CatalogDir is the root of the data catalog used by examples that persist data.
	CatalogDir string
	// ResultsDir receives stats.yaml, fills.csv and positions.csv when set.
	ResultsDir string
	// Config replaces the engine configuration built from the example defaults.
	Config optional.Option[v1.BacktestEngineV1Config]
	// Logging is used when Config is None.
	Logging logger.Config
	// Output receives printed output such as the account, fills and positions reports.
	Output io.Writer
	// Callbacks are passed to every engine run.
	Callbacks engine.LifecycleCallbacks
	// Bars is the number of synthetic bars to generate. Zero uses the example default.
	Bars int
	// Start is the timestamp of the first synthetic bar. Zero uses DefaultStart.
	Start time.Time
}

// Quiet returns options that disable logging and discard printed output.
func Quiet() Options {
	return Options{
		Logging: logger.Config{Bypass: true},
		Output:  io.Discard,
	}
}

// BarCount returns the requested number of synthetic bars or the fallback.
func (o Options) BarCount(fallback int) int {
	if o.Bars > 0 {
		return o.Bars
	}

	return fallback
}

// FirstBar returns the timestamp of the first synthetic bar.
func (o Options) FirstBar() time.Time {
	if o.Start.IsZero() {
		return DefaultStart
	}

	return o.Start
}

// Writer returns the output writer, discarding output when none is set.
func (o Options) Writer() io.Writer {
	if o.Output == nil {
		return io.Discard
	}

	return o.Output
}

// EngineConfig returns the configured engine config, or the defaults with the options'
// logging when none is configured.
func (o Options) EngineConfig() v1.BacktestEngineV1Config {
	if o.Config.IsSome() {
		return o.Config.Unwrap()
	}

	config := v1.EmptyConfig()
	config.Logging = o.Logging

	return config
}

// NewEngine creates an engine from the config and adds the venue, unless the config
// already defines a venue with the same name.
func NewEngine(config v1.BacktestEngineV1Config, venue v1.VenueConfig) (*v1.BacktestEngineV1, error) {
	venues := make([]v1.VenueConfig, 0, len(config.Venues)+1)
	found := false

	for _, v := range config.Venues {
		if v.Name == venue.Name {
			found = true
		}

		venues = append(venues, v)
	}

	if !found {
		venues = append(venues, venue)
	}

	config.Venues = venues

	return v1.NewBacktestEngineV1(config)
}

// DefaultVenueConfig returns the default NETTING / MARGIN venue named DefaultVenue.
func DefaultVenueConfig() v1.VenueConfig {
	return v1.DefaultVenueConfig(DefaultVenue)
}

// MinuteBarType returns the external 1-minute LAST bar type of the instrument.
func MinuteBarType(instrument *types.Instrument) types.BarType {
	return types.MustParseBarType(instrument.ID.String() + "-1-MINUTE-LAST-EXTERNAL")
}

// PerContractVenue returns a default venue charging a fixed commission per contract.
func PerContractVenue(name types.Venue, commission types.Money) v1.VenueConfig {
	venue := v1.DefaultVenueConfig(name)
	venue.FeeModel = commission_fee.Config{Type: commission_fee.TypePerContract, Commission: commission}

	return venue
}

// DeterministicVenue returns a default venue whose fills never depend on chance.
func DeterministicVenue(name types.Venue) v1.VenueConfig {
	venue := v1.DefaultVenueConfig(name)
	venue.FillModel = v1.FillModelConfig{}

	return venue
}

// LoadBars loads NinjaTrader bars from the options' CSV file, or generates count
// synthetic bars when no file is given.
func LoadBars(opts Options, instrument *types.Instrument, barType types.BarType, count int) ([]types.Bar, error) {
	if opts.CSVPath != "" {
		return ninjatrader.LoadBarsFromNinjaTraderCSV(opts.CSVPath, instrument, barType)
	}

	config := synthetic.DefaultConfig(instrument, barType)
	config.Start = opts.FirstBar()
	config.Count = opts.BarCount(count)

	return synthetic.NewGenerator(DefaultSeed).Generate(config)
}

// Backtest describes what an example adds to an engine before running it.
type Backtest struct {
	Instrument *types.Instrument
	Bars       []types.Bar
	Actors     []trading.Component
	Strategies []trading.StrategyComponent
	Start      optional.Option[time.Time]
	End        optional.Option[time.Time]
	// Streaming runs the data as one streamed batch and ends the run afterwards.
	Streaming bool
	// PrintReports prints the account, fills and positions reports after the run.
	PrintReports bool
}

// RunBacktest adds the instrument, data and components to the engine, runs it, prints the
// reports and writes the results folder when configured.
func RunBacktest(ctx context.Context, e *v1.BacktestEngineV1, bt Backtest, opts Options) error {
	if bt.Instrument != nil {
		if err := e.AddInstrument(bt.Instrument); err != nil {
			return err
		}
	}

	if err := e.AddData(bt.Bars); err != nil {
		return err
	}

	for _, actor := range bt.Actors {
		if err := e.AddActor(actor); err != nil {
			return err
		}
	}

	for _, strategy := range bt.Strategies {
		if err := e.AddStrategy(strategy); err != nil {
			return err
		}
	}

	err := e.Run(ctx, engine.RunOptions{
		Start:     bt.Start,
		End:       bt.End,
		Streaming: bt.Streaming,
		Callbacks: opts.Callbacks,
	})
	if err != nil {
		return err
	}

	if bt.Streaming {
		if err := e.End(); err != nil {
			return err
		}
	}

	if bt.PrintReports {
		if err := e.PrintReports(opts.Writer()); err != nil {
			return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to print reports", err)
		}
	}

	if opts.ResultsDir != "" {
		return e.WriteResults(opts.ResultsDir)
	}

	return nil
}
