package engine

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/portfolio"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
)

// Lifecycle callback types for backtest runs
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called before the first bar of a run is replayed.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, totalBars int) error

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnRunEndCallback is called when a run ends, with the error that ended it if any.
type OnRunEndCallback func(runID string, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnProcessData *OnProcessDataCallback
	OnRunEnd      *OnRunEndCallback
}

// RunStart invokes OnRunStart when set.
func (c LifecycleCallbacks) RunStart(runID string, totalBars int) error {
	if c.OnRunStart == nil {
		return nil
	}

	return (*c.OnRunStart)(runID, totalBars)
}

// ProcessData invokes OnProcessData when set.
func (c LifecycleCallbacks) ProcessData(current int, total int) error {
	if c.OnProcessData == nil {
		return nil
	}

	return (*c.OnProcessData)(current, total)
}

// RunEnd invokes OnRunEnd when set.
func (c LifecycleCallbacks) RunEnd(runID string, err error) {
	if c.OnRunEnd != nil {
		(*c.OnRunEnd)(runID, err)
	}
}

// RunOptions controls a single call to Run.
type RunOptions struct {
	// Start and End bound the replayed bars by ts_init, inclusive. None falls back to the engine config.
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
	// Streaming keeps components running after the data is consumed so more data can be
	// added and replayed. End must be called to finish.
	Streaming bool
	Callbacks LifecycleCallbacks
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// AddInstrument registers an instrument. Its venue must already be added.
	AddInstrument(instrument *types.Instrument) error
	// AddData adds bars for known instruments, merged with existing data by ts_init.
	AddData(bars []types.Bar) error
	// AddActor registers an actor with the engine kernel.
	AddActor(actor trading.Component) error
	// AddStrategy registers a strategy with the engine kernel.
	AddStrategy(strategy trading.StrategyComponent) error
	// Run replays the data in the window. The context can be used to cancel the run.
	Run(ctx context.Context, opts RunOptions) error
	// End stops all components and finalizes the run.
	End() error
	// Reset returns the engine to its state before the first run, keeping data and instruments.
	Reset() error
	// Dispose releases all components. The engine cannot be used afterwards.
	Dispose() error
	Cache() *cache.CacheV1
	Portfolio() *portfolio.Portfolio
	// Result returns the statistics of the last run.
	Result() types.BacktestStatistics
	// WriteResults writes stats.yaml, fills.csv and positions.csv into the folder.
	WriteResults(folder string) error
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
