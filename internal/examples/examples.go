// Package examples lists the runnable examples by id.
package examples

import (
	"context"
	"sort"

	"github.com/rxtech-lab/argo-examples/internal/examples/actordata"
	"github.com/rxtech-lab/argo-examples/internal/examples/actorsignal"
	"github.com/rxtech-lab/argo-examples/internal/examples/adaptiveordering"
	"github.com/rxtech-lab/argo-examples/internal/examples/cacheconfig"
	"github.com/rxtech-lab/argo-examples/internal/examples/csvbars"
	"github.com/rxtech-lab/argo-examples/internal/examples/customevent"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/examples/indicators"
	"github.com/rxtech-lab/argo-examples/internal/examples/internalbars"
	"github.com/rxtech-lab/argo-examples/internal/examples/macross"
	"github.com/rxtech-lab/argo-examples/internal/examples/minimal"
	"github.com/rxtech-lab/argo-examples/internal/examples/parquetcatalog"
	"github.com/rxtech-lab/argo-examples/internal/examples/portfoliocache"
	"github.com/rxtech-lab/argo-examples/internal/examples/starter"
	"github.com/rxtech-lab/argo-examples/internal/examples/statemachine"
	"github.com/rxtech-lab/argo-examples/internal/examples/timeralert"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// RunFunc runs an example with the given options.
type RunFunc func(ctx context.Context, opts exampleutil.Options) error

type Example struct {
	ID          string
	Name        string
	Description string
	// UsesCatalog is set for examples reading or writing opts.CatalogDir.
	UsesCatalog bool
	Run         RunFunc
}

func wrap[R any](run func(context.Context, exampleutil.Options) (R, error)) RunFunc {
	return func(ctx context.Context, opts exampleutil.Options) error {
		_, err := run(ctx, opts)

		return err
	}
}

var registry = []Example{
	{ID: "0000", Name: "starter", Description: "Starter template: one market round trip", Run: wrap(starter.Run)},
	{ID: "0001", Name: "csv-bars", Description: "Load 1-minute bars from a NinjaTrader CSV file", Run: wrap(csvbars.Run)},
	{ID: "0002", Name: "timer-alert", Description: "Clock timer and alert firing a bracket order", Run: wrap(timeralert.Run)},
	{ID: "0003", Name: "cache-config", Description: "Raise the cache capacity and read old bars back", Run: wrap(cacheconfig.Run)},
	{ID: "0004", Name: "parquet-catalog", Description: "Export data to a parquet catalog and replay it", UsesCatalog: true, Run: wrap(parquetcatalog.Run)},
	{ID: "0005", Name: "minimal", Description: "Minimal reproducible example on EUR/USD", Run: wrap(minimal.Run)},
	{ID: "0005f", Name: "minimal-future", Description: "Minimal reproducible example on the 6E future", Run: wrap(minimal.RunFuture)},
	{ID: "0006", Name: "internal-bars", Description: "5-minute bars aggregated from 1-minute bars", Run: wrap(internalbars.Run)},
	{ID: "0007", Name: "portfolio-cache", Description: "Read the portfolio and the cache while a position is open", Run: wrap(portfoliocache.Run)},
	{ID: "0008", Name: "indicators", Description: "Simple and cascaded exponential moving averages", Run: wrap(indicators.Run)},
	{ID: "0009", Name: "custom-event", Description: "Publish a custom event on the message bus", Run: wrap(customevent.Run)},
	{ID: "0010", Name: "actor-data", Description: "An actor publishing custom data to a strategy", Run: wrap(actordata.Run)},
	{ID: "0011", Name: "actor-signal", Description: "An actor publishing a named signal to a strategy", Run: wrap(actorsignal.Run)},
	{ID: "0012", Name: "state-machine", Description: "Finite state machine transitions and invalid triggers", Run: wrap(statemachine.Run)},
	{ID: "0013", Name: "adaptive-ordering", Description: "Adaptive high/low ordering of OHLC bars", Run: wrap(adaptiveordering.Run)},
	{ID: "0014", Name: "ma-cross", Description: "SMA cross strategy with bracket orders", Run: wrap(macross.Run)},
	{ID: "0014e", Name: "ema-cross", Description: "EMA cross strategy with bracket orders", Run: wrap(macross.RunEMACross)},
}

// All returns the examples ordered by id.
func All() []Example {
	out := append([]Example(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Find returns the example with the given id or name.
func Find(key string) (Example, error) {
	for _, example := range registry {
		if example.ID == key || example.Name == key {
			return example, nil
		}
	}

	return Example{}, errors.Newf(errors.ErrCodeInvalidParameter, "unknown example %q", key)
}
