// Package aggregation builds internal time bars from external source bars.
package aggregation

import (
	"time"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimeBarAggregator aggregates source bars into bars of a longer interval.
//
// Buckets are aligned to multiples of the target interval since the zero time, so a
// 5-minute bar covers (10:00, 10:05]. A bucket is emitted when a source bar closes on the
// bucket boundary, or when a later source bar falls into a new bucket. Incomplete
// trailing buckets are never emitted.
type TimeBarAggregator struct {
	barType  types.BarType
	interval time.Duration

	pending bool
	end     time.Time
	open    decimal.Decimal
	high    decimal.Decimal
	low     decimal.Decimal
	close   decimal.Decimal
	volume  decimal.Decimal
	count   int
}

// NewTimeBarAggregator creates an aggregator for a composite bar type such as
// "6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL".
func NewTimeBarAggregator(barType types.BarType) (*TimeBarAggregator, error) {
	if !barType.IsComposite() {
		return nil, errors.Newf(errors.ErrCodeInvalidBarType, "bar type %s is not aggregated from another bar type", barType)
	}

	target := barType.Spec.Duration()
	source := barType.Composite().Spec.Duration()

	if target <= source || target%source != 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidBarType, "bar type %s cannot be built from %s bars", barType.Standard(), barType.Composite().Spec)
	}

	return &TimeBarAggregator{barType: barType, interval: target}, nil
}

// BarType returns the composite bar type being built.
func (a *TimeBarAggregator) BarType() types.BarType {
	return a.barType
}

// SourceBarType returns the bar type consumed by the aggregator.
func (a *TimeBarAggregator) SourceBarType() types.BarType {
	return a.barType.Composite()
}

// Pending returns the number of source bars in the open bucket.
func (a *TimeBarAggregator) Pending() int {
	return a.count
}

// HandleBar adds a source bar and returns the bars closed by it, oldest first.
func (a *TimeBarAggregator) HandleBar(bar types.Bar) []types.Bar {
	if !bar.BarType.Equal(a.SourceBarType()) {
		return nil
	}

	var out []types.Bar

	end := a.bucketEnd(bar.TsEvent)
	if a.pending && !end.Equal(a.end) {
		out = append(out, a.build())
	}

	if !a.pending {
		a.pending = true
		a.end = end
		a.open = bar.Open
		a.high = bar.High
		a.low = bar.Low
		a.volume = decimal.Zero
	}

	a.high = decimal.Max(a.high, bar.High)
	a.low = decimal.Min(a.low, bar.Low)
	a.close = bar.Close
	a.volume = a.volume.Add(bar.Volume)
	a.count++

	if bar.TsEvent.Equal(a.end) {
		out = append(out, a.build())
	}

	return out
}

// Reset drops the open bucket.
func (a *TimeBarAggregator) Reset() {
	a.pending = false
	a.count = 0
}

func (a *TimeBarAggregator) bucketEnd(ts time.Time) time.Time {
	start := ts.Truncate(a.interval)
	if start.Equal(ts) {
		return ts
	}

	return start.Add(a.interval)
}

func (a *TimeBarAggregator) build() types.Bar {
	bar := types.Bar{
		BarType: a.barType.Standard(),
		Open:    a.open,
		High:    a.high,
		Low:     a.low,
		Close:   a.close,
		Volume:  a.volume,
		TsEvent: a.end,
		TsInit:  a.end,
	}

	a.Reset()

	return bar
}
