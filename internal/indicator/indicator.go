package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// Indicator interface defines methods that any streaming indicator must implement.
// Indicators are fed one value at a time, either from bars or raw values.
type Indicator interface {
	// Name returns the display name of the indicator, e.g. "EMA(10)"
	Name() string
	// HandleBar updates the indicator with the close of the bar
	HandleBar(bar types.Bar)
	// UpdateRaw updates the indicator with a raw value
	UpdateRaw(value float64)
	// Value returns the current value
	Value() float64
	// Initialized reports whether enough inputs were seen to produce a full value
	Initialized() bool
	// HasInputs reports whether at least one input was seen
	HasInputs() bool
	// Count returns the number of inputs seen
	Count() int
	// Reset clears all state
	Reset()
}

// MovingAverage is an indicator with a lookback period.
type MovingAverage interface {
	Indicator
	Period() int
}

type base struct {
	period int
	count  int
	value  float64
}

func newBase(name string, period int) (base, error) {
	if period <= 0 {
		return base{}, errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", name, period)
	}

	return base{period: period}, nil
}

func (b *base) Period() int       { return b.period }
func (b *base) Value() float64    { return b.value }
func (b *base) HasInputs() bool   { return b.count > 0 }
func (b *base) Count() int        { return b.count }
func (b *base) Initialized() bool { return b.count >= b.period }

func (b *base) reset() {
	b.count = 0
	b.value = 0
}

func displayName(kind string, period int) string {
	return fmt.Sprintf("%s(%d)", kind, period)
}

func barValue(bar types.Bar) float64 {
	return bar.Close.InexactFloat64()
}
