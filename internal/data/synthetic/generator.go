// Package synthetic generates deterministic bars with a geometric brownian motion model.
package synthetic

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// Generator generates bars for tests, examples and benchmarks.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a new Generator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Config configures how bars are generated.
type Config struct {
	// Instrument provides the price grid and size precision
	Instrument *types.Instrument
	// BarType of the generated bars, must belong to Instrument
	BarType types.BarType
	// Start is the timestamp of the first bar
	Start time.Time
	// Interval is the duration between each bar. Defaults to the bar type duration.
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.0005 = 0.05% per bar)
	Volatility float64
	// Trend is the drift factor spread across the whole series (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns settings resembling 1-minute EUR/USD futures bars.
func DefaultConfig(instrument *types.Instrument, barType types.BarType) Config {
	return Config{
		Instrument:     instrument,
		BarType:        barType,
		Start:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Interval:       barType.Spec.Duration(),
		Count:          1000,
		InitialPrice:   1.09500,
		Volatility:     0.0003,
		Trend:          0.0,
		VolumeBase:     500,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric brownian motion. Prices snap to the
// instrument tick grid and every bar satisfies low <= open, close <= high.
func (g *Generator) Generate(config Config) ([]types.Bar, error) {
	if config.Instrument == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "generator requires an instrument")
	}

	if config.BarType.InstrumentID != config.Instrument.ID {
		return nil, errors.Newf(errors.ErrCodeInvalidBarType, "bar type %s does not belong to instrument %s", config.BarType, config.Instrument.ID)
	}

	if config.Count < 0 || config.InitialPrice <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "count must not be negative and initial price must be positive")
	}

	interval := config.Interval
	if interval <= 0 {
		interval = config.BarType.Spec.Duration()
	}

	inst := config.Instrument
	tick := inst.PriceIncrement
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.Start

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a standard normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := 0.0
		if config.Count > 0 {
			drift = config.Trend / float64(config.Count)
		}

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		o := inst.MakePrice(open)
		c := inst.MakePrice(close)
		h := decimal.Max(inst.MakePrice(math.Max(open, close)+highExtension), o, c)
		l := decimal.Min(inst.MakePrice(math.Min(open, close)-lowExtension), o, c)

		if !l.IsPositive() {
			l = tick
		}

		bars[i] = types.Bar{
			BarType: config.BarType,
			Open:    o,
			High:    h,
			Low:     l,
			Close:   c,
			Volume:  inst.MakeQty(volume),
			TsEvent: currentTime,
			TsInit:  currentTime,
		}

		currentPrice = close
		currentTime = currentTime.Add(interval)
	}

	return bars, nil
}

// Generate1MinBars is a convenience wrapper with a fixed seed and the default configuration.
func Generate1MinBars(instrument *types.Instrument, barType types.BarType, start time.Time, count int) ([]types.Bar, error) {
	config := DefaultConfig(instrument, barType)
	config.Start = start
	config.Count = count

	return NewGenerator(42).Generate(config)
}
