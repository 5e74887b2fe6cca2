package indicator

import "github.com/rxtech-lab/argo-examples/internal/types"

// ExponentialMovingAverage weights recent inputs with alpha = 2 / (period + 1).
// The first input seeds the value.
type ExponentialMovingAverage struct {
	base
	alpha float64
}

// NewExponentialMovingAverage creates an EMA with the given period.
func NewExponentialMovingAverage(period int) (*ExponentialMovingAverage, error) {
	b, err := newBase("EMA", period)
	if err != nil {
		return nil, err
	}

	return &ExponentialMovingAverage{base: b, alpha: 2.0 / float64(period+1)}, nil
}

func (e *ExponentialMovingAverage) Name() string { return displayName("EMA", e.period) }

// Alpha returns the smoothing factor.
func (e *ExponentialMovingAverage) Alpha() float64 { return e.alpha }

func (e *ExponentialMovingAverage) HandleBar(bar types.Bar) { e.UpdateRaw(barValue(bar)) }

func (e *ExponentialMovingAverage) UpdateRaw(value float64) {
	e.value = smooth(e.count == 0, e.alpha, e.value, value)
	e.count++
}

func (e *ExponentialMovingAverage) Reset() { e.reset() }

// WilderMovingAverage is an exponential average with alpha = 1 / period.
type WilderMovingAverage struct {
	base
	alpha float64
}

// NewWilderMovingAverage creates a Wilder moving average with the given period.
func NewWilderMovingAverage(period int) (*WilderMovingAverage, error) {
	b, err := newBase("RMA", period)
	if err != nil {
		return nil, err
	}

	return &WilderMovingAverage{base: b, alpha: 1.0 / float64(period)}, nil
}

func (w *WilderMovingAverage) Name() string { return displayName("RMA", w.period) }

func (w *WilderMovingAverage) HandleBar(bar types.Bar) { w.UpdateRaw(barValue(bar)) }

func (w *WilderMovingAverage) UpdateRaw(value float64) {
	w.value = smooth(w.count == 0, w.alpha, w.value, value)
	w.count++
}

func (w *WilderMovingAverage) Reset() { w.reset() }

// DoubleExponentialMovingAverage is 2 * EMA - EMA(EMA).
type DoubleExponentialMovingAverage struct {
	base
	ema1 *ExponentialMovingAverage
	ema2 *ExponentialMovingAverage
}

// NewDoubleExponentialMovingAverage creates a DEMA with the given period.
func NewDoubleExponentialMovingAverage(period int) (*DoubleExponentialMovingAverage, error) {
	b, err := newBase("DEMA", period)
	if err != nil {
		return nil, err
	}

	ema1, _ := NewExponentialMovingAverage(period)
	ema2, _ := NewExponentialMovingAverage(period)

	return &DoubleExponentialMovingAverage{base: b, ema1: ema1, ema2: ema2}, nil
}

func (d *DoubleExponentialMovingAverage) Name() string { return displayName("DEMA", d.period) }

func (d *DoubleExponentialMovingAverage) HandleBar(bar types.Bar) { d.UpdateRaw(barValue(bar)) }

func (d *DoubleExponentialMovingAverage) UpdateRaw(value float64) {
	d.ema1.UpdateRaw(value)
	d.ema2.UpdateRaw(d.ema1.Value())
	d.value = 2*d.ema1.Value() - d.ema2.Value()
	d.count++
}

func (d *DoubleExponentialMovingAverage) Initialized() bool { return d.ema2.Initialized() }

func (d *DoubleExponentialMovingAverage) Reset() {
	d.reset()
	d.ema1.Reset()
	d.ema2.Reset()
}

func smooth(first bool, alpha, prev, value float64) float64 {
	if first {
		return value
	}

	return alpha*value + (1-alpha)*prev
}
