package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-examples/internal/types"
)

// WeightedMovingAverage weights the last period inputs linearly, newest heaviest.
type WeightedMovingAverage struct {
	base
	window []float64
}

// NewWeightedMovingAverage creates a WMA with the given period.
func NewWeightedMovingAverage(period int) (*WeightedMovingAverage, error) {
	b, err := newBase("WMA", period)
	if err != nil {
		return nil, err
	}

	return &WeightedMovingAverage{base: b, window: make([]float64, 0, period)}, nil
}

func (w *WeightedMovingAverage) Name() string { return displayName("WMA", w.period) }

func (w *WeightedMovingAverage) HandleBar(bar types.Bar) { w.UpdateRaw(barValue(bar)) }

func (w *WeightedMovingAverage) UpdateRaw(value float64) {
	if len(w.window) == w.period {
		w.window = append(w.window[:0], w.window[1:]...)
	}

	w.window = append(w.window, value)
	w.count++

	var sum, weights float64

	for i, v := range w.window {
		weight := float64(i + 1)
		sum += weight * v
		weights += weight
	}

	w.value = sum / weights
}

func (w *WeightedMovingAverage) Reset() {
	w.reset()
	w.window = w.window[:0]
}

// HullMovingAverage is WMA(sqrt(n)) of 2 * WMA(n/2) - WMA(n).
type HullMovingAverage struct {
	base
	half  *WeightedMovingAverage
	full  *WeightedMovingAverage
	final *WeightedMovingAverage
}

// NewHullMovingAverage creates a HMA with the given period.
func NewHullMovingAverage(period int) (*HullMovingAverage, error) {
	b, err := newBase("HMA", period)
	if err != nil {
		return nil, err
	}

	half, _ := NewWeightedMovingAverage(max(period/2, 1))
	full, _ := NewWeightedMovingAverage(period)
	final, _ := NewWeightedMovingAverage(max(int(math.Sqrt(float64(period))), 1))

	return &HullMovingAverage{base: b, half: half, full: full, final: final}, nil
}

func (h *HullMovingAverage) Name() string { return displayName("HMA", h.period) }

func (h *HullMovingAverage) HandleBar(bar types.Bar) { h.UpdateRaw(barValue(bar)) }

func (h *HullMovingAverage) UpdateRaw(value float64) {
	h.half.UpdateRaw(value)
	h.full.UpdateRaw(value)
	h.final.UpdateRaw(2*h.half.Value() - h.full.Value())
	h.value = h.final.Value()
	h.count++
}

func (h *HullMovingAverage) Reset() {
	h.reset()
	h.half.Reset()
	h.full.Reset()
	h.final.Reset()
}
