package indicator

import (
	"github.com/montanaflynn/stats"
	"github.com/rxtech-lab/argo-examples/internal/types"
)

// SimpleMovingAverage is the arithmetic mean of the last period inputs.
type SimpleMovingAverage struct {
	base
	window []float64
}

// NewSimpleMovingAverage creates a SMA with the given period.
func NewSimpleMovingAverage(period int) (*SimpleMovingAverage, error) {
	b, err := newBase("SMA", period)
	if err != nil {
		return nil, err
	}

	return &SimpleMovingAverage{base: b, window: make([]float64, 0, period)}, nil
}

func (s *SimpleMovingAverage) Name() string { return displayName("SMA", s.period) }

func (s *SimpleMovingAverage) HandleBar(bar types.Bar) { s.UpdateRaw(barValue(bar)) }

func (s *SimpleMovingAverage) UpdateRaw(value float64) {
	if len(s.window) == s.period {
		s.window = append(s.window[:0], s.window[1:]...)
	}

	s.window = append(s.window, value)
	s.count++

	// the window is never empty here
	mean, _ := stats.Mean(s.window)
	s.value = mean
}

func (s *SimpleMovingAverage) Reset() {
	s.reset()
	s.window = s.window[:0]
}
