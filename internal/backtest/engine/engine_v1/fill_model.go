package engine

import (
	"math/rand"
)

// FillModel decides the probabilistic outcomes of matching with a seeded generator,
// so two runs with the same seed produce the same fills.
type FillModel struct {
	probFillOnLimit float64
	probFillOnStop  float64
	probSlippage    float64
	rng             *rand.Rand
}

func NewFillModel(config FillModelConfig) *FillModel {
	return &FillModel{
		probFillOnLimit: config.ProbFillOnLimit,
		probFillOnStop:  config.ProbFillOnStop,
		probSlippage:    config.ProbSlippage,
		rng:             rand.New(rand.NewSource(config.RandomSeed)),
	}
}

// IsLimitFilled reports whether a limit order touched by the price fills.
func (f *FillModel) IsLimitFilled() bool {
	return f.event(f.probFillOnLimit)
}

// IsStopFilled reports whether a stop order touched by the price triggers.
func (f *FillModel) IsStopFilled() bool {
	return f.event(f.probFillOnStop)
}

// IsSlipped reports whether a taker fill slips one tick.
func (f *FillModel) IsSlipped() bool {
	return f.event(f.probSlippage)
}

func (f *FillModel) event(probability float64) bool {
	switch {
	case probability <= 0:
		return false
	case probability >= 1:
		return true
	default:
		return f.rng.Float64() < probability
	}
}
