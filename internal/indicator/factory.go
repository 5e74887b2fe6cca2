package indicator

import (
	"strings"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// MovingAverageType selects a moving average implementation.
type MovingAverageType string

const (
	MovingAverageTypeSimple            MovingAverageType = "SIMPLE"
	MovingAverageTypeExponential       MovingAverageType = "EXPONENTIAL"
	MovingAverageTypeWeighted          MovingAverageType = "WEIGHTED"
	MovingAverageTypeWilder            MovingAverageType = "WILDER"
	MovingAverageTypeDoubleExponential MovingAverageType = "DOUBLE_EXPONENTIAL"
	MovingAverageTypeHull              MovingAverageType = "HULL"
)

// AllMovingAverageTypes lists every supported type, used for config schemas.
var AllMovingAverageTypes = []any{
	MovingAverageTypeSimple,
	MovingAverageTypeExponential,
	MovingAverageTypeWeighted,
	MovingAverageTypeWilder,
	MovingAverageTypeDoubleExponential,
	MovingAverageTypeHull,
}

// ParseMovingAverageType parses a case-insensitive type name.
func ParseMovingAverageType(s string) (MovingAverageType, error) {
	t := MovingAverageType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllMovingAverageTypes {
		if known == t {
			return t, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeUnsupportedMAType, "unsupported moving average type %q", s)
}

// MovingAverageFactory creates moving averages by type.
type MovingAverageFactory struct{}

// Create returns a new moving average of the given type and period.
func (MovingAverageFactory) Create(period int, maType MovingAverageType) (MovingAverage, error) {
	switch maType {
	case MovingAverageTypeSimple:
		return NewSimpleMovingAverage(period)
	case MovingAverageTypeExponential:
		return NewExponentialMovingAverage(period)
	case MovingAverageTypeWeighted:
		return NewWeightedMovingAverage(period)
	case MovingAverageTypeWilder:
		return NewWilderMovingAverage(period)
	case MovingAverageTypeDoubleExponential:
		return NewDoubleExponentialMovingAverage(period)
	case MovingAverageTypeHull:
		return NewHullMovingAverage(period)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedMAType, "unsupported moving average type %q", maType)
	}
}
