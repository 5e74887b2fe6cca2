package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

type BarAggregation string

type PriceType string

type AggregationSource string

const (
	BarAggregationSecond BarAggregation = "SECOND"
	BarAggregationMinute BarAggregation = "MINUTE"
	BarAggregationHour   BarAggregation = "HOUR"
	BarAggregationDay    BarAggregation = "DAY"
)

const (
	PriceTypeBid  PriceType = "BID"
	PriceTypeAsk  PriceType = "ASK"
	PriceTypeMid  PriceType = "MID"
	PriceTypeLast PriceType = "LAST"
)

const (
	AggregationSourceExternal AggregationSource = "EXTERNAL"
	AggregationSourceInternal AggregationSource = "INTERNAL"
)

func (a BarAggregation) unit() (time.Duration, bool) {
	switch a {
	case BarAggregationSecond:
		return time.Second, true
	case BarAggregationMinute:
		return time.Minute, true
	case BarAggregationHour:
		return time.Hour, true
	case BarAggregationDay:
		return 24 * time.Hour, true
	default:
		return 0, false
	}
}

func (p PriceType) valid() bool {
	switch p {
	case PriceTypeBid, PriceTypeAsk, PriceTypeMid, PriceTypeLast:
		return true
	default:
		return false
	}
}

func (s AggregationSource) valid() bool {
	return s == AggregationSourceExternal || s == AggregationSourceInternal
}

// BarSpecification describes how a bar is aggregated, e.g. "1-MINUTE-LAST".
type BarSpecification struct {
	Step        int
	Aggregation BarAggregation
	PriceType   PriceType
}

// ParseBarSpecification parses "<step>-<aggregation>-<price_type>".
func ParseBarSpecification(value string) (BarSpecification, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return BarSpecification{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid bar specification %q", value)
	}

	step, err := strconv.Atoi(parts[0])
	if err != nil || step <= 0 {
		return BarSpecification{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid bar step in %q", value)
	}

	spec := BarSpecification{Step: step, Aggregation: BarAggregation(parts[1]), PriceType: PriceType(parts[2])}
	if _, ok := spec.Aggregation.unit(); !ok {
		return BarSpecification{}, errors.Newf(errors.ErrCodeInvalidBarType, "unsupported bar aggregation %q", parts[1])
	}

	if !spec.PriceType.valid() {
		return BarSpecification{}, errors.Newf(errors.ErrCodeInvalidBarType, "unsupported price type %q", parts[2])
	}

	return spec, nil
}

func (s BarSpecification) String() string {
	return fmt.Sprintf("%d-%s-%s", s.Step, s.Aggregation, s.PriceType)
}

// Duration returns the length of one bar interval.
func (s BarSpecification) Duration() time.Duration {
	unit, _ := s.Aggregation.unit()

	return time.Duration(s.Step) * unit
}

// BarType identifies a bar stream, e.g. "6E.SIM-1-MINUTE-LAST-EXTERNAL".
//
// An internally aggregated bar type can carry the specification and source of the bars it
// is built from: "6E.SIM-5-MINUTE-LAST-INTERNAL@1-MINUTE-EXTERNAL".
type BarType struct {
	InstrumentID InstrumentID
	Spec         BarSpecification
	Source       AggregationSource

	compositeSpec   *BarSpecification
	compositeSource AggregationSource
}

// NewBarType creates a standard bar type.
func NewBarType(instrumentID InstrumentID, spec BarSpecification, source AggregationSource) BarType {
	return BarType{InstrumentID: instrumentID, Spec: spec, Source: source}
}

// NewCompositeBarType creates an internal bar type aggregated from the given source specification.
func NewCompositeBarType(instrumentID InstrumentID, spec BarSpecification, sourceSpec BarSpecification, source AggregationSource) BarType {
	return BarType{
		InstrumentID:    instrumentID,
		Spec:            spec,
		Source:          AggregationSourceInternal,
		compositeSpec:   &sourceSpec,
		compositeSource: source,
	}
}

// ParseBarType parses the standard and composite string forms.
func ParseBarType(value string) (BarType, error) {
	standard, composite, hasComposite := strings.Cut(value, "@")

	bt, err := parseStandardBarType(standard)
	if err != nil {
		return BarType{}, err
	}

	if !hasComposite {
		return bt, nil
	}

	if bt.Source != AggregationSourceInternal {
		return BarType{}, errors.Newf(errors.ErrCodeInvalidBarType, "composite bar type %q must be INTERNAL", value)
	}

	// the composite part is "<step>-<aggregation>-<source>" sharing the price type
	parts := strings.Split(composite, "-")
	if len(parts) != 3 {
		return BarType{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid composite part in %q", value)
	}

	sourceSpec, err := ParseBarSpecification(parts[0] + "-" + parts[1] + "-" + string(bt.Spec.PriceType))
	if err != nil {
		return BarType{}, err
	}

	source := AggregationSource(parts[2])
	if !source.valid() {
		return BarType{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid aggregation source in %q", value)
	}

	return NewCompositeBarType(bt.InstrumentID, bt.Spec, sourceSpec, source), nil
}

// MustParseBarType is ParseBarType for literals known to be valid.
func MustParseBarType(value string) BarType {
	bt, err := ParseBarType(value)
	if err != nil {
		panic(err)
	}

	return bt
}

func parseStandardBarType(value string) (BarType, error) {
	parts := strings.Split(value, "-")
	if len(parts) < 5 {
		return BarType{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid bar type %q", value)
	}

	n := len(parts)

	instrumentID, err := ParseInstrumentID(strings.Join(parts[:n-4], "-"))
	if err != nil {
		return BarType{}, errors.Wrapf(errors.ErrCodeInvalidBarType, err, "invalid bar type %q", value)
	}

	spec, err := ParseBarSpecification(strings.Join(parts[n-4:n-1], "-"))
	if err != nil {
		return BarType{}, err
	}

	source := AggregationSource(parts[n-1])
	if !source.valid() {
		return BarType{}, errors.Newf(errors.ErrCodeInvalidBarType, "invalid aggregation source %q", parts[n-1])
	}

	return NewBarType(instrumentID, spec, source), nil
}

// IsComposite reports whether the bar type is aggregated from another bar stream.
func (b BarType) IsComposite() bool {
	return b.compositeSpec != nil
}

// Standard returns the bar type without its composite part.
func (b BarType) Standard() BarType {
	return NewBarType(b.InstrumentID, b.Spec, b.Source)
}

// Composite returns the source bar type of a composite bar type. For standard bar types
// it returns the bar type itself.
func (b BarType) Composite() BarType {
	if b.compositeSpec == nil {
		return b
	}

	return NewBarType(b.InstrumentID, *b.compositeSpec, b.compositeSource)
}

func (b BarType) String() string {
	s := fmt.Sprintf("%s-%s-%s", b.InstrumentID, b.Spec, b.Source)
	if b.compositeSpec != nil {
		s += fmt.Sprintf("@%d-%s-%s", b.compositeSpec.Step, b.compositeSpec.Aggregation, b.compositeSource)
	}

	return s
}

// Equal compares bar types including the composite part.
func (b BarType) Equal(other BarType) bool {
	return b.String() == other.String()
}

// Bar is an OHLCV aggregate for one interval.
type Bar struct {
	BarType BarType
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  decimal.Decimal
	// TsEvent is when the bar interval closed.
	TsEvent time.Time
	// TsInit is when the bar was created in the system. Replay is ordered by TsInit.
	TsInit time.Time
}

// Validate checks that the bar prices are coherent.
func (b Bar) Validate() error {
	if b.High.LessThan(b.Open) || b.High.LessThan(b.Close) || b.High.LessThan(b.Low) {
		return errors.Newf(errors.ErrCodeInvalidBar, "high %s below open, low or close in bar %s", b.High, b.String())
	}

	if b.Low.GreaterThan(b.Open) || b.Low.GreaterThan(b.Close) {
		return errors.Newf(errors.ErrCodeInvalidBar, "low %s above open or close in bar %s", b.Low, b.String())
	}

	if b.Volume.IsNegative() {
		return errors.Newf(errors.ErrCodeInvalidBar, "negative volume in bar %s", b.String())
	}

	return nil
}

// DataType implements Data.
func (b Bar) DataType() string {
	return "Bar"
}

// Timestamp implements Data.
func (b Bar) Timestamp() time.Time {
	return b.TsEvent
}

func (b Bar) String() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%d", b.BarType, b.Open, b.High, b.Low, b.Close, b.Volume, b.TsEvent.UnixNano())
}
