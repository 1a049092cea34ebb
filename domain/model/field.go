package model

import "strings"

// ScaleType is the measurement type of an encoded field.
type ScaleType int

const (
	// ScaleQuantitative is the default scale type of a newly bound field
	ScaleQuantitative ScaleType = iota
	// ScaleNominal is an unordered categorical scale
	ScaleNominal
	// ScaleOrdinal is an ordered categorical scale
	ScaleOrdinal
	// ScaleTemporal is a date/time scale
	ScaleTemporal
)

var scaleTypeNames = map[ScaleType]string{
	ScaleQuantitative: "quantitative",
	ScaleNominal:      "nominal",
	ScaleOrdinal:      "ordinal",
	ScaleTemporal:     "temporal",
}

// String returns the Vega-Lite name of the scale type
func (s ScaleType) String() string {
	if name, ok := scaleTypeNames[s]; ok {
		return name
	}
	return scaleTypeNames[ScaleQuantitative]
}

// ParseScaleType matches a scale type name case-insensitively.
func ParseScaleType(s string) (ScaleType, bool) {
	lower := strings.ToLower(s)
	for scale, name := range scaleTypeNames {
		if name == lower {
			return scale, true
		}
	}
	return ScaleQuantitative, false
}

// Aggregate is a Vega-Lite reducer applied to an encoded field.
type Aggregate string

// Aggregate reducers
const (
	AggregateNone      Aggregate = ""
	AggregateArgmax    Aggregate = "argmax"
	AggregateArgmin    Aggregate = "argmin"
	AggregateAverage   Aggregate = "average"
	AggregateCount     Aggregate = "count"
	AggregateDistinct  Aggregate = "distinct"
	AggregateMax       Aggregate = "max"
	AggregateMean      Aggregate = "mean"
	AggregateMedian    Aggregate = "median"
	AggregateMin       Aggregate = "min"
	AggregateMissing   Aggregate = "missing"
	AggregateQ1        Aggregate = "q1"
	AggregateQ3        Aggregate = "q3"
	AggregateCI0       Aggregate = "ci0"
	AggregateCI1       Aggregate = "ci1"
	AggregateStderr    Aggregate = "stderr"
	AggregateStdev     Aggregate = "stdev"
	AggregateStdevp    Aggregate = "stdevp"
	AggregateSum       Aggregate = "sum"
	AggregateValid     Aggregate = "valid"
	AggregateValues    Aggregate = "values"
	AggregateVariance  Aggregate = "variance"
	AggregateVariancep Aggregate = "variancep"
)

// Aggregates lists every supported reducer.
var Aggregates = []Aggregate{
	AggregateArgmax, AggregateArgmin, AggregateAverage, AggregateCount,
	AggregateDistinct, AggregateMax, AggregateMean, AggregateMedian,
	AggregateMin, AggregateMissing, AggregateQ1, AggregateQ3,
	AggregateCI0, AggregateCI1, AggregateStderr, AggregateStdev,
	AggregateStdevp, AggregateSum, AggregateValid, AggregateValues,
	AggregateVariance, AggregateVariancep,
}

// ParseAggregate matches a reducer name case-insensitively.
func ParseAggregate(s string) (Aggregate, bool) {
	lower := Aggregate(strings.ToLower(s))
	for _, agg := range Aggregates {
		if agg == lower {
			return agg, true
		}
	}
	return AggregateNone, false
}

// TimeUnit truncates a temporal field.
type TimeUnit string

// Time units
const (
	TimeUnitNone         TimeUnit = ""
	TimeUnitYear         TimeUnit = "year"
	TimeUnitQuarter      TimeUnit = "quarter"
	TimeUnitMonth        TimeUnit = "month"
	TimeUnitDay          TimeUnit = "day"
	TimeUnitDate         TimeUnit = "date"
	TimeUnitHours        TimeUnit = "hours"
	TimeUnitMinutes      TimeUnit = "minutes"
	TimeUnitSeconds      TimeUnit = "seconds"
	TimeUnitMilliseconds TimeUnit = "milliseconds"
)

// TimeUnits lists every supported truncation.
var TimeUnits = []TimeUnit{
	TimeUnitYear, TimeUnitQuarter, TimeUnitMonth, TimeUnitDay, TimeUnitDate,
	TimeUnitHours, TimeUnitMinutes, TimeUnitSeconds, TimeUnitMilliseconds,
}

// ParseTimeUnit matches a time unit name case-insensitively.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	lower := TimeUnit(strings.ToLower(s))
	for _, unit := range TimeUnits {
		if unit == lower {
			return unit, true
		}
	}
	return TimeUnitNone, false
}

// BinSpec is a binning rule. Nil fields are left to the renderer's defaults.
type BinSpec struct {
	Anchor  *float64
	Base    *float64
	Binned  *bool
	MaxBins *int
	MinStep *float64
	Nice    *bool
	Step    *float64
}

// FieldSpec binds a data column to an axis.
type FieldSpec struct {
	Field string
	Type  ScaleType
	// Bin and BinFlag are mutually exclusive; the last one set wins.
	Bin       *BinSpec
	BinFlag   *bool
	Aggregate Aggregate
	TimeUnit  TimeUnit
}

// NewFieldSpec binds name with the default quantitative scale.
func NewFieldSpec(name string) *FieldSpec {
	return &FieldSpec{
		Field: name,
		Type:  ScaleQuantitative,
	}
}

// SetBinFlag enables or disables default binning.
func (f *FieldSpec) SetBinFlag(enabled bool) {
	f.BinFlag = &enabled
	f.Bin = nil
}

// SetBin attaches an explicit binning rule.
func (f *FieldSpec) SetBin(bin *BinSpec) {
	f.Bin = bin
	f.BinFlag = nil
}
