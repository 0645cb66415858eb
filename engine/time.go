package engine

import "math"

// RationalTime is a point in time as value at rate. It is a plain carrier;
// time algebra belongs to the engine.
type RationalTime struct {
	Value float64 `json:"value" yaml:"value"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

// Valid reports whether the value is finite and the rate positive and finite.
func (t RationalTime) Valid() bool {
	return finite(t.Value) && finite(t.Rate) && t.Rate > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TimeRange is a start time plus a duration.
type TimeRange struct {
	Start    RationalTime `json:"start_time" yaml:"start_time"`
	Duration RationalTime `json:"duration" yaml:"duration"`
}

// Valid reports whether both ends are valid and the duration is non-negative.
func (r TimeRange) Valid() bool {
	return r.Start.Valid() && r.Duration.Valid() && r.Duration.Value >= 0
}
