package summary

import (
	"math"
	"strconv"
)

// UnknownMarker is shown in place of a reading that has no data.
const UnknownMarker = "n/a"

// Reading is an optional telemetry value. Zero is a valid known value.
type Reading struct {
	value float64
	known bool
}

// Known wraps a measured value.
func Known(v float64) Reading { return Reading{value: v, known: true} }

// Unknown returns a reading without data.
func Unknown() Reading { return Reading{} }

// Value returns the measured value and whether it is known.
func (r Reading) Value() (float64, bool) { return r.value, r.known }

// IsKnown reports whether the reading carries data.
func (r Reading) IsKnown() bool { return r.known }

func (r Reading) String() string {
	if !r.known {
		return UnknownMarker
	}
	return strconv.FormatFloat(r.value, 'f', 2, 64)
}

// same compares bit patterns so NaN equals NaN.
func (r Reading) same(o Reading) bool {
	if r.known != o.known {
		return false
	}
	return !r.known || math.Float64bits(r.value) == math.Float64bits(o.value)
}
