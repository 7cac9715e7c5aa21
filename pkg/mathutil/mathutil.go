// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/exposure-advice/pkg/constants"
)

// AbsInt returns the absolute value of an int.
func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Clamp bounds v to the closed range [lo, hi]. When the range is inverted lo
// wins.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// RoundStops rounds a value in stops to the display precision (hundredths).
func RoundStops(val float64) float64 {
	return math.Round(val*constants.StopsPrecision) / constants.StopsPrecision
}
