// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/exposure-advice/internal/exposure"
)

// SmallPresets returns a compact lattice of whole-stop shutter and ISO tables
// with an EV table from -1 to +1 in third stops.
func SmallPresets() exposure.Presets {
	return exposure.Presets{
		EV:      []exposure.ExposureValue{-1000, -667, -333, 0, 333, 667, 1000},
		Shutter: []exposure.ShutterSpeed{30, 60, 125, 250, 500, 1000, 2000},
		ISO:     []exposure.ISOValue{100, 200, 400, 800, 1600},
	}
}

// Advice is shorthand for building an exposure.ExposureAdvice.
func Advice(shutter, iso int) exposure.ExposureAdvice {
	return exposure.ExposureAdvice{Shutter: exposure.ShutterSpeed(shutter), ISO: exposure.ISOValue(iso)}
}

// IndexOf finds an advice in a list. Returns -1 if absent.
func IndexOf(advices []exposure.ExposureAdvice, target exposure.ExposureAdvice) int {
	for i := range advices {
		if advices[i] == target {
			return i
		}
	}
	return -1
}
