// Package format renders exposure quantities for display.
package format

import (
	"fmt"
	"strconv"
)

// EV returns a signed stop string for a value in thousandths of a stop (e.g., "+0.33 EV").
func EV(thousandths int) string {
	if thousandths == 0 {
		return "0.00 EV"
	}
	return fmt.Sprintf("%+.2f EV", float64(thousandths)/1000)
}

// ExposureTime returns the exposure time of a reciprocal-second shutter speed
// in seconds with three significant digits (e.g., "0.008 s").
func ExposureTime(denominator int) string {
	if denominator <= 0 {
		return "-"
	}
	return strconv.FormatFloat(1/float64(denominator), 'g', 3, 64) + " s"
}

// Shift returns a user shift with an explicit sign for non-zero values.
func Shift(shift int) string {
	if shift == 0 {
		return "0"
	}
	return fmt.Sprintf("%+d", shift)
}
