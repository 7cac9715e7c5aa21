// Package exposure defines the discrete exposure lattice (EV, shutter speed and
// ISO presets) and the program-exposure advisor that searches it.
package exposure

import (
	"fmt"
	"math"
	"time"
)

// ExposureValue is an exposure deviation in thousandths of a stop.
type ExposureValue int

// maxStops keeps converted values inside a 32-bit int on every platform.
const maxStops = math.MaxInt32 / 1000

// EVFromStops converts a deviation in stops to an ExposureValue, rounding to
// the nearest thousandth. Values beyond the representable range saturate,
// including the infinities, and NaN converts to zero.
func EVFromStops(stops float64) ExposureValue {
	if math.IsNaN(stops) {
		return 0
	}
	return ExposureValue(math.Round(math.Max(-maxStops, math.Min(maxStops, stops)) * 1000))
}

// Stops returns the value in stops.
func (v ExposureValue) Stops() float64 {
	return float64(v) / 1000
}

func (v ExposureValue) String() string {
	return fmt.Sprintf("%+.2f EV", v.Stops())
}

// ShutterSpeed is a reciprocal-second exposure time: 125 means 1/125 s.
type ShutterSpeed int

// Duration returns the exposure time of the shutter speed.
func (s ShutterSpeed) Duration() time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Second / time.Duration(s)
}

func (s ShutterSpeed) String() string {
	return fmt.Sprintf("1/%d", int(s))
}

// ISOValue is a sensor gain.
type ISOValue int

func (i ISOValue) String() string {
	return fmt.Sprintf("ISO %d", int(i))
}

// ExposureAdvice is a candidate (shutter, ISO) setting.
type ExposureAdvice struct {
	Shutter ShutterSpeed `json:"shutter"`
	ISO     ISOValue     `json:"iso"`
}

func (a ExposureAdvice) String() string {
	return fmt.Sprintf("%s s @ %s", a.Shutter, a.ISO)
}
