package exposure

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/iwvelando/exposure-advice/pkg/mathutil"
)

// ErrInvalidPresets is wrapped by every error returned from Presets.Validate.
var ErrInvalidPresets = errors.New("invalid presets")

// Presets holds the ordered tables the advisor searches. Indices into these
// tables are the unit of search, so every table must be strictly ascending.
// Presets are treated as immutable once handed to an Advisor.
type Presets struct {
	EV      []ExposureValue
	Shutter []ShutterSpeed
	ISO     []ISOValue
}

var (
	defaultShutter = []ShutterSpeed{
		3, 4, 5, 6, 8, 10, 13, 15, 20, 25, 30, 40, 50, 60, 80, 100, 125, 160,
		200, 250, 320, 400, 500, 640, 800, 1000, 1250, 1600, 2000, 2500, 3200,
		4000, 5000, 6400, 8000,
	}
	defaultISO = []ISOValue{
		25, 32, 40, 50, 64, 80, 100, 125, 160, 200, 250, 320, 400, 500, 640,
		800, 1000, 1250, 1600,
	}
)

// DefaultEV returns the EV table from -3 to +3 stops in third stops.
func DefaultEV() []ExposureValue {
	evs := make([]ExposureValue, 0, 19)
	for n := -9; n <= 9; n++ {
		evs = append(evs, EVFromStops(float64(n)/3))
	}
	return evs
}

// DefaultShutter returns the shutter table from 1/3 to 1/8000 in third stops.
func DefaultShutter() []ShutterSpeed {
	return slices.Clone(defaultShutter)
}

// DefaultISO returns the ISO table from 25 to 1600 in third stops.
func DefaultISO() []ISOValue {
	return slices.Clone(defaultISO)
}

// DefaultPresets returns fresh copies of the default tables.
func DefaultPresets() Presets {
	return Presets{
		EV:      DefaultEV(),
		Shutter: DefaultShutter(),
		ISO:     DefaultISO(),
	}
}

// Validate checks that every table is non-empty and strictly ascending, that
// the EV table contains zero, and that shutter and ISO values are positive.
func (p Presets) Validate() error {
	if err := validateTable("ev", p.EV); err != nil {
		return err
	}
	if !slices.Contains(p.EV, 0) {
		return fmt.Errorf("%w: ev table has no zero entry", ErrInvalidPresets)
	}
	if err := validateTable("shutter", p.Shutter); err != nil {
		return err
	}
	if p.Shutter[0] <= 0 {
		return fmt.Errorf("%w: shutter values must be positive, got %d", ErrInvalidPresets, p.Shutter[0])
	}
	if err := validateTable("iso", p.ISO); err != nil {
		return err
	}
	if p.ISO[0] <= 0 {
		return fmt.Errorf("%w: iso values must be positive, got %d", ErrInvalidPresets, p.ISO[0])
	}
	return nil
}

func validateTable[T ~int](name string, table []T) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: %s table is empty", ErrInvalidPresets, name)
	}
	for i := 1; i < len(table); i++ {
		if table[i] <= table[i-1] {
			return fmt.Errorf("%w: %s table not strictly ascending at index %d (%d after %d)",
				ErrInvalidPresets, name, i, table[i], table[i-1])
		}
	}
	return nil
}

// ZeroEVIndex returns the index of the zero entry in the EV table, or 0 when
// the table has none.
func (p Presets) ZeroEVIndex() int {
	if idx := slices.Index(p.EV, 0); idx >= 0 {
		return idx
	}
	return 0
}

// EVIndex returns the index of the EV preset nearest to a metered offset in
// stops. Ties resolve toward zero. Offsets past either end of the table map to
// that end and NaN maps to zero EV. An empty table yields 0.
func (p Presets) EVIndex(offsetStops float64) int {
	if len(p.EV) == 0 {
		return 0
	}
	if math.IsNaN(offsetStops) {
		return p.ZeroEVIndex()
	}
	target := min(max(EVFromStops(offsetStops), p.EV[0]), p.EV[len(p.EV)-1])
	best := 0
	for i := 1; i < len(p.EV); i++ {
		d, bestD := mathutil.AbsInt(int(p.EV[i]-target)), mathutil.AbsInt(int(p.EV[best]-target))
		if d < bestD || (d == bestD && mathutil.AbsInt(int(p.EV[i])) < mathutil.AbsInt(int(p.EV[best]))) {
			best = i
		}
	}
	return best
}

// ShutterIndex returns the index of an exact shutter preset, or -1.
func (p Presets) ShutterIndex(s ShutterSpeed) int {
	return slices.Index(p.Shutter, s)
}

// ISOIndex returns the index of an exact ISO preset, or -1.
func (p Presets) ISOIndex(iso ISOValue) int {
	return slices.Index(p.ISO, iso)
}

// NearestShutter snaps an exposure time in seconds to the closest shutter
// preset, measured in stops. It returns false for an empty table or a
// non-positive exposure time.
func (p Presets) NearestShutter(seconds float64) (ShutterSpeed, bool) {
	if len(p.Shutter) == 0 || seconds <= 0 {
		return 0, false
	}
	reciprocal := 1 / seconds
	return p.Shutter[nearestLog2(p.Shutter, reciprocal)], true
}

// NearestISO snaps a sensor gain to the closest ISO preset, measured in stops.
func (p Presets) NearestISO(iso float64) (ISOValue, bool) {
	if len(p.ISO) == 0 || iso <= 0 {
		return 0, false
	}
	return p.ISO[nearestLog2(p.ISO, iso)], true
}

func nearestLog2[T ~int](table []T, value float64) int {
	target := math.Log2(value)
	best, bestD := 0, math.Inf(1)
	for i, v := range table {
		if v <= 0 {
			continue
		}
		if d := math.Abs(math.Log2(float64(v)) - target); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
