package exposure

import (
	"go.uber.org/zap"

	"github.com/iwvelando/exposure-advice/pkg/mathutil"
)

// Advisor computes program-exposure advice over a fixed set of presets. It
// holds no mutable state and is safe for concurrent use.
type Advisor struct {
	logger  *zap.Logger
	presets Presets
}

// Result is the outcome of one advice computation.
type Result struct {
	OffsetEV    float64          `json:"offsetEV"`
	Step        int              `json:"step"`
	OverExposed bool             `json:"overExposed"`
	Clamped     bool             `json:"clamped"`
	Shift       int              `json:"shift"`
	Advices     []ExposureAdvice `json:"advices"`
	Selected    *ExposureAdvice  `json:"selected"`
}

// NewAdvisor returns an Advisor searching the given presets.
func NewAdvisor(logger *zap.Logger, presets Presets) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{logger: logger, presets: presets}
}

// Presets returns the tables the advisor searches.
func (a *Advisor) Presets() Presets {
	return a.presets
}

// ComputeAdvices returns the exposure-equivalent (shutter, ISO) pairs that
// compensate the metered offset starting from the current manual setting.
// Consecutive entries move shutter and ISO up one preset each. The result is
// empty when no combination exists.
func (a *Advisor) ComputeAdvices(offsetEV float64, manual ExposureAdvice) []ExposureAdvice {
	advices, _ := a.compute(offsetEV, manual)
	return advices
}

// Advise computes the advices and picks one with the user shift.
func (a *Advisor) Advise(offsetEV float64, manual ExposureAdvice, shift int) Result {
	advices, w := a.compute(offsetEV, manual)
	result := Result{
		OffsetEV:    offsetEV,
		Step:        w.step,
		OverExposed: w.overExposed,
		Clamped:     w.clamped,
		Shift:       shift,
		Advices:     advices,
	}
	if selected, ok := PreferredAdvice(advices, shift); ok {
		result.Selected = &selected
	}
	return result
}

type walk struct {
	step        int
	overExposed bool
	clamped     bool
}

func (a *Advisor) compute(offsetEV float64, manual ExposureAdvice) ([]ExposureAdvice, walk) {
	p := a.presets
	w := walk{
		overExposed: offsetEV > 0,
		step:        mathutil.AbsInt(p.EVIndex(offsetEV) - p.ZeroEVIndex()),
	}

	shutterIndex := max(p.ShutterIndex(manual.Shutter), 0)
	isoIndex := max(p.ISOIndex(manual.ISO), 0)
	lastShutter, lastISO := len(p.Shutter)-1, len(p.ISO)-1

	for i := 0; i < w.step; i++ {
		if w.overExposed {
			if shutterIndex < lastShutter {
				shutterIndex++
			} else if isoIndex > 0 {
				isoIndex--
			} else {
				w.clamped = true
				break
			}
		} else {
			if shutterIndex > 0 {
				shutterIndex--
			} else if isoIndex < lastISO {
				isoIndex++
			} else {
				w.clamped = true
				break
			}
		}
	}
	if w.clamped {
		a.logger.Debug("compensation clamped at preset bounds",
			zap.String("op", "exposure.ComputeAdvices"),
			zap.Float64("offsetEV", offsetEV),
			zap.Int("step", w.step),
		)
	}

	k := min(shutterIndex, isoIndex)
	shutterIndex -= k
	isoIndex -= k

	n := min(len(p.Shutter)-shutterIndex, len(p.ISO)-isoIndex)
	advices := make([]ExposureAdvice, 0, max(n, 0))
	for i := 0; i < n; i++ {
		advices = append(advices, ExposureAdvice{
			Shutter: p.Shutter[shutterIndex+i],
			ISO:     p.ISO[isoIndex+i],
		})
	}
	return advices, w
}

// PreferredAdvice picks the middle advice shifted by the user preference.
// Positive shifts bias toward faster shutter and higher ISO. It returns false
// when there is nothing to pick, in which case the caller keeps its setting.
func PreferredAdvice(advices []ExposureAdvice, shift int) (ExposureAdvice, bool) {
	if len(advices) == 0 {
		return ExposureAdvice{}, false
	}
	return advices[mathutil.Clamp(len(advices)/2+shift, 0, len(advices)-1)], true
}
