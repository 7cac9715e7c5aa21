package validation

import (
	"fmt"

	"github.com/iwvelando/exposure-advice/pkg/mathutil"
)

// ValidateShiftRange checks that a shift range is not inverted.
func ValidateShiftRange(shiftMin, shiftMax int) error {
	if shiftMin > shiftMax {
		return fmt.Errorf("shift range inverted (%d > %d)", shiftMin, shiftMax)
	}
	return nil
}

// ClampShift bounds a user shift to the control range. The warning is empty
// when the shift was already in range.
func ClampShift(shift, shiftMin, shiftMax int) (int, string) {
	clamped := mathutil.Clamp(shift, shiftMin, shiftMax)
	if clamped != shift {
		return clamped, fmt.Sprintf("shift %d outside range [%d, %d], using %d", shift, shiftMin, shiftMax, clamped)
	}
	return clamped, ""
}
