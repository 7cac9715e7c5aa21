package validation

import (
	"fmt"
	"math"
)

// ValidateOffset checks that a metered offset in EV is a finite number.
func ValidateOffset(offsetEV float64) error {
	if math.IsNaN(offsetEV) || math.IsInf(offsetEV, 0) {
		return fmt.Errorf("offset %v is not a finite number", offsetEV)
	}
	return nil
}
