// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/exposure-advice/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateWatchOutput rejects an explicit output format in watch mode, which
// always prints one line per reading.
func ValidateWatchOutput(watch bool, format string) error {
	if watch && format != "" {
		return fmt.Errorf("output format %s cannot be combined with watch mode", format)
	}
	return nil
}
