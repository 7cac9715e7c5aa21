// Package output provides utilities for formatting and displaying exposure advice.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable advice table. The selected advice is
// marked with an asterisk. Shutter denominators and ISO values are grouped with
// thousands separators ("1/8,000"); CsvFormat and JSONFormat keep plain digits
// so their output stays machine-readable.
func PrettyFormat(w io.Writer, result exposure.Result) error {
	p := message.NewPrinter(language.English)
	direction := "underexposed"
	switch {
	case result.Step == 0:
		direction = "on target"
	case result.OverExposed:
		direction = "overexposed"
	}

	header := fmt.Sprintf("--- Metered %s (%s, %d third-stop steps, shift %s) ---\n",
		format.EV(int(exposure.EVFromStops(result.OffsetEV))), direction, result.Step, format.Shift(result.Shift))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if result.Clamped {
		if _, err := io.WriteString(w, "compensation clamped at preset bounds\n"); err != nil {
			return err
		}
	}
	if len(result.Advices) == 0 {
		_, err := io.WriteString(w, "no exposure advice available, keeping current setting\n")
		return err
	}

	if _, err := fmt.Fprintf(w, "  #  | Shutter  | Time       | ISO\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  _  | _______  | ____       | ___\n"); err != nil {
		return err
	}
	for i, advice := range result.Advices {
		mark := " "
		if result.Selected != nil && *result.Selected == advice {
			mark = "*"
		}
		if _, err := p.Fprintf(w, "%s%3d | %-8s | %-10s | %d\n",
			mark, i, p.Sprintf("1/%d", int(advice.Shutter)), format.ExposureTime(int(advice.Shutter)), int(advice.ISO)); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat writes the advice list in comma-separated value format.
func CsvFormat(w io.Writer, result exposure.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "shutter", "exposure_time", "iso", "selected"}); err != nil {
		return err
	}
	for i, advice := range result.Advices {
		selected := result.Selected != nil && *result.Selected == advice
		if err := cw.Write([]string{
			strconv.Itoa(i),
			advice.Shutter.String(),
			format.ExposureTime(int(advice.Shutter)),
			strconv.Itoa(int(advice.ISO)),
			strconv.FormatBool(selected),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat writes the full result as indented JSON.
func JSONFormat(w io.Writer, result exposure.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// AppliedLine writes one line describing an applied or held setting, as
// printed by watch mode.
func AppliedLine(w io.Writer, offsetEV float64, advice exposure.ExposureAdvice, applied bool) error {
	p := message.NewPrinter(language.English)
	state := "hold"
	if applied {
		state = "apply"
	}
	_, err := p.Fprintf(w, "%-5s %s -> 1/%d s ISO %d\n",
		state, format.EV(int(exposure.EVFromStops(offsetEV))), int(advice.Shutter), int(advice.ISO))
	return err
}
