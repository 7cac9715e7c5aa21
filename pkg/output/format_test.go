package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/testutil"
)

func sampleResult() exposure.Result {
	advices := []exposure.ExposureAdvice{
		testutil.Advice(2000, 400),
		testutil.Advice(4000, 800),
		testutil.Advice(8000, 1600),
	}
	selected := advices[1]
	return exposure.Result{
		OffsetEV:    0.667,
		Step:        2,
		OverExposed: true,
		Shift:       0,
		Advices:     advices,
		Selected:    &selected,
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleResult()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "--- Metered +0.67 EV (overexposed, 2 third-stop steps, shift 0) ---") {
		t.Errorf("PrettyFormat missing header:\n%s", output)
	}
	if !strings.Contains(output, "1/8,000") {
		t.Errorf("PrettyFormat should group thousands in shutter speeds:\n%s", output)
	}
	if !strings.Contains(output, "1,600") {
		t.Errorf("PrettyFormat should group thousands in ISO:\n%s", output)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[4], "*") {
		t.Errorf("expected selected advice to be marked, got %q", lines[4])
	}
	if strings.HasPrefix(lines[3], "*") || strings.HasPrefix(lines[5], "*") {
		t.Errorf("only the selected advice should be marked:\n%s", output)
	}
}

func TestPrettyFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := exposure.Result{OffsetEV: -3, Step: 9, Clamped: true, Advices: []exposure.ExposureAdvice{}}
	if err := PrettyFormat(&buf, result); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "underexposed") {
		t.Errorf("expected underexposed direction:\n%s", output)
	}
	if !strings.Contains(output, "clamped") {
		t.Errorf("expected clamp notice:\n%s", output)
	}
	if !strings.Contains(output, "keeping current setting") {
		t.Errorf("expected hold notice:\n%s", output)
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleResult()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	expected := "index,shutter,exposure_time,iso,selected\n" +
		"0,1/2000,0.0005 s,400,false\n" +
		"1,1/4000,0.00025 s,800,true\n" +
		"2,1/8000,0.000125 s,1600,false\n"
	if buf.String() != expected {
		t.Errorf("CsvFormat() =\n%s\nexpected\n%s", buf.String(), expected)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleResult()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded exposure.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if decoded.Selected == nil || *decoded.Selected != testutil.Advice(4000, 800) {
		t.Errorf("unexpected selected advice %+v", decoded.Selected)
	}
	if len(decoded.Advices) != 3 || !decoded.OverExposed || decoded.Step != 2 {
		t.Errorf("unexpected decoded result %+v", decoded)
	}
}

func TestAppliedLine(t *testing.T) {
	var buf bytes.Buffer
	if err := AppliedLine(&buf, -0.333, testutil.Advice(8000, 1600), true); err != nil {
		t.Fatalf("AppliedLine() error = %v", err)
	}
	if got := buf.String(); got != "apply -0.33 EV -> 1/8,000 s ISO 1,600\n" {
		t.Errorf("AppliedLine() = %q", got)
	}

	buf.Reset()
	if err := AppliedLine(&buf, 0, testutil.Advice(125, 100), false); err != nil {
		t.Fatalf("AppliedLine() error = %v", err)
	}
	if got := buf.String(); got != "hold  0.00 EV -> 1/125 s ISO 100\n" {
		t.Errorf("AppliedLine() = %q", got)
	}
}
