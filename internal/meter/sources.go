package meter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/validation"
)

// ManualSource reports the camera's current manual setting.
type ManualSource interface {
	Current() exposure.ExposureAdvice
}

// LineMeter reads one metered offset per line in the form "<offsetEV> [shift]".
// Blank lines and lines starting with '#' are skipped. A read failure of the
// underlying reader, including a line longer than bufio.MaxScanTokenSize, is a
// *TerminalError. Read blocks on the underlying reader and does not observe
// context cancellation mid-line.
type LineMeter struct {
	scanner *bufio.Scanner
	source  ManualSource
	shift   int
	line    int
}

// NewLineMeter reads offsets from r. The manual setting of each reading comes
// from source, and lines without a shift use the given default.
func NewLineMeter(r io.Reader, source ManualSource, shift int) *LineMeter {
	return &LineMeter{scanner: bufio.NewScanner(r), source: source, shift: shift}
}

// Read returns the next reading, or io.EOF when the input is exhausted.
func (m *LineMeter) Read(ctx context.Context) (Reading, error) {
	for m.scanner.Scan() {
		m.line++
		if err := ctx.Err(); err != nil {
			return Reading{}, err
		}
		text := strings.TrimSpace(m.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) > 2 {
			return Reading{}, fmt.Errorf("line %d: expected \"<offsetEV> [shift]\", got %q", m.line, text)
		}
		offset, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Reading{}, fmt.Errorf("line %d: invalid offset %q: %w", m.line, fields[0], err)
		}
		if err := validation.ValidateOffset(offset); err != nil {
			return Reading{}, fmt.Errorf("line %d: %w", m.line, err)
		}
		shift := m.shift
		if len(fields) == 2 {
			if shift, err = strconv.Atoi(fields[1]); err != nil {
				return Reading{}, fmt.Errorf("line %d: invalid shift %q: %w", m.line, fields[1], err)
			}
		}

		return Reading{OffsetEV: offset, Manual: m.source.Current(), Shift: shift}, nil
	}
	if err := m.scanner.Err(); err != nil {
		return Reading{}, &TerminalError{Err: fmt.Errorf("line %d: %w", m.line+1, err)}
	}
	return Reading{}, io.EOF
}

// SettingsDriver keeps the current manual setting in memory, standing in for
// the camera. It is safe for concurrent use.
type SettingsDriver struct {
	mu       sync.Mutex
	current  exposure.ExposureAdvice
	onChange func(exposure.ExposureAdvice)
}

// NewSettingsDriver starts from an initial setting. onChange may be nil.
func NewSettingsDriver(initial exposure.ExposureAdvice, onChange func(exposure.ExposureAdvice)) *SettingsDriver {
	return &SettingsDriver{current: initial, onChange: onChange}
}

// Apply records the new setting.
func (d *SettingsDriver) Apply(_ context.Context, advice exposure.ExposureAdvice) error {
	d.mu.Lock()
	d.current = advice
	d.mu.Unlock()
	if d.onChange != nil {
		d.onChange(advice)
	}
	return nil
}

// Current returns the last applied setting.
func (d *SettingsDriver) Current() exposure.ExposureAdvice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}
