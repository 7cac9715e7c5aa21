// Package meter drives the advisor from a periodic metering loop: read the
// metered offset, recompute advice, and apply the selection to a driver.
package meter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"go.uber.org/zap"
)

// Reading is one metering sample.
type Reading struct {
	OffsetEV float64
	Manual   exposure.ExposureAdvice
	Shift    int
}

// Meter supplies metering samples. Returning io.EOF stops the loop cleanly and
// a *TerminalError stops it with that error.
type Meter interface {
	Read(ctx context.Context) (Reading, error)
}

// TerminalError marks a meter failure after which no further reading can
// succeed.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return "meter stopped: " + e.Err.Error()
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// Driver applies an exposure setting to the camera.
type Driver interface {
	Apply(ctx context.Context, advice exposure.ExposureAdvice) error
}

// Outcome reports what one tick did.
type Outcome struct {
	Reading Reading
	Result  exposure.Result
	Applied bool
}

// Loop recomputes advice on a fixed interval. A Loop is not safe for
// concurrent use; Run owns it until it returns.
type Loop struct {
	logger   *zap.Logger
	advisor  *exposure.Advisor
	meter    Meter
	driver   Driver
	interval time.Duration
	observe  func(Outcome)

	last *exposure.ExposureAdvice
}

// NewLoop builds a metering loop. A non-positive interval uses the default.
func NewLoop(logger *zap.Logger, advisor *exposure.Advisor, m Meter, d Driver, interval time.Duration) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = constants.DefaultInterval
	}
	return &Loop{
		logger:   logger,
		advisor:  advisor,
		meter:    m,
		driver:   d,
		interval: interval,
	}
}

// OnTick registers a function called with every successful tick's outcome.
func (l *Loop) OnTick(fn func(Outcome)) {
	l.observe = fn
}

// Tick runs one recompute. When no advice exists, or the selection equals the
// last applied setting, the driver is not called.
func (l *Loop) Tick(ctx context.Context) (Outcome, error) {
	reading, err := l.meter.Read(ctx)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Reading: reading,
		Result:  l.advisor.Advise(reading.OffsetEV, reading.Manual, reading.Shift),
	}
	selected := outcome.Result.Selected

	switch {
	case selected == nil:
		l.logger.Debug("no exposure advice, holding current setting",
			zap.String("op", "meter.Tick"),
			zap.Float64("offsetEV", reading.OffsetEV),
		)
	case l.last != nil && *l.last == *selected:
	default:
		if err := l.driver.Apply(ctx, *selected); err != nil {
			return outcome, fmt.Errorf("failed to apply %s: %w", selected, err)
		}
		applied := *selected
		l.last = &applied
		outcome.Applied = true
		l.logger.Debug("applied exposure advice",
			zap.String("op", "meter.Tick"),
			zap.Float64("offsetEV", reading.OffsetEV),
			zap.Int("shutter", int(applied.Shutter)),
			zap.Int("iso", int(applied.ISO)),
		)
	}

	if l.observe != nil {
		l.observe(outcome)
	}
	return outcome, nil
}

// Run ticks immediately and then on every interval until the context ends,
// the meter reports io.EOF, or the meter returns a *TerminalError, which Run
// returns. Other meter and driver errors are logged and the loop keeps running.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if _, err := l.Tick(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var terminal *TerminalError
			if errors.As(err, &terminal) {
				return err
			}
			l.logger.Warn("metering tick failed",
				zap.String("op", "meter.Run"),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
