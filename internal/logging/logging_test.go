package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/exposure-advice/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		expected  zapcore.Level
		expectErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParseLevel(%s) error = %v, expectErr %v", tt.input, err, tt.expectErr)
			}
			if level != tt.expected {
				t.Errorf("ParseLevel(%s) = %v, expected %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantLevel zapcore.Level
		expectErr bool
	}{
		{"Defaults", config.LoggingConfig{}, "", zapcore.InfoLevel, false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", zapcore.DebugLevel, false},
		{"Override wins", config.LoggingConfig{Level: "debug"}, "error", zapcore.ErrorLevel, false},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", zapcore.InfoLevel, true},
		{"Invalid level", config.LoggingConfig{Level: "loud"}, "", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Fatal("NewLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level %v to be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestNewLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "advice.log")

	logger, err := NewLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}
