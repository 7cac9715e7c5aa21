// Package constants provides shared constants for the exposure-advice application.
package constants

import "time"

// Exposure constants
const (
	// StopsPrecision is the precision for displaying stops (2 decimal places)
	StopsPrecision = 100

	// DefaultShift is the default user preference shift
	DefaultShift = 0

	// DefaultShiftMin is the lowest shift the UI control offers
	DefaultShiftMin = -4

	// DefaultShiftMax is the highest shift the UI control offers
	DefaultShiftMax = 4

	// DefaultInterval is the default recompute cadence of the metering loop
	DefaultInterval = 500 * time.Millisecond
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the advice API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the advice API
	DefaultShutdownTimeout = 5 * time.Second

	// RequestIDHeader carries the per-request id on every API response
	RequestIDHeader = "X-Request-Id"
)
