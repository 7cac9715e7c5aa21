// Package server serves exposure advice over HTTP.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/exposure-advice/internal/config"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxBodySize     string               `yaml:"maxBodySize"`
	ShutdownTimeout time.Duration        `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`
	// AdvisorConfig is resolved relative to the server config file.
	AdvisorConfig string `yaml:"config"`
	bodySizeBytes int64
}

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxBodySize:     strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		ShutdownTimeout: constants.DefaultShutdownTimeout,
		bodySizeBytes:   constants.DefaultMaxBodySizeBytes,
	}
}

// LoadConfig reads the server configuration from YAML. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.normalize(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return cfg, nil
}

// BodySizeBytes returns the request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the request body limit. Non-positive sizes are
// ignored.
func (c *Config) SetBodySizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.bodySizeBytes = size
	c.MaxBodySize = strconv.FormatInt(size, 10)
}

func (c *Config) normalize(baseDir string) error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if c.AdvisorConfig != "" && !filepath.IsAbs(c.AdvisorConfig) && baseDir != "" {
		c.AdvisorConfig = filepath.Join(baseDir, c.AdvisorConfig)
	}

	size, err := ParseSize(c.MaxBodySize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = size
	c.MaxBodySize = strconv.FormatInt(size, 10)
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count with an optional K, M or G suffix (e.g.
// "64K", "2MB") into bytes. An empty string yields the default body limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	unit := strings.TrimSpace(trimmed[len(digits):])
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
