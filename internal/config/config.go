// Package config defines the data structures related to configuration and
// includes functions for loading the config and converting it to presets.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"github.com/iwvelando/exposure-advice/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for exposure-advice.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Advisor AdvisorConfig `yaml:"advisor,omitempty"`
	Presets PresetsConfig `yaml:"presets,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// AdvisorConfig holds the user shift control and the recompute cadence.
type AdvisorConfig struct {
	Shift    int           `yaml:"shift"`
	ShiftMin int           `yaml:"shiftMin"`
	ShiftMax int           `yaml:"shiftMax"`
	Interval time.Duration `yaml:"interval"`
}

// PresetsConfig overrides the preset tables. An empty list keeps the default
// table for that axis. EV entries are in stops.
type PresetsConfig struct {
	EV      []float64 `yaml:"ev,omitempty"`
	Shutter []int     `yaml:"shutter,omitempty"`
	ISO     []int     `yaml:"iso,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("advisor.shift", constants.DefaultShift)
	v.SetDefault("advisor.shiftMin", constants.DefaultShiftMin)
	v.SetDefault("advisor.shiftMax", constants.DefaultShiftMax)
	v.SetDefault("advisor.interval", constants.DefaultInterval)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

// ResolvePath returns path unchanged when it is set. Otherwise it returns
// DefaultConfigFile inside dir if that file exists, or "" to select Default.
func ResolvePath(path, dir string) string {
	if path != "" {
		return path
	}
	candidate := filepath.Join(dir, constants.DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Advisor: AdvisorConfig{
			Shift:    constants.DefaultShift,
			ShiftMin: constants.DefaultShiftMin,
			ShiftMax: constants.DefaultShiftMax,
			Interval: constants.DefaultInterval,
		},
	}
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// BuildPresets converts the preset overrides into validated exposure presets.
func (c *Configuration) BuildPresets() (exposure.Presets, error) {
	presets := exposure.DefaultPresets()

	if len(c.Presets.EV) > 0 {
		presets.EV = make([]exposure.ExposureValue, 0, len(c.Presets.EV))
		for _, stops := range c.Presets.EV {
			presets.EV = append(presets.EV, exposure.EVFromStops(stops))
		}
	}
	if len(c.Presets.Shutter) > 0 {
		presets.Shutter = make([]exposure.ShutterSpeed, 0, len(c.Presets.Shutter))
		for _, s := range c.Presets.Shutter {
			presets.Shutter = append(presets.Shutter, exposure.ShutterSpeed(s))
		}
	}
	if len(c.Presets.ISO) > 0 {
		presets.ISO = make([]exposure.ISOValue, 0, len(c.Presets.ISO))
		for _, iso := range c.Presets.ISO {
			presets.ISO = append(presets.ISO, exposure.ISOValue(iso))
		}
	}

	if err := presets.Validate(); err != nil {
		return exposure.Presets{}, fmt.Errorf("failed to build presets: %w", err)
	}
	return presets, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings.
// Out-of-range advisor settings are reset to usable values.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := validation.ValidateShiftRange(c.Advisor.ShiftMin, c.Advisor.ShiftMax); err != nil {
		warnings = append(warnings, fmt.Sprintf("advisor %v, using [%d, %d]",
			err, constants.DefaultShiftMin, constants.DefaultShiftMax))
		c.Advisor.ShiftMin = constants.DefaultShiftMin
		c.Advisor.ShiftMax = constants.DefaultShiftMax
	}

	if shift, warning := validation.ClampShift(c.Advisor.Shift, c.Advisor.ShiftMin, c.Advisor.ShiftMax); warning != "" {
		warnings = append(warnings, "advisor default "+warning)
		c.Advisor.Shift = shift
	}

	if c.Advisor.Interval <= 0 {
		warnings = append(warnings, fmt.Sprintf("advisor interval %s is not positive, using %s",
			c.Advisor.Interval, constants.DefaultInterval))
		c.Advisor.Interval = constants.DefaultInterval
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	return warnings
}
