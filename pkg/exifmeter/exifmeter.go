// Package exifmeter reads the exposure setting of a reference photo and snaps
// it onto the preset lattice, so a shot can seed the manual exposure.
package exifmeter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/iwvelando/exposure-advice/internal/exposure"
)

// ErrNoExposure is returned when a photo carries no usable exposure tags.
var ErrNoExposure = errors.New("no exposure metadata")

var (
	exposureTimeKeys = []string{"ExposureTime", "ShutterSpeed", "ShutterSpeedValue"}
	isoKeys          = []string{"ISO", "ISOSpeedRatings", "RecommendedExposureIndex"}
)

// FromMetadata converts extracted EXIF fields to the nearest preset setting.
func FromMetadata(fm exiftool.FileMetadata, presets exposure.Presets) (exposure.ExposureAdvice, error) {
	if fm.Err != nil {
		return exposure.ExposureAdvice{}, fmt.Errorf("metadata for %s: %w", fm.File, fm.Err)
	}

	seconds, err := firstExposureTime(fm)
	if err != nil {
		return exposure.ExposureAdvice{}, err
	}
	iso, err := firstFloat(fm, isoKeys)
	if err != nil {
		return exposure.ExposureAdvice{}, err
	}

	shutter, ok := presets.NearestShutter(seconds)
	if !ok {
		return exposure.ExposureAdvice{}, fmt.Errorf("%w: exposure time %v does not map to a shutter preset", ErrNoExposure, seconds)
	}
	isoValue, ok := presets.NearestISO(iso)
	if !ok {
		return exposure.ExposureAdvice{}, fmt.Errorf("%w: iso %v does not map to an iso preset", ErrNoExposure, iso)
	}
	return exposure.ExposureAdvice{Shutter: shutter, ISO: isoValue}, nil
}

func firstExposureTime(fm exiftool.FileMetadata) (float64, error) {
	for _, key := range exposureTimeKeys {
		raw, err := fm.GetString(key)
		if err != nil {
			continue
		}
		if seconds, err := ParseExposureTime(raw); err == nil {
			return seconds, nil
		}
	}
	return 0, fmt.Errorf("%w: missing exposure time in %s", ErrNoExposure, fm.File)
}

func firstFloat(fm exiftool.FileMetadata, keys []string) (float64, error) {
	for _, key := range keys {
		if v, err := fm.GetFloat(key); err == nil && v > 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: missing %s in %s", ErrNoExposure, keys[0], fm.File)
}

// ParseExposureTime parses exiftool exposure times such as "1/125", "0.004",
// "2" or `1.3"` into seconds.
func ParseExposureTime(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimSpace(strings.TrimSuffix(s, "s"))
	if s == "" {
		return 0, fmt.Errorf("empty exposure time")
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid exposure time %q: %w", raw, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid exposure time %q: %w", raw, err)
		}
		if n <= 0 || d <= 0 {
			return 0, fmt.Errorf("invalid exposure time %q", raw)
		}
		return n / d, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid exposure time %q: %w", raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid exposure time %q", raw)
	}
	return v, nil
}

// Reader extracts exposure settings from image files with exiftool.
type Reader struct {
	et      *exiftool.Exiftool
	presets exposure.Presets
}

// NewReader starts an exiftool process. Close must be called when done.
func NewReader(presets exposure.Presets) (*Reader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool failed: %w", err)
	}
	return &Reader{et: et, presets: presets}, nil
}

// ReadFile returns the preset setting nearest to the one recorded in path.
func (r *Reader) ReadFile(path string) (exposure.ExposureAdvice, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return exposure.ExposureAdvice{}, fmt.Errorf("%w: exiftool returned nothing for %s", ErrNoExposure, path)
	}
	return FromMetadata(fis[0], r.presets)
}

// Close stops the exiftool process.
func (r *Reader) Close() error {
	return r.et.Close()
}
