// Package config holds the settings shared by the batch driver, the CLI and
// the MCP server.
//
// Settings come from Default, optionally overlaid by a YAML file through
// Load, and finally by command-line flags in cmd/autocrop. Validate reports
// every problem wrapped in ErrInvalidConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config controls one autocrop run.
type Config struct {
	// InputDir is the directory whose images are cropped.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives crops and overlays. Empty means next to each input.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Invert flips images with light content on a dark background.
	Invert bool `yaml:"invert"`

	// Level is the gray value at or above which a pixel counts as paper.
	Level int `yaml:"level"`

	// SmoothRadius is the width of the box blur applied to the mask.
	SmoothRadius int `yaml:"smooth_radius"`

	// Threshold is the blurred mask value a pixel must exceed to be foreground.
	Threshold float64 `yaml:"threshold"`

	// RadiusScale multiplies each box's taxicab diagonal when merging.
	RadiusScale float64 `yaml:"radius_scale"`

	// MinWidth and MinHeight are exclusive lower bounds on saved crops.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`

	// Workers is the number of images processed at once.
	Workers int `yaml:"workers"`

	// Overlay writes a <name>_boxes.png with every saved box outlined.
	Overlay bool `yaml:"overlay"`

	// OverlayColor is the outline colour as "#RRGGBB".
	OverlayColor string `yaml:"overlay_color"`

	// Manifest is the path of the YAML manifest. Empty disables it.
	Manifest string `yaml:"manifest,omitempty"`

	// Verbose logs every box found, not just one line per image.
	Verbose bool `yaml:"verbose"`
}

// Default returns the settings the cropper was tuned with: a 20 pixel blur,
// activation above 25, and crops larger than 50x50.
func Default() Config {
	return Config{
		Level:        201,
		SmoothRadius: 20,
		Threshold:    25,
		RadiusScale:  1.0,
		MinWidth:     50,
		MinHeight:    50,
		Workers:      runtime.NumCPU(),
		OverlayColor: "#FF0000",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg as YAML.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every field is usable. All problems are reported
// together.
func (c Config) Validate() error {
	var errs []error
	if c.InputDir == "" {
		errs = append(errs, errors.New("input_dir is required"))
	}
	if c.Level < 1 || c.Level > 255 {
		errs = append(errs, fmt.Errorf("level %d outside 1..255", c.Level))
	}
	if c.SmoothRadius < 1 {
		errs = append(errs, fmt.Errorf("smooth_radius %d must be at least 1", c.SmoothRadius))
	}
	if c.Threshold < 0 {
		errs = append(errs, fmt.Errorf("threshold %v must not be negative", c.Threshold))
	}
	if c.RadiusScale <= 0 {
		errs = append(errs, fmt.Errorf("radius_scale %v must be positive", c.RadiusScale))
	}
	if c.MinWidth < 0 || c.MinHeight < 0 {
		errs = append(errs, fmt.Errorf("min size %dx%d must not be negative", c.MinWidth, c.MinHeight))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Workers))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
