package autocrop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-autocrop/internal/detection"
)

// Manifest records the outcome of a batch run.
type Manifest struct {
	InputDir string       `yaml:"input_dir"`
	Images   []ImageEntry `yaml:"images"`
	Skipped  []Skipped    `yaml:"skipped,omitempty"`
}

// ImageEntry describes one processed image.
type ImageEntry struct {
	Path    string                  `yaml:"path" json:"path"`
	Width   int                     `yaml:"width" json:"width"`
	Height  int                     `yaml:"height" json:"height"`
	Regions int                     `yaml:"regions" json:"regions"`
	Boxes   []detection.BoundingBox `yaml:"boxes" json:"boxes"`
	Crops   []Crop                  `yaml:"crops" json:"crops"`
	Overlay string                  `yaml:"overlay,omitempty" json:"overlay,omitempty"`
}

// Crop is one saved crop.
type Crop struct {
	Path string                `yaml:"path" json:"path"`
	Box  detection.BoundingBox `yaml:"box" json:"box"`
}

// Skipped is an input file that could not be processed.
type Skipped struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// CropCount returns the number of crops written across all images.
func (m *Manifest) CropCount() int {
	n := 0
	for _, img := range m.Images {
		n += len(img.Crops)
	}
	return n
}

// WriteManifest writes a manifest to a YAML file
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ReadManifest reads a manifest from a YAML file
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return &m, nil
}
