// Package autocrop runs the full cropping pipeline over single images and
// whole directories.
//
// For each image the pipeline is:
//
//	imaging.Prepare -> RegionExtractor.Extract -> BuildBoxes -> OverlapMerger.Merge -> SelectCrops
//
// Run processes a directory with a bounded pool of workers, skips files that
// do not decode, and records what it wrote in a YAML Manifest.
package autocrop

import (
	"image"
	"slices"

	"github.com/ironsheep/image-autocrop/internal/config"
	"github.com/ironsheep/image-autocrop/internal/detection"
	"github.com/ironsheep/image-autocrop/internal/imaging"
)

// Options are the detection settings for one image.
type Options struct {
	Invert       bool
	Level        uint8
	SmoothRadius int
	Threshold    float64
	RadiusScale  float64
}

// DefaultOptions matches config.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts the detection settings from a run config.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Invert:       cfg.Invert,
		Level:        uint8(min(max(cfg.Level, 0), 255)),
		SmoothRadius: cfg.SmoothRadius,
		Threshold:    cfg.Threshold,
		RadiusScale:  cfg.RadiusScale,
	}
}

// Detection holds every intermediate result for one image.
type Detection struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Regions are the connected-component extents, in label order.
	Regions []image.Rectangle `json:"-"`

	// Boxes are the regions as bounding boxes, before merging.
	Boxes []detection.BoundingBox `json:"boxes"`

	// Merged are the boxes after overlap merging.
	Merged []detection.BoundingBox `json:"merged"`
}

// Detect runs preprocessing, region extraction, box building and merging on
// img.
func Detect(img image.Image, opts Options) *Detection {
	mask := imaging.Prepare(img, imaging.PrepareOptions{Invert: opts.Invert, Level: opts.Level})

	extractor := &detection.RegionExtractor{SmoothRadius: opts.SmoothRadius, Threshold: opts.Threshold}
	regions := extractor.Extract(mask)

	boxes := slices.Collect(detection.BuildBoxes(regions))
	merger := &detection.OverlapMerger{RadiusScale: opts.RadiusScale}

	return &Detection{
		Width:   mask.Width,
		Height:  mask.Height,
		Regions: regions,
		Boxes:   boxes,
		Merged:  merger.Merge(slices.Values(boxes)),
	}
}

// SelectCrops picks the boxes worth saving: those strictly wider than
// minWidth and taller than minHeight, skipping any box whose left edge
// matches one already picked. Order is preserved.
func SelectCrops(boxes []detection.BoundingBox, minWidth, minHeight int) []detection.BoundingBox {
	picked := make([]detection.BoundingBox, 0, len(boxes))
	usedX1 := make(map[int]bool)

	for _, b := range boxes {
		if b.Width() <= minWidth || b.Height() <= minHeight || usedX1[b.X1] {
			continue
		}
		usedX1[b.X1] = true
		picked = append(picked, b)
	}

	return picked
}
