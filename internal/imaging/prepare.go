package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/image-autocrop/internal/detection"
)

// DefaultLevel is the threshold level used by Prepare: gray values of 201
// and above count as paper.
const DefaultLevel = 201

// PrepareOptions controls how a photo or scan is turned into a detection mask.
type PrepareOptions struct {
	// Invert flips the grayscale image before thresholding, for content that
	// is lighter than its background.
	Invert bool

	// Level is the gray value at or above which a pixel is treated as
	// background. Zero means DefaultLevel.
	Level uint8
}

// Prepare converts img into a mask whose foreground is the dark content of
// the page.
//
// The image is converted to grayscale, optionally inverted, and thresholded
// at Level. Pixels at or above Level become 0 in the mask and all others
// become 255, so the mask is ready for detection.RegionExtractor with an
// activation threshold anywhere below 255.
func Prepare(img image.Image, opts PrepareOptions) *detection.Mask {
	level := opts.Level
	if level == 0 {
		level = DefaultLevel
	}

	var gray image.Image = effect.Grayscale(img)
	if opts.Invert {
		gray = effect.Invert(gray)
	}

	binary := segment.Threshold(gray, level)

	mask := detection.MaskFromGray(binary)
	for i, v := range mask.Pix {
		mask.Pix[i] = 255 - v
	}
	return mask
}
