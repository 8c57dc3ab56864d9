package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-autocrop/internal/detection"
)

// CropResult contains the cropped image data
type CropResult struct {
	Box         detection.BoundingBox `json:"box"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	ImageBase64 string                `json:"image_base64"`
	MimeType    string                `json:"mime_type"`
}

// ClampBox intersects a box with the image bounds. Boxes grow one pixel past
// their region and may be widened by merging, so their far edges can lie
// outside the image.
func ClampBox(b detection.BoundingBox, bounds image.Rectangle) (image.Rectangle, error) {
	r := b.Rect().Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("box %v outside image bounds %v", b, bounds)
	}
	return r, nil
}

// Crop extracts the area covered by a box and returns it as a base64 PNG.
//
// The box is clamped to the image first. A scale other than 1 resizes the
// crop with Lanczos resampling; non-positive scales are ignored.
func Crop(img image.Image, box detection.BoundingBox, scale float64) (*CropResult, error) {
	r, err := ClampBox(box, img.Bounds())
	if err != nil {
		return nil, err
	}

	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Box:         box,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropPath returns the file name used for the i-th crop of an image whose
// path without extension is base.
func CropPath(base string, i int) string {
	return fmt.Sprintf("%s_crop_%d.png", base, i)
}

// SaveCrops writes one PNG per box next to base, numbered in box order, and
// returns the written paths.
//
// Boxes are clamped to the image. The first box that cannot be cropped or
// written stops the run; files already written are left in place.
func SaveCrops(img image.Image, boxes []detection.BoundingBox, base string) ([]string, error) {
	paths := make([]string, 0, len(boxes))
	for i, b := range boxes {
		r, err := ClampBox(b, img.Bounds())
		if err != nil {
			return paths, err
		}

		path := CropPath(base, i)
		if err := imaging.Save(imaging.Crop(img, r), path); err != nil {
			return paths, fmt.Errorf("failed to save crop %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
