package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/image-autocrop/internal/detection"
)

// DefaultBoxColor is the stroke colour used when none or an invalid one is given.
const DefaultBoxColor = "#FF0000"

// OverlayResult contains the image with box outlines drawn over it
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BoxCount    int    `json:"box_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// DrawBoxes returns a copy of img with every box outlined and labeled with
// its index.
//
// colorHex accepts "#RRGGBB" or "#RGB". Anything else falls back to
// DefaultBoxColor. The source image is not modified.
func DrawBoxes(img image.Image, boxes []detection.BoundingBox, colorHex string) image.Image {
	stroke, err := colorful.Hex(colorHex)
	if err != nil {
		stroke, _ = colorful.Hex(DefaultBoxColor)
	}

	dc := gg.NewContextForImage(img)
	origin := img.Bounds().Min
	dc.SetRGB(stroke.R, stroke.G, stroke.B)
	dc.SetLineWidth(2)
	dc.SetFontFace(basicfont.Face7x13)

	for i, b := range boxes {
		// gg draws in context coordinates, which start at 0,0.
		x := float64(b.X1 - origin.X)
		y := float64(b.Y1 - origin.Y)
		dc.DrawRectangle(x, y, float64(b.Width()), float64(b.Height()))
		dc.Stroke()
		dc.DrawString(strconv.Itoa(i), x+3, y+13)
	}

	return dc.Image()
}

// OverlayPNG draws the boxes and returns the result as a base64 PNG.
func OverlayPNG(img image.Image, boxes []detection.BoundingBox, colorHex string) (*OverlayResult, error) {
	out := DrawBoxes(img, boxes, colorHex)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		BoxCount:    len(boxes),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// OverlayPath returns the file name of the overlay for an image whose path
// without extension is base.
func OverlayPath(base string) string {
	return base + "_boxes.png"
}

// SaveOverlay draws the boxes and writes the result next to base.
func SaveOverlay(img image.Image, boxes []detection.BoundingBox, colorHex, base string) (string, error) {
	path := OverlayPath(base)
	if err := gg.SavePNG(path, DrawBoxes(img, boxes, colorHex)); err != nil {
		return "", fmt.Errorf("failed to save overlay: %w", err)
	}
	return path, nil
}
