package autocrop

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/ironsheep/image-autocrop/internal/detection"
)

// createPage returns a white page with each rectangle filled black.
func createPage(width, height int, rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// Two photos and a speck of dust on a scanned page.
var (
	photoA = image.Rect(20, 20, 120, 100)
	speck  = image.Rect(300, 30, 310, 40)
	photoB = image.Rect(200, 150, 350, 280)
)

func scannedPage() *image.RGBA {
	return createPage(400, 300, photoA, speck, photoB)
}

func contains(b detection.BoundingBox, r image.Rectangle) bool {
	return r.In(b.Rect())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	want := Options{Level: 201, SmoothRadius: 20, Threshold: 25, RadiusScale: 1}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestDetect(t *testing.T) {
	det := Detect(scannedPage(), DefaultOptions())

	if det.Width != 400 || det.Height != 300 {
		t.Errorf("size: got %dx%d, want 400x300", det.Width, det.Height)
	}
	if len(det.Regions) != 3 || len(det.Boxes) != 3 {
		t.Fatalf("got %d regions and %d boxes, want 3 each", len(det.Regions), len(det.Boxes))
	}
	if len(det.Merged) != 3 {
		t.Fatalf("got %d merged boxes, want 3: %v", len(det.Merged), det.Merged)
	}

	// Label order follows the first row each region reaches.
	for i, r := range []image.Rectangle{photoA, speck, photoB} {
		if !contains(det.Merged[i], r) {
			t.Errorf("box %d %v does not contain %v", i, det.Merged[i], r)
		}
	}

	// Blurring spreads each region by less than half the window.
	if got := det.Merged[0]; got.X1 < photoA.Min.X-10 || got.X2 > photoA.Max.X+11 {
		t.Errorf("box 0 %v grew too far past %v", got, photoA)
	}
}

func TestDetect_MergesAdjacentRegions(t *testing.T) {
	// A bar and a dot one blank column apart are separate regions whose
	// boxes touch.
	img := createPage(40, 50, image.Rect(10, 10, 13, 40), image.Rect(14, 10, 15, 11))
	opts := Options{Level: 201, SmoothRadius: 1, Threshold: 25, RadiusScale: 1}

	det := Detect(img, opts)

	want := []detection.BoundingBox{{X1: 10, Y1: 10, X2: 14, Y2: 41}, {X1: 14, Y1: 10, X2: 16, Y2: 12}}
	if !slices.Equal(det.Boxes, want) {
		t.Fatalf("boxes: got %v, want %v", det.Boxes, want)
	}
	if !slices.Equal(det.Merged, []detection.BoundingBox{{X1: 10, Y1: 10, X2: 16, Y2: 41}}) {
		t.Errorf("merged: got %v", det.Merged)
	}
}

func TestDetect_BlankPage(t *testing.T) {
	det := Detect(createPage(50, 50), DefaultOptions())
	if len(det.Regions) != 0 || len(det.Merged) != 0 {
		t.Errorf("blank page: got %d regions, %d boxes", len(det.Regions), len(det.Merged))
	}
}

func TestSelectCrops(t *testing.T) {
	tests := []struct {
		name  string
		boxes []detection.BoundingBox
		want  []detection.BoundingBox
	}{
		{
			name:  "empty",
			boxes: nil,
			want:  []detection.BoundingBox{},
		},
		{
			name:  "size bounds are exclusive",
			boxes: []detection.BoundingBox{{X1: 0, Y1: 0, X2: 50, Y2: 100}, {X1: 0, Y1: 0, X2: 100, Y2: 50}, {X1: 0, Y1: 0, X2: 51, Y2: 51}},
			want:  []detection.BoundingBox{{X1: 0, Y1: 0, X2: 51, Y2: 51}},
		},
		{
			name:  "repeated left edge is skipped",
			boxes: []detection.BoundingBox{{X1: 10, Y1: 0, X2: 100, Y2: 100}, {X1: 10, Y1: 200, X2: 90, Y2: 300}, {X1: 20, Y1: 200, X2: 90, Y2: 300}},
			want:  []detection.BoundingBox{{X1: 10, Y1: 0, X2: 100, Y2: 100}, {X1: 20, Y1: 200, X2: 90, Y2: 300}},
		},
		{
			name:  "rejected box does not claim its left edge",
			boxes: []detection.BoundingBox{{X1: 10, Y1: 0, X2: 20, Y2: 20}, {X1: 10, Y1: 100, X2: 100, Y2: 200}},
			want:  []detection.BoundingBox{{X1: 10, Y1: 100, X2: 100, Y2: 200}},
		},
		{
			name:  "order preserved",
			boxes: []detection.BoundingBox{{X1: 300, Y1: 0, X2: 400, Y2: 100}, {X1: 0, Y1: 0, X2: 100, Y2: 100}},
			want:  []detection.BoundingBox{{X1: 300, Y1: 0, X2: 400, Y2: 100}, {X1: 0, Y1: 0, X2: 100, Y2: 100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCrops(tt.boxes, 50, 50)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
