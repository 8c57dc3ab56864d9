package detection

import "image"

// Mask is a two-dimensional grid of scalar samples stored row-major.
//
// Any sample greater than the extractor's threshold after smoothing counts as
// foreground. Boolean masks use 0 and 1.
type Mask struct {
	Width  int
	Height int
	Pix    []float64
}

// NewMask returns a zeroed mask of the given size. Negative sizes are treated
// as zero.
func NewMask(width, height int) *Mask {
	width = max(width, 0)
	height = max(height, 0)
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// MaskFromGray copies the 8-bit samples of a grayscale image into a mask.
func MaskFromGray(g *image.Gray) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Pix[y*m.Width+x] = float64(g.GrayAt(x+b.Min.X, y+b.Min.Y).Y)
		}
	}
	return m
}

// At returns the sample at column x, row y.
func (m *Mask) At(x, y int) float64 {
	return m.Pix[y*m.Width+x]
}

// Set stores v at column x, row y.
func (m *Mask) Set(x, y int, v float64) {
	m.Pix[y*m.Width+x] = v
}

// Fill sets every sample inside r (clipped to the mask) to v.
func (m *Mask) Fill(r image.Rectangle, v float64) {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[y*m.Width+x] = v
		}
	}
}

// Empty reports whether the mask has no samples.
func (m *Mask) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0
}
