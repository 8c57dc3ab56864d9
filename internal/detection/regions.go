package detection

import (
	"image"

	"github.com/theodesp/unionfind"
)

// Default extractor settings. The threshold sits just above zero because the
// box filter spreads each foreground sample thinly over its neighbours.
const (
	DefaultSmoothRadius = 5
	DefaultThreshold    = 0.0001
)

// RegionExtractor turns a mask into one rectangular extent per connected
// foreground region.
type RegionExtractor struct {
	// SmoothRadius is the width in pixels of the uniform window used to blur
	// the mask before thresholding, so that regions separated by small gaps
	// join up. Values below 2 disable smoothing.
	SmoothRadius int

	// Threshold is the activation level: smoothed samples strictly greater
	// than Threshold are foreground.
	Threshold float64
}

// NewRegionExtractor returns an extractor with the default smoothing radius
// and threshold.
func NewRegionExtractor() *RegionExtractor {
	return &RegionExtractor{
		SmoothRadius: DefaultSmoothRadius,
		Threshold:    DefaultThreshold,
	}
}

// Extract finds connected foreground regions in the mask and returns the
// extent of each as a half-open rectangle (Min inclusive, Max exclusive).
//
// # Algorithm
//
//  1. Smoothing: uniform box filter of width SmoothRadius along each axis,
//     mirroring samples at the mask border
//  2. Binarization: smoothed samples > Threshold become foreground
//  3. Hole filling: background not 4-connected to the mask border is
//     switched to foreground, so enclosed gaps do not split a region
//  4. Labeling: two-pass 4-connected component labeling, resolving label
//     equivalences with a union-find
//  5. Extents: minimal rectangle covering each label
//
// Extents are returned in label order, which is the raster order (top to
// bottom, left to right) of each region's first pixel. They always lie
// within the mask. An empty or all-background mask yields an empty slice.
func (e *RegionExtractor) Extract(m *Mask) []image.Rectangle {
	if m.Empty() {
		return []image.Rectangle{}
	}

	smoothed := uniformFilter(m, e.SmoothRadius)

	fg := make([]bool, len(smoothed))
	for i, v := range smoothed {
		fg[i] = v > e.Threshold
	}

	fillHoles(fg, m.Width, m.Height)
	labels, n := labelComponents(fg, m.Width, m.Height)
	return componentExtents(labels, n, m.Width, m.Height)
}

// uniformFilter averages every sample over a size-wide window on each axis.
// For even sizes the window reaches one sample further back than forward.
func uniformFilter(m *Mask, size int) []float64 {
	out := make([]float64, len(m.Pix))
	copy(out, m.Pix)
	if size < 2 {
		return out
	}

	lo := -(size / 2)
	hi := lo + size - 1
	scale := 1 / float64(size)

	w, h := m.Width, m.Height
	tmp := make([]float64, len(out))

	// Rows
	for y := 0; y < h; y++ {
		row := out[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float64
			for k := lo; k <= hi; k++ {
				sum += row[reflectIndex(x+k, w)]
			}
			tmp[y*w+x] = sum * scale
		}
	}

	// Columns
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float64
			for k := lo; k <= hi; k++ {
				sum += tmp[reflectIndex(y+k, h)*w+x]
			}
			out[y*w+x] = sum * scale
		}
	}

	return out
}

// reflectIndex maps i into [0, n) by mirroring about the edges, repeating the
// edge sample (d c b a | a b c d | d c b a).
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// fillHoles marks as foreground every background pixel that cannot reach the
// border through 4-connected background.
func fillHoles(fg []bool, w, h int) {
	outside := make([]bool, len(fg))
	stack := make([]int, 0, 2*(w+h))

	push := func(i int) {
		if !fg[i] && !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}

	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := i%w, i/w
		if x > 0 {
			push(i - 1)
		}
		if x < w-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - w)
		}
		if y < h-1 {
			push(i + w)
		}
	}

	for i := range fg {
		if !outside[i] {
			fg[i] = true
		}
	}
}

// labelComponents assigns each 4-connected foreground region a label from 1
// to n in raster order of the region's first pixel. Background is 0.
func labelComponents(fg []bool, w, h int) ([]int, int) {
	labels := make([]int, len(fg))
	next := 1
	var equivalent [][2]int

	// First pass: provisional labels from the pixel above and to the left.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !fg[i] {
				continue
			}

			var up, left int
			if y > 0 {
				up = labels[i-w]
			}
			if x > 0 {
				left = labels[i-1]
			}

			switch {
			case up == 0 && left == 0:
				labels[i] = next
				next++
			case up == 0:
				labels[i] = left
			case left == 0:
				labels[i] = up
			default:
				labels[i] = min(up, left)
				if up != left {
					equivalent = append(equivalent, [2]int{up, left})
				}
			}
		}
	}

	if next == 1 {
		return labels, 0
	}

	uf := unionfind.New(next)
	for _, pair := range equivalent {
		uf.Union(pair[0], pair[1])
	}

	// Second pass: collapse equivalent labels and renumber in raster order.
	final := make([]int, next)
	n := 0
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := uf.Root(l)
		if final[root] == 0 {
			n++
			final[root] = n
		}
		labels[i] = final[root]
	}

	return labels, n
}

// componentExtents returns the half-open bounding rectangle of labels 1..n.
func componentExtents(labels []int, n, w, h int) []image.Rectangle {
	extents := make([]image.Rectangle, n)
	seen := make([]bool, n)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l == 0 {
				continue
			}
			r := &extents[l-1]
			if !seen[l-1] {
				seen[l-1] = true
				*r = image.Rect(x, y, x+1, y+1)
				continue
			}
			r.Min.X = min(r.Min.X, x)
			r.Min.Y = min(r.Min.Y, y)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = max(r.Max.Y, y+1)
		}
	}

	return extents
}
