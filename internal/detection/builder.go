package detection

import (
	"image"
	"iter"
)

// BuildBoxes converts region extents into bounding boxes, one per extent and
// in the same order. The sequence is computed lazily as it is ranged over.
//
// Each extent's exclusive upper bounds are stepped out by one more pixel, so a
// region covering columns [x0, x1) becomes a box from x0 to x1+1. The extra
// margin keeps regions that touch diagonally or sit one pixel apart
// overlapping when the merger compares their boxes.
func BuildBoxes(regions []image.Rectangle) iter.Seq[BoundingBox] {
	return func(yield func(BoundingBox) bool) {
		for _, r := range regions {
			if !yield(NewBoundingBox(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1)) {
				return
			}
		}
	}
}
