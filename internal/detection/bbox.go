package detection

import (
	"fmt"
	"image"
)

// BoundingBox is an axis-aligned rectangle given by two opposite corners.
//
// (X1, Y1) is the upper-left corner and (X2, Y2) the lower-right corner, with
// (0, 0) at the top-left of the image. NewBoundingBox guarantees X1 <= X2 and
// Y1 <= Y2; both corners are treated as part of the box by Overlaps.
type BoundingBox struct {
	X1 int `json:"x1" yaml:"x1"` // Left edge
	Y1 int `json:"y1" yaml:"y1"` // Top edge
	X2 int `json:"x2" yaml:"x2"` // Right edge
	Y2 int `json:"y2" yaml:"y2"` // Bottom edge
}

// NewBoundingBox returns a box spanning the two corners, swapping coordinates
// as needed so that the first corner is the upper-left one.
func NewBoundingBox(x1, y1, x2, y2 int) BoundingBox {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// TaxicabDiagonal returns the L1 distance between the two corners.
func (b BoundingBox) TaxicabDiagonal() int {
	return b.X2 - b.X1 + b.Y2 - b.Y1
}

// Overlaps reports whether b and other share at least one point. Boxes that
// only touch along an edge or at a corner overlap.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return !(b.X1 > other.X2 ||
		b.X2 < other.X1 ||
		b.Y1 > other.Y2 ||
		b.Y2 < other.Y1)
}

// Equals reports whether both boxes have the same four coordinates.
func (b BoundingBox) Equals(other BoundingBox) bool {
	return b == other
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X1: min(b.X1, other.X1),
		Y1: min(b.Y1, other.Y1),
		X2: max(b.X2, other.X2),
		Y2: max(b.Y2, other.Y2),
	}
}

// Width is X2 - X1.
func (b BoundingBox) Width() int { return b.X2 - b.X1 }

// Height is Y2 - Y1.
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// Rect converts the box to an image.Rectangle with the same corners.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.X1, b.Y1, b.X2, b.Y2)
}
