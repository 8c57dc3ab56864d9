package detection

import (
	"iter"
	"sort"

	"github.com/theodesp/unionfind"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// DefaultRadiusScale searches exactly one taxicab diagonal around each box.
const DefaultRadiusScale = 1.0

// OverlapMerger joins overlapping bounding boxes into enclosing boxes without
// comparing every pair.
//
// Boxes live in an arena and are addressed by handle (their input position).
// Both corners of every box are indexed in a k-d tree under that handle, and
// a union-find over handles lets every corner of every absorbed box resolve to
// the single merged box, so a merge never requires re-indexing.
//
// # Traversal Policy
//
// The merge is a single pass: each box's upper-left corner is queried once,
// in input order. A box grown by a merge uses its new, larger extent (and
// search radius) when its own turn comes, but boxes whose turn has already
// passed are never revisited. If a later merge produces a box that overlaps
// an earlier, unmerged box, and no remaining query reaches that box's
// corners, both are returned even though they overlap. The result can
// therefore depend on input order.
//
// # Search Radius
//
// Candidates are the corners within L1 distance RadiusScale * TaxicabDiagonal
// of the querying box's upper-left corner. This is a heuristic bound, not a
// guarantee: a small box overlapping the middle of a large box lies far from
// both of the large box's corners, so it is only found from the large box's
// side, and very elongated pairs can be missed entirely. Overlap itself is
// always confirmed with BoundingBox.Overlaps. Raise RadiusScale to trade
// speed for recall.
//
// # Complexity
//
// Building the index is O(n log n); each query costs O(log n + k) for k
// candidates. Well separated inputs therefore merge in roughly O(n log n).
//
// Merge keeps no state between calls, so one OverlapMerger may be shared by
// goroutines that each merge their own boxes. A single Merge call mutates its
// arena without locking and must stay on one goroutine.
type OverlapMerger struct {
	// RadiusScale multiplies each box's taxicab diagonal to form its search
	// radius. Zero or negative values use DefaultRadiusScale.
	RadiusScale float64
}

// NewOverlapMerger returns a merger with the default search radius.
func NewOverlapMerger() *OverlapMerger {
	return &OverlapMerger{RadiusScale: DefaultRadiusScale}
}

// Merge returns the merged set of boxes: every box that was found to overlap
// another is replaced by their enclosing box, and boxes with no discovered
// overlap are returned unchanged. Each merged box appears once, at the
// position of the first input box it absorbed. Empty input yields an empty
// slice.
func (m *OverlapMerger) Merge(boxes iter.Seq[BoundingBox]) []BoundingBox {
	var arena []BoundingBox
	for b := range boxes {
		arena = append(arena, b)
	}
	if len(arena) == 0 {
		return []BoundingBox{}
	}

	upperLeft := make([]corner, len(arena))
	index := make(corners, 0, 2*len(arena))
	for h, b := range arena {
		upperLeft[h] = corner{X: b.X1, Y: b.Y1, Box: h}
		index = append(index, upperLeft[h], corner{X: b.X2, Y: b.Y2, Box: h, Lower: true})
	}

	// kdtree.New reorders index in place; upperLeft keeps input order.
	tree := kdtree.New(index, false)
	owners := unionfind.New(len(arena))

	for h, ul := range upperLeft {
		radius := m.radius(arena[owners.Root(h)])

		for _, c := range nearbyCorners(tree, ul, radius) {
			cur := owners.Root(h)
			near := owners.Root(c.Box)
			if cur == near || !arena[cur].Overlaps(arena[near]) {
				continue
			}

			merged := arena[cur].Union(arena[near])
			owners.Union(cur, near)
			arena[owners.Root(cur)] = merged
		}
	}

	out := make([]BoundingBox, 0, len(arena))
	emitted := make(map[int]bool, len(arena))
	for h := range arena {
		root := owners.Root(h)
		if emitted[root] {
			continue
		}
		emitted[root] = true
		out = append(out, arena[root])
	}

	return out
}

func (m *OverlapMerger) radius(b BoundingBox) float64 {
	scale := m.RadiusScale
	if scale <= 0 {
		scale = DefaultRadiusScale
	}
	return scale * float64(b.TaxicabDiagonal())
}

// nearbyCorners returns the indexed corners within L1 distance radius of q,
// nearest first, ties broken by handle with upper-left corners first.
//
// The tree measures squared Euclidean distance. The L1 ball of radius r lies
// inside the Euclidean ball of radius r, so the tree query over-collects and
// the L1 test trims the result.
func nearbyCorners(tree *kdtree.Tree, q corner, radius float64) []corner {
	keep := kdtree.NewDistKeeper(radius * radius)
	tree.NearestSet(keep, q)

	found := make([]corner, 0, keep.Len())
	for _, cd := range keep.Heap {
		c, ok := cd.Comparable.(corner)
		if !ok {
			// The keeper's sentinel.
			continue
		}
		if float64(q.taxicab(c)) <= radius {
			found = append(found, c)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		di, dj := q.taxicab(found[i]), q.taxicab(found[j])
		if di != dj {
			return di < dj
		}
		if found[i].Box != found[j].Box {
			return found[i].Box < found[j].Box
		}
		return !found[i].Lower && found[j].Lower
	})

	return found
}

// corner is one corner of an arena box, tagged with the box's handle.
type corner struct {
	X, Y  int
	Box   int
	Lower bool // lower-right rather than upper-left
}

// Compare returns the signed distance of c from the plane through o
// perpendicular to dimension d.
func (c corner) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	q := o.(corner)
	switch d {
	case 0:
		return float64(c.X - q.X)
	case 1:
		return float64(c.Y - q.Y)
	default:
		panic("detection: illegal corner dimension")
	}
}

func (c corner) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between c and o.
func (c corner) Distance(o kdtree.Comparable) float64 {
	q := o.(corner)
	dx := float64(c.X - q.X)
	dy := float64(c.Y - q.Y)
	return dx*dx + dy*dy
}

func (c corner) taxicab(o corner) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// corners satisfies kdtree.Interface.
type corners []corner

func (p corners) Index(i int) kdtree.Comparable { return p[i] }
func (p corners) Len() int                      { return len(p) }
func (p corners) Pivot(d kdtree.Dim) int {
	return cornerPlane{Dim: d, corners: p}.Pivot()
}
func (p corners) Slice(start, end int) kdtree.Interface { return p[start:end] }

// cornerPlane sorts corners along one dimension for median partitioning.
type cornerPlane struct {
	kdtree.Dim
	corners
}

func (p cornerPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.corners[i].X < p.corners[j].X
	}
	return p.corners[i].Y < p.corners[j].Y
}

func (p cornerPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p cornerPlane) Slice(start, end int) kdtree.SortSlicer {
	p.corners = p.corners[start:end]
	return p
}

func (p cornerPlane) Swap(i, j int) {
	p.corners[i], p.corners[j] = p.corners[j], p.corners[i]
}
