package detection

import (
	"fmt"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/kdtree"
)

func merge(boxes ...BoundingBox) []BoundingBox {
	return NewOverlapMerger().Merge(slices.Values(boxes))
}

func TestMerge_Empty(t *testing.T) {
	got := merge()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestMerge_Single(t *testing.T) {
	b := NewBoundingBox(3, 4, 9, 12)
	got := merge(b)
	if len(got) != 1 || got[0] != b {
		t.Errorf("got %v, want [%v]", got, b)
	}
}

func TestMerge_DisjointPassThrough(t *testing.T) {
	in := []BoundingBox{
		NewBoundingBox(0, 0, 5, 5),
		NewBoundingBox(10, 10, 15, 15),
		NewBoundingBox(20, 0, 25, 5),
		NewBoundingBox(0, 20, 3, 40),
	}

	got := merge(in...)
	if !slices.Equal(got, in) {
		t.Errorf("got %v, want %v", got, in)
	}
}

func TestMerge_TwoOverlapping(t *testing.T) {
	got := merge(NewBoundingBox(0, 0, 10, 10), NewBoundingBox(5, 5, 15, 15))

	want := []BoundingBox{{0, 0, 15, 15}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMerge_SharedEdge(t *testing.T) {
	got := merge(NewBoundingBox(0, 0, 5, 5), NewBoundingBox(5, 0, 10, 5))

	want := []BoundingBox{{0, 0, 10, 5}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMerge_Duplicates(t *testing.T) {
	b := NewBoundingBox(2, 2, 8, 8)
	got := merge(b, b, b)
	if len(got) != 1 || got[0] != b {
		t.Errorf("got %v, want [%v]", got, b)
	}
}

func TestMerge_Chain(t *testing.T) {
	// Each box overlaps only its neighbour. The first box absorbs the second;
	// when the second box's turn comes it resolves to the merged box, whose
	// larger diagonal reaches the third.
	got := merge(
		NewBoundingBox(0, 0, 5, 5),
		NewBoundingBox(3, 3, 8, 8),
		NewBoundingBox(6, 6, 12, 12),
	)

	want := []BoundingBox{{0, 0, 12, 12}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMerge_SinglePassLimitation(t *testing.T) {
	a := NewBoundingBox(11, 0, 12, 1)  // right of p, above q
	q := NewBoundingBox(10, 4, 12, 5)  // touches p's right edge
	p := NewBoundingBox(0, 0, 10, 10) // overlaps q, not a

	// p is queried last. Both of a's corners are nearer to p than q's, so a
	// is rejected before p absorbs q and grows over it. a's own turn has
	// already passed, leaving two boxes that overlap.
	got := merge(a, q, p)
	want := []BoundingBox{a, {0, 0, 12, 10}}
	if !slices.Equal(got, want) {
		t.Fatalf("a, q, p: got %v, want %v", got, want)
	}
	if !got[0].Overlaps(got[1]) {
		t.Errorf("expected the unmerged boxes to overlap: %v", got)
	}

	// Querying p first lets q's later turn, with the grown radius, reach a.
	got = merge(p, q, a)
	want = []BoundingBox{{0, 0, 12, 10}}
	if !slices.Equal(got, want) {
		t.Errorf("p, q, a: got %v, want %v", got, want)
	}
}

func TestMerge_OutputOrder(t *testing.T) {
	got := merge(
		NewBoundingBox(100, 100, 105, 105),
		NewBoundingBox(0, 0, 10, 10),
		NewBoundingBox(120, 120, 130, 130),
		NewBoundingBox(5, 5, 15, 15),
	)

	want := []BoundingBox{
		{100, 100, 105, 105},
		{0, 0, 15, 15},
		{120, 120, 130, 130},
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMerge_RadiusScaleControlsDiscovery(t *testing.T) {
	// A long horizontal bar crossed by a long vertical bar near its middle:
	// every corner of each lies about one full diagonal from the other's
	// upper-left corner.
	bar := NewBoundingBox(0, 0, 100, 1)
	post := NewBoundingBox(50, -50, 51, 50)

	got := NewOverlapMerger().Merge(slices.Values([]BoundingBox{bar, post}))
	want := []BoundingBox{{0, -50, 100, 50}}
	if !slices.Equal(got, want) {
		t.Errorf("default radius: got %v, want %v", got, want)
	}

	narrow := &OverlapMerger{RadiusScale: 0.5}
	got = narrow.Merge(slices.Values([]BoundingBox{bar, post}))
	want = []BoundingBox{bar, post}
	if !slices.Equal(got, want) {
		t.Errorf("half radius: got %v, want %v", got, want)
	}
}

func TestMerge_ZeroRadiusScaleUsesDefault(t *testing.T) {
	m := &OverlapMerger{}
	got := m.Merge(slices.Values([]BoundingBox{NewBoundingBox(0, 0, 10, 10), NewBoundingBox(5, 5, 15, 15)}))
	if len(got) != 1 {
		t.Errorf("got %v, want a single merged box", got)
	}
}

func TestMerge_Clusters(t *testing.T) {
	in := clusteredBoxes(50)
	got := merge(in...)

	if len(got) != 50 {
		t.Fatalf("got %d boxes, want 50", len(got))
	}
	for i, b := range got {
		want := clusterUnion(i)
		if b != want {
			t.Errorf("cluster %d: got %v, want %v", i, b, want)
		}
	}
}

func TestNearbyCorners_L1Radius(t *testing.T) {
	index := corners{
		{X: 0, Y: 0, Box: 0},
		{X: 3, Y: 4, Box: 0, Lower: true},
		{X: 5, Y: 0, Box: 1},
		{X: 4, Y: 4, Box: 1, Lower: true},
		{X: 6, Y: 0, Box: 2},
	}
	tree := kdtree.New(index, false)

	got := nearbyCorners(tree, corner{X: 0, Y: 0, Box: 0}, 7)

	// (4,4) is within Euclidean distance 7 but 8 away in L1.
	var pts []string
	for _, c := range got {
		pts = append(pts, fmt.Sprintf("%d,%d", c.X, c.Y))
	}
	want := []string{"0,0", "5,0", "6,0", "3,4"}
	if !slices.Equal(pts, want) {
		t.Errorf("got %v, want %v", pts, want)
	}
}

// clusteredBoxes returns n clusters of three mutually overlapping boxes laid
// out far apart on a grid.
func clusteredBoxes(n int) []BoundingBox {
	boxes := make([]BoundingBox, 0, 3*n)
	for i := 0; i < n; i++ {
		ox, oy := (i%100)*100, (i/100)*100
		boxes = append(boxes,
			NewBoundingBox(ox, oy, ox+10, oy+10),
			NewBoundingBox(ox+5, oy+5, ox+15, oy+15),
			NewBoundingBox(ox+8, oy+2, ox+20, oy+9),
		)
	}
	return boxes
}

func clusterUnion(i int) BoundingBox {
	ox, oy := (i%100)*100, (i/100)*100
	return BoundingBox{ox, oy, ox + 20, oy + 15}
}

func BenchmarkMerge_Clusters(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		boxes := clusteredBoxes(n)
		b.Run(fmt.Sprintf("clusters=%d", n), func(b *testing.B) {
			m := NewOverlapMerger()
			for i := 0; i < b.N; i++ {
				m.Merge(slices.Values(boxes))
			}
		})
	}
}
