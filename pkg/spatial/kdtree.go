package spatial

import (
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdPoint carries the id through gonum's tree.
type kdPoint struct {
	p  Point
	id int
}

func (k kdPoint) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return k.p.X
	}
	return k.p.Y
}

// Compare returns the signed distance of k from the plane through c perpendicular to d.
func (k kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return k.coord(d) - c.(kdPoint).coord(d)
}

func (k kdPoint) Dims() int { return 2 }

// Distance is squared, as gonum's own Point type does.
func (k kdPoint) Distance(c kdtree.Comparable) float64 {
	return distSq(k.p, c.(kdPoint).p)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p kdPoints) Pivot(d kdtree.Dim) int {
	pl := kdPlane{points: p, dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

// kdPlane sorts points along one dimension for pivot selection.
type kdPlane struct {
	points kdPoints
	dim    kdtree.Dim
}

func (p kdPlane) Len() int { return len(p.points) }
func (p kdPlane) Less(i, j int) bool {
	return p.points[i].coord(p.dim) < p.points[j].coord(p.dim)
}
func (p kdPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{points: p.points[start:end], dim: p.dim}
}

// KDTree is a gonum k-d tree. Points are buffered by Insert and the tree is
// built on the first query.
type KDTree struct {
	points kdPoints
	once   sync.Once
	tree   *kdtree.Tree
}

// NewKDTree creates an empty tree with room for sizeHint points.
func NewKDTree(sizeHint int) *KDTree {
	return &KDTree{points: make(kdPoints, 0, sizeHint)}
}

// Insert adds p under id. It must not be called after the first QueryRadius.
func (t *KDTree) Insert(p Point, id int) {
	t.points = append(t.points, kdPoint{p: p, id: id})
}

func (t *KDTree) build() {
	if len(t.points) == 0 {
		return
	}
	// kdtree.New reorders its input, so hand it a copy.
	pts := make(kdPoints, len(t.points))
	copy(pts, t.points)
	t.tree = kdtree.New(pts, false)
}

// QueryRadius returns the ids within radius of p.
func (t *KDTree) QueryRadius(p Point, radius float64) []int {
	t.once.Do(t.build)
	if t.tree == nil {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	t.tree.NearestSet(keep, kdPoint{p: p})

	result := make([]int, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		// The keeper seeds its heap with a sentinel that has no Comparable.
		if c.Comparable == nil {
			continue
		}
		result = append(result, c.Comparable.(kdPoint).id)
	}
	return result
}

// Len returns the number of inserted points.
func (t *KDTree) Len() int { return len(t.points) }
