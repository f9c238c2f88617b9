package spatial

// Bounds is an axis-aligned rectangle, inclusive on all edges.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// intersectsCircle reports whether the circle (c, r) touches b.
func (b Bounds) intersectsCircle(c Point, radiusSq float64) bool {
	nearest := Point{X: clamp(c.X, b.MinX, b.MaxX), Y: clamp(c.Y, b.MinY, b.MaxY)}
	return distSq(nearest, c) <= radiusSq
}

type entry struct {
	p  Point
	id int
}

type quadNode struct {
	bounds   Bounds
	entries  []entry
	children *[4]quadNode
}

// QuadTree is a point quadtree over fixed bounds.
// Points falling outside the bounds are kept in an overflow list and scanned
// linearly, so Insert never drops a point.
type QuadTree struct {
	root     quadNode
	capacity int
	outside  []entry
	n        int
}

const (
	defaultNodeCapacity = 75
	// maxDepth stops splitting when many points share one spot.
	maxDepth = 24
)

// NewQuadTree creates an empty tree over bounds. capacity <= 0 uses 75.
func NewQuadTree(bounds Bounds, capacity int) *QuadTree {
	if capacity <= 0 {
		capacity = defaultNodeCapacity
	}
	return &QuadTree{
		root:     quadNode{bounds: bounds},
		capacity: capacity,
	}
}

// Insert adds p under id.
func (q *QuadTree) Insert(p Point, id int) {
	q.n++
	e := entry{p: p, id: id}
	if !q.root.bounds.Contains(p) {
		q.outside = append(q.outside, e)
		return
	}
	q.root.insert(e, q.capacity, 0)
}

func (n *quadNode) insert(e entry, capacity, depth int) {
	if n.children != nil {
		n.children[n.quadrant(e.p)].insert(e, capacity, depth+1)
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > capacity && depth < maxDepth {
		n.split(capacity, depth)
	}
}

func (n *quadNode) split(capacity, depth int) {
	midX := (n.bounds.MinX + n.bounds.MaxX) / 2
	midY := (n.bounds.MinY + n.bounds.MaxY) / 2
	b := n.bounds
	n.children = &[4]quadNode{
		{bounds: Bounds{MinX: b.MinX, MaxX: midX, MinY: b.MinY, MaxY: midY}},
		{bounds: Bounds{MinX: midX, MaxX: b.MaxX, MinY: b.MinY, MaxY: midY}},
		{bounds: Bounds{MinX: b.MinX, MaxX: midX, MinY: midY, MaxY: b.MaxY}},
		{bounds: Bounds{MinX: midX, MaxX: b.MaxX, MinY: midY, MaxY: b.MaxY}},
	}
	entries := n.entries
	n.entries = nil
	for _, e := range entries {
		n.children[n.quadrant(e.p)].insert(e, capacity, depth+1)
	}
}

// quadrant must agree with the child bounds built in split.
func (n *quadNode) quadrant(p Point) int {
	midX := (n.bounds.MinX + n.bounds.MaxX) / 2
	midY := (n.bounds.MinY + n.bounds.MaxY) / 2
	i := 0
	if p.X >= midX {
		i |= 1
	}
	if p.Y >= midY {
		i |= 2
	}
	return i
}

// QueryRadius returns the ids within radius of p.
func (q *QuadTree) QueryRadius(p Point, radius float64) []int {
	radiusSq := radius * radius
	var result []int
	result = q.root.query(p, radiusSq, result)
	for _, e := range q.outside {
		if distSq(e.p, p) <= radiusSq {
			result = append(result, e.id)
		}
	}
	return result
}

func (n *quadNode) query(p Point, radiusSq float64, result []int) []int {
	if !n.bounds.intersectsCircle(p, radiusSq) {
		return result
	}
	if n.children != nil {
		for i := range n.children {
			result = n.children[i].query(p, radiusSq, result)
		}
		return result
	}
	for _, e := range n.entries {
		if distSq(e.p, p) <= radiusSq {
			result = append(result, e.id)
		}
	}
	return result
}

// Len returns the number of inserted points.
func (q *QuadTree) Len() int { return q.n }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
