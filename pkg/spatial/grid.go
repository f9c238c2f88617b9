package spatial

import "math"

type gridKey struct {
	x, y int
}

// Grid is a uniform spatial hash: map gridKey -> entries in that cell.
// It has no bounds, so it works for points anywhere on the plane.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]entry
	n        int
}

// NewGrid creates an empty grid. cellSize <= 0 falls back to 0.05.
func NewGrid(cellSize float64, sizeHint int) *Grid {
	if cellSize <= 0 {
		cellSize = 0.05
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]entry, sizeHint/4+1),
	}
}

func (g *Grid) cellIndex(v float64) int {
	return int(math.Floor(v / g.cellSize))
}

// Insert adds p under id.
func (g *Grid) Insert(p Point, id int) {
	key := gridKey{x: g.cellIndex(p.X), y: g.cellIndex(p.Y)}
	g.cells[key] = append(g.cells[key], entry{p: p, id: id})
	g.n++
}

// QueryRadius returns the ids within radius of p.
// Only the cells overlapping the query's bounding box are scanned.
func (g *Grid) QueryRadius(p Point, radius float64) []int {
	radiusSq := radius * radius
	minGx, maxGx := g.cellIndex(p.X-radius), g.cellIndex(p.X+radius)
	minGy, maxGy := g.cellIndex(p.Y-radius), g.cellIndex(p.Y+radius)

	var result []int
	for gx := minGx; gx <= maxGx; gx++ {
		for gy := minGy; gy <= maxGy; gy++ {
			entries, ok := g.cells[gridKey{x: gx, y: gy}]
			if !ok {
				continue
			}
			for _, e := range entries {
				if distSq(e.p, p) <= radiusSq {
					result = append(result, e.id)
				}
			}
		}
	}
	return result
}

// Len returns the number of inserted points.
func (g *Grid) Len() int { return g.n }
