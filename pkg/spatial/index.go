// Package spatial answers "which ids lie within radius r of point p" over a
// fixed set of points. An Index is filled once, then queried many times,
// possibly from several goroutines at once; it is never mutated after the
// last Insert.
package spatial

import (
	"errors"
	"fmt"
)

// Point is a 2D coordinate in index space.
type Point struct {
	X, Y float64
}

// Index is a radius query service over points keyed by id.
//
// QueryRadius must report every id whose point lies within radius of p,
// including a point sitting exactly on p. Concurrent QueryRadius calls are
// safe once all Insert calls have returned.
type Index interface {
	Insert(p Point, id int)
	QueryRadius(p Point, radius float64) []int
	Len() int
}

// Kind names an Index implementation.
type Kind string

const (
	KindQuadTree Kind = "quadtree"
	KindGrid     Kind = "grid"
	KindKDTree   Kind = "kdtree"
)

// ErrUnknownKind is returned by New for an unsupported Kind.
var ErrUnknownKind = errors.New("unknown spatial index kind")

// Options configures New. Not every field matters to every Kind.
type Options struct {
	// HalfExtent bounds the quadtree to [-HalfExtent, HalfExtent] on both axes.
	HalfExtent float64
	// NodeCapacity is the number of points a quadtree leaf holds before splitting.
	NodeCapacity int
	// CellSize is the grid cell edge; queries should use radii close to it.
	CellSize float64
	// SizeHint pre-allocates storage for this many points.
	SizeHint int
}

// New builds an empty Index of the given kind.
func New(kind Kind, opts Options) (Index, error) {
	switch kind {
	case KindQuadTree, "":
		return NewQuadTree(Bounds{
			MinX: -opts.HalfExtent, MaxX: opts.HalfExtent,
			MinY: -opts.HalfExtent, MaxY: opts.HalfExtent,
		}, opts.NodeCapacity), nil
	case KindGrid:
		return NewGrid(opts.CellSize, opts.SizeHint), nil
	case KindKDTree:
		return NewKDTree(opts.SizeHint), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func distSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
