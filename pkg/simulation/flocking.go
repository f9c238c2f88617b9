package simulation

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// Weights are the flocking coefficients that can be changed while running.
type Weights struct {
	Separation float32
	Alignment  float32
	Cohesion   float32
	Wander     float32
	Blend      float32 // factor applied to the flocking force before it joins the heading
}

// Params is what ComputeForce needs besides the snapshot and the index.
type Params struct {
	Radius     float32
	Separation float32
	Alignment  float32
	Cohesion   float32
}

// SeparationFalloff is the repulsion magnitude at distance d: ((r-d)/r)^3,
// 1 at contact and 0 from d >= r on.
func SeparationFalloff(d, r float32) float32 {
	if d >= r {
		return 0
	}
	k := (r - d) / r
	return k * k * k
}

// ComputeForce returns the flocking force on boid i. It only reads snap and
// index, so it is safe to call from many goroutines at once.
//
// The neighbor set comes from the index and includes i itself. Every term is
// averaged over that full count. A boid with no other neighbor gets a zero force.
func ComputeForce(snap *Snapshot, index spatial.Index, i int, p Params) geometry.Vector2D {
	me := snap.At(i)
	neighbors := index.QueryRadius(spatial.Point{X: float64(me.Pos.X), Y: float64(me.Pos.Y)}, float64(p.Radius))

	var separation, alignment, cohesion geometry.Vector2D
	others := 0
	for _, id := range neighbors {
		if id == i {
			continue
		}
		other := snap.At(id)
		others++

		away := me.Pos
		away.Sub(other.Pos)
		push := SeparationFalloff(away.Len(), p.Radius)
		away.Normalize()
		away.Mul(push)
		separation.Add(away)

		alignment.Add(other.Vel)
		cohesion.Add(other.Pos)
	}
	if others == 0 {
		return geometry.Vector2D{}
	}

	count := float32(len(neighbors))
	separation.Div(count)
	separation.Mul(p.Separation)

	alignment.Div(count)
	alignment.Mul(p.Alignment)

	cohesion.Div(count)
	cohesion.Sub(me.Pos)
	cohesion.Mul(p.Cohesion)

	force := separation
	force.Add(alignment)
	force.Add(cohesion)
	return force
}
