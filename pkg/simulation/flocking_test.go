package simulation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

func defaultParams() Params {
	return Params{Radius: 0.03, Separation: 2, Alignment: 0.5, Cohesion: 0.6}
}

// indexOf builds a quadtree over snap the way a frame does.
func indexOf(t testing.TB, snap *Snapshot) spatial.Index {
	idx, err := spatial.New(spatial.KindQuadTree, spatial.Options{HalfExtent: 1.1, NodeCapacity: 75})
	require.NoError(t, err)
	for i := 0; i < snap.Len(); i++ {
		p := snap.At(i).Pos
		idx.Insert(spatial.Point{X: float64(p.X), Y: float64(p.Y)}, i)
	}
	return idx
}

func at(x, y float32) behavior.Boid {
	return behavior.Boid{Pos: geometry.NewVector(x, y)}
}

func TestSeparationFalloff(t *testing.T) {
	const r = 0.03
	require.InDelta(t, 1, SeparationFalloff(0, r), 1e-6)
	require.Zero(t, SeparationFalloff(r, r))
	require.Zero(t, SeparationFalloff(2*r, r))

	prev := SeparationFalloff(0, r)
	for d := float32(0.001); d < r; d += 0.001 {
		cur := SeparationFalloff(d, r)
		require.Less(t, cur, prev, "falloff must decrease, d=%v", d)
		require.GreaterOrEqual(t, cur, float32(0))
		prev = cur
	}
}

func TestComputeForce_TwoBoidsPushApart(t *testing.T) {
	snap := newSnapshot([]behavior.Boid{at(0, 0), at(0.01, 0)})
	idx := indexOf(t, snap)
	p := defaultParams()

	f0 := ComputeForce(snap, idx, 0, p)
	f1 := ComputeForce(snap, idx, 1, p)

	require.Less(t, f0.X, float32(0), "left boid should be pushed left, got %v", f0)
	require.Greater(t, f1.X, float32(0), "right boid should be pushed right, got %v", f1)
	require.InDelta(t, 0, f0.Y, 1e-6)
	require.InDelta(t, 0, f1.Y, 1e-6)

	// separation (2/3)^3 / 2 * 2, cohesion 0.01 / 2 * 0.6
	require.InDelta(t, -0.2963+0.003, f0.X, 1e-3)
}

func TestComputeForce_IsolatedBoidHasNoForce(t *testing.T) {
	snap := newSnapshot([]behavior.Boid{at(0, 0), at(0.5, 0.5)})
	idx := indexOf(t, snap)

	f := ComputeForce(snap, idx, 0, defaultParams())
	require.Equal(t, geometry.Vector2D{}, f)
	require.True(t, f.IsFinite())
}

func TestComputeForce_AlignmentFollowsNeighbors(t *testing.T) {
	a, b := at(0, 0), at(0.029, 0)
	b.Vel = geometry.NewVector(0, 1)
	snap := newSnapshot([]behavior.Boid{a, b})
	idx := indexOf(t, snap)

	p := Params{Radius: 0.03, Alignment: 1}
	f := ComputeForce(snap, idx, 0, p)
	// Averaged over both members of the neighbor set, self included.
	require.InDelta(t, 0.5, f.Y, 1e-6)
	require.InDelta(t, 0, f.X, 1e-6)
}

func TestComputeForce_CohesionPullsTowardCenter(t *testing.T) {
	snap := newSnapshot([]behavior.Boid{at(0, 0), at(0.02, 0), at(0, 0.02)})
	idx := indexOf(t, snap)

	p := Params{Radius: 0.03, Cohesion: 1}
	f := ComputeForce(snap, idx, 0, p)
	// Sum of the others over the full count, minus own position.
	require.InDelta(t, 0.02/3, f.X, 1e-6)
	require.InDelta(t, 0.02/3, f.Y, 1e-6)
}

func TestComputeForce_DoesNotWriteSnapshot(t *testing.T) {
	boids := []behavior.Boid{at(0, 0), at(0.01, 0.01), at(-0.01, 0)}
	snap := newSnapshot(boids)
	idx := indexOf(t, snap)
	for i := range boids {
		ComputeForce(snap, idx, i, defaultParams())
	}
	for i, b := range boids {
		require.Equal(t, b, snap.At(i))
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	boids := []behavior.Boid{at(0.1, 0.2)}
	snap := newSnapshot(boids)
	boids[0].Pos = geometry.NewVector(9, 9)
	require.Equal(t, geometry.NewVector(0.1, 0.2), snap.At(0).Pos)
}

func BenchmarkComputeForce(b *testing.B) {
	w, err := NewWorld(benchConfig(5000), WithLogger(discard()))
	require.NoError(b, err)
	// Let the flock spread out from the origin first.
	for i := 0; i < 50; i++ {
		require.NoError(b, w.Update(b.Context()))
	}
	snap := newSnapshot(w.boids)
	idx := indexOf(b, snap)
	p := w.params()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeForce(snap, idx, i%snap.Len(), p)
	}
}
