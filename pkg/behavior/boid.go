package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
//
// Vel is a heading: it is unit length after every Update.
type Boid struct {
	Pos geometry.Vector2D
	Vel geometry.Vector2D
}

// Rand is the randomness a boid needs. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float32() float32
}

// Settings controls the local update rule.
// Passing this into Update allows the caller to change rules between frames.
type Settings struct {
	Boundary     float32 // |x| or |y| past which the arena pushes back
	BoundaryRamp float32 // overshoot at which the push reaches weight 1
	Step         float32 // distance travelled per frame
	WanderWeight float32 // weight of the random heading noise
}

// DefaultSettings returns the constants the flock was tuned with.
func DefaultSettings() Settings {
	return Settings{
		Boundary:     0.8,
		BoundaryRamp: 0.2,
		Step:         0.005,
		WanderWeight: 0.2,
	}
}

// New creates a boid at the origin with a random, not yet normalized, heading.
func New(r Rand) Boid {
	return Boid{
		Vel: geometry.NewVector(signed(r), signed(r)),
	}
}

// AddVel blends force into the heading: force is scaled by factor, added to
// Vel, and Vel is renormalized right away. force is modified.
func (b *Boid) AddVel(force *geometry.Vector2D, factor float32) {
	force.Mul(factor)
	b.Vel.Add(*force)
	b.Vel.Normalize()
}

// Update runs the local rule for one frame. The order matters because every
// AddVel renormalizes: x-low, x-high, y-low, y-high, move, normalize, wander.
func (b *Boid) Update(r Rand, s Settings) {
	if b.Pos.X < -s.Boundary {
		push := geometry.NewVector(1, 0)
		b.AddVel(&push, BoundaryPush(-b.Pos.X, s.Boundary, s.BoundaryRamp))
	}
	if b.Pos.X > s.Boundary {
		push := geometry.NewVector(-1, 0)
		b.AddVel(&push, BoundaryPush(b.Pos.X, s.Boundary, s.BoundaryRamp))
	}
	if b.Pos.Y < -s.Boundary {
		push := geometry.NewVector(0, 1)
		b.AddVel(&push, BoundaryPush(-b.Pos.Y, s.Boundary, s.BoundaryRamp))
	}
	if b.Pos.Y > s.Boundary {
		push := geometry.NewVector(0, -1)
		b.AddVel(&push, BoundaryPush(b.Pos.Y, s.Boundary, s.BoundaryRamp))
	}

	// Vel is a unit heading here, so every frame moves the same distance.
	b.Vel.Mul(s.Step)
	b.Pos.Add(b.Vel)
	b.Vel.Normalize()

	wander := geometry.NewVector(signed(r), signed(r))
	b.AddVel(&wander, s.WanderWeight)
}

// BoundaryPush is the weight of the inward push for a coordinate at distance
// coord from the center: ((coord-boundary)/ramp)^3 past the boundary, 0 inside.
func BoundaryPush(coord, boundary, ramp float32) float32 {
	if coord <= boundary {
		return 0
	}
	return float32(math.Pow(float64((coord-boundary)/ramp), 3))
}

// signed returns a uniform value in [-1, 1).
func signed(r Rand) float32 {
	return r.Float32()*2 - 1
}
