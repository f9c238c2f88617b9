package simulation

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"

// Snapshot is a read-only copy of the population taken at the start of a frame.
// Workers read it concurrently while the live population is left untouched.
type Snapshot struct {
	boids []behavior.Boid
}

func newSnapshot(boids []behavior.Boid) *Snapshot {
	s := &Snapshot{boids: make([]behavior.Boid, len(boids))}
	copy(s.boids, boids)
	return s
}

// Len returns the population size.
func (s *Snapshot) Len() int { return len(s.boids) }

// At returns a copy of the i-th boid.
func (s *Snapshot) At(i int) behavior.Boid { return s.boids[i] }
