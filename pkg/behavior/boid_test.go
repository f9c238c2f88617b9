package behavior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// constRand always returns the same value; 0.5 maps to a zero wander vector.
type constRand float32

func (c constRand) Float32() float32 { return float32(c) }

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5
}

func TestBoundaryPush(t *testing.T) {
	tests := []struct {
		name  string
		coord float32
		want  float32
	}{
		{"center", 0, 0},
		{"inside", 0.5, 0},
		{"on the boundary", 0.8, 0},
		{"half ramp", 0.9, 0.125},
		{"full ramp", 1.0, 1},
		{"double ramp", 1.2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundaryPush(tt.coord, 0.8, 0.2); !approx(got, tt.want) {
				t.Errorf("BoundaryPush(%v) = %v; want %v", tt.coord, got, tt.want)
			}
		})
	}
}

func TestBoundaryPush_StrictlyIncreasingOutside(t *testing.T) {
	prev := BoundaryPush(0.8, 0.8, 0.2)
	for c := float32(0.81); c < 1.5; c += 0.01 {
		got := BoundaryPush(c, 0.8, 0.2)
		if got <= prev {
			t.Fatalf("BoundaryPush(%v) = %v; not greater than previous %v", c, got, prev)
		}
		prev = got
	}
}

func TestAddVel(t *testing.T) {
	b := Boid{Vel: geometry.NewVector(1, 0)}
	force := geometry.NewVector(0, 2)

	b.AddVel(&force, 0.5)

	if !force.Eq(geometry.NewVector(0, 1)) {
		t.Errorf("force after AddVel = %v; want it scaled to (0, 1)", force)
	}
	want := geometry.NewVector(float32(math.Sqrt2/2), float32(math.Sqrt2/2))
	if !b.Vel.Eq(want) {
		t.Errorf("Vel = %v; want %v", b.Vel, want)
	}
}

func TestUpdate_InsideArenaMovesOneStep(t *testing.T) {
	s := DefaultSettings()
	b := Boid{Pos: geometry.NewVector(0.1, 0.2), Vel: geometry.NewVector(0, 1)}

	b.Update(constRand(0.5), s)

	if !b.Pos.Eq(geometry.NewVector(0.1, 0.2+s.Step)) {
		t.Errorf("Pos = %v; want one step up", b.Pos)
	}
	if !b.Vel.Eq(geometry.NewVector(0, 1)) {
		t.Errorf("Vel = %v; want unchanged heading (0, 1)", b.Vel)
	}
}

func TestUpdate_PastRightEdgeTurnsBack(t *testing.T) {
	b := Boid{Pos: geometry.NewVector(0.9, 0)}
	r := rand.New(rand.NewPCG(1, 2))

	b.Update(r, DefaultSettings())

	if b.Vel.X >= 0 {
		t.Errorf("Vel.X = %v; want negative after crossing x=0.8", b.Vel.X)
	}
}

func TestUpdate_EachEdgePushesInward(t *testing.T) {
	tests := []struct {
		name string
		pos  geometry.Vector2D
		want geometry.Vector2D
	}{
		{"left", geometry.NewVector(-0.9, 0), geometry.NewVector(1, 0)},
		{"right", geometry.NewVector(0.9, 0), geometry.NewVector(-1, 0)},
		{"bottom", geometry.NewVector(0, -0.9), geometry.NewVector(0, 1)},
		{"top", geometry.NewVector(0, 0.9), geometry.NewVector(0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Boid{Pos: tt.pos}
			b.Update(constRand(0.5), DefaultSettings())
			if !b.Vel.Eq(tt.want) {
				t.Errorf("Vel = %v; want %v", b.Vel, tt.want)
			}
		})
	}
}

func TestUpdate_CornerAccumulatesBothEdges(t *testing.T) {
	b := Boid{Pos: geometry.NewVector(1.0, 1.0)}

	b.Update(constRand(0.5), DefaultSettings())

	// x pass: (0,0) + (-1,0) -> (-1,0); y pass: (-1,0) + (0,-1) -> diagonal.
	want := geometry.NewVector(-float32(math.Sqrt2/2), -float32(math.Sqrt2/2))
	if !b.Vel.Eq(want) {
		t.Errorf("Vel = %v; want %v", b.Vel, want)
	}
}

func TestUpdate_VelocityStaysUnit(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	s := DefaultSettings()
	b := New(r)
	for i := 0; i < 1000; i++ {
		b.Update(r, s)
		if !approx(b.Vel.Len(), 1) {
			t.Fatalf("frame %d: |Vel| = %v; want 1", i, b.Vel.Len())
		}
		if !b.Pos.IsFinite() {
			t.Fatalf("frame %d: non-finite position %v", i, b.Pos)
		}
	}
}

func TestUpdate_StaysNearArena(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	s := DefaultSettings()
	b := Boid{Vel: geometry.NewVector(1, 0)}
	for i := 0; i < 5000; i++ {
		b.Update(r, s)
		if math.Abs(float64(b.Pos.X)) > 1.1 || math.Abs(float64(b.Pos.Y)) > 1.1 {
			t.Fatalf("frame %d: boid escaped to %v", i, b.Pos)
		}
	}
}

func TestNew_StartsAtOrigin(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 100; i++ {
		b := New(r)
		if b.Pos != (geometry.Vector2D{}) {
			t.Fatalf("New() Pos = %v; want origin", b.Pos)
		}
		if b.Vel.X < -1 || b.Vel.X > 1 || b.Vel.Y < -1 || b.Vel.Y > 1 {
			t.Fatalf("New() Vel = %v; want components in [-1, 1]", b.Vel)
		}
	}
}

func BenchmarkBoid_Update(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 1))
	s := DefaultSettings()
	boid := New(r)
	for i := 0; i < b.N; i++ {
		boid.Update(r, s)
	}
}
