package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq.
// Components are float32, so anything tighter than ~1e-6 is noise.
const (
	Epsilon = 1e-6
)

// Vector2D represents a 2D vector or point in the arena.
// Fields are public because they are fundamental data, not internal state,
// and float32 because 20k boids per frame are copied around a lot.
type Vector2D struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float32) Vector2D {
	return Vector2D{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at theta radians.
func FromAngle(theta float32) Vector2D {
	return Vector2D{
		X: float32(math.Cos(float64(theta))),
		Y: float32(math.Sin(float64(theta))),
	}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// In-place arithmetic
// The flock update mutates the same vectors thousands of times per frame,
// so these use pointer receivers and return nothing.
// ---------------------------------------------------------------------

// Add adds other to v.
func (v *Vector2D) Add(other Vector2D) {
	v.X += other.X
	v.Y += other.Y
}

// Sub subtracts other from v.
func (v *Vector2D) Sub(other Vector2D) {
	v.X -= other.X
	v.Y -= other.Y
}

// Mul scales v by factor.
func (v *Vector2D) Mul(factor float32) {
	v.X *= factor
	v.Y *= factor
}

// Div divides v by factor.
// Division by zero follows IEEE-754 (Inf or NaN); callers guard it.
func (v *Vector2D) Div(factor float32) {
	v.X /= factor
	v.Y /= factor
}

// Normalize scales v to unit length.
// A zero vector is divided by 1 instead of 0 and is therefore left unchanged.
func (v *Vector2D) Normalize() {
	l := v.Len()
	if l == 0 {
		l = 1
	}
	v.X /= l
	v.Y /= l
}

// ---------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float32 {
	return v.X*other.X + v.Y*other.Y
}

// LenSqr calculates the squared magnitude of the vector.
func (v Vector2D) LenSqr() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the Euclidean norm of the vector.
// It works in float64 so tiny components do not underflow when squared
// and large ones do not overflow.
func (v Vector2D) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// DistanceTo calculates the Euclidean distance to another point.
func (v Vector2D) DistanceTo(other Vector2D) float32 {
	return float32(math.Hypot(float64(v.X)-float64(other.X), float64(v.Y)-float64(other.Y)))
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// IsFinite reports whether both components are neither NaN nor Inf.
func (v Vector2D) IsFinite() bool {
	x, y := float64(v.X), float64(v.Y)
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(float64(v.X-other.X)) <= Epsilon && math.Abs(float64(v.Y-other.Y)) <= Epsilon
}
