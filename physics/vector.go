package physics

import (
	"fmt"
	"math"
)

// ==================== MATHEMATICAL FOUNDATION ====================

// Vector2D is an immutable 2D vector. A unit vector doubles as a rotation
// (cos, sin) for Rotate.
type Vector2D struct {
	X, Y float64
}

func NewVector2D(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Polar returns the unit vector at angle a.
func Polar(a float64) Vector2D {
	return Vector2D{X: math.Cos(a), Y: math.Sin(a)}
}

func (v1 Vector2D) Add(v2 Vector2D) Vector2D {
	return Vector2D{X: v1.X + v2.X, Y: v1.Y + v2.Y}
}

func (v1 Vector2D) Sub(v2 Vector2D) Vector2D {
	return Vector2D{X: v1.X - v2.X, Y: v1.Y - v2.Y}
}

func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector2D) Neg() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross is the z component of the 3D cross product.
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Left is v rotated by +90°.
func (v Vector2D) Left() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Right is v rotated by -90°.
func (v Vector2D) Right() Vector2D {
	return Vector2D{X: v.Y, Y: -v.X}
}

// Rotate composes v with the rotation encoded by the unit vector rot.
func (v Vector2D) Rotate(rot Vector2D) Vector2D {
	return Vector2D{X: v.X*rot.X - v.Y*rot.Y, Y: v.Y*rot.X + v.X*rot.Y}
}

// Unrotate applies the inverse of the rotation encoded by rot.
func (v Vector2D) Unrotate(rot Vector2D) Vector2D {
	return Vector2D{X: v.X*rot.X + v.Y*rot.Y, Y: v.Y*rot.X - v.X*rot.Y}
}

func (v Vector2D) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2D) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vector2D) Normalize() Vector2D {
	return v.NormalizeTo(1)
}

// NormalizeTo scales v to the given length. The zero vector stays zero.
func (v Vector2D) NormalizeTo(length float64) Vector2D {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector2D{}
	}
	f := length / mag
	return Vector2D{X: v.X * f, Y: v.Y * f}
}

func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Magnitude()
}

func (v Vector2D) DistanceSquared(other Vector2D) float64 {
	return v.Sub(other).MagnitudeSquared()
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}
