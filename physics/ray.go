package physics

import "math"

// Ray accumulates the nearest hit reported by shapes. Reset it before
// reusing it for another cast.
type Ray struct {
	Origin, Dir Vector2D
	Range       float64

	Dist   float64
	Normal Vector2D
	Shape  Shape
}

// RayHit is the nearest intersection found by a cast.
type RayHit struct {
	Shape    Shape
	Distance float64
	Normal   Vector2D
}

func NewRay(origin, target Vector2D, maxRange float64) *Ray {
	return &Ray{
		Origin: origin,
		Dir:    target.Sub(origin).Normalize(),
		Range:  maxRange,
		Dist:   maxRange,
	}
}

func (r *Ray) Reset() {
	r.Dist = r.Range
	r.Shape = nil
	r.Normal = Vector2D{}
}

// Report records a hit unless a nearer one is already held.
func (r *Ray) Report(s Shape, dist float64, normal Vector2D) {
	if r.Dist < dist {
		return
	}
	r.Dist = dist
	r.Normal = normal
	r.Shape = s
}

func (r *Ray) Hit() (RayHit, bool) {
	if r.Shape == nil {
		return RayHit{}, false
	}
	return RayHit{Shape: r.Shape, Distance: r.Dist, Normal: r.Normal}, true
}

// End is the far end of the ray at its current distance.
func (r *Ray) End() Vector2D {
	return r.Origin.Add(r.Dir.Scale(r.Dist))
}

// Bounds is the box swept by the ray over its full range.
func (r *Ray) Bounds() AABB {
	end := r.Origin.Add(r.Dir.Scale(r.Range))
	return AABB{
		Min: Vector2D{X: math.Min(r.Origin.X, end.X), Y: math.Min(r.Origin.Y, end.Y)},
		Max: Vector2D{X: math.Max(r.Origin.X, end.X), Y: math.Max(r.Origin.Y, end.Y)},
	}
}
