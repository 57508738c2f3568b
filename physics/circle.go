package physics

import "math"

type Circle struct {
	shapeBase

	Radius float64
	// Offset is the centre in body-local coordinates.
	Offset Vector2D

	center Vector2D
}

func NewCircle(offset Vector2D, radius float64) *Circle {
	return &Circle{
		shapeBase: newShapeBase(),
		Radius:    radius,
		Offset:    offset,
	}
}

func (c *Circle) Type() ShapeType { return ShapeTypeCircle }

// Center is the world-space centre as of the last shape update.
func (c *Circle) Center() Vector2D { return c.center }

func (c *Circle) Area() float64 {
	return c.Radius * c.Radius * math.Pi
}

func (c *Circle) Inertia() float64 {
	return c.Radius*c.Radius/2 + c.Offset.MagnitudeSquared()
}

func (c *Circle) CalcMass(density float64) {
	c.mass = density * c.Area() * AreaMassRatio
}

func (c *Circle) update() {
	b := c.body
	c.center = b.Pos.Add(c.Offset.Rotate(b.dir))
	c.aabb = AABBFromExtents(c.center, Vector2D{X: c.Radius, Y: c.Radius})
}

func (c *Circle) ContainsPoint(p Vector2D) bool {
	return p.DistanceSquared(c.center) < c.Radius*c.Radius
}

func (c *Circle) IntersectRay(r *Ray) {
	dist := r.Origin.Sub(c.center)
	b := dist.Dot(r.Dir)
	if b > 0 {
		return
	}

	d := c.Radius*c.Radius - (dist.MagnitudeSquared() - b*b)
	if d < 0 {
		return
	}
	t := -b - math.Sqrt(d)
	if t < 0 {
		// origin inside the circle
		return
	}

	hit := r.Origin.Add(r.Dir.Scale(t))
	r.Report(c, t, hit.Sub(c.center).Normalize())
}
