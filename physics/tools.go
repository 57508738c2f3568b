package physics

// NewCircleShape is a unit-density circle centred at (x, y) in body space.
func NewCircleShape(x, y, r float64) *Circle {
	c := NewCircle(Vector2D{X: x, Y: y}, r)
	c.CalcMass(1)
	return c
}

// NewBoxShape is a unit-density width×height box centred at (x, y) in body
// space and rotated by angle.
func NewBoxShape(x, y, angle, width, height float64) *Polygon {
	verts := []Vector2D{
		{X: 0, Y: 0}, {X: 0, Y: height},
		{X: width, Y: height}, {X: width, Y: 0},
	}

	offset, rot, half := Vector2D{X: x, Y: y}, Polar(angle), Vector2D{X: width / 2, Y: height / 2}
	for i, v := range verts {
		verts[i] = offset.Add(v.Sub(half).Rotate(rot))
	}

	p := NewPolygon(verts)
	p.CalcMass(1)
	return p
}

// NewPolygonShape is a unit-density convex polygon in body space.
func NewPolygonShape(verts []Vector2D) *Polygon {
	p := NewPolygon(verts)
	p.CalcMass(1)
	return p
}

func NewCircleBody(x, y, r float64) *Body {
	b := NewBody(Vector2D{X: x, Y: y})
	b.AddShape(NewCircleShape(0, 0, r))
	b.CalcProperties()
	return b
}

func NewBoxBody(x, y, angle, width, height float64) *Body {
	b := NewBody(Vector2D{X: x, Y: y})
	b.AddShape(NewBoxShape(0, 0, angle, width, height))
	b.CalcProperties()
	return b
}
