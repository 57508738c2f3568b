package physics

// AABB is an axis-aligned bounding box. Min.Y is the top edge and Max.Y the
// bottom edge; the sorted sweep orders shapes by Top.
type AABB struct {
	Min, Max Vector2D
}

func NewAABB(min, max Vector2D) AABB {
	return AABB{Min: min, Max: max}
}

// AABBFromExtents builds the box centred on c with half-size ext.
func AABBFromExtents(c, ext Vector2D) AABB {
	return AABB{Min: c.Sub(ext), Max: c.Add(ext)}
}

func (aabb AABB) Top() float64    { return aabb.Min.Y }
func (aabb AABB) Bottom() float64 { return aabb.Max.Y }
func (aabb AABB) Left() float64   { return aabb.Min.X }
func (aabb AABB) Right() float64  { return aabb.Max.X }

func (aabb AABB) Width() float64  { return aabb.Max.X - aabb.Min.X }
func (aabb AABB) Height() float64 { return aabb.Max.Y - aabb.Min.Y }

// IntersectsH reports whether the horizontal bands of both boxes overlap.
func (aabb AABB) IntersectsH(other AABB) bool {
	return other.Min.X < aabb.Max.X && aabb.Min.X < other.Max.X
}

// Intersects is the strict 2-D overlap test; touching edges do not count.
func (aabb AABB) Intersects(other AABB) bool {
	return aabb.IntersectsH(other) && other.Min.Y < aabb.Max.Y && aabb.Min.Y < other.Max.Y
}

func (aabb AABB) Contains(point Vector2D) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y
}

func (aabb AABB) Center() Vector2D {
	return Vector2D{
		X: (aabb.Min.X + aabb.Max.X) * 0.5,
		Y: (aabb.Min.Y + aabb.Max.Y) * 0.5,
	}
}

func (aabb AABB) Expand(margin float64) AABB {
	return AABB{
		Min: Vector2D{X: aabb.Min.X - margin, Y: aabb.Min.Y - margin},
		Max: Vector2D{X: aabb.Max.X + margin, Y: aabb.Max.Y + margin},
	}
}

// Axis is a half-plane: the points p with Normal·p <= Offset lie inside.
type Axis struct {
	Normal Vector2D
	Offset float64
}

func (a Axis) Neg() Axis {
	return Axis{Normal: a.Normal.Neg(), Offset: a.Offset}
}

// Distance is the signed distance of p outside the half-plane.
func (a Axis) Distance(p Vector2D) float64 {
	return a.Normal.Dot(p) - a.Offset
}
