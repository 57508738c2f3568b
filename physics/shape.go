package physics

import "sync/atomic"

// ==================== SHAPE INTERFACE ====================

type ShapeType int

// Shape types are ranked: collision dispatch always passes the lower-ranked
// shape first.
const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypePolygon
	numShapeTypes
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeCircle:
		return "circle"
	case ShapeTypePolygon:
		return "polygon"
	}
	return "unknown"
}

// Shape is the closed set of collision shapes: *Circle and *Polygon.
// A shape belongs to exactly one Body.
type Shape interface {
	Type() ShapeType
	ID() uint64
	Body() *Body
	Material() Material
	SetMaterial(m Material)
	Mass() float64
	BoundingBox() AABB

	Area() float64
	// Inertia is the second moment of area about the body origin per unit mass.
	Inertia() float64
	CalcMass(density float64)
	ContainsPoint(p Vector2D) bool
	// IntersectRay reports a hit to r if it is nearer than what r holds.
	IntersectRay(r *Ray)

	base() *shapeBase
	update()
}

var nextShapeID atomic.Uint64

type shapeBase struct {
	id       uint64
	body     *Body
	material Material
	mass     float64
	aabb     AABB
}

func newShapeBase() shapeBase {
	return shapeBase{
		id:       nextShapeID.Add(1),
		material: DefaultMaterial,
	}
}

func (s *shapeBase) ID() uint64             { return s.id }
func (s *shapeBase) Body() *Body            { return s.body }
func (s *shapeBase) Material() Material     { return s.material }
func (s *shapeBase) SetMaterial(m Material) { s.material = m }
func (s *shapeBase) Mass() float64          { return s.mass }
func (s *shapeBase) BoundingBox() AABB      { return s.aabb }
func (s *shapeBase) base() *shapeBase       { return s }

// pairKey identifies an unordered shape pair.
type pairKey struct {
	lo, hi uint64
}

func makePairKey(a, b Shape) pairKey {
	ia, ib := a.ID(), b.ID()
	if ia > ib {
		ia, ib = ib, ia
	}
	return pairKey{lo: ia, hi: ib}
}
