package physics

import "math"

// ==================== COLLISION DETECTION ====================

// collideFunc tests a canonically ordered pair and writes contacts into arb.
type collideFunc func(a, b Shape, arb *Arbiter) bool

// collisionTable is indexed by the shape types of a pair whose lower-ranked
// shape comes first. Nil entries never collide.
var collisionTable = [numShapeTypes][numShapeTypes]collideFunc{
	ShapeTypeCircle:  {ShapeTypeCircle: circleToCircle, ShapeTypePolygon: circleToPolygon},
	ShapeTypePolygon: {ShapeTypePolygon: polygonToPolygon},
}

func collide(a, b Shape, arb *Arbiter) bool {
	fn := collisionTable[a.Type()][b.Type()]
	if fn == nil {
		return false
	}
	return fn(a, b, arb)
}

// contactCapacity is the number of contact slots an arbiter for the pair needs.
func contactCapacity(a, b Shape) int {
	if a.Type() == ShapeTypePolygon && b.Type() == ShapeTypePolygon {
		return polygonContacts
	}
	return 1
}

func circleToCircle(a, b Shape, arb *Arbiter) bool {
	ca, cb := a.(*Circle), b.(*Circle)
	return circleContact(ca.center, cb.center, ca.Radius, cb.Radius, arb)
}

// circleContact writes the contact between the discs (c1, r1) and (c2, r2).
// The normal points from c1 to c2.
func circleContact(c1, c2 Vector2D, r1, r2 float64, arb *Arbiter) bool {
	delta := c2.Sub(c1)
	reach := r1 + r2
	distSq := delta.MagnitudeSquared()
	if distSq >= reach*reach {
		return false
	}

	dist := math.Sqrt(distSq)
	var normal Vector2D
	if dist > 0 {
		normal = delta.Scale(1.0 / dist)
	} else {
		normal = Vector2D{X: 1, Y: 0}
	}

	// midpoint of the overlap along the centre line
	p := c1.Add(normal.Scale(r1 + (dist-reach)/2))
	arb.updateContact(p, normal, dist-reach, 0)
	return true
}

func circleToPolygon(a, b Shape, arb *Arbiter) bool {
	circle, poly := a.(*Circle), b.(*Polygon)
	center := circle.center

	ix, deepest := 0, math.Inf(-1)
	for i, axis := range poly.worldAxes {
		dist := axis.Distance(center) - circle.Radius
		if dist > 0 {
			return false
		}
		if dist > deepest {
			deepest, ix = dist, i
		}
	}

	n := len(poly.world)
	v, u, axis := poly.world[ix], poly.world[(ix+1)%n], poly.worldAxes[ix]

	// beyond either end of the face the nearest feature is a vertex
	d := axis.Normal.Cross(center)
	if d > axis.Normal.Cross(v) {
		return circleContact(center, v, circle.Radius, 0, arb)
	}
	if d < axis.Normal.Cross(u) {
		return circleContact(center, u, circle.Radius, 0, arb)
	}

	p := center.Sub(axis.Normal.Scale(circle.Radius + deepest/2))
	arb.updateContact(p, axis.Normal.Neg(), deepest, 0)
	return true
}

func polygonToPolygon(a, b Shape, arb *Arbiter) bool {
	pa, pb := a.(*Polygon), b.(*Polygon)

	a1, ok := minSeparatingAxis(pa, pb)
	if !ok {
		return false
	}
	a2, ok := minSeparatingAxis(pb, pa)
	if !ok {
		return false
	}

	// the polygon with the shallower axis owns the reference face
	ref := a1
	if a2.Offset > a1.Offset {
		pa, pb, ref = pb, pa, a2
	}
	arb.a, arb.b = pa, pb

	findVerts(pa, pb, ref, arb)
	return true
}

// minSeparatingAxis returns the face axis of a along which b penetrates
// least, with Offset holding that (non-positive) separation. It reports
// false when some face of a separates the polygons.
func minSeparatingAxis(a, b *Polygon) (Axis, bool) {
	best := Axis{Offset: math.Inf(-1)}

	for _, axis := range a.worldAxes {
		sep := math.Inf(1)
		for _, v := range b.world {
			sep = math.Min(sep, axis.Normal.Dot(v))
		}
		sep -= axis.Offset

		if sep > 0 {
			return Axis{}, false
		}
		if sep > best.Offset {
			best = Axis{Normal: axis.Normal, Offset: sep}
		}
	}
	return best, true
}

// findVerts collects the vertices of each polygon lying inside the other.
// IDs combine the owning polygon's identity with the vertex index.
func findVerts(a, b *Polygon, axis Axis, arb *Arbiter) {
	id := a.id << 8
	for i, v := range a.world {
		if b.ContainsPoint(v) {
			if !arb.updateContact(v, axis.Normal, axis.Offset, id+uint64(i)) {
				return
			}
		}
	}

	id = b.id << 8
	flipped := axis.Normal.Neg()
	for i, v := range b.world {
		if a.containsVertFacing(v, flipped) {
			if !arb.updateContact(v, axis.Normal, axis.Offset, id+uint64(i)) {
				return
			}
		}
	}
}
