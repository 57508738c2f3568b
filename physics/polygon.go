package physics

import "math"

// Polygon is a convex polygon. Local vertices are wound so that the left
// perpendicular of every edge points outward (counter-clockwise on a y-down
// screen); NewPolygon reverses the ring when it is given the other winding.
type Polygon struct {
	shapeBase

	local     []Vector2D
	localAxes []Axis
	world     []Vector2D
	worldAxes []Axis
}

func NewPolygon(vertices []Vector2D) *Polygon {
	n := len(vertices)
	verts := make([]Vector2D, n)
	copy(verts, vertices)
	if signedArea(verts) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	p := &Polygon{
		shapeBase: newShapeBase(),
		local:     verts,
		localAxes: make([]Axis, n),
		world:     make([]Vector2D, n),
		worldAxes: make([]Axis, n),
	}

	for i := 0; i < n; i++ {
		v, u := verts[i], verts[(i+1)%n]
		normal := u.Sub(v).Left().Normalize()
		p.localAxes[i] = Axis{Normal: normal, Offset: normal.Dot(v)}
	}
	return p
}

func (p *Polygon) Type() ShapeType { return ShapeTypePolygon }

// Vertices are the world-space vertices as of the last shape update.
func (p *Polygon) Vertices() []Vector2D { return p.world }

// Axes are the world-space face half-planes; Axes()[i] is the edge from
// vertex i to vertex i+1.
func (p *Polygon) Axes() []Axis { return p.worldAxes }

func (p *Polygon) LocalVertices() []Vector2D { return p.local }

func signedArea(verts []Vector2D) float64 {
	s, n := 0.0, len(verts)
	for i := 0; i < n; i++ {
		v, u, w := verts[i], verts[(i+1)%n], verts[(i+2)%n]
		s += u.X * (v.Y - w.Y)
	}
	return s / 2
}

func (p *Polygon) Area() float64 {
	return signedArea(p.local)
}

func (p *Polygon) Inertia() float64 {
	s1, s2, n := 0.0, 0.0, len(p.local)
	for i := 0; i < n; i++ {
		v, u := p.local[i], p.local[(i+1)%n]
		a := u.Cross(v)
		b := v.Dot(v) + v.Dot(u) + u.Dot(u)
		s1 += a * b
		s2 += a
	}
	return s1 / (6 * s2)
}

func (p *Polygon) CalcMass(density float64) {
	p.mass = density * p.Area() * AreaMassRatio
}

func (p *Polygon) update() {
	b := p.body

	first := b.Pos.Add(p.local[0].Rotate(b.dir))
	p.world[0] = first
	box := AABB{Min: first, Max: first}

	for i := 1; i < len(p.local); i++ {
		v := b.Pos.Add(p.local[i].Rotate(b.dir))
		p.world[i] = v
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
	}
	p.aabb = box

	for i, a := range p.localAxes {
		n := a.Normal.Rotate(b.dir)
		p.worldAxes[i] = Axis{Normal: n, Offset: n.Dot(b.Pos) + a.Offset}
	}
}

func (p *Polygon) ContainsPoint(v Vector2D) bool {
	for _, a := range p.worldAxes {
		if a.Normal.Dot(v) > a.Offset {
			return false
		}
	}
	return true
}

// containsVertFacing only tests the faces whose normal is not aligned with n.
func (p *Polygon) containsVertFacing(v, n Vector2D) bool {
	for _, a := range p.worldAxes {
		if a.Normal.Dot(n) <= 0 && a.Normal.Dot(v) > a.Offset {
			return false
		}
	}
	return true
}

// IntersectRay clips the ray against every face half-plane.
func (p *Polygon) IntersectRay(r *Ray) {
	near, far, ix := 0.0, math.Inf(1), -1

	for i, a := range p.worldAxes {
		dist := p.world[i].Sub(r.Origin).Dot(a.Normal)
		slope := r.Dir.Dot(a.Normal)

		if slope == 0 {
			if dist < 0 {
				// parallel to the face and outside it
				return
			}
			continue
		}
		clip := dist / slope

		if slope < 0 {
			if clip > far {
				return
			}
			if clip > near {
				near, ix = clip, i
			}
		} else {
			if clip < near {
				return
			}
			if clip < far {
				far = clip
			}
		}
	}

	if ix == -1 {
		return
	}
	a := p.worldAxes[ix]
	r.Report(p, -a.Distance(r.Origin)/r.Dir.Dot(a.Normal), a.Normal)
}
