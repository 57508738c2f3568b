package physics

// DistanceJoint keeps two anchor points at the separation they had when the
// joint was built. It pulls as well as pushes, so its impulses are unclamped.
type DistanceJoint struct {
	a, b             *Body
	anchorA, anchorB Vector2D
	rest             float64

	jnAcc, jBias float64

	r1, r2 Vector2D
	n      Vector2D
	nMass  float64
	bias   float64
}

// NewDistanceJoint links a and b at the world-space points anchorA and
// anchorB; the current distance between them becomes the rest length.
func NewDistanceJoint(a, b *Body, anchorA, anchorB Vector2D) *DistanceJoint {
	return &DistanceJoint{
		a:       a,
		b:       b,
		anchorA: a.WorldToLocal(anchorA),
		anchorB: b.WorldToLocal(anchorB),
		rest:    anchorA.Distance(anchorB),
	}
}

func (j *DistanceJoint) Bodies() (*Body, *Body) { return j.a, j.b }

func (j *DistanceJoint) Rest() float64 { return j.rest }

// Anchors returns both anchors in world space.
func (j *DistanceJoint) Anchors() (Vector2D, Vector2D) {
	return j.a.LocalToWorld(j.anchorA), j.b.LocalToWorld(j.anchorB)
}

// Distance is the current separation of the anchors.
func (j *DistanceJoint) Distance() float64 {
	pa, pb := j.Anchors()
	return pa.Distance(pb)
}

// NormalImpulse is the accumulated impulse along the joint axis.
func (j *DistanceJoint) NormalImpulse() float64 { return j.jnAcc }

func (j *DistanceJoint) prestep(dt float64) {
	a, b := j.a, j.b

	j.r1 = j.anchorA.Rotate(a.dir)
	j.r2 = j.anchorB.Rotate(b.dir)

	delta := b.Pos.Add(j.r2).Sub(a.Pos.Add(j.r1))
	dist := delta.Magnitude()
	if dist > 0 {
		j.n = delta.Scale(1.0 / dist)
	} else {
		j.n = Vector2D{}
	}

	j.nMass = 0
	if k := kScalar(a, b, j.r1, j.r2, j.n); k > 0 {
		j.nMass = 1.0 / k
	}
	j.bias = ResolveBias * (dist - j.rest) / dt
	j.jBias = 0

	applyImpulse(a, b, j.r1, j.r2, j.n.Scale(j.jnAcc))
}

func (j *DistanceJoint) perform() {
	a, b := j.a, j.b

	vb := relativeBiasVelocity(a, b, j.r1, j.r2)
	vr := relativeVelocity(a, b, j.r1, j.r2)

	jb := j.nMass * (vb.Dot(j.n) - j.bias)
	jn := j.nMass * vr.Dot(j.n)
	j.jBias += jb
	j.jnAcc += jn

	applyBias(a, b, j.r1, j.r2, j.n.Scale(jb))
	applyImpulse(a, b, j.r1, j.r2, j.n.Scale(jn))
}
