package physics

import "math"

// biasDist maps a signed separation to the position error worth correcting
// this step.
func biasDist(dist float64) float64 {
	return ResolveBias * math.Min(0, dist+ResolveSlop)
}

// kScalar is the inverse effective mass of the pair along n.
func kScalar(a, b *Body, r1, r2, n Vector2D) float64 {
	r1xn, r2xn := r1.Cross(n), r2.Cross(n)
	return a.invMass + b.invMass + a.invInertia*r1xn*r1xn + b.invInertia*r2xn*r2xn
}

// relativeVelocity is the velocity of a's point r1 relative to b's point r2.
func relativeVelocity(a, b *Body, r1, r2 Vector2D) Vector2D {
	va := r1.Left().Scale(a.AngVel).Add(a.Vel)
	vb := r2.Left().Scale(b.AngVel).Add(b.Vel)
	return va.Sub(vb)
}

func relativeBiasVelocity(a, b *Body, r1, r2 Vector2D) Vector2D {
	va := r1.Left().Scale(a.angVelBias).Add(a.velBias)
	vb := r2.Left().Scale(b.angVelBias).Add(b.velBias)
	return va.Sub(vb)
}

// applyImpulse pushes a by -j and b by +j.
func applyImpulse(a, b *Body, r1, r2, j Vector2D) {
	a.ApplyImpulse(j.Neg(), r1)
	b.ApplyImpulse(j, r2)
}

func applyBias(a, b *Body, r1, r2, j Vector2D) {
	a.applyBias(j.Neg(), r1)
	b.applyBias(j, r2)
}

// addPositive adds change to the running total *acc, keeping the total
// non-negative, and returns the change actually applied.
func addPositive(acc *float64, change float64) float64 {
	change = math.Max(-*acc, change)
	*acc += change
	return change
}

// addClamp keeps the running total *acc within ±limit.
func addClamp(acc *float64, change, limit float64) float64 {
	result := math.Max(-limit, math.Min(limit, *acc+change))
	change = result - *acc
	*acc = result
	return change
}
