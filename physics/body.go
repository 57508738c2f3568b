package physics

import (
	"iter"
	"slices"
)

// ==================== RIGID BODY ====================

// Body is a rigid body. Static and kinematic bodies have zero inverse mass
// and inertia. Build bodies with NewBody so the orientation is initialised.
type Body struct {
	Pos    Vector2D
	Vel    Vector2D
	AngVel float64

	Gravity Vector2D
	Damping float64

	// Bodies sharing a non-zero Group never collide with each other.
	Group uint32

	angle float64
	dir   Vector2D

	// bias velocities only carry position correction and are zeroed every step
	velBias    Vector2D
	angVelBias float64

	force  Vector2D
	torque float64

	invMass    float64
	invInertia float64

	shapes   []Shape
	arbiters []*Arbiter
	world    *World
}

func NewBody(pos Vector2D) *Body {
	return &Body{
		Pos:     pos,
		Damping: DefaultDamping,
		dir:     Vector2D{X: 1},
	}
}

func (b *Body) Angle() float64 { return b.angle }

// Dir is the unit orientation vector (cos angle, sin angle).
func (b *Body) Dir() Vector2D { return b.dir }

func (b *Body) SetAngle(angle float64) {
	b.angle = angle
	b.dir = Polar(angle)
}

func (b *Body) InvMass() float64    { return b.invMass }
func (b *Body) InvInertia() float64 { return b.invInertia }

// SetInvMass overrides the inverse mass computed by CalcProperties.
func (b *Body) SetInvMass(invMass float64) { b.invMass = invMass }

func (b *Body) IsStatic() bool {
	return b.invMass == 0 && b.invInertia == 0
}

// MakeStatic gives the body infinite mass and inertia.
func (b *Body) MakeStatic() {
	b.invMass = 0
	b.invInertia = 0
}

func (b *Body) Shapes() []Shape { return b.shapes }

// Arbiters are the manifolds this body currently takes part in.
func (b *Body) Arbiters() []*Arbiter { return b.arbiters }

func (b *Body) World() *World { return b.world }

// AddShape attaches s to the body. If the body is already in a world the
// shape joins its broad phase immediately.
func (b *Body) AddShape(s Shape) {
	s.base().body = b
	b.shapes = append(b.shapes, s)
	if b.world != nil {
		b.world.addShape(s)
	}
}

func (b *Body) RemoveShape(s Shape) {
	i := slices.Index(b.shapes, s)
	if i < 0 {
		return
	}
	b.shapes = slices.Delete(b.shapes, i, i+1)
	if b.world != nil {
		b.world.removeShape(s)
	}
	s.base().body = nil
}

// CalcProperties sums the mass and inertia of the attached shapes. At least
// one shape with positive area and mass must be attached first; otherwise
// the inverses are infinite.
func (b *Body) CalcProperties() {
	mass, inertia := 0.0, 0.0
	for _, s := range b.shapes {
		mass += s.Mass()
		inertia += s.Mass() * s.Inertia()
	}
	b.invMass = 1.0 / mass
	b.invInertia = 1.0 / inertia
}

// Touching yields every distinct body this body shares an arbiter with.
func (b *Body) Touching() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		var seen []*Body
		for _, arb := range b.arbiters {
			other := arb.Other(b)
			if slices.Contains(seen, other) {
				continue
			}
			seen = append(seen, other)
			if !yield(other) {
				return
			}
		}
	}
}

// LocalToWorld maps a body-local point into world space.
func (b *Body) LocalToWorld(p Vector2D) Vector2D {
	return b.Pos.Add(p.Rotate(b.dir))
}

func (b *Body) WorldToLocal(p Vector2D) Vector2D {
	return p.Sub(b.Pos).Unrotate(b.dir)
}

// VelocityAt is the velocity of the world point p attached to the body.
func (b *Body) VelocityAt(p Vector2D) Vector2D {
	return b.Vel.Add(p.Sub(b.Pos).Left().Scale(b.AngVel))
}

// ApplyForce accumulates a force through the centre of mass until the next step.
func (b *Body) ApplyForce(force Vector2D) {
	b.force = b.force.Add(force)
}

func (b *Body) ApplyTorque(torque float64) {
	b.torque += torque
}

// ApplyImpulse applies impulse j at offset r from the body origin.
func (b *Body) ApplyImpulse(j, r Vector2D) {
	b.Vel = b.Vel.Add(j.Scale(b.invMass))
	b.AngVel += b.invInertia * r.Cross(j)
}

func (b *Body) applyBias(j, r Vector2D) {
	b.velBias = b.velBias.Add(j.Scale(b.invMass))
	b.angVelBias += b.invInertia * r.Cross(j)
}

func (b *Body) integrateVelocity(dt float64) {
	if b.IsStatic() {
		b.force = Vector2D{}
		b.torque = 0
		return
	}

	acc := b.Gravity.Add(b.force.Scale(b.invMass))
	b.Vel = b.Vel.Add(acc.Scale(dt)).Scale(b.Damping)
	b.AngVel = (b.AngVel + b.torque*b.invInertia*dt) * b.Damping

	b.force = Vector2D{}
	b.torque = 0
}

func (b *Body) integratePosition(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Add(b.velBias).Scale(dt))
	b.SetAngle(b.angle + dt*(b.AngVel+b.angVelBias))

	b.velBias = Vector2D{}
	b.angVelBias = 0
}

func (b *Body) removeArbiter(arb *Arbiter) {
	if i := slices.Index(b.arbiters, arb); i >= 0 {
		b.arbiters = slices.Delete(b.arbiters, i, i+1)
	}
}
