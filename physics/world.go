package physics

import (
	"iter"
	"slices"
)

// ==================== PHYSICS WORLD ====================

// World owns bodies, shapes, arbiters and joints and advances them in fixed
// steps. It is not safe for concurrent use: Step and the add/remove calls
// must be serialised by the caller.
type World struct {
	bodies   []*Body
	shapes   []Shape
	arbiters []*Arbiter
	joints   []*DistanceJoint

	arbiterIndex map[pairKey]*Arbiter

	broadPhase BroadPhase
	pool       *ContactPool

	stamp uint64
}

// NewWorld creates an empty world. A nil broad phase selects SortedSweep.
func NewWorld(bp BroadPhase) *World {
	if bp == nil {
		bp = NewSortedSweep()
	}
	return &World{
		bodies:       make([]*Body, 0, 256),
		arbiterIndex: make(map[pairKey]*Arbiter),
		broadPhase:   bp,
		pool:         NewContactPool(100),
	}
}

func (w *World) Bodies() []*Body          { return w.bodies }
func (w *World) Shapes() []Shape          { return w.shapes }
func (w *World) Arbiters() []*Arbiter     { return w.arbiters }
func (w *World) Joints() []*DistanceJoint { return w.joints }
func (w *World) Pool() *ContactPool       { return w.pool }
func (w *World) BroadPhase() BroadPhase   { return w.broadPhase }

// Stamp is the number of completed steps.
func (w *World) Stamp() uint64 { return w.stamp }

// ContactCount is the number of live contact points across all arbiters.
func (w *World) ContactCount() int {
	n := 0
	for _, arb := range w.arbiters {
		n += arb.used
	}
	return n
}

func (w *World) AddBody(body *Body) {
	if body.world == w {
		return
	}
	body.world = w
	w.bodies = append(w.bodies, body)
	for _, s := range body.shapes {
		w.addShape(s)
	}
}

// RemoveBody detaches body with its shapes, destroys every arbiter it takes
// part in and drops the joints attached to it.
func (w *World) RemoveBody(body *Body) {
	if body.world != w {
		return
	}
	for _, s := range body.shapes {
		w.removeShape(s)
	}
	w.joints = slices.DeleteFunc(w.joints, func(j *DistanceJoint) bool {
		return j.a == body || j.b == body
	})
	if i := slices.Index(w.bodies, body); i >= 0 {
		w.bodies = slices.Delete(w.bodies, i, i+1)
	}
	body.world = nil
}

func (w *World) AddJoint(j *DistanceJoint) {
	w.joints = append(w.joints, j)
}

func (w *World) RemoveJoint(j *DistanceJoint) {
	if i := slices.Index(w.joints, j); i >= 0 {
		w.joints = slices.Delete(w.joints, i, i+1)
	}
}

func (w *World) addShape(s Shape) {
	s.update()
	w.shapes = append(w.shapes, s)
	w.broadPhase.Insert(s)
}

func (w *World) removeShape(s Shape) {
	for _, arb := range slices.Clone(s.Body().arbiters) {
		if arb.a == s || arb.b == s {
			w.destroyArbiter(arb)
		}
	}
	w.broadPhase.Remove(s)
	if i := slices.Index(w.shapes, s); i >= 0 {
		w.shapes = slices.Delete(w.shapes, i, i+1)
	}
}

// Query yields the shapes whose bounding box intersects box, as of the
// last step.
func (w *World) Query(box AABB) iter.Seq[Shape] {
	return w.broadPhase.Query(box)
}

// Raycast lets every shape near the ray report to it. The caller resets r
// between casts.
func (w *World) Raycast(r *Ray) {
	for s := range w.Query(r.Bounds()) {
		s.IntersectRay(r)
	}
}

// CastRay returns the nearest shape hit by the ray from origin towards
// target within maxRange.
func (w *World) CastRay(origin, target Vector2D, maxRange float64) (RayHit, bool) {
	r := NewRay(origin, target, maxRange)
	w.Raycast(r)
	return r.Hit()
}

// Step advances the world by dt, running the given number of solver passes
// over contacts and joints.
func (w *World) Step(dt float64, iterations int) {
	for _, b := range w.bodies {
		b.integrateVelocity(dt)
	}
	for _, s := range w.shapes {
		s.update()
	}

	w.broadPhase.Collide(w.narrowPhase)

	live := w.arbiters[:0]
	for _, arb := range w.arbiters {
		if w.stamp-arb.stamp > StaleSteps {
			w.unlinkArbiter(arb)
			continue
		}
		arb.prestep(dt)
		live = append(live, arb)
	}
	clear(w.arbiters[len(live):])
	w.arbiters = live

	for _, j := range w.joints {
		j.prestep(dt)
	}

	for i := 0; i < iterations; i++ {
		for _, arb := range w.arbiters {
			arb.perform()
		}
		for _, j := range w.joints {
			j.perform()
		}
	}

	for _, b := range w.bodies {
		b.integratePosition(dt)
	}

	w.stamp++
}

func (w *World) narrowPhase(sa, sb Shape) {
	a, b := sa.Body(), sb.Body()
	if a == b || (a.Group != 0 && a.Group == b.Group) {
		return
	}
	if a.IsStatic() && b.IsStatic() {
		return
	}

	key := makePairKey(sa, sb)
	arb := w.arbiterIndex[key]
	if arb != nil && arb.stamp == w.stamp {
		return
	}

	if sa.Type() > sb.Type() {
		sa, sb = sb, sa
	}

	fresh := arb == nil
	if fresh {
		arb = newArbiter(sa, sb, contactCapacity(sa, sb), w.pool)
	} else {
		// the sweep may hand the pair over in either order
		arb.a, arb.b = sa, sb
	}
	if !collide(sa, sb, arb) {
		return
	}

	if fresh {
		w.arbiters = append(w.arbiters, arb)
		w.arbiterIndex[key] = arb
		a.arbiters = append(a.arbiters, arb)
		b.arbiters = append(b.arbiters, arb)
	}
	arb.stamp = w.stamp
}

// destroyArbiter removes arb from the world and both bodies and returns its
// contacts to the pool.
func (w *World) destroyArbiter(arb *Arbiter) {
	if i := slices.Index(w.arbiters, arb); i >= 0 {
		w.arbiters = slices.Delete(w.arbiters, i, i+1)
	}
	w.unlinkArbiter(arb)
}

func (w *World) unlinkArbiter(arb *Arbiter) {
	delete(w.arbiterIndex, makePairKey(arb.a, arb.b))
	arb.a.Body().removeArbiter(arb)
	arb.b.Body().removeArbiter(arb)
	arb.retire()
}
