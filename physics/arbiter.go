package physics

// Arbiter is the persistent contact manifold of one shape pair. Contacts
// are keyed by a vertex identity so the same physical point keeps its
// accumulated impulse from step to step.
type Arbiter struct {
	a, b Shape

	restitution, friction float64

	stamp uint64

	// contacts[:used] are live; the rest are pooled objects kept for reuse.
	contacts []*Contact
	used     int

	pool *ContactPool
}

func newArbiter(a, b Shape, capacity int, pool *ContactPool) *Arbiter {
	return &Arbiter{
		a:        a,
		b:        b,
		contacts: make([]*Contact, capacity),
		pool:     pool,
	}
}

// Shapes returns the pair in solver order: contact normals point from the
// first shape towards the second.
func (arb *Arbiter) Shapes() (Shape, Shape) { return arb.a, arb.b }

func (arb *Arbiter) Bodies() (*Body, *Body) { return arb.a.Body(), arb.b.Body() }

func (arb *Arbiter) Belongs(a, b Shape) bool {
	return (arb.a == a && arb.b == b) || (arb.a == b && arb.b == a)
}

func (arb *Arbiter) Other(b *Body) *Body {
	if arb.a.Body() == b {
		return arb.b.Body()
	}
	return arb.a.Body()
}

func (arb *Arbiter) Contacts() []*Contact { return arb.contacts[:arb.used] }

// Stamp is the step in which the narrow phase last confirmed the pair.
func (arb *Arbiter) Stamp() uint64 { return arb.stamp }

func (arb *Arbiter) Restitution() float64 { return arb.restitution }
func (arb *Arbiter) Friction() float64    { return arb.friction }

// updateContact refreshes the contact with the given id, or claims a new
// slot for it. It returns false once the arbiter is full.
func (arb *Arbiter) updateContact(p, n Vector2D, dist float64, id uint64) bool {
	var c *Contact
	for _, x := range arb.contacts[:arb.used] {
		if x.id == id {
			c = x
			break
		}
	}

	if c == nil {
		if arb.used == len(arb.contacts) {
			return false
		}
		c = arb.contacts[arb.used]
		if c == nil {
			c = arb.pool.Get()
			arb.contacts[arb.used] = c
		}
		arb.used++
		c.id = id
		c.jnAcc = 0
		c.jtAcc = 0
	}

	c.Pos = p
	c.Normal = n
	c.Depth = dist
	c.updated = true
	return true
}

// retire hands every contact object back to the pool.
func (arb *Arbiter) retire() {
	for i, c := range arb.contacts {
		if c != nil {
			arb.pool.Put(c)
			arb.contacts[i] = nil
		}
	}
	arb.used = 0
}

func (arb *Arbiter) prestep(dt float64) {
	ma, mb := arb.a.Material(), arb.b.Material()
	arb.restitution = ma.Restitution * mb.Restitution
	arb.friction = ma.Friction * mb.Friction

	a, b := arb.a.Body(), arb.b.Body()

	for i := arb.used - 1; i >= 0; i-- {
		c := arb.contacts[i]
		if !c.updated {
			arb.used--
			arb.contacts[i], arb.contacts[arb.used] = arb.contacts[arb.used], c
			continue
		}
		c.updated = false
		c.prestep(a, b, arb, dt)
	}
}

func (arb *Arbiter) perform() {
	a, b := arb.a.Body(), arb.b.Body()
	for _, c := range arb.contacts[:arb.used] {
		c.perform(a, b, arb.friction)
	}
}
