package physics

// Contact is one contact point of an arbiter. Accumulated impulses survive
// across steps while the narrow phase keeps reporting the same ID.
type Contact struct {
	Pos    Vector2D
	Normal Vector2D
	// Depth is the signed separation along Normal; negative when penetrating.
	Depth float64

	id      uint64
	updated bool

	jnAcc, jtAcc, jBias float64

	// step-scoped solver terms, recomputed in prestep
	r1, r2       Vector2D
	nMass, tMass float64
	bounce, bias float64
}

func (c *Contact) ID() uint64 { return c.id }

// NormalImpulse is the accumulated impulse along Normal.
func (c *Contact) NormalImpulse() float64 { return c.jnAcc }

// TangentImpulse is the accumulated friction impulse.
func (c *Contact) TangentImpulse() float64 { return c.jtAcc }

func (c *Contact) prestep(a, b *Body, arb *Arbiter, dt float64) {
	c.r1 = c.Pos.Sub(a.Pos)
	c.r2 = c.Pos.Sub(b.Pos)

	c.nMass = 1.0 / kScalar(a, b, c.r1, c.r2, c.Normal)
	c.tMass = 1.0 / kScalar(a, b, c.r1, c.r2, c.Normal.Left())

	c.jBias = 0
	c.bias = biasDist(c.Depth) / dt
	c.bounce = arb.restitution * c.Normal.Dot(relativeVelocity(a, b, c.r1, c.r2))

	applyImpulse(a, b, c.r1, c.r2, c.Normal.Scale(c.jnAcc).Add(c.Normal.Left().Scale(c.jtAcc)))
}

func (c *Contact) perform(a, b *Body, friction float64) {
	n, t := c.Normal, c.Normal.Left()

	vb := relativeBiasVelocity(a, b, c.r1, c.r2)
	vr := relativeVelocity(a, b, c.r1, c.r2)

	jbn := addPositive(&c.jBias, c.nMass*(vb.Dot(n)-c.bias))
	jn := addPositive(&c.jnAcc, c.nMass*(vr.Dot(n)+c.bounce))
	jt := addClamp(&c.jtAcc, c.tMass*vr.Dot(t), friction*c.jnAcc)

	applyBias(a, b, c.r1, c.r2, n.Scale(jbn))
	applyImpulse(a, b, c.r1, c.r2, n.Scale(jn).Add(t.Scale(jt)))
}

// ==================== OBJECT POOLING SYSTEM ====================

// ContactPool is the free list of contact objects owned by a World. It is
// not safe for concurrent use; a World is stepped from one goroutine.
type ContactPool struct {
	free      []*Contact
	allocated int
}

func NewContactPool(capacity int) *ContactPool {
	return &ContactPool{free: make([]*Contact, 0, capacity)}
}

// Get pops a contact from the free list, allocating when it is empty. The
// returned contact has zero accumulated impulses.
func (p *ContactPool) Get() *Contact {
	n := len(p.free)
	if n == 0 {
		p.allocated++
		return &Contact{}
	}
	c := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	*c = Contact{}
	return c
}

// Put returns c to the free list. c must not be used afterwards.
func (p *ContactPool) Put(c *Contact) {
	p.free = append(p.free, c)
}

// Len is the number of contacts waiting in the free list.
func (p *ContactPool) Len() int { return len(p.free) }

// Allocated is the number of contacts ever created by the pool.
func (p *ContactPool) Allocated() int { return p.allocated }
