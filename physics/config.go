package physics

// Tunables shared by every World. They are fixed at build time.
const (
	// AreaMassRatio converts density × area into mass.
	AreaMassRatio = 0.01

	// ResolveSlop is the penetration depth left uncorrected to avoid jitter.
	ResolveSlop = 0.2

	// ResolveBias is the fraction of the remaining penetration corrected per step.
	ResolveBias = 0.2

	// DefaultDamping multiplies linear and angular velocity every step.
	DefaultDamping = 0.997

	// StaleSteps is how many steps an arbiter may go unconfirmed before it is destroyed.
	StaleSteps = 3

	DefaultIterations = 10

	// polygonContacts is the contact capacity of a polygon–polygon arbiter.
	polygonContacts = 3
)

// Material holds the surface coefficients of a shape.
type Material struct {
	Restitution float64 `json:"restitution"`
	Friction    float64 `json:"friction"`
}

var DefaultMaterial = Material{Restitution: 0.2, Friction: 0.8}
