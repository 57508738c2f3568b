package scene

import (
	"fmt"
	"maps"
	"math"
	"math/rand"
	"slices"

	"github.com/0x5844/glaze/physics"
)

// ==================== SCENE GENERATORS ====================

// Options parameterise the procedural scenes. The same options always
// produce the same scene.
type Options struct {
	Bodies   int
	Seed     int64
	Gravity  physics.Vector2D
	Material *physics.Material
	Damping  float64
}

type generator func(r *rand.Rand, bodies int) *Config

var generators = map[string]generator{
	"default":   generateDefaultScene,
	"pyramid":   generatePyramidScene,
	"rain":      generateRainScene,
	"polygons":  generatePolygonScene,
	"chain":     generateChainScene,
	"container": generateContainerScene,
}

// Kinds lists the scene types Generate accepts.
func Kinds() []string {
	return slices.Sorted(maps.Keys(generators))
}

func Generate(kind string, opts Options) (*Config, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSceneType, kind)
	}

	cfg := gen(rand.New(rand.NewSource(opts.Seed)), opts.Bodies)
	cfg.Gravity = opts.Gravity
	cfg.Material = opts.Material
	cfg.Damping = opts.Damping
	return cfg, nil
}

func boxBody(x, y, angle, w, h float64) BodyConfig {
	return BodyConfig{
		Type:     "box",
		Position: physics.Vector2D{X: x, Y: y},
		Angle:    angle,
		Shape:    ShapeConfig{Width: w, Height: h},
	}
}

func circleBody(x, y, radius float64) BodyConfig {
	return BodyConfig{
		Type:     "circle",
		Position: physics.Vector2D{X: x, Y: y},
		Shape:    ShapeConfig{Radius: radius},
	}
}

// ground is a static floor with two outward-leaning walls; its top edge
// sits at y=450.
func ground() BodyConfig {
	return BodyConfig{
		Position: physics.Vector2D{X: 300, Y: 500},
		Static:   true,
		Shapes: []ShapeConfig{
			{Type: "box", Width: 1000, Height: 100},
			{Type: "box", Width: 100, Height: 400, Offset: physics.Vector2D{X: -550, Y: -150}, Angle: -0.4},
			{Type: "box", Width: 100, Height: 400, Offset: physics.Vector2D{X: 550, Y: -150}, Angle: 0.4},
		},
	}
}

func generateDefaultScene(r *rand.Rand, bodies int) *Config {
	cfg := &Config{Bodies: []BodyConfig{ground()}}

	for i := 0; i < bodies; i++ {
		x, y := r.Float64()*600, r.Float64()*400
		if i%2 == 0 {
			cfg.Bodies = append(cfg.Bodies, boxBody(x, y, r.Float64()*2*math.Pi, 40, 30))
		} else {
			cfg.Bodies = append(cfg.Bodies, circleBody(x, y, 20))
		}
	}
	return cfg
}

// generatePyramidScene stacks bricks in rows that shrink by one and shift
// by half a brick.
func generatePyramidScene(_ *rand.Rand, bodies int) *Config {
	cfg := &Config{Bodies: []BodyConfig{ground()}}

	const w, h = 36.0, 18.0
	levels := int(math.Sqrt(2*float64(bodies))) + 1
	for level := 0; level < levels; level++ {
		count := levels - level
		left := 300 - float64(count)*w/2 + w/2
		y := 450 - h/2 - float64(level)*h
		for i := 0; i < count; i++ {
			cfg.Bodies = append(cfg.Bodies, boxBody(left+float64(i)*w, y, 0, w*0.95, h))
		}
	}
	return cfg
}

func generateRainScene(r *rand.Rand, bodies int) *Config {
	cfg := &Config{Bodies: []BodyConfig{ground()}}

	for i := 0; i < bodies; i++ {
		x, y := r.Float64()*600, -r.Float64()*800
		var b BodyConfig
		if r.Float64() < 0.7 {
			b = circleBody(x, y, r.Float64()*10+5)
		} else {
			b = boxBody(x, y, r.Float64()*math.Pi, r.Float64()*20+10, r.Float64()*20+10)
		}
		b.Velocity = physics.Vector2D{X: (r.Float64() - 0.5) * 100, Y: r.Float64() * 200}
		cfg.Bodies = append(cfg.Bodies, b)
	}
	return cfg
}

// generatePolygonScene drops regular polygons of 3 to 6 sides.
func generatePolygonScene(r *rand.Rand, bodies int) *Config {
	cfg := &Config{Bodies: []BodyConfig{ground()}}

	for i := 0; i < bodies; i++ {
		n := r.Intn(4) + 3
		radius := 20 * (0.5 + r.Float64())
		verts := make([]physics.Vector2D, n)
		for j := range verts {
			verts[j] = physics.Polar(float64(n-j) / float64(n) * 2 * math.Pi).Scale(radius)
		}
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Type:     "polygon",
			Position: physics.Vector2D{X: r.Float64() * 600, Y: r.Float64() * 400},
			Angle:    r.Float64() * 2 * math.Pi,
			Shape:    ShapeConfig{Vertices: verts},
		})
	}
	return cfg
}

// generateChainScene hangs a chain of small boxes from a fixed anchor, each
// link joined to the previous one at their centres.
func generateChainScene(_ *rand.Rand, bodies int) *Config {
	const size = 15.0
	const chainGroup = 1

	cfg := &Config{Bodies: []BodyConfig{ground()}}

	anchor := circleBody(20, 100, size)
	anchor.Static = true
	anchor.Group = chainGroup
	cfg.Bodies = append(cfg.Bodies, anchor)

	for i := 1; i <= bodies; i++ {
		link := boxBody(20+float64(i)*size, 100, 0, size, size)
		link.Group = chainGroup
		cfg.Bodies = append(cfg.Bodies, link)

		n := len(cfg.Bodies)
		cfg.Joints = append(cfg.Joints, JointConfig{A: n - 2, B: n - 1})
	}
	return cfg
}

func generateContainerScene(r *rand.Rand, bodies int) *Config {
	const (
		wall   = 20.0
		width  = 400.0
		height = 300.0
		cx, cy = 300.0, 300.0
	)

	cfg := &Config{Bodies: []BodyConfig{{
		Position: physics.Vector2D{X: cx, Y: cy},
		Static:   true,
		Shapes: []ShapeConfig{
			{Type: "box", Width: width + wall, Height: wall, Offset: physics.Vector2D{Y: height / 2}},
			{Type: "box", Width: wall, Height: height, Offset: physics.Vector2D{X: -width / 2}},
			{Type: "box", Width: wall, Height: height, Offset: physics.Vector2D{X: width / 2}},
		},
	}}}

	for i := 0; i < bodies; i++ {
		x := cx + (r.Float64()-0.5)*(width-2*wall-40)
		y := cy + height/2 - wall - r.Float64()*height*2
		if r.Float64() < 0.6 {
			cfg.Bodies = append(cfg.Bodies, circleBody(x, y, r.Float64()*8+6))
		} else {
			size := r.Float64()*14 + 10
			cfg.Bodies = append(cfg.Bodies, boxBody(x, y, 0, size, size))
		}
	}
	return cfg
}
