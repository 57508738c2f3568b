// Package scene builds physics worlds from scene descriptions: JSON files,
// Tiled maps and procedural generators.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/0x5844/glaze/physics"
)

var (
	ErrUnknownBodyType    = errors.New("unknown body type")
	ErrUnknownSceneFormat = errors.New("unknown scene format")
	ErrUnknownSceneType   = errors.New("unknown scene type")
	ErrUnknownBroadPhase  = errors.New("unknown broad phase")
)

// DefaultGravity pulls towards the bottom of a y-down screen.
var DefaultGravity = physics.Vector2D{X: 0, Y: 400}

// ==================== SCENE CONFIGURATION ====================

type Config struct {
	Bodies   []BodyConfig     `json:"bodies"`
	Joints   []JointConfig    `json:"joints,omitempty"`
	Gravity  physics.Vector2D `json:"gravity"`
	Duration float64          `json:"duration,omitempty"`

	// Material applies to shapes that carry none of their own.
	Material *physics.Material `json:"material,omitempty"`

	// Damping overrides physics.DefaultDamping when positive.
	Damping float64 `json:"damping,omitempty"`

	// BroadPhase is one of BroadPhases; empty means "sweep".
	BroadPhase string `json:"broadphase,omitempty"`
}

// BodyConfig describes one body. A single-shape body sets Type and Shape;
// a compound body lists Shapes, each with its own type.
type BodyConfig struct {
	Type            string            `json:"type,omitempty"`
	Position        physics.Vector2D  `json:"position"`
	Velocity        physics.Vector2D  `json:"velocity"`
	Angle           float64           `json:"angle,omitempty"`
	AngularVelocity float64           `json:"angularVelocity,omitempty"`
	Static          bool              `json:"static,omitempty"`
	Group           uint32            `json:"group,omitempty"`
	Gravity         *physics.Vector2D `json:"gravity,omitempty"`

	Shape  ShapeConfig   `json:"shape"`
	Shapes []ShapeConfig `json:"shapes,omitempty"`
}

type ShapeConfig struct {
	Type     string             `json:"type,omitempty"`
	Radius   float64            `json:"radius,omitempty"`
	Width    float64            `json:"width,omitempty"`
	Height   float64            `json:"height,omitempty"`
	Vertices []physics.Vector2D `json:"vertices,omitempty"`

	// Offset and Angle place the shape in body space.
	Offset physics.Vector2D `json:"offset"`
	Angle  float64          `json:"angle,omitempty"`

	Density  float64           `json:"density,omitempty"`
	Material *physics.Material `json:"material,omitempty"`
}

// JointConfig links two bodies by index. Missing anchors default to the
// body positions.
type JointConfig struct {
	A       int               `json:"a"`
	B       int               `json:"b"`
	AnchorA *physics.Vector2D `json:"anchorA,omitempty"`
	AnchorB *physics.Vector2D `json:"anchorB,omitempty"`
}

// Load reads a scene file, choosing the decoder from the file extension.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = LoadJSON(path)
	case ".tmx":
		cfg, err = LoadTMX(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownSceneFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[scene] loaded %d bodies, %d joints from %s", len(cfg.Bodies), len(cfg.Joints), path)
	return cfg, nil
}

func LoadJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Gravity: DefaultGravity}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ==================== WORLD CONSTRUCTION ====================

// Build creates a fresh world populated from cfg. Building the same config
// twice yields worlds that step identically.
func (cfg *Config) Build() (*physics.World, error) {
	bp, err := NewBroadPhase(cfg.BroadPhase)
	if err != nil {
		return nil, err
	}
	world := physics.NewWorld(bp)
	bodies := make([]*physics.Body, 0, len(cfg.Bodies))

	for i, bc := range cfg.Bodies {
		body, err := cfg.buildBody(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		world.AddBody(body)
		bodies = append(bodies, body)
	}

	for i, jc := range cfg.Joints {
		if jc.A < 0 || jc.A >= len(bodies) || jc.B < 0 || jc.B >= len(bodies) || jc.A == jc.B {
			return nil, fmt.Errorf("joint %d: invalid bodies %d and %d", i, jc.A, jc.B)
		}
		a, b := bodies[jc.A], bodies[jc.B]
		anchorA, anchorB := a.Pos, b.Pos
		if jc.AnchorA != nil {
			anchorA = *jc.AnchorA
		}
		if jc.AnchorB != nil {
			anchorB = *jc.AnchorB
		}
		world.AddJoint(physics.NewDistanceJoint(a, b, anchorA, anchorB))
	}

	return world, nil
}

// BroadPhases lists the names NewBroadPhase accepts.
var BroadPhases = []string{"sweep", "grid", "brute"}

func NewBroadPhase(name string) (physics.BroadPhase, error) {
	switch strings.ToLower(name) {
	case "", "sweep":
		return physics.NewSortedSweep(), nil
	case "grid":
		return physics.NewSpatialGrid(physics.DefaultCellSize), nil
	case "brute":
		return physics.NewBruteForce(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBroadPhase, name)
}

func (cfg *Config) buildBody(bc BodyConfig) (*physics.Body, error) {
	body := physics.NewBody(bc.Position)
	body.SetAngle(bc.Angle)
	body.Group = bc.Group
	if cfg.Damping > 0 {
		body.Damping = cfg.Damping
	}

	shapes := bc.Shapes
	if len(shapes) == 0 {
		sc := bc.Shape
		if sc.Type == "" {
			sc.Type = bc.Type
		}
		shapes = []ShapeConfig{sc}
	}

	for i, sc := range shapes {
		s, err := cfg.buildShape(sc)
		if err != nil {
			if len(shapes) > 1 {
				return nil, fmt.Errorf("shape %d: %w", i, err)
			}
			return nil, err
		}
		body.AddShape(s)
	}

	if bc.Static {
		return body, nil
	}

	body.CalcProperties()
	body.Vel = bc.Velocity
	body.AngVel = bc.AngularVelocity
	body.Gravity = cfg.Gravity
	if bc.Gravity != nil {
		body.Gravity = *bc.Gravity
	}
	return body, nil
}

func (cfg *Config) buildShape(sc ShapeConfig) (physics.Shape, error) {
	var s physics.Shape

	switch strings.ToLower(sc.Type) {
	case "circle":
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("circle radius must be positive, got %g", sc.Radius)
		}
		s = physics.NewCircle(sc.Offset, sc.Radius)
	case "box":
		if sc.Width <= 0 || sc.Height <= 0 {
			return nil, fmt.Errorf("box size must be positive, got %gx%g", sc.Width, sc.Height)
		}
		s = physics.NewBoxShape(sc.Offset.X, sc.Offset.Y, sc.Angle, sc.Width, sc.Height)
	case "polygon":
		if len(sc.Vertices) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(sc.Vertices))
		}
		rot := physics.Polar(sc.Angle)
		verts := make([]physics.Vector2D, len(sc.Vertices))
		for i, v := range sc.Vertices {
			verts[i] = sc.Offset.Add(v.Rotate(rot))
		}
		p := physics.NewPolygon(verts)
		if p.Area() <= 0 {
			return nil, errors.New("polygon has no area")
		}
		s = p
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBodyType, sc.Type)
	}

	density := sc.Density
	if density <= 0 {
		density = 1
	}
	s.CalcMass(density)

	switch {
	case sc.Material != nil:
		s.SetMaterial(*sc.Material)
	case cfg.Material != nil:
		s.SetMaterial(*cfg.Material)
	}
	return s, nil
}
