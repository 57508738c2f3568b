package scene

import (
	"errors"
	"reflect"
	"testing"

	"github.com/0x5844/glaze/physics"
)

func TestGenerateBuildsEveryKind(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			cfg, err := Generate(kind, Options{Bodies: 30, Seed: 1, Gravity: DefaultGravity})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			world, err := cfg.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(world.Bodies()) < 2 {
				t.Fatalf("scene has %d bodies", len(world.Bodies()))
			}

			for i := 0; i < 30; i++ {
				world.Step(1.0/60, physics.DefaultIterations)
			}
		})
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	opts := Options{Bodies: 50, Seed: 42, Gravity: DefaultGravity}
	a, _ := Generate("rain", opts)
	b, _ := Generate("rain", opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different scenes")
	}

	opts.Seed = 43
	c, _ := Generate("rain", opts)
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced the same scene")
	}
}

func TestGenerateChainJoints(t *testing.T) {
	cfg, err := Generate("chain", Options{Bodies: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Joints) != 10 {
		t.Fatalf("got %d joints, want 10", len(cfg.Joints))
	}

	world, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	for _, j := range world.Joints() {
		if j.Rest() != 15 {
			t.Fatalf("link rest length = %f, want 15", j.Rest())
		}
	}
}

func TestGenerateAppliesOptions(t *testing.T) {
	m := &physics.Material{Restitution: 0.5, Friction: 0.1}
	cfg, err := Generate("default", Options{Bodies: 4, Gravity: physics.Vector2D{Y: 9}, Material: m, Damping: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	world, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}

	b := world.Bodies()[1]
	if b.Gravity != (physics.Vector2D{Y: 9}) || b.Damping != 0.5 {
		t.Fatalf("body gravity %v damping %f", b.Gravity, b.Damping)
	}
	if got := b.Shapes()[0].Material(); got != *m {
		t.Fatalf("material = %+v, want %+v", got, *m)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	if _, err := Generate("pendulum", Options{Bodies: 1}); !errors.Is(err, ErrUnknownSceneType) {
		t.Fatalf("err = %v, want ErrUnknownSceneType", err)
	}
}
