package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0x5844/glaze/physics"
)

func validConfig() *Config {
	return &Config{
		GravityY:    400,
		TimeStep:    1.0 / 60,
		MaxFPS:      60,
		Iterations:  10,
		Workers:     2,
		BodiesCount: 10,
		SceneType:   "default",
		BroadPhase:  "sweep",

		StatsInterval: 2,
		Damping:     physics.DefaultDamping,
		Restitution: 0.2,
		Friction:    0.8,
		explicit:    map[string]bool{},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, false},
		{"fps too high", func(c *Config) { c.MaxFPS = 5000 }, false},
		{"zero timestep", func(c *Config) { c.TimeStep = 0 }, false},
		{"negative duration", func(c *Config) { c.Duration = -1 }, false},
		{"no bodies", func(c *Config) { c.BodiesCount = 0 }, false},
		{"no iterations", func(c *Config) { c.Iterations = 0 }, false},
		{"zero stats interval", func(c *Config) { c.StatsInterval = 0 }, false},
		{"negative stats interval", func(c *Config) { c.StatsInterval = -1 }, false},
		{"single replica", func(c *Config) { c.Verify = 1 }, false},
		{"verify", func(c *Config) { c.Verify = 4 }, true},
		{"verify with tui", func(c *Config) { c.Verify = 4; c.TUI = true }, false},
		{"damping above one", func(c *Config) { c.Damping = 1.5 }, false},
		{"negative friction", func(c *Config) { c.Friction = -0.1 }, false},
		{"grid", func(c *Config) { c.BroadPhase = "grid" }, true},
		{"unknown broad phase", func(c *Config) { c.BroadPhase = "octree" }, false},
		{"chain scene", func(c *Config) { c.SceneType = "chain" }, true},
		{"unknown scene", func(c *Config) { c.SceneType = "pendulum" }, false},
		{"scene file ignores type", func(c *Config) { c.SceneType = "pendulum"; c.SceneFile = "x.json" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)
			err := validateConfig(c)
			if (err == nil) != tt.ok {
				t.Errorf("validateConfig() error = %v, want ok %v", err, tt.ok)
			}
		})
	}
}

func TestLoadSceneGenerated(t *testing.T) {
	c := validConfig()
	c.SceneType = "rain"
	c.Restitution = 0.5
	c.BroadPhase = "grid"

	sc, err := loadScene(c)
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if sc.Material == nil || sc.Material.Restitution != 0.5 {
		t.Fatalf("material = %+v, want restitution 0.5", sc.Material)
	}
	if sc.Gravity.Y != 400 || sc.BroadPhase != "grid" {
		t.Fatalf("gravity = %v, broad phase %q", sc.Gravity, sc.BroadPhase)
	}
	if _, err := sc.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestLoadSceneFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	data := `{
		"gravity": {"X": 0, "Y": 100},
		"material": {"restitution": 0.1, "friction": 0.1},
		"bodies": [{"type": "circle", "position": {"X": 0, "Y": 0}, "shape": {"radius": 5}}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := validConfig()
	c.SceneFile = path
	sc, err := loadScene(c)
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if sc.Material.Friction != 0.1 {
		t.Fatalf("scene material overwritten: %+v", sc.Material)
	}
	if sc.Damping != physics.DefaultDamping {
		t.Fatalf("damping = %v, want the flag default", sc.Damping)
	}
	if sc.Gravity.Y != 100 {
		t.Fatalf("gravity = %v, want the scene's", sc.Gravity)
	}

	c.explicit["gravity-y"] = true
	c.GravityY = 50
	sc, err = loadScene(c)
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if sc.Gravity.Y != 50 {
		t.Fatalf("gravity = %v, want the explicit flag", sc.Gravity)
	}
}
