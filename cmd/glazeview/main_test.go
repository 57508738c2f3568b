package main

import (
	"testing"

	"github.com/0x5844/glaze/physics"
	"github.com/0x5844/glaze/scene"
)

func testScene() *scene.Config {
	return &scene.Config{
		Bodies: []scene.BodyConfig{
			{Type: "box", Position: physics.Vector2D{X: 300, Y: 500}, Static: true, Shape: scene.ShapeConfig{Width: 600, Height: 40}},
			{Type: "circle", Position: physics.Vector2D{X: 100, Y: 100}, Shape: scene.ShapeConfig{Radius: 20}},
		},
		Gravity: scene.DefaultGravity,
	}
}

func TestPick(t *testing.T) {
	g, err := NewGame(testScene(), 1.0/60, 3)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if len(g.rays) != rayCount {
		t.Fatalf("got %d rays", len(g.rays))
	}

	if b := g.pick(physics.Vector2D{X: 105, Y: 95}); b != g.world.Bodies()[1] {
		t.Fatalf("pick on the circle returned %v", b)
	}
	if b := g.pick(physics.Vector2D{X: 300, Y: 500}); b != nil {
		t.Fatal("static floor should not be picked")
	}
	if b := g.pick(physics.Vector2D{X: 200, Y: 200}); b != nil {
		t.Fatal("picked a body in empty space")
	}
}

func TestReset(t *testing.T) {
	g, err := NewGame(testScene(), 1.0/60, 3)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for i := 0; i < 30; i++ {
		g.world.Step(g.dt, physics.DefaultIterations)
	}
	g.selected = g.world.Bodies()[1]

	if err := g.reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if g.selected != nil || g.world.Stamp() != 0 {
		t.Fatalf("reset kept state: selected %v, stamp %d", g.selected, g.world.Stamp())
	}
	if y := g.world.Bodies()[1].Pos.Y; y != 100 {
		t.Fatalf("circle at y=%v after reset", y)
	}
}
