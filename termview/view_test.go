package termview

import (
	"context"
	"testing"

	"github.com/0x5844/glaze/physics"
	"github.com/gdamore/tcell/v2"
)

func simView(t *testing.T) *View {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(40, 21)
	t.Cleanup(screen.Fini)

	v := NewWithScreen(screen)
	v.Fit(physics.NewAABB(physics.Vector2D{}, physics.Vector2D{X: 400, Y: 400}))
	return v
}

func fg(v *View, x, y int) (rune, tcell.Color) {
	r, _, style, _ := v.screen.GetContent(x, y)
	c, _, _ := style.Decompose()
	return r, c
}

func TestFit(t *testing.T) {
	v := simView(t)
	if v.cellW != 10 || v.cellH != 20 {
		t.Fatalf("cell = %vx%v, want 10x20", v.cellW, v.cellH)
	}
	if x, y := v.Cell(physics.Vector2D{X: 205, Y: 110}); x != 20 || y != 5 {
		t.Fatalf("Cell = (%d, %d), want (20, 5)", x, y)
	}
	vis := v.Visible()
	if vis.Max.X != 400 || vis.Max.Y != 400 {
		t.Fatalf("Visible = %v", vis)
	}
}

func TestDrawShapes(t *testing.T) {
	v := simView(t)
	w := physics.NewWorld(nil)

	floor := physics.NewBoxBody(200, 390, 0, 400, 20)
	floor.MakeStatic()
	w.AddBody(floor)
	w.AddBody(physics.NewCircleBody(200, 100, 30))

	v.Draw(w)

	if r, c := fg(v, 20, 5); r != dynamicRune || c != tcell.ColorBlue {
		t.Fatalf("ball cell = %q %v", r, c)
	}
	if r, c := fg(v, 20, 19); r != staticRune || c != tcell.ColorGray {
		t.Fatalf("floor cell = %q %v", r, c)
	}
	if r, _ := fg(v, 5, 5); r != ' ' {
		t.Fatalf("empty cell = %q", r)
	}
	if r, _ := fg(v, 1, 20); r != 's' {
		t.Fatalf("status line starts with %q", r)
	}
}

func TestDrawContacts(t *testing.T) {
	v := simView(t)
	w := physics.NewWorld(nil)
	w.AddBody(physics.NewCircleBody(100, 200, 30))
	w.AddBody(physics.NewBoxBody(100, 240, 0, 60, 40))
	w.Step(1.0/60, physics.DefaultIterations)

	if len(w.Arbiters()) != 1 {
		t.Fatalf("got %d arbiters, want 1", len(w.Arbiters()))
	}
	v.Draw(w)

	contacts, touching := 0, 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			r, c := fg(v, x, y)
			switch {
			case r == contactRune && c == tcell.ColorGreen:
				contacts++
			case r == dynamicRune && c == tcell.ColorRed:
				touching++
			}
		}
	}
	if contacts == 0 || touching == 0 {
		t.Fatalf("drew %d contact and %d touching cells", contacts, touching)
	}
}

func TestHandle(t *testing.T) {
	v := simView(t)

	tests := []struct {
		name string
		ev   tcell.Event
		open bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
		{"resize", tcell.NewEventResize(80, 24), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.handle(tt.ev); got != tt.open {
				t.Errorf("handle = %v, want %v", got, tt.open)
			}
		})
	}
}

func TestListenCancels(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	v := NewWithScreen(screen)

	ctx, cancel := context.WithCancel(context.Background())
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	v.Listen(ctx, cancel)

	if ctx.Err() == nil {
		t.Fatal("Listen returned without cancelling")
	}
}
