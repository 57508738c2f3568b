// Command glazeview runs a scene in a window. Drag bodies with the mouse.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // basicfont is a font.Face
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/0x5844/glaze/physics"
	"github.com/0x5844/glaze/scene"
)

const (
	screenWidth  = 800
	screenHeight = 600
	rayCount     = 40
	rayRange     = 1000
)

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorShape      = color.RGBA{20, 20, 20, 255}
	colorStatic     = color.RGBA{120, 120, 120, 255}
	colorTouching   = color.RGBA{220, 30, 30, 255}
	colorContact    = color.RGBA{0, 170, 0, 255}
	colorJoint      = color.RGBA{230, 140, 0, 255}
	colorRay        = color.RGBA{40, 60, 230, 255}
	colorHUD        = color.RGBA{40, 40, 40, 255}
)

type Game struct {
	sc       *scene.Config
	world    *physics.World
	dt       float64
	substeps int

	paused   bool
	showRays bool
	rays     []*physics.Ray

	mouse    physics.Vector2D
	selected *physics.Body
	grab     physics.Vector2D // grabbed point in body space
}

func NewGame(sc *scene.Config, dt float64, substeps int) (*Game, error) {
	g := &Game{sc: sc, dt: dt, substeps: substeps, showRays: true}
	if err := g.reset(); err != nil {
		return nil, err
	}

	for i := 0; i < rayCount; i++ {
		origin := physics.Vector2D{X: float64(i) * screenWidth / rayCount, Y: 0}
		g.rays = append(g.rays, physics.NewRay(origin, physics.Vector2D{X: 500, Y: 1000}, rayRange))
	}
	return g, nil
}

func (g *Game) reset() error {
	w, err := g.sc.Build()
	if err != nil {
		return err
	}
	g.world = w
	g.selected = nil
	return nil
}

// pick returns the dynamic body under p, if any.
func (g *Game) pick(p physics.Vector2D) *physics.Body {
	box := physics.NewAABB(p, p.Add(physics.Vector2D{X: 1, Y: 1}))
	for s := range g.world.Query(box) {
		if !s.Body().IsStatic() && s.ContainsPoint(p) {
			return s.Body()
		}
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.showRays = !g.showRays
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reset(); err != nil {
			return err
		}
	}

	mx, my := ebiten.CursorPosition()
	g.mouse = physics.Vector2D{X: float64(mx), Y: float64(my)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if b := g.pick(g.mouse); b != nil {
			g.selected = b
			g.grab = b.WorldToLocal(g.mouse)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.selected = nil
	}

	if g.paused {
		return nil
	}

	for i := 0; i < g.substeps; i++ {
		if b := g.selected; b != nil {
			pull := g.mouse.Sub(b.LocalToWorld(g.grab))
			b.Vel = b.Vel.Scale(0.9).Add(pull.Scale(1 / (g.dt * float64(g.substeps))))
		}
		g.world.Step(g.dt, physics.DefaultIterations)
	}

	if g.showRays {
		for _, r := range g.rays {
			r.Reset()
			g.world.Raycast(r)
		}
	}
	return nil
}

// ==================== RENDERING ====================

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, s := range g.world.Shapes() {
		drawShape(screen, s)
	}

	for _, j := range g.world.Joints() {
		a, b := j.Anchors()
		line(screen, a, b, 2, colorJoint)
	}

	for _, arb := range g.world.Arbiters() {
		for _, c := range arb.Contacts() {
			vector.DrawFilledCircle(screen, float32(c.Pos.X), float32(c.Pos.Y), 3, colorContact, true)
		}
	}

	if g.showRays {
		for _, r := range g.rays {
			end := r.End()
			line(screen, r.Origin, end, 1, colorRay)
			if hit, ok := r.Hit(); ok {
				line(screen, end, end.Add(hit.Normal.Scale(20)), 2, colorContact)
			}
		}
	}

	hud := fmt.Sprintf("step %d  bodies %d  arbiters %d  contacts %d  fps %.0f",
		g.world.Stamp(), len(g.world.Bodies()), len(g.world.Arbiters()), g.world.ContactCount(), ebiten.ActualFPS())
	text.Draw(screen, hud, basicfont.Face7x13, 10, 20, colorHUD)
	text.Draw(screen, "space pause  v rays  r reset  drag to throw", basicfont.Face7x13, 10, 36, colorHUD)
	if g.paused {
		text.Draw(screen, "PAUSED", basicfont.Face7x13, screenWidth-60, 20, colorTouching)
	}
}

func drawShape(screen *ebiten.Image, s physics.Shape) {
	body := s.Body()
	clr := colorShape
	switch {
	case body.IsStatic():
		clr = colorStatic
	case len(body.Arbiters()) > 0:
		clr = colorTouching
	}

	switch s := s.(type) {
	case *physics.Circle:
		c := s.Center()
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(s.Radius), 1, clr, true)
		rot := body.Dir().Scale(s.Radius)
		line(screen, c.Add(rot.Scale(0.4)), c.Add(rot), 1, clr)
	case *physics.Polygon:
		verts := s.Vertices()
		for i, v := range verts {
			line(screen, v, verts[(i+1)%len(verts)], 1, clr)
		}
	}
}

func line(screen *ebiten.Image, a, b physics.Vector2D, width float32, clr color.Color) {
	vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	var (
		sceneFile = flag.String("scene", "", "JSON or TMX scene file to load")
		sceneType = flag.String("scene-type", "polygons", "generated scene type")
		bodies    = flag.Int("bodies", 80, "number of bodies for generated scenes")
		seed      = flag.Int64("seed", 1, "random seed for generated scenes")
		timeStep  = flag.Float64("timestep", 1.0/60.0, "physics time step")
		substeps  = flag.Int("substeps", 3, "physics steps per frame")
	)
	flag.Parse()

	var (
		sc  *scene.Config
		err error
	)
	if *sceneFile != "" {
		sc, err = scene.Load(*sceneFile)
	} else {
		sc, err = scene.Generate(*sceneType, scene.Options{
			Bodies:  *bodies,
			Seed:    *seed,
			Gravity: scene.DefaultGravity,
		})
	}
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	game, err := NewGame(sc, *timeStep, max(*substeps, 1))
	if err != nil {
		log.Fatalf("Failed to set up scene: %v", err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Glaze")
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
