// Package termview draws a physics world into a terminal with tcell.
package termview

import (
	"context"
	"fmt"
	"math"

	"github.com/0x5844/glaze/physics"
	"github.com/gdamore/tcell/v2"
)

var (
	staticStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	dynamicStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	touchingStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	contactStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	jointStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

const (
	staticRune  = '▒'
	dynamicRune = '█'
	contactRune = '+'
	jointRune   = '·'
)

// View maps a rectangle of world space onto the terminal. The last row is
// reserved for a status line.
type View struct {
	screen tcell.Screen
	origin physics.Vector2D
	cellW  float64
	cellH  float64
}

// New opens the terminal.
func New() (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an initialised screen. Cells default to 10x20 world
// units, which keeps circles round in most terminal fonts.
func NewWithScreen(screen tcell.Screen) *View {
	return &View{screen: screen, cellW: 10, cellH: 20}
}

func (v *View) Screen() tcell.Screen { return v.screen }

// Fit scales the view so box fills the drawing area.
func (v *View) Fit(box physics.AABB) {
	cols, rows := v.area()
	if cols <= 0 || rows <= 0 || box.Width() <= 0 || box.Height() <= 0 {
		return
	}
	// a cell is about twice as tall as it is wide
	scale := math.Max(box.Width()/float64(cols), box.Height()/float64(2*rows))
	v.cellW = scale
	v.cellH = 2 * scale
	v.origin = box.Min
}

// FitWorld fits the bounding box of every shape in w.
func (v *View) FitWorld(w *physics.World) {
	shapes := w.Shapes()
	if len(shapes) == 0 {
		return
	}
	box := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bb := s.BoundingBox()
		box.Min = physics.Vector2D{X: math.Min(box.Min.X, bb.Min.X), Y: math.Min(box.Min.Y, bb.Min.Y)}
		box.Max = physics.Vector2D{X: math.Max(box.Max.X, bb.Max.X), Y: math.Max(box.Max.Y, bb.Max.Y)}
	}
	v.Fit(box)
}

func (v *View) area() (cols, rows int) {
	cols, rows = v.screen.Size()
	return cols, rows - 1
}

// Visible is the world rectangle currently on screen.
func (v *View) Visible() physics.AABB {
	cols, rows := v.area()
	return physics.NewAABB(v.origin, v.origin.Add(physics.Vector2D{X: float64(cols) * v.cellW, Y: float64(rows) * v.cellH}))
}

// Cell returns the terminal cell covering world point p.
func (v *View) Cell(p physics.Vector2D) (x, y int) {
	return int(math.Floor((p.X - v.origin.X) / v.cellW)), int(math.Floor((p.Y - v.origin.Y) / v.cellH))
}

func (v *View) center(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: v.origin.X + (float64(x)+0.5)*v.cellW,
		Y: v.origin.Y + (float64(y)+0.5)*v.cellH,
	}
}

func (v *View) set(x, y int, r rune, style tcell.Style) {
	cols, rows := v.area()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

// ==================== RENDERING ====================

// Draw rasterises w into the back buffer and shows it.
func (v *View) Draw(w *physics.World) {
	v.screen.Clear()

	for s := range w.Query(v.Visible()) {
		v.drawShape(s)
	}

	for _, j := range w.Joints() {
		a, b := j.Anchors()
		v.drawLine(a, b)
	}

	for _, arb := range w.Arbiters() {
		for _, c := range arb.Contacts() {
			x, y := v.Cell(c.Pos)
			v.set(x, y, contactRune, contactStyle)
		}
	}

	v.drawStatus(fmt.Sprintf(" step %d  bodies %d  arbiters %d  contacts %d ",
		w.Stamp(), len(w.Bodies()), len(w.Arbiters()), w.ContactCount()))
	v.screen.Show()
}

func (v *View) drawShape(s physics.Shape) {
	body := s.Body()
	r, style := dynamicRune, dynamicStyle
	switch {
	case body.IsStatic():
		r, style = staticRune, staticStyle
	case len(body.Arbiters()) > 0:
		style = touchingStyle
	}

	bb := s.BoundingBox()
	x0, y0 := v.Cell(bb.Min)
	x1, y1 := v.Cell(bb.Max)
	cols, rows := v.area()
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, cols-1), min(y1, rows-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if s.ContainsPoint(v.center(x, y)) {
				v.screen.SetContent(x, y, r, nil, style)
			}
		}
	}
}

func (v *View) drawLine(a, b physics.Vector2D) {
	d := b.Sub(a)
	steps := int(math.Max(math.Abs(d.X)/v.cellW, math.Abs(d.Y)/v.cellH)) + 1
	for i := 0; i <= steps; i++ {
		x, y := v.Cell(a.Add(d.Scale(float64(i) / float64(steps))))
		v.set(x, y, jointRune, jointStyle)
	}
}

func (v *View) drawStatus(text string) {
	cols, rows := v.screen.Size()
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, rows-1, r, nil, statusStyle)
		x++
	}
}

// ==================== INPUT ====================

// handle reacts to one terminal event and reports whether the view should
// stay open.
func (v *View) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return false
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Listen polls terminal events until the user quits, then calls cancel. It
// returns when the screen is closed.
func (v *View) Listen(ctx context.Context, cancel context.CancelFunc) {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if !v.handle(ev) {
			cancel()
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (v *View) Close() {
	v.screen.Fini()
}
