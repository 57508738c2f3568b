package scene

import (
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/0x5844/glaze/physics"
)

// LoadTMX turns the object layers of a Tiled map into bodies. Rectangles
// become boxes, ellipses circles and polygons convex polygons. Objects on a
// layer named "static", or with a true "static" property, do not move.
//
// Recognised object properties: static, density, restitution, friction,
// group, vx, vy.
func LoadTMX(fsys fs.FS, tmxPath string) (*Config, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	cfg := &Config{Gravity: DefaultGravity}
	for _, og := range levelMap.ObjectGroups {
		static := strings.EqualFold(og.Name, "static")
		for _, o := range og.Objects {
			bc, ok := tmxBody(o, static)
			if !ok {
				continue
			}
			cfg.Bodies = append(cfg.Bodies, bc)
		}
	}
	return cfg, nil
}

func tmxBody(o *tiled.Object, static bool) (BodyConfig, bool) {
	angle := o.Rotation * math.Pi / 180
	rot := physics.Polar(angle)
	origin := physics.Vector2D{X: o.X, Y: o.Y}
	if o.GID != 0 {
		// tile objects are anchored at their bottom-left corner
		origin.Y -= o.Height
	}
	half := physics.Vector2D{X: o.Width / 2, Y: o.Height / 2}

	bc := BodyConfig{
		Angle:  angle,
		Static: static || o.Properties.GetBool("static"),
		Group:  uint32(o.Properties.GetInt("group")),
	}
	bc.Velocity = physics.Vector2D{X: o.Properties.GetFloat("vx"), Y: o.Properties.GetFloat("vy")}

	switch {
	case len(o.Polygons) > 0:
		poly := o.Polygons[0]
		if poly.Points == nil || len(*poly.Points) < 3 {
			return BodyConfig{}, false
		}
		verts := make([]physics.Vector2D, 0, len(*poly.Points))
		for _, p := range *poly.Points {
			verts = append(verts, physics.Vector2D{X: p.X, Y: p.Y})
		}
		c := centroid(verts)
		for i := range verts {
			verts[i] = verts[i].Sub(c)
		}
		bc.Position = origin.Add(c.Rotate(rot))
		bc.Shape = ShapeConfig{Type: "polygon", Vertices: verts}

	case o.Width <= 0 || o.Height <= 0:
		// points, polylines and text have no area
		return BodyConfig{}, false

	case len(o.Ellipses) > 0:
		bc.Position = origin.Add(half.Rotate(rot))
		bc.Shape = ShapeConfig{Type: "circle", Radius: math.Min(o.Width, o.Height) / 2}

	default:
		bc.Position = origin.Add(half.Rotate(rot))
		bc.Shape = ShapeConfig{Type: "box", Width: o.Width, Height: o.Height}
	}

	bc.Type = bc.Shape.Type
	bc.Shape.Density = o.Properties.GetFloat("density")
	if m, ok := tmxMaterial(o); ok {
		bc.Shape.Material = &m
	}
	return bc, true
}

func tmxMaterial(o *tiled.Object) (physics.Material, bool) {
	r, f := o.Properties.GetString("restitution"), o.Properties.GetString("friction")
	if r == "" && f == "" {
		return physics.Material{}, false
	}

	m := physics.DefaultMaterial
	if r != "" {
		m.Restitution = o.Properties.GetFloat("restitution")
	}
	if f != "" {
		m.Friction = o.Properties.GetFloat("friction")
	}
	return m, true
}

// centroid is the area centroid of a simple polygon, falling back to the
// vertex average when the area vanishes.
func centroid(verts []physics.Vector2D) physics.Vector2D {
	var c physics.Vector2D
	area := 0.0
	for i, v := range verts {
		u := verts[(i+1)%len(verts)]
		cross := v.Cross(u)
		area += cross
		c = c.Add(v.Add(u).Scale(cross))
	}
	if area == 0 {
		c = physics.Vector2D{}
		for _, v := range verts {
			c = c.Add(v)
		}
		return c.Scale(1 / float64(len(verts)))
	}
	return c.Scale(1 / (3 * area))
}
