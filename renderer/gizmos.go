package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/camera"
	"github.com/pthm-cable/forcefield/forces"
)

// gizmoColors by force kind.
var gizmoColors = map[forces.Kind]rl.Color{
	forces.KindDrag:           {R: 120, G: 200, B: 120, A: 200},
	forces.KindLorentz:        {R: 120, G: 160, B: 255, A: 200},
	forces.KindGravity:        {R: 200, G: 200, B: 200, A: 200},
	forces.KindWind:           {R: 160, G: 230, B: 230, A: 200},
	forces.KindPointGravity:   {R: 255, G: 140, B: 80, A: 200},
	forces.KindPlaneCollision: {R: 230, G: 90, B: 90, A: 220},
}

// GizmoRenderer outlines force volumes projected onto the XY plane.
type GizmoRenderer struct {
	ShowLabels bool
}

// NewGizmoRenderer creates a gizmo renderer with labels on.
func NewGizmoRenderer() *GizmoRenderer {
	return &GizmoRenderer{ShowLabels: true}
}

// Draw outlines every force. Inactive forces are drawn dimmed.
func (r *GizmoRenderer) Draw(cam *camera.Camera, fs []forces.Force) {
	for _, f := range fs {
		r.drawForce(cam, f)
	}
}

func (r *GizmoRenderer) drawForce(cam *camera.Camera, f forces.Force) {
	c := forces.CommonOf(f)
	color := gizmoColors[f.Kind()]
	if !c.Active {
		color.A /= 4
	}

	cx, cy := cam.WorldToScreen(c.Position)

	switch {
	case f.Kind() == forces.KindPlaneCollision:
		r.drawPlane(cam, c.Position, f.(*forces.PlaneCollision).Direction, color)
	case c.InfinityRange:
		// Unbounded forces have no volume to outline.
	case c.Shape == forces.ShapeBox:
		half := c.HalfBoxSize()
		x0, y0 := cam.WorldToScreen(r3.Vec{X: c.Position.X - half.X, Y: c.Position.Y + half.Y})
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X:      x0,
			Y:      y0,
			Width:  cam.Length(c.BoxSize.X),
			Height: cam.Length(c.BoxSize.Y),
		}, 1.5, color)
	default:
		rl.DrawCircleLinesV(rl.Vector2{X: cx, Y: cy}, cam.Length(c.Radius), color)
	}

	switch v := f.(type) {
	case *forces.PointGravity:
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, max(cam.Length(v.PointRadius), 2), color)
	case *forces.Lorentz:
		drawArrow(cam, c.Position, v.Direction, color)
	case *forces.Wind:
		drawArrow(cam, c.Position, v.Direction, color)
	}

	if r.ShowLabels && c.Name != "" {
		rl.DrawText(c.Name, int32(cx)+6, int32(cy)-16, 12, color)
	}
}

// drawPlane draws the plane's trace on z = 0 and a short normal marker.
func (r *GizmoRenderer) drawPlane(cam *camera.Camera, pos, normal r3.Vec, color rl.Color) {
	n := r3.Vec{X: normal.X, Y: normal.Y}
	if r3.Norm2(n) < 1e-12 {
		// Normal along Z: the plane is parallel to the view.
		return
	}
	n = r3.Unit(n)
	along := r3.Vec{X: -n.Y, Y: n.X}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	reach := math.Hypot(maxX-minX, maxY-minY)

	ax, ay := cam.WorldToScreen(r3.Add(pos, r3.Scale(-reach, along)))
	bx, by := cam.WorldToScreen(r3.Add(pos, r3.Scale(reach, along)))
	rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 2, color)
	drawArrow(cam, pos, n, color)
}

// drawArrow draws a fixed-length screen arrow from pos along dir.
func drawArrow(cam *camera.Camera, pos, dir r3.Vec, color rl.Color) {
	d := r3.Vec{X: dir.X, Y: dir.Y}
	if r3.Norm2(d) < 1e-12 {
		return
	}
	d = r3.Unit(d)
	const length = 24.0 // pixels

	sx, sy := cam.WorldToScreen(pos)
	tip := rl.Vector2{X: sx + float32(d.X*length), Y: sy - float32(d.Y*length)}
	rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, tip, 1.5, color)

	// Arrow head
	back := rl.Vector2{X: -float32(d.X * 6), Y: float32(d.Y * 6)}
	side := rl.Vector2{X: float32(d.Y * 4), Y: float32(d.X * 4)}
	rl.DrawLineEx(tip, rl.Vector2{X: tip.X + back.X + side.X, Y: tip.Y + back.Y + side.Y}, 1.5, color)
	rl.DrawLineEx(tip, rl.Vector2{X: tip.X + back.X - side.X, Y: tip.Y + back.Y - side.Y}, 1.5, color)

