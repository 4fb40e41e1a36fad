package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/camera"
)

// BackgroundRenderer clears the frame and draws a unit grid with the
// effect-space axes.
type BackgroundRenderer struct {
	Clear rl.Color
	Grid  rl.Color
	Axis  rl.Color

	// MinSpacing is the smallest on-screen grid spacing in pixels; coarser
	// steps are chosen as the camera zooms out.
	MinSpacing float32
}

// NewBackgroundRenderer creates a background renderer with the given base color.
func NewBackgroundRenderer(baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		Clear:      rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		Grid:       rl.Color{R: 255, G: 255, B: 255, A: 18},
		Axis:       rl.Color{R: 255, G: 255, B: 255, A: 60},
		MinSpacing: 16,
	}
}

// Draw renders the background for the current view.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.Clear)

	step := gridStep(cam, b.MinSpacing)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()

	for x := math.Floor(minX/step) * step; x <= maxX; x += step {
		sx, _ := cam.WorldToScreen(r3.Vec{X: x})
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, b.Grid)
	}
	for y := math.Floor(minY/step) * step; y <= maxY; y += step {
		_, sy := cam.WorldToScreen(r3.Vec{Y: y})
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, b.Grid)
	}

	ox, oy := cam.WorldToScreen(r3.Vec{})
	rl.DrawLineV(rl.Vector2{X: ox, Y: 0}, rl.Vector2{X: ox, Y: cam.ViewportH}, b.Axis)
	rl.DrawLineV(rl.Vector2{X: 0, Y: oy}, rl.Vector2{X: cam.ViewportW, Y: oy}, b.Axis)
}

// gridStep returns the smallest power-of-ten spacing in effect units that is
// at least minSpacing pixels on screen.
func gridStep(cam *camera.Camera, minSpacing float32) float64 {
	step := 1.0
	for cam.Length(step) < minSpacing {
		step *= 10
	}
	for step > 1e-3 && cam.Length(step/10) >= minSpacing {
		step /= 10
	}
	return step
}
