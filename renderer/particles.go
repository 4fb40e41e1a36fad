package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/camera"
)

// Sprite is the drawable state of one particle.
type Sprite struct {
	Position r3.Vec
	OverLife float64 // life fraction in [0, 1]
}

// ParticleRenderer renders layer particles.
type ParticleRenderer struct {
	Size float32 // radius in pixels at zoom 1
	Born rl.Color
	Dies rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{
		Size: 2.5,
		Born: rl.Color{R: 255, G: 210, B: 120, A: 230},
		Dies: rl.Color{R: 90, G: 60, B: 160, A: 0},
	}
}

// Draw renders all visible particles, fading them over their life.
func (r *ParticleRenderer) Draw(cam *camera.Camera, sprites []Sprite) {
	size := r.Size * float32(cam.Zoom)
	if size < 1 {
		size = 1
	}
	radius := float64(size) / (cam.Scale * cam.Zoom)

	for i := range sprites {
		s := &sprites[i]
		if !cam.IsVisible(s.Position, radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(s.Position)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, lerpColor(r.Born, r.Dies, float32(s.OverLife)))
	}
}

// lerpColor blends a toward b by t in [0, 1].
func lerpColor(a, b rl.Color, t float32) rl.Color {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
