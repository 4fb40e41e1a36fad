package sim

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/camera"
	"github.com/pthm-cable/forcefield/forces"
	"github.com/pthm-cable/forcefield/renderer"
)

// initGraphics creates the camera and renderers. Requires no open window;
// raylib calls happen in Draw.
func (s *Sim) initGraphics() {
	scr := s.cfg.Screen
	s.camera = camera.New(float32(scr.Width), float32(scr.Height), scr.Scale)
	s.background = renderer.NewBackgroundRenderer(12, 14, 22)
	s.particles = renderer.NewParticleRenderer()
	s.gizmos = renderer.NewGizmoRenderer()
	s.showGizmos = true
}

// Update handles input and advances the simulation unless paused.
func (s *Sim) Update() {
	s.handleInput()
	if s.paused {
		return
	}
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.step()
	}
}

// Draw renders the particle layer and HUD.
func (s *Sim) Draw() {
	s.perfCollector.RecordFrame()

	rl.BeginDrawing()
	s.DrawLayer()
	s.drawHUD()
	if s.paused {
		s.drawTooltip()
	}
	rl.EndDrawing()
}

// DrawLayer draws the background, particles and force gizmos through the
// sim camera. Call between rl.BeginDrawing and rl.EndDrawing.
func (s *Sim) DrawLayer() {
	s.background.Draw(s.camera)
	s.particles.Draw(s.camera, s.collectSprites())
	if s.showGizmos {
		s.gizmos.Draw(s.camera, s.Forces())
	}
}

// Camera returns the view camera, nil in headless mode.
func (s *Sim) Camera() *camera.Camera {
	return s.camera
}

// Paused reports whether stepping is paused.
func (s *Sim) Paused() bool {
	return s.paused
}

// collectSprites gathers drawable particle state into a reused buffer.
func (s *Sim) collectSprites() []renderer.Sprite {
	s.sprites = s.sprites[:0]
	query := s.allFilter.Query()
	for query.Next() {
		pos, _, p := query.Get()
		s.sprites = append(s.sprites, renderer.Sprite{Position: pos.Value, OverLife: p.OverLife()})
	}
	return s.sprites
}

// drawHUD renders tick, particle counts and controls.
func (s *Sim) drawHUD() {
	rl.DrawText(fmt.Sprintf("Tick: %d  Layer: %.2f", s.tick, s.emitter.LayerOverLife()), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Particles: %d / %d  Spawned: %d", s.alive, s.cfg.Emitter.MaxParticles, s.emitter.Spawned()), 10, 35, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]  Gizmos [G]", s.stepsPerUpdate), 10, 60, 20, rl.White)

	stats := s.perfCollector.Stats()
	rl.DrawText(fmt.Sprintf("Tick: %v  TPS: %.0f  FPS: %d", stats.AvgTickDuration, stats.TicksPerSecond, rl.GetFPS()), 10, 85, 14, rl.LightGray)

	if s.paused {
		rl.DrawText("PAUSED", 10, 105, 20, rl.Yellow)
	}
}

// HoveredParticle holds data about the particle under the cursor.
type HoveredParticle struct {
	Particle forces.Particle
	Position r3.Vec
	Speed    float64
}

// findParticleAt returns the particle closest to (sx, sy) within maxPixels.
func (s *Sim) findParticleAt(sx, sy, maxPixels float32) (HoveredParticle, bool) {
	var closest HoveredParticle
	closestDist := maxPixels * maxPixels
	found := false

	query := s.allFilter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		px, py := s.camera.WorldToScreen(pos.Value)
		dx, dy := px-sx, py-sy
		if d := dx*dx + dy*dy; d <= closestDist {
			closestDist = d
			closest = HoveredParticle{Particle: *p, Position: pos.Value, Speed: vel.Speed()}
			found = true
		}
	}
	return closest, found
}

// drawTooltip describes the particle under the mouse.
func (s *Sim) drawTooltip() {
	mouse := rl.GetMousePosition()
	h, ok := s.findParticleAt(mouse.X, mouse.Y, 8)
	if !ok {
		return
	}
	text := fmt.Sprintf("#%d  life %.2f/%.2f  speed %.2f\n(%.2f, %.2f, %.2f)",
		h.Particle.ID, h.Particle.Life, h.Particle.LifeTime, h.Speed,
		h.Position.X, h.Position.Y, h.Position.Z)
	x, y := int32(mouse.X)+14, int32(mouse.Y)+14
	rl.DrawRectangle(x-4, y-4, rl.MeasureText(text, 12)+8, 36, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawText(text, x, y, 12, rl.White)
}
