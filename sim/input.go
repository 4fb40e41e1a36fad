package sim

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (s *Sim) handleInput() {
	s.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && s.stepsPerUpdate > 1 {
		s.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && s.stepsPerUpdate < 10 {
		s.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyG) {
		s.showGizmos = !s.showGizmos
	}

	// Single step while paused
	if s.paused && rl.IsKeyPressed(rl.KeyN) {
		s.step()
	}

	s.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (s *Sim) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	s.camera.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

// handleCameraInput processes camera pan/zoom controls.
func (s *Sim) handleCameraInput() {
	const panSpeed = 8.0 // pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		s.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		s.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		s.camera.Pan(0, -panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		s.camera.Pan(0, panSpeed)
	}

	// Drag with the right mouse button
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		s.camera.Pan(d.X, d.Y)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		s.camera.ZoomAt(1+float64(wheel)*0.1, mouse.X, mouse.Y)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		s.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		s.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		s.camera.Reset()
	}
}
