// Force preview tool - run the particle layer and tweak one force of each
// kind with sliders.
//
// Usage: go run ./cmd/forcepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/forcefield/config"
	"github.com/pthm-cable/forcefield/sim"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	previewWidth = 820
	panelWidth   = windowWidth - previewWidth - 20
)

// panel lays out labeled controls top to bottom.
type panel struct {
	x, y    float32
	changed bool
}

func (p *panel) label(text string, size int32, color rl.Color) {
	rl.DrawText(text, int32(p.x), int32(p.y), size, color)
	p.y += float32(size) + 6
}

func (p *panel) slider(name string, v *float64, lo, hi float64) {
	rl.DrawText(name, int32(p.x), int32(p.y), 14, rl.Gray)
	p.y += 17
	nv := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: p.y, Width: float32(panelWidth - 80), Height: 16},
		"", "",
		float32(*v), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.2f", *v), int32(p.x+float32(panelWidth-70)), int32(p.y), 14, rl.DarkGray)
	if nv != float32(*v) {
		*v = float64(nv)
		p.changed = true
	}
	p.y += 24
}

func (p *panel) intSlider(name string, v *int, lo, hi int) {
	f := float64(*v)
	p.slider(name, &f, float64(lo), float64(hi))
	if int(f) != *v {
		*v = int(f)
	}
}

func (p *panel) check(name string, v *bool) {
	nv := gui.CheckBox(rl.Rectangle{X: p.x, Y: p.y, Width: 16, Height: 16}, name, *v)
	if nv != *v {
		*v = nv
		p.changed = true
	}
	p.y += 24
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	editable := pickOnePerKind(cfg.Forces)
	if len(editable) == 0 {
		slog.Error("config has no forces to preview")
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Force Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	start := func() *sim.Sim {
		s, err := sim.New(cfg, sim.Options{})
		if err != nil {
			slog.Error("failed to start simulation", "error", err)
			os.Exit(1)
		}
		s.Camera().Resize(previewWidth, windowHeight)
		return s
	}
	s := start()
	defer func() { s.Close() }()

	selected := 0
	status := ""

	for !rl.WindowShouldClose() {
		s.Update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		s.DrawLayer()
		rl.DrawText(fmt.Sprintf("Tick %d  Particles %d", s.Tick(), s.Alive()), 10, 10, 16, rl.White)
		if s.Paused() {
			rl.DrawText("PAUSED", 10, 30, 16, rl.Yellow)
		}
		rl.EndScissorMode()

		p := &panel{x: previewWidth + 10, y: 10}
		idx := editable[selected]
		rec := &cfg.Forces[idx]

		// Force selection
		if gui.Button(rl.Rectangle{X: p.x, Y: p.y, Width: 30, Height: 24}, "<") {
			selected = (selected + len(editable) - 1) % len(editable)
		}
		if gui.Button(rl.Rectangle{X: p.x + 36, Y: p.y, Width: 30, Height: 24}, ">") {
			selected = (selected + 1) % len(editable)
		}
		rl.DrawText(fmt.Sprintf("%s (%s)", rec.Name, rec.Kind), int32(p.x+76), int32(p.y+4), 18, rl.DarkGray)
		p.y += 34

		active := rec.Active == nil || *rec.Active
		p.check("Active", &active)
		if rec.Active != nil || !active {
			rec.Active = &active
		}
		p.check("Infinite range", &rec.InfinityRange)

		if !rec.InfinityRange {
			p.slider("Position X", &rec.Position.X, -30, 30)
			p.slider("Position Y", &rec.Position.Y, -20, 20)
			if rec.Shape == "box" {
				p.slider("Box width", &rec.BoxSize.X, 0, 30)
				p.slider("Box height", &rec.BoxSize.Y, 0, 30)
			} else {
				p.slider("Radius", &rec.Radius, 0, 20)
			}
		}

		switch rec.Kind {
		case "gravity":
			p.slider("Gravity", &rec.Power.X, -30, 30)
		case "wind":
			p.slider("Power", &rec.Power.X, 0, 1)
			p.slider("Frequency", &rec.Frequency, 0, 10)
			p.slider("Bias", &rec.Bias, -1, 2)
			p.slider("Turbulence", &rec.Turbulence, 0, 20)
			p.slider("Turbulence frequency", &rec.TurbulenceFrequency, 0, 5)
			p.intSlider("Backward turbulence %", &rec.BackwardTurbulenceProbability, 0, 100)
			p.check("Gust table", &rec.GustTable)
		case "point_gravity":
			p.slider("Power", &rec.Power.X, 0, 100)
			p.slider("Point radius", &rec.PointRadius, 0, 5)
			p.check("Kill particles", &rec.KillParticles)
			p.check("Random points on sphere", &rec.RandomPointsOnSphere)
		case "plane_collision":
			p.slider("Bounce X", &rec.Power.X, 0, 1.5)
			p.slider("Bounce Y", &rec.Power.Y, 0, 1.5)
			p.slider("Velocity threshold", &rec.VelocityThreshold, 0, 5)
			p.intSlider("Reflection %", &rec.ReflectionPercent, 0, 100)
			p.slider("Reflection chaos", &rec.ReflectionChaos, 0, 90)
			p.check("Kill particles", &rec.KillParticles)
			p.check("Normal as reflection vector", &rec.NormalAsReflectionVector)
		default: // drag, lorentz
			p.slider("Power", &rec.Power.X, 0, 50)
		}

		// One slider drives every axis for these kinds.
		switch rec.Kind {
		case "drag", "lorentz", "point_gravity":
			rec.Power.Y, rec.Power.Z = rec.Power.X, rec.Power.X
		}

		if rec.Kind == "wind" || rec.Kind == "plane_collision" {
			angle := directionAngle(rec.Direction)
			before := p.changed
			p.changed = false
			p.slider("Direction (deg)", &angle, -180, 180)
			if p.changed {
				rec.Direction = withDirectionAngle(angle)
			}
			p.changed = p.changed || before
		}

		if p.changed {
			f, err := rec.Build()
			if err != nil {
				status = err.Error()
			} else {
				s.SetForce(idx, f)
				status = ""
			}
		}

		// Buttons
		p.y += 6
		if gui.Button(rl.Rectangle{X: p.x, Y: p.y, Width: 120, Height: 28}, "Restart") {
			s.Close()
			s = start()
		}
		if gui.Button(rl.Rectangle{X: p.x + 130, Y: p.y, Width: 120, Height: 28}, "Copy YAML") {
			if text, err := recordYAML(*rec); err == nil {
				rl.SetClipboardText(text)
				status = "copied"
			} else {
				status = err.Error()
			}
		}
		p.y += 36

		if status != "" {
			p.label(status, 14, rl.Maroon)
		}

		// Output YAML
		if text, err := recordYAML(*rec); err == nil {
			for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
				if p.y > windowHeight-30 {
					break
				}
				p.label(line, 12, rl.Gray)
			}
		}

		rl.DrawText("Space pause  N step  wheel zoom  G gizmos", int32(previewWidth+10), windowHeight-20, 12, rl.LightGray)
		rl.EndDrawing()
	}
}
