package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forcefield/camera"
)

func TestGridStep(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		zoom  float64
		want  float64
	}{
		{"unit spacing", 20, 1, 1},
		{"zoomed out", 20, 0.1, 10},
		{"zoomed in", 20, 10, 0.1},
		{"tiny scale", 1, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.New(800, 600, tt.scale)
			cam.Zoom = tt.zoom
			if got := gridStep(cam, 16); got < tt.want*0.999 || got > tt.want*1.001 {
				t.Errorf("gridStep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLerpColor(t *testing.T) {
	a := rl.Color{R: 0, G: 100, B: 200, A: 255}
	b := rl.Color{R: 100, G: 100, B: 0, A: 55}

	if got := lerpColor(a, b, 0); got != a {
		t.Errorf("t=0 gave %v", got)
	}
	if got := lerpColor(a, b, 1); got != b {
		t.Errorf("t=1 gave %v", got)
	}
	if got := lerpColor(a, b, 0.5); got.R != 50 || got.G != 100 || got.B != 100 || got.A != 155 {
		t.Errorf("t=0.5 gave %v", got)
	}
	if got := lerpColor(a, b, 3); got != b {
		t.Errorf("t beyond 1 should clamp, got %v", got)
	}
}
