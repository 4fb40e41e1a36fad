package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/forces"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.DT <= 0 {
		t.Errorf("dt = %v, want positive", cfg.Simulation.DT)
	}
	if len(cfg.Derived.Forces) != len(cfg.Forces) {
		t.Fatalf("built %d forces from %d records", len(cfg.Derived.Forces), len(cfg.Forces))
	}
	wantKinds := []forces.Kind{
		forces.KindGravity, forces.KindWind, forces.KindPointGravity,
		forces.KindLorentz, forces.KindDrag, forces.KindPlaneCollision,
	}
	for i, k := range wantKinds {
		if got := cfg.Derived.Forces[i].Kind(); got != k {
			t.Errorf("force %d kind = %v, want %v", i, got, k)
		}
	}
	if d := cfg.Derived.EmitterDirection; r3.Norm(d) < 0.999 || r3.Norm(d) > 1.001 {
		t.Errorf("emitter direction %v not unit length", d)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  seed: 99
forces:
  - name: only
    kind: drag
    infinity_range: true
    power: {x: 1, y: 1, z: 1}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Seed != 99 {
		t.Errorf("seed = %d, want 99", cfg.Simulation.Seed)
	}
	if cfg.Simulation.DT <= 0 {
		t.Error("dt default lost after override")
	}
	if len(cfg.Derived.Forces) != 1 {
		t.Fatalf("forces list should be replaced, got %d entries", len(cfg.Derived.Forces))
	}
	d, ok := cfg.Derived.Forces[0].(*forces.Drag)
	if !ok {
		t.Fatalf("force type = %T, want *forces.Drag", cfg.Derived.Forces[0])
	}
	if !d.Active || !d.InfinityRange || d.Power != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("drag decoded as %+v", d.Common)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsInvalidSimulation(t *testing.T) {
	path := writeConfig(t, "simulation:\n  dt: 0\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestBuildForceErrors(t *testing.T) {
	tests := []struct {
		name   string
		record ForceConfig
		want   error
	}{
		{"unknown kind", ForceConfig{Kind: "vortex"}, ErrUnknownForceKind},
		{"unknown shape", ForceConfig{Kind: "drag", Shape: "cone"}, ErrUnknownShape},
		{"unknown timing", ForceConfig{Kind: "drag", Timing: "sometimes"}, ErrUnknownTiming},
		{"decreasing power keys", ForceConfig{Kind: "gravity", PowerKeys: []forces.VectorKey{{T: 1}, {T: 0}}}, ErrInvalidCurve},
		{"decreasing turbulence keys", ForceConfig{Kind: "wind", TurbulenceKeys: []forces.Key{{T: 1}, {T: 0}}}, ErrInvalidCurve},
		{"duplicate power keys", ForceConfig{Kind: "drag", Timing: "over_particle_life", PowerKeys: []forces.VectorKey{{T: 0.5}, {T: 0.5}}}, ErrInvalidCurve},
		{"negative radius", ForceConfig{Kind: "drag", Radius: -1}, ErrInvalidParameter},
		{"negative box", ForceConfig{Kind: "drag", Shape: "box", BoxSize: r3.Vec{X: 1, Y: -1, Z: 1}}, ErrInvalidParameter},
		{"reflection percent", ForceConfig{Kind: "plane_collision", ReflectionPercent: 101}, ErrInvalidParameter},
		{"backward probability", ForceConfig{Kind: "wind", BackwardTurbulenceProbability: -5}, ErrInvalidParameter},
		{"reflection force range", ForceConfig{Kind: "plane_collision", RandomizeReflectionForce: true, ReflectionForceMin: 2, ReflectionForceMax: 1}, ErrInvalidParameter},
		{"negative point radius", ForceConfig{Kind: "point_gravity", PointRadius: -0.5}, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.record.Build(); !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsUnsortedCurve(t *testing.T) {
	path := writeConfig(t, `forces:
  - kind: gravity
    timing: over_particle_life
    power_keys:
      - {t: 1, value: {x: -9.8}}
      - {t: 0, value: {x: 0}}
`)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidCurve) || !errors.Is(err, forces.ErrUnsortedKeys) {
		t.Errorf("expected ErrInvalidCurve wrapping ErrUnsortedKeys, got %v", err)
	}
}

func TestBuildForcesWrapsIndex(t *testing.T) {
	_, err := BuildForces([]ForceConfig{
		{Kind: "drag"},
		{Name: "bad", Kind: "vortex"},
	})
	if !errors.Is(err, ErrUnknownForceKind) {
		t.Fatalf("expected ErrUnknownForceKind, got %v", err)
	}
	if got := err.Error(); got != `force 1 (bad): unknown force kind: "vortex"` {
		t.Errorf("unexpected message %q", got)
	}
}

func TestBuildForceFields(t *testing.T) {
	inactive := false
	f, err := ForceConfig{
		Kind:                     "plane_collision",
		Active:                   &inactive,
		Shape:                    "box",
		BoxSize:                  r3.Vec{X: 2, Y: 2, Z: 2},
		Direction:                r3.Vec{Y: 1},
		Timing:                   "over_particle_life",
		PowerKeys:                []forces.VectorKey{{T: 0, Value: r3.Vec{X: 1}}, {T: 1, Value: r3.Vec{X: 2}}},
		ReflectionPercent:        40,
		ReflectionChaos:          10,
		KillParticles:            true,
		NormalAsReflectionVector: true,
	}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pc, ok := f.(*forces.PlaneCollision)
	if !ok {
		t.Fatalf("type = %T, want *forces.PlaneCollision", f)
	}
	if pc.Active {
		t.Error("expected inactive force")
	}
	if pc.Shape != forces.ShapeBox || pc.Timing != forces.TimingOverParticleLife || pc.PowerLine == nil {
		t.Errorf("common fields decoded as %+v", pc.Common)
	}
	if pc.ReflectionPercent != 40 || pc.ReflectionChaos != 10 || !pc.KillParticles || !pc.NormalAsReflectionVector {
		t.Errorf("plane fields decoded as %+v", pc)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if len(again.Forces) != len(cfg.Forces) {
		t.Fatalf("round trip has %d forces, want %d", len(again.Forces), len(cfg.Forces))
	}
	for i := range cfg.Forces {
		if again.Forces[i].Name != cfg.Forces[i].Name || again.Forces[i].Kind != cfg.Forces[i].Kind {
			t.Errorf("force %d changed: %+v", i, again.Forces[i])
		}
	}
	if again.Emitter.Origin != cfg.Emitter.Origin {
		t.Errorf("emitter origin %v, want %v", again.Emitter.Origin, cfg.Emitter.Origin)
	}
}
