package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/components"
	"github.com/pthm-cable/forcefield/config"
	"github.com/pthm-cable/forcefield/forces"
)

const testDT = 1.0 / 60.0

func testEmitterConfig() config.EmitterConfig {
	return config.EmitterConfig{
		Origin:        r3.Vec{Y: 1},
		Spread:        30,
		Rate:          60,
		MaxParticles:  1000,
		LifetimeMin:   2,
		LifetimeMax:   4,
		SpeedMin:      5,
		SpeedMax:      10,
		LayerDuration: 1,
	}
}

// collect returns particle state keyed by ID.
func collect(w *ecs.World) map[uint32]forces.State {
	out := make(map[uint32]forces.State)
	filter := ecs.NewFilter3[components.Position, components.Velocity, forces.Particle](w)
	query := filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		out[p.ID] = forces.State{Position: pos.Value, Velocity: vel.Value}
	}
	return out
}

func TestEmitterRateAccumulates(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 90 // 1.5 per tick
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 1)

	total := 0
	for i := 0; i < 4; i++ {
		total += em.Update(testDT, total)
	}
	if total != 6 {
		t.Errorf("spawned %d over 4 ticks, want 6", total)
	}
	if em.Spawned() != 6 {
		t.Errorf("Spawned() = %d, want 6", em.Spawned())
	}
	if got := len(collect(w)); got != 6 {
		t.Errorf("world holds %d particles, want 6", got)
	}
}

func TestEmitterRespectsMaxParticles(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 6000
	cfg.MaxParticles = 30
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 1)

	alive := em.Update(testDT, 0)
	if alive != 30 {
		t.Fatalf("first tick spawned %d, want cap of 30", alive)
	}
	if n := em.Update(testDT, alive); n != 0 {
		t.Errorf("spawned %d at capacity, want 0", n)
	}
}

func TestEmitterSpawnRanges(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 30000
	dir := r3.Unit(r3.Vec{X: 1, Y: 1})
	em := NewEmitterSystem(w, cfg, dir, 3)
	em.Update(testDT, 0)

	cosMax := math.Cos(cfg.Spread * math.Pi / 180)
	filter := ecs.NewFilter3[components.Position, components.Velocity, forces.Particle](w)
	query := filter.Query()
	seen := map[uint32]bool{}
	for query.Next() {
		pos, vel, p := query.Get()
		if pos.Value != cfg.Origin || pos.Prev != cfg.Origin {
			t.Errorf("particle %d spawned at %v", p.ID, pos.Value)
		}
		speed := vel.Speed()
		if speed < cfg.SpeedMin-1e-9 || speed > cfg.SpeedMax+1e-9 {
			t.Errorf("speed %v outside [%v, %v]", speed, cfg.SpeedMin, cfg.SpeedMax)
		}
		if c := r3.Dot(r3.Unit(vel.Value), dir); c < cosMax-1e-9 {
			t.Errorf("direction outside cone: cos = %v, min %v", c, cosMax)
		}
		if p.LifeTime < cfg.LifetimeMin || p.LifeTime > cfg.LifetimeMax {
			t.Errorf("lifetime %v outside range", p.LifeTime)
		}
		if p.Life != 0 {
			t.Errorf("new particle has life %v", p.Life)
		}
		seen[p.ID] = true
	}
	for id := uint32(0); id < em.Spawned(); id++ {
		if !seen[id] {
			t.Fatalf("missing particle id %d", id)
		}
	}
}

func TestEmitterZeroSpreadFollowsDirection(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Spread = 0
	cfg.SpeedMin, cfg.SpeedMax = 2, 2
	dir := r3.Vec{Z: -1}
	em := NewEmitterSystem(w, cfg, dir, 9)
	em.Update(testDT, 0)

	for _, s := range collect(w) {
		if d := r3.Norm(r3.Sub(s.Velocity, r3.Scale(2, dir))); d > 1e-9 {
			t.Errorf("velocity %v, want %v", s.Velocity, r3.Scale(2, dir))
		}
	}
}

func TestEmitterLayerLoops(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 0
	cfg.LayerDuration = 0.5
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 1)

	em.Update(0.2, 0)
	if got := em.LayerOverLife(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("LayerOverLife = %v, want 0.4", got)
	}
	em.Update(0.4, 0)
	if got := em.LayerOverLife(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("LayerOverLife after wrap = %v, want 0.2", got)
	}
}

func TestEmitterResume(t *testing.T) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.LayerDuration = 2
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 1)

	em.Resume(500, 1.5)
	if got := em.LayerTime(); got != 1.5 {
		t.Errorf("LayerTime = %v, want 1.5", got)
	}
	if got := em.LayerOverLife(); got != 0.75 {
		t.Errorf("LayerOverLife = %v, want 0.75", got)
	}

	em.Update(0.5, 0) // 60/s * 0.5s
	ids := make(map[uint32]bool)
	filter := ecs.NewFilter1[forces.Particle](w)
	query := filter.Query()
	for query.Next() {
		ids[query.Get().ID] = true
	}
	if len(ids) != 30 || !ids[500] || !ids[529] {
		t.Errorf("expected IDs 500..529 after resume, got %d ids", len(ids))
	}
}

func TestPerpendicularBasis(t *testing.T) {
	for _, n := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, r3.Unit(r3.Vec{X: 1, Y: -2, Z: 3})} {
		u, v := perpendicularBasis(n)
		if math.Abs(r3.Dot(u, n)) > 1e-9 || math.Abs(r3.Dot(v, n)) > 1e-9 || math.Abs(r3.Dot(u, v)) > 1e-9 {
			t.Errorf("basis for %v not orthogonal: %v %v", n, u, v)
		}
		if math.Abs(r3.Norm(u)-1) > 1e-9 || math.Abs(r3.Norm(v)-1) > 1e-9 {
			t.Errorf("basis for %v not unit: %v %v", n, u, v)
		}
	}
}

func TestMotionIntegrates(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, forces.Particle](w)
	pos := components.Position{Value: r3.Vec{X: 1}}
	vel := components.Velocity{Value: r3.Vec{X: 2, Y: -4}}
	p := forces.Particle{LifeTime: 1}
	e := mapper.NewEntity(&pos, &vel, &p)

	NewMotionSystem(w).Update(0.5)

	got, _, _ := mapper.Get(e)
	if got.Prev != (r3.Vec{X: 1}) {
		t.Errorf("Prev = %v, want old position", got.Prev)
	}
	if got.Value != (r3.Vec{X: 2, Y: -2}) {
		t.Errorf("Value = %v, want (2,-2,0)", got.Value)
	}
}

func TestCleanupRemovesDead(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, forces.Particle](w)
	for i, life := range []float64{0.5, 1, 2, 0} {
		pos, vel := components.Position{}, components.Velocity{}
		p := forces.Particle{ID: uint32(i), Life: life, LifeTime: 1}
		mapper.NewEntity(&pos, &vel, &p)
	}

	if removed := NewCleanupSystem(w).Update(w); removed != 2 {
		t.Errorf("removed %d, want 2", removed)
	}
	left := collect(w)
	if len(left) != 2 {
		t.Fatalf("%d particles left, want 2", len(left))
	}
	if _, ok := left[0]; !ok {
		t.Error("particle 0 should survive")
	}
	if _, ok := left[3]; !ok {
		t.Error("particle 3 should survive")
	}
}

func TestForceSystemAdvancesLifeAndReportsKills(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap3[components.Position, components.Velocity, forces.Particle](w)
	spawn := func(id uint32, at r3.Vec) ecs.Entity {
		pos := components.Position{Value: at, Prev: at}
		vel := components.Velocity{}
		p := forces.Particle{ID: id, LifeTime: 10}
		return mapper.NewEntity(&pos, &vel, &p)
	}
	inside := spawn(1, r3.Vec{})
	outside := spawn(2, r3.Vec{X: 50})

	hole := &forces.PointGravity{
		Common:        forces.Common{Active: true, Shape: forces.ShapeSphere, Radius: 5, Power: r3.Vec{X: 1, Y: 1, Z: 1}},
		PointRadius:   1,
		KillParticles: true,
	}
	fs := NewForceSystem(w, forces.NewTables(1), []forces.Force{hole}, r3.Vec{Y: -1}, 1)
	defer fs.Close()

	res := fs.Update(0.25, 0, 0)
	if res.Processed != 2 || res.Killed != 1 {
		t.Errorf("result = %+v, want 2 processed 1 killed", res)
	}
	_, _, p := mapper.Get(inside)
	if !p.Dead() {
		t.Error("particle inside the hole should be dead")
	}
	_, _, p = mapper.Get(outside)
	if p.Life != 0.25 || p.Dead() {
		t.Errorf("particle outside: life %v dead %v", p.Life, p.Dead())
	}
}

// runLayer emits a burst and steps forces plus motion for a few ticks.
func runLayer(workers int) map[uint32]forces.State {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 60 * 800
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 5)

	floor := &forces.PlaneCollision{
		Common:                   forces.Common{Active: true, InfinityRange: true, Power: r3.Vec{X: 1, Y: 1, Z: 1}},
		Direction:                r3.Vec{Y: 1},
		ReflectionPercent:        50,
		ReflectionChaos:          30,
		RandomizeReflectionForce: true,
		ReflectionForceMin:       0.5,
		ReflectionForceMax:       1,
	}
	wind := &forces.Wind{
		Common:              forces.Common{Active: true, InfinityRange: true, Power: r3.Vec{X: 0.05}},
		Direction:           r3.Vec{X: 1},
		Turbulence:          2,
		TurbulenceFrequency: 1,
	}
	gravity := &forces.Gravity{Common: forces.Common{Active: true, InfinityRange: true, Power: r3.Vec{X: 30}}}

	fs := NewForceSystem(w, forces.NewTables(11), []forces.Force{gravity, wind, floor}, r3.Vec{Y: -1}, workers)
	defer fs.Close()
	motion := NewMotionSystem(w)

	em.Update(testDT, 0)
	for tick := int32(0); tick < 30; tick++ {
		fs.Update(testDT, em.LayerOverLife(), tick)
		motion.Update(testDT)
	}
	return collect(w)
}

func TestForceSystemDeterministicAcrossWorkers(t *testing.T) {
	single := runLayer(1)
	multi := runLayer(4)
	if len(single) != len(multi) || len(single) < parallelThreshold {
		t.Fatalf("particle counts %d vs %d", len(single), len(multi))
	}
	for id, s := range single {
		if m := multi[id]; m != s {
			t.Fatalf("particle %d diverged: %+v vs %+v", id, s, m)
		}
	}
}

func BenchmarkForceSystem(b *testing.B) {
	w := ecs.NewWorld()
	cfg := testEmitterConfig()
	cfg.Rate = 60 * 5000
	cfg.MaxParticles = 5000
	em := NewEmitterSystem(w, cfg, r3.Vec{Y: 1}, 5)
	em.Update(testDT, 0)

	wind := &forces.Wind{
		Common:              forces.Common{Active: true, InfinityRange: true, Power: r3.Vec{X: 0.05}},
		Direction:           r3.Vec{X: 1},
		Turbulence:          2,
		TurbulenceFrequency: 1,
	}
	drag := &forces.Drag{Common: forces.Common{Active: true, InfinityRange: true, Power: r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}}}
	fs := NewForceSystem(w, forces.NewTables(11), []forces.Force{wind, drag}, r3.Vec{Y: -1}, 0)
	defer fs.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fs.Update(1e-6, 0, int32(i))
	}
}
