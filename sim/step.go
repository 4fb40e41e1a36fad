package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forcefield/components"
	"github.com/pthm-cable/forcefield/forces"
	"github.com/pthm-cable/forcefield/telemetry"
)

// UpdateHeadless runs stepsPerUpdate ticks without touching raylib.
func (s *Sim) UpdateHeadless() {
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.step()
	}
}

// Run steps until maxTicks is reached. maxTicks <= 0 runs forever.
func (s *Sim) Run(maxTicks int32) {
	for maxTicks <= 0 || s.tick < maxTicks {
		s.step()
	}
}

// step advances the layer by one tick: spawn, forces, motion, cleanup.
func (s *Sim) step() {
	dt := s.cfg.Simulation.DT
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseSpawn)
	spawned := s.emitter.Update(dt, s.alive)
	s.alive += spawned
	s.collector.RecordSpawns(spawned)

	s.perfCollector.StartPhase(telemetry.PhaseForces)
	res := s.forceSys.Update(dt, s.emitter.LayerOverLife(), s.tick)

	s.perfCollector.StartPhase(telemetry.PhaseMotion)
	s.motion.Update(dt)

	s.perfCollector.StartPhase(telemetry.PhaseCleanup)
	removed := s.cleanup.Update(s.world)
	s.alive -= removed
	s.collector.RecordDeaths(removed, res.Killed)

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perfCollector.EndTick(res.Processed)
}

// restore replaces the (empty) layer with a snapshot's particles.
func (s *Sim) restore(snap *telemetry.Snapshot) {
	mapper := ecs.NewMap3[components.Position, components.Velocity, forces.Particle](s.world)

	var nextID uint32
	for i := range snap.Particles {
		ps := &snap.Particles[i]
		pos := components.Position{Value: ps.Position, Prev: ps.Prev}
		vel := components.Velocity{Value: ps.Velocity}
		p := forces.Particle{ID: ps.ID, Life: ps.Life, LifeTime: ps.LifeTime}
		mapper.NewEntity(&pos, &vel, &p)
		nextID = max(nextID, ps.ID+1)
	}

	s.tick = snap.Tick
	s.collector.StartAt(snap.Tick)
	s.alive = len(snap.Particles)
	s.emitter.Resume(nextID, snap.LayerTime)
}
