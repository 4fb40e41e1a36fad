// Package sim wires the particle layer: the ark world, the systems that
// advance it, telemetry hooks and the graphical front end.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forcefield/camera"
	"github.com/pthm-cable/forcefield/components"
	"github.com/pthm-cable/forcefield/config"
	"github.com/pthm-cable/forcefield/forces"
	"github.com/pthm-cable/forcefield/renderer"
	"github.com/pthm-cable/forcefield/systems"
	"github.com/pthm-cable/forcefield/telemetry"
)

// Options configures a Sim.
type Options struct {
	Seed           uint64  // 0 = config seed
	Workers        int     // 0 = config workers
	LogStats       bool    // log window and perf stats via slog
	StatsWindowSec float64 // 0 = config stats window
	SnapshotDir    string  // save a snapshot on every bookmark, empty = off
	OutputDir      string  // CSV and config output, empty = off
	ResumeFrom     string  // snapshot file to restore, empty = fresh start
	Headless       bool
	StepsPerUpdate int // ticks per Update call
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg  *config.Config
	seed uint64

	world     *ecs.World
	tables    *forces.Tables
	emitter   *systems.EmitterSystem
	forceSys  *systems.ForceSystem
	motion    *systems.MotionSystem
	cleanup   *systems.CleanupSystem
	velFilter *ecs.Filter1[components.Velocity]
	allFilter *ecs.Filter3[components.Position, components.Velocity, forces.Particle]

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	speeds           []float64

	// State
	tick           int32
	alive          int
	paused         bool
	stepsPerUpdate int

	// Rendering (nil in headless mode)
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	gizmos     *renderer.GizmoRenderer
	showGizmos bool
	sprites    []renderer.Sprite
}

// New creates a simulation from cfg.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Simulation.Workers
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	tables := forces.NewTables(seed)

	s := &Sim{
		cfg:              cfg,
		seed:             seed,
		world:            world,
		tables:           tables,
		emitter:          systems.NewEmitterSystem(world, cfg.Emitter, cfg.Derived.EmitterDirection, seed),
		forceSys:         systems.NewForceSystem(world, tables, cfg.Derived.Forces, cfg.Derived.Down, workers),
		motion:           systems.NewMotionSystem(world),
		cleanup:          systems.NewCleanupSystem(world),
		velFilter:        ecs.NewFilter1[components.Velocity](world),
		allFilter:        ecs.NewFilter3[components.Position, components.Velocity, forces.Particle](world),
		collector:        telemetry.NewCollector(statsWindow, cfg.Simulation.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10, cfg.Emitter.MaxParticles),
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		stepsPerUpdate:   steps,
	}

	if opts.ResumeFrom != "" {
		snap, err := telemetry.LoadSnapshot(opts.ResumeFrom)
		if err != nil {
			return nil, fmt.Errorf("resuming: %w", err)
		}
		if snap.Seed != seed {
			slog.Warn("snapshot seed differs from run seed", "snapshot_seed", snap.Seed, "seed", seed)
		}
		s.restore(snap)
		slog.Info("resumed from snapshot", "path", opts.ResumeFrom, "tick", s.tick, "particles", s.alive)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		s.initGraphics()
	}
	return s, nil
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Sim) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Tick returns the current simulation tick.
func (s *Sim) Tick() int32 {
	return s.tick
}

// Alive returns the current particle count.
func (s *Sim) Alive() int {
	return s.alive
}

// Seed returns the seed driving tables and streams.
func (s *Sim) Seed() uint64 {
	return s.seed
}

// Forces returns the live force list. Edits take effect on the next tick.
func (s *Sim) Forces() []forces.Force {
	return s.forceSys.Forces()
}

// SetForce replaces force i. Call between updates.
func (s *Sim) SetForce(i int, f forces.Force) {
	s.forceSys.SetForce(i, f)
}

// Close stops the worker pool and flushes output files.
func (s *Sim) Close() {
	s.forceSys.Close()
	if err := s.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
