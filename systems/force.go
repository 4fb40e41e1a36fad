package systems

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/components"
	"github.com/pthm-cable/forcefield/forces"
)

// parallelThreshold is the minimum particle count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// particleSnapshot is copied out of the world, updated by a worker, then
// written back.
type particleSnapshot struct {
	Entity   ecs.Entity
	Particle forces.Particle
	Pos      components.Position
	Vel      r3.Vec
	Killed   bool // died from a force this tick
}

// workerScratch holds per-worker reusable state.
type workerScratch struct {
	pcg *rand.PCG
	rng *rand.Rand
}

// tickInput is shared by every chunk of one tick.
type tickInput struct {
	dt            float64
	layerOverLife float64
	streamSeed    uint64
}

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	in         tickInput
}

// ForceResult summarizes one ForceSystem update.
type ForceResult struct {
	Processed int
	Killed    int
}

// ForceSystem advances particle life and applies the force list to every
// particle, fanning out across a persistent worker pool.
type ForceSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, forces.Particle]
	mapper *ecs.Map3[components.Position, components.Velocity, forces.Particle]
	tables *forces.Tables
	forces []forces.Force
	down   r3.Vec

	snapshots  []particleSnapshot
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewForceSystem creates a force system. workers <= 0 uses GOMAXPROCS.
// The force list is read concurrently and must not change while the system runs.
func NewForceSystem(w *ecs.World, tables *forces.Tables, fs []forces.Force, down r3.Vec, workers int) *ForceSystem {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, workers)
	for i := range scratches {
		scratches[i].pcg = rand.NewPCG(0, 0)
		scratches[i].rng = rand.New(scratches[i].pcg)
	}
	return &ForceSystem{
		filter:     ecs.NewFilter3[components.Position, components.Velocity, forces.Particle](w),
		mapper:     ecs.NewMap3[components.Position, components.Velocity, forces.Particle](w),
		tables:     tables,
		forces:     fs,
		down:       down,
		scratches:  scratches,
		numWorkers: workers,
		snapshots:  make([]particleSnapshot, 0, 1024),
	}
}

// Forces returns the force list.
func (s *ForceSystem) Forces() []forces.Force {
	return s.forces
}

// SetForce replaces force i. Must not be called during Update.
func (s *ForceSystem) SetForce(i int, f forces.Force) {
	s.forces[i] = f
}

// Update runs one tick. Every particle's stream is reseeded from
// (seed^tick, particle ID), so results do not depend on the worker count.
func (s *ForceSystem) Update(dt, layerOverLife float64, tick int32) ForceResult {
	// Phase A: Build snapshots (single-threaded)
	s.snapshots = s.snapshots[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		s.snapshots = append(s.snapshots, particleSnapshot{
			Entity:   query.Entity(),
			Particle: *p,
			Pos:      *pos,
			Vel:      vel.Value,
		})
	}

	n := len(s.snapshots)
	if n == 0 {
		return ForceResult{}
	}

	in := tickInput{
		dt:            dt,
		layerOverLife: layerOverLife,
		streamSeed:    s.tables.Seed() ^ uint64(tick),
	}

	// Phase B: Compute
	if n < parallelThreshold || s.numWorkers == 1 {
		s.computeChunk(0, n, &s.scratches[0], in)
	} else {
		s.computeParallel(n, in)
	}

	// Phase C: Apply (single-threaded)
	return s.applySnapshots()
}

// computeParallel dispatches work to the worker pool.
func (s *ForceSystem) computeParallel(n int, in tickInput) {
	if !s.running {
		s.startWorkers()
	}

	chunkSize := (n + s.numWorkers - 1) / s.numWorkers
	dispatched := 0
	for w := 0; w < s.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		s.workChan <- workChunk{start: start, end: end, in: in}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-s.doneChan
	}
}

// computeChunk processes a range of snapshots for a single worker.
func (s *ForceSystem) computeChunk(i0, i1 int, scratch *workerScratch, in tickInput) {
	for i := i0; i < i1; i++ {
		snap := &s.snapshots[i]
		p := &snap.Particle

		p.Life += in.dt
		if p.Dead() {
			continue
		}

		scratch.pcg.Seed(in.streamSeed, uint64(p.ID))
		step := forces.Step{
			DT:               in.dt,
			ParticleOverLife: p.OverLife(),
			LayerOverLife:    in.layerOverLife,
			Down:             s.down,
			PrevPosition:     snap.Pos.Prev,
			Rand:             scratch.rng,
		}
		st := s.tables.ApplyAll(s.forces, p, forces.State{Position: snap.Pos.Value, Velocity: snap.Vel}, &step)

		snap.Pos.Value = st.Position
		snap.Vel = st.Velocity
		snap.Killed = p.Dead()
	}
}

// applySnapshots writes computed results back to the components.
func (s *ForceSystem) applySnapshots() ForceResult {
	res := ForceResult{Processed: len(s.snapshots)}
	for i := range s.snapshots {
		snap := &s.snapshots[i]
		pos, vel, p := s.mapper.Get(snap.Entity)
		if pos == nil || vel == nil || p == nil {
			continue
		}
		pos.Value = snap.Pos.Value
		vel.Value = snap.Vel
		*p = snap.Particle
		if snap.Killed {
			res.Killed++
		}
	}
	return res
}

// startWorkers launches persistent worker goroutines.
func (s *ForceSystem) startWorkers() {
	s.workChan = make(chan workChunk, s.numWorkers)
	s.doneChan = make(chan struct{}, s.numWorkers)
	s.stopChan = make(chan struct{})
	s.running = true

	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// worker runs in a goroutine, processing chunks until stopped.
func (s *ForceSystem) worker(id int) {
	defer s.wg.Done()
	scratch := &s.scratches[id]

	for {
		select {
		case <-s.stopChan:
			return
		case chunk, ok := <-s.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, scratch, chunk.in)
			s.doneChan <- struct{}{}
		}
	}
}

// Close stops the worker pool. The system can still be used single-threaded
// or restarted by the next parallel Update.
func (s *ForceSystem) Close() {
	if !s.running {
		return
	}
	close(s.stopChan)
	s.wg.Wait()
	close(s.workChan)
	close(s.doneChan)
	s.running = false
}
