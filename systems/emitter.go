package systems

import (
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/components"
	"github.com/pthm-cable/forcefield/config"
	"github.com/pthm-cable/forcefield/forces"
)

// EmitterSystem spawns particles from a point into a cone and tracks the
// layer's looping life.
type EmitterSystem struct {
	mapper *ecs.Map3[components.Position, components.Velocity, forces.Particle]
	cfg    config.EmitterConfig
	dir    r3.Vec
	u, v   r3.Vec // basis perpendicular to dir
	rng    *rand.Rand

	accum     float64 // fractional spawns carried between ticks
	layerTime float64
	nextID    uint32
}

// NewEmitterSystem creates an emitter. dir must be unit length.
func NewEmitterSystem(w *ecs.World, cfg config.EmitterConfig, dir r3.Vec, seed uint64) *EmitterSystem {
	u, v := perpendicularBasis(dir)
	return &EmitterSystem{
		mapper: ecs.NewMap3[components.Position, components.Velocity, forces.Particle](w),
		cfg:    cfg,
		dir:    dir,
		u:      u,
		v:      v,
		rng:    rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
	}
}

// Update advances the layer clock by dt and spawns this tick's share of
// particles. alive is the current particle count. Returns the number spawned.
func (s *EmitterSystem) Update(dt float64, alive int) int {
	if s.cfg.LayerDuration > 0 {
		s.layerTime = math.Mod(s.layerTime+dt, s.cfg.LayerDuration)
	}

	s.accum += s.cfg.Rate * dt
	n := int(s.accum)
	s.accum -= float64(n)

	if room := s.cfg.MaxParticles - alive; n > room {
		n = max(room, 0)
	}
	for i := 0; i < n; i++ {
		s.spawn()
	}
	return n
}

// LayerOverLife returns the layer life fraction in [0, 1).
func (s *EmitterSystem) LayerOverLife() float64 {
	if s.cfg.LayerDuration <= 0 {
		return 0
	}
	return s.layerTime / s.cfg.LayerDuration
}

// Spawned returns the total number of particles emitted so far.
func (s *EmitterSystem) Spawned() uint32 {
	return s.nextID
}

// LayerTime returns seconds elapsed in the current layer loop.
func (s *EmitterSystem) LayerTime() float64 {
	return s.layerTime
}

// Resume continues emission after restoring a layer: IDs start at nextID and
// the layer clock jumps to layerTime.
func (s *EmitterSystem) Resume(nextID uint32, layerTime float64) {
	s.nextID = nextID
	s.layerTime = layerTime
	s.accum = 0
}

func (s *EmitterSystem) spawn() ecs.Entity {
	speed := uniform(s.rng, s.cfg.SpeedMin, s.cfg.SpeedMax)
	pos := components.Position{Value: s.cfg.Origin, Prev: s.cfg.Origin}
	vel := components.Velocity{Value: r3.Scale(speed, s.sampleDirection())}
	p := forces.Particle{
		ID:       s.nextID,
		LifeTime: uniform(s.rng, s.cfg.LifetimeMin, s.cfg.LifetimeMax),
	}
	s.nextID++
	return s.mapper.NewEntity(&pos, &vel, &p)
}

// sampleDirection picks a unit vector uniformly inside the spread cone.
func (s *EmitterSystem) sampleDirection() r3.Vec {
	cosMax := math.Cos(s.cfg.Spread * math.Pi / 180)
	cosT := 1 - s.rng.Float64()*(1-cosMax)
	sinT := math.Sqrt(max(0, 1-cosT*cosT))
	phi := 2 * math.Pi * s.rng.Float64()

	d := r3.Scale(cosT, s.dir)
	d = r3.Add(d, r3.Scale(sinT*math.Cos(phi), s.u))
	d = r3.Add(d, r3.Scale(sinT*math.Sin(phi), s.v))
	return d
}

// perpendicularBasis returns two unit vectors orthogonal to n and each other.
func perpendicularBasis(n r3.Vec) (u, v r3.Vec) {
	helper := r3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		helper = r3.Vec{Y: 1}
	}
	u = r3.Unit(r3.Cross(n, helper))
	v = r3.Cross(n, u)
	return u, v
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
