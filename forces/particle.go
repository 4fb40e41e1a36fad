package forces

import "gonum.org/v1/gonum/spatial/r3"

// killMargin is added to LifeTime when a force requests early death.
const killMargin = 0.1

// Particle is the per-particle state the kernels read and may mutate.
// Position and velocity live with the caller and travel through State.
type Particle struct {
	ID       uint32  // stable identity assigned at spawn, drives per-particle sampling
	Life     float64 // elapsed seconds
	LifeTime float64 // total duration in seconds
}

// Kill marks the particle for removal on the next sweep.
func (p *Particle) Kill() {
	p.Life = p.LifeTime + killMargin
}

// Dead reports whether the particle has reached the end of its life.
func (p *Particle) Dead() bool {
	return p.Life >= p.LifeTime
}

// OverLife returns the life fraction clamped to [0, 1].
func (p *Particle) OverLife() float64 {
	if p.LifeTime <= 0 {
		return 1
	}
	f := p.Life / p.LifeTime
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// State is the effect-space motion state of one particle.
type State struct {
	Position r3.Vec
	Velocity r3.Vec
}
