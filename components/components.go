// Package components defines ECS components for the particle layer.
//
// A live particle is an entity with Position, Velocity and forces.Particle.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position is a particle's effect-space position.
type Position struct {
	Value r3.Vec
	Prev  r3.Vec // position before the most recent integration step
}

// Velocity is a particle's effect-space velocity in units per second.
type Velocity struct {
	Value r3.Vec
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float64 {
	return r3.Norm(v.Value)
}
