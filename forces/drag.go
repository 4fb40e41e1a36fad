package forces

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// applyDrag scales each velocity axis by max(0, 1 - strength).
func applyDrag(f *Drag, p *Particle, s State, step *Step) State {
	if !inRange(&f.Common, s.Position) {
		return s
	}
	k := forceStrength(&f.Common, p, step)
	s.Velocity = mulElem(s.Velocity, r3.Vec{
		X: math.Max(0, 1-k.X),
		Y: math.Max(0, 1-k.Y),
		Z: math.Max(0, 1-k.Z),
	})
	return s
}
