package forces

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func applyLorentz(f *Lorentz, p *Particle, s State, step *Step) State {
	if !inRange(&f.Common, s.Position) {
		return s
	}
	dir := r3.Cross(r3.Sub(s.Position, f.Position), f.Direction)
	// A zero cross product leaves dir at zero: no push, no division.
	if l2 := r3.Norm2(dir); l2 > 0 {
		dir = r3.Scale(1/math.Sqrt(l2), dir)
	}
	k := forceStrength(&f.Common, p, step)
	s.Velocity = r3.Add(s.Velocity, mulElem(k, dir))
	return s
}
