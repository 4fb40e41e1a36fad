package forces

import "gonum.org/v1/gonum/spatial/r3"

func applyGravity(f *Gravity, p *Particle, s State, step *Step) State {
	if !inRange(&f.Common, s.Position) {
		return s
	}
	g := ForceValue(&f.Common, step.ParticleOverLife, step.LayerOverLife, p.Life).X
	s.Velocity = r3.Add(s.Velocity, r3.Scale(g*step.DT, step.Down))
	return s
}
