package forces

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func (t *Tables) applyPointGravity(f *PointGravity, p *Particle, s State, step *Step) State {
	if !inRange(&f.Common, s.Position) {
		return s
	}
	k := forceStrength(&f.Common, p, step)

	target := f.Position
	if f.UseRandomPointsOnSphere {
		target = r3.Add(target, r3.Scale(f.PointRadius, t.SphereVector(p.ID)))
	}
	toTarget := r3.Sub(target, s.Position)
	toCenter := r3.Sub(f.Position, s.Position)

	centerDist2 := r3.Norm2(toCenter)
	if centerDist2 > 0 {
		toCenter = r3.Scale(1/math.Sqrt(centerDist2), toCenter)
	}
	if d2 := r3.Norm2(toTarget); d2 > 0 {
		toTarget = r3.Scale(1/math.Sqrt(d2), toTarget)
	}

	if centerDist2 > f.PointRadius*f.PointRadius {
		s.Velocity = r3.Add(s.Velocity, mulElem(toTarget, k))
		return s
	}
	if f.KillParticles {
		p.Kill()
		return s
	}
	s.Position = r3.Sub(f.Position, r3.Scale(f.PointRadius, toCenter))
	return s
}
