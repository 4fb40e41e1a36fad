package forces

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

func (t *Tables) applyPlaneCollision(f *PlaneCollision, p *Particle, s State, step *Step) State {
	l2 := r3.Norm2(f.Direction)
	if l2 < epsilon*epsilon {
		return s
	}
	if !inRange(&f.Common, s.Position) {
		return s
	}
	n := r3.Scale(1/math.Sqrt(l2), f.Direction)
	aProj := r3.Dot(r3.Sub(step.PrevPosition, f.Position), n)
	bProj := r3.Dot(r3.Sub(s.Position, f.Position), n)

	switch {
	case bProj <= 0 && aProj > 0:
		return t.collide(f, p, s, step, n, bProj)
	case bProj < 0 && aProj < 0:
		// Already behind the plane.
		if f.KillParticles {
			p.Kill()
		} else {
			s.Velocity = r3.Vec{}
		}
	}
	return s
}

// collide handles a particle that crossed to the back side of the plane
// during the last step. bProj is its current signed distance along n.
func (t *Tables) collide(f *PlaneCollision, p *Particle, s State, step *Step, n r3.Vec, bProj float64) State {
	speed2 := r3.Norm2(s.Velocity)
	if speed2 < f.VelocityThreshold*f.VelocityThreshold {
		s.Velocity = r3.Vec{}
		return s
	}

	rng := step.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(t.seed, uint64(p.ID)))
	}

	bounce := uint32(rng.IntN(100)) < f.ReflectionPercent
	if f.KillParticles && !bounce {
		p.Kill()
		return s
	}

	var v r3.Vec
	if f.NormalAsReflectionVector {
		v = r3.Scale(math.Sqrt(speed2), n)
	} else {
		v = reflect(s.Velocity, n)
	}

	if math.Abs(f.ReflectionChaos) > epsilon {
		axis := t.SphereVector(p.ID)
		if r3.Dot(axis, n) < 0 {
			axis = r3.Scale(-1, axis)
		}
		angle := (2*rng.Float64() - 1) * f.ReflectionChaos * math.Pi / 180
		v = r3.NewRotation(angle, axis).Rotate(v)
		if r3.Dot(v, n) < 0 {
			v = r3.Scale(-1, v)
		}
	}

	v = mulElem(v, f.Power)
	if f.RandomizeReflectionForce {
		v = r3.Scale(f.ReflectionForceMin+rng.Float64()*(f.ReflectionForceMax-f.ReflectionForceMin), v)
	}
	if !bounce {
		v = r3.Vec{}
	}
	s.Velocity = v

	// Slide back along the travel direction onto the plane.
	dir := r3.Sub(step.PrevPosition, s.Position)
	abProj := math.Abs(r3.Dot(dir, n))
	if abProj < epsilon {
		return s
	}
	s.Position = r3.Add(s.Position, r3.Scale(-bProj/abProj, dir))
	return s
}

// reflect mirrors v about the plane with unit normal n.
func reflect(v, n r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(2*r3.Dot(v, n), n))
}
