package forces

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon is the threshold below which lengths and magnitudes count as zero.
const epsilon = 1e-6

// Step carries the per-call inputs shared by all kernels.
type Step struct {
	DT               float64
	ParticleOverLife float64
	LayerOverLife    float64

	// Down is the effect-space gravity axis.
	Down r3.Vec

	// PrevPosition is the particle position before the last integration
	// step, used by plane collision.
	PrevPosition r3.Vec

	// Rand is a caller-owned stream. Plane collision draws from it; it must
	// not be shared between goroutines. When nil, plane collision uses a
	// stream seeded from the table seed and the particle id.
	Rand *rand.Rand
}

// Apply runs one force on one particle and returns the updated state.
// Inactive forces return s unchanged. A kernel may call p.Kill.
// step.Rand may be nil; see Step.
func (t *Tables) Apply(f Force, p *Particle, s State, step *Step) State {
	if !f.common().Active {
		return s
	}
	switch f := f.(type) {
	case *Drag:
		return applyDrag(f, p, s, step)
	case *Lorentz:
		return applyLorentz(f, p, s, step)
	case *Gravity:
		return applyGravity(f, p, s, step)
	case *Wind:
		return t.applyWind(f, p, s, step)
	case *PointGravity:
		return t.applyPointGravity(f, p, s, step)
	case *PlaneCollision:
		return t.applyPlaneCollision(f, p, s, step)
	}
	return s
}

// ApplyAll runs every force in order.
func (t *Tables) ApplyAll(fs []Force, p *Particle, s State, step *Step) State {
	for _, f := range fs {
		s = t.Apply(f, p, s, step)
	}
	return s
}

func forceStrength(c *Common, p *Particle, step *Step) r3.Vec {
	return r3.Scale(step.DT, ForceValue(c, step.ParticleOverLife, step.LayerOverLife, p.Life))
}

func mulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}
