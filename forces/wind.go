package forces

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// windScale converts wind power into effect-space units.
const windScale = 100

func (t *Tables) applyWind(f *Wind, p *Particle, s State, step *Step) State {
	if !inRange(&f.Common, s.Position) {
		return s
	}
	power := ForceValue(&f.Common, step.ParticleOverLife, step.LayerOverLife, p.Life)
	turbPower := TurbulenceValue(f, step.ParticleOverLife, step.LayerOverLife, p.Life)

	offset := p.ID % NoiseWidth
	hasTurb := math.Abs(turbPower) > epsilon
	hasFreq := math.Abs(f.Frequency) > epsilon

	var turb r3.Vec
	if hasTurb || hasFreq {
		turb = t.turbulenceSample(offset, step.ParticleOverLife*NoiseWidth*f.TurbulenceFrequency)
	}

	mult := 1.0
	if hasFreq {
		if f.GustFromTable {
			mult = t.WindValue((float64(offset)+step.LayerOverLife)*f.Frequency) + f.Bias
		} else {
			mult = turb.X + f.Bias
		}
	}

	if hasTurb {
		// Particles outside the backward share get turbulence pointing with the wind.
		forwardOnly := 100-int64(f.BackwardTurbulenceProbability) > int64(offset%100)
		if forwardOnly && r3.Dot(f.Direction, turb) < 0 {
			turb = r3.Scale(-1, turb)
		}
		// Turbulence moves the particle directly and leaves velocity alone.
		s.Position = r3.Add(s.Position, r3.Scale(turbPower*step.DT, turb))
	}

	s.Velocity = r3.Add(s.Velocity, r3.Scale(step.DT*mult*power.X*windScale, f.Direction))
	return s
}

// turbulenceSample reads the noise row of offset at column offset+along,
// interpolating between neighbouring columns.
func (t *Tables) turbulenceSample(offset uint32, along float64) r3.Vec {
	idx := along + float64(offset)
	whole := math.Floor(idx)
	frac := idx - whole
	x := wrapIndex(int(whole), NoiseWidth)
	y := int(offset) % NoiseHeight
	a := t.noise[x][y]
	b := t.noise[(x+1)%NoiseWidth][y]
	return r3.Add(a, r3.Scale(frac, r3.Sub(b, a)))
}
