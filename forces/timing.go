package forces

import "gonum.org/v1/gonum/spatial/r3"

// Timing selects the argument a force's curves are sampled at.
type Timing uint8

const (
	TimingConstant Timing = iota
	TimingOverParticleLife
	TimingOverLayerLife
	TimingOverParticleSeconds
)

var timingNames = [...]string{
	TimingConstant:            "constant",
	TimingOverParticleLife:    "over_particle_life",
	TimingOverLayerLife:       "over_layer_life",
	TimingOverParticleSeconds: "over_particle_seconds",
}

func (t Timing) String() string {
	if int(t) < len(timingNames) {
		return timingNames[t]
	}
	return "unknown"
}

// ParseTiming maps a config name to a Timing.
func ParseTiming(s string) (Timing, bool) {
	for i, name := range timingNames {
		if name == s {
			return Timing(i), true
		}
	}
	return 0, false
}

// curveArg picks the curve argument for the timing mode. ok is false for
// constant or unknown timing.
func curveArg(t Timing, particleOverLife, layerOverLife, particleLife float64) (float64, bool) {
	switch t {
	case TimingOverParticleLife:
		return particleOverLife, true
	case TimingOverLayerLife:
		return layerOverLife, true
	case TimingOverParticleSeconds:
		return particleLife, true
	}
	return 0, false
}

// ForceValue returns the instantaneous force power of c.
func ForceValue(c *Common, particleOverLife, layerOverLife, particleLife float64) r3.Vec {
	if c.PowerLine == nil {
		return c.Power
	}
	arg, ok := curveArg(c.Timing, particleOverLife, layerOverLife, particleLife)
	if !ok {
		return c.Power
	}
	return c.PowerLine.Value(arg)
}

// TurbulenceValue returns the instantaneous turbulence magnitude of w.
func TurbulenceValue(w *Wind, particleOverLife, layerOverLife, particleLife float64) float64 {
	if w.TurbulenceLine == nil {
		return w.Turbulence
	}
	arg, ok := curveArg(w.Timing, particleOverLife, layerOverLife, particleLife)
	if !ok {
		return w.Turbulence
	}
	return w.TurbulenceLine.Value(arg)
}
