package config

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/forces"
)

// Validation errors returned by Load and BuildForces.
var (
	ErrUnknownForceKind = errors.New("unknown force kind")
	ErrUnknownShape     = errors.New("unknown force shape")
	ErrUnknownTiming    = errors.New("unknown force timing")
	ErrInvalidCurve     = errors.New("invalid force curve")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ForceConfig is one force record as written in YAML. Fields that do not
// apply to Kind are ignored.
type ForceConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Active *bool  `yaml:"active,omitempty"` // nil = active

	InfinityRange bool    `yaml:"infinity_range"`
	Shape         string  `yaml:"shape"` // box or sphere
	BoxSize       r3.Vec  `yaml:"box_size"`
	Radius        float64 `yaml:"radius"`
	Position      r3.Vec  `yaml:"position"`
	Direction     r3.Vec  `yaml:"direction"`

	Timing         string             `yaml:"timing"`
	Power          r3.Vec             `yaml:"power"`
	PowerKeys      []forces.VectorKey `yaml:"power_keys,omitempty"`
	TurbulenceKeys []forces.Key       `yaml:"turbulence_keys,omitempty"`

	// Wind
	Frequency                     float64 `yaml:"frequency,omitempty"`
	Bias                          float64 `yaml:"bias,omitempty"`
	Turbulence                    float64 `yaml:"turbulence,omitempty"`
	TurbulenceFrequency           float64 `yaml:"turbulence_frequency,omitempty"`
	BackwardTurbulenceProbability int     `yaml:"backward_turbulence_probability,omitempty"`
	GustTable                     bool    `yaml:"gust_table,omitempty"`

	// Point gravity
	PointRadius          float64 `yaml:"point_radius,omitempty"`
	RandomPointsOnSphere bool    `yaml:"random_points_on_sphere,omitempty"`

	// Point gravity and plane collision
	KillParticles bool `yaml:"kill_particles,omitempty"`

	// Plane collision
	VelocityThreshold        float64 `yaml:"velocity_threshold,omitempty"`
	ReflectionPercent        int     `yaml:"reflection_percent,omitempty"`
	ReflectionChaos          float64 `yaml:"reflection_chaos,omitempty"`
	RandomizeReflectionForce bool    `yaml:"randomize_reflection_force,omitempty"`
	ReflectionForceMin       float64 `yaml:"reflection_force_min,omitempty"`
	ReflectionForceMax       float64 `yaml:"reflection_force_max,omitempty"`
	NormalAsReflectionVector bool    `yaml:"normal_as_reflection_vector,omitempty"`
}

// BuildForces converts records into forces, preserving order.
func BuildForces(records []ForceConfig) ([]forces.Force, error) {
	out := make([]forces.Force, 0, len(records))
	for i, fc := range records {
		f, err := fc.Build()
		if err != nil {
			return nil, fmt.Errorf("force %d (%s): %w", i, fc.Name, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Build validates the record and converts it into a force value.
func (fc ForceConfig) Build() (forces.Force, error) {
	kind, ok := forces.ParseKind(fc.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForceKind, fc.Kind)
	}
	common, err := fc.common()
	if err != nil {
		return nil, err
	}

	switch kind {
	case forces.KindDrag:
		return &forces.Drag{Common: common}, nil

	case forces.KindLorentz:
		return &forces.Lorentz{Common: common, Direction: fc.Direction}, nil

	case forces.KindGravity:
		return &forces.Gravity{Common: common}, nil

	case forces.KindWind:
		if fc.BackwardTurbulenceProbability < 0 || fc.BackwardTurbulenceProbability > 100 {
			return nil, fmt.Errorf("%w: backward_turbulence_probability %d outside [0, 100]", ErrInvalidParameter, fc.BackwardTurbulenceProbability)
		}
		w := &forces.Wind{
			Common:                        common,
			Direction:                     fc.Direction,
			Frequency:                     fc.Frequency,
			Bias:                          fc.Bias,
			Turbulence:                    fc.Turbulence,
			TurbulenceFrequency:           fc.TurbulenceFrequency,
			BackwardTurbulenceProbability: uint32(fc.BackwardTurbulenceProbability),
			GustFromTable:                 fc.GustTable,
		}
		if len(fc.TurbulenceKeys) > 0 {
			line, err := forces.NewLine(fc.TurbulenceKeys)
			if err != nil {
				return nil, fmt.Errorf("%w: turbulence_keys: %w", ErrInvalidCurve, err)
			}
			w.TurbulenceLine = line
		}
		return w, nil

	case forces.KindPointGravity:
		if fc.PointRadius < 0 {
			return nil, fmt.Errorf("%w: negative point_radius %v", ErrInvalidParameter, fc.PointRadius)
		}
		return &forces.PointGravity{
			Common:                  common,
			PointRadius:             fc.PointRadius,
			KillParticles:           fc.KillParticles,
			UseRandomPointsOnSphere: fc.RandomPointsOnSphere,
		}, nil

	case forces.KindPlaneCollision:
		if fc.ReflectionPercent < 0 || fc.ReflectionPercent > 100 {
			return nil, fmt.Errorf("%w: reflection_percent %d outside [0, 100]", ErrInvalidParameter, fc.ReflectionPercent)
		}
		if fc.RandomizeReflectionForce && fc.ReflectionForceMin > fc.ReflectionForceMax {
			return nil, fmt.Errorf("%w: reflection force range [%v, %v]", ErrInvalidParameter, fc.ReflectionForceMin, fc.ReflectionForceMax)
		}
		return &forces.PlaneCollision{
			Common:                   common,
			Direction:                fc.Direction,
			VelocityThreshold:        fc.VelocityThreshold,
			ReflectionPercent:        uint32(fc.ReflectionPercent),
			ReflectionChaos:          fc.ReflectionChaos,
			RandomizeReflectionForce: fc.RandomizeReflectionForce,
			ReflectionForceMin:       fc.ReflectionForceMin,
			ReflectionForceMax:       fc.ReflectionForceMax,
			KillParticles:            fc.KillParticles,
			NormalAsReflectionVector: fc.NormalAsReflectionVector,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownForceKind, fc.Kind)
}

func (fc ForceConfig) common() (forces.Common, error) {
	c := forces.Common{
		Name:          fc.Name,
		Active:        fc.Active == nil || *fc.Active,
		InfinityRange: fc.InfinityRange,
		BoxSize:       fc.BoxSize,
		Radius:        fc.Radius,
		Position:      fc.Position,
		Power:         fc.Power,
	}

	switch fc.Shape {
	case "", "sphere":
		c.Shape = forces.ShapeSphere
	case "box":
		c.Shape = forces.ShapeBox
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownShape, fc.Shape)
	}
	if fc.Radius < 0 {
		return c, fmt.Errorf("%w: negative radius %v", ErrInvalidParameter, fc.Radius)
	}
	if fc.BoxSize.X < 0 || fc.BoxSize.Y < 0 || fc.BoxSize.Z < 0 {
		return c, fmt.Errorf("%w: negative box_size %v", ErrInvalidParameter, fc.BoxSize)
	}

	if fc.Timing == "" {
		c.Timing = forces.TimingConstant
	} else {
		t, ok := forces.ParseTiming(fc.Timing)
		if !ok {
			return c, fmt.Errorf("%w: %q", ErrUnknownTiming, fc.Timing)
		}
		c.Timing = t
	}

	if len(fc.PowerKeys) > 0 {
		line, err := forces.NewVectorLine(fc.PowerKeys)
		if err != nil {
			return c, fmt.Errorf("%w: power_keys: %w", ErrInvalidCurve, err)
		}
		c.PowerLine = line
	}
	return c, nil
}
