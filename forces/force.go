// Package forces implements the per-particle force integrator: precomputed
// random tables, force value evaluation, shape gating and one kernel per
// force kind.
package forces

import "gonum.org/v1/gonum/spatial/r3"

// Kind identifies a force variant.
type Kind uint8

const (
	KindDrag Kind = iota
	KindLorentz
	KindGravity
	KindWind
	KindPointGravity
	KindPlaneCollision
)

var kindNames = [...]string{
	KindDrag:           "drag",
	KindLorentz:        "lorentz",
	KindGravity:        "gravity",
	KindWind:           "wind",
	KindPointGravity:   "point_gravity",
	KindPlaneCollision: "plane_collision",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a config name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Shape is the influence volume of a finite-range force.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeSphere
)

// Common holds the fields every force kind carries.
type Common struct {
	Name   string
	Active bool

	// Influence volume, centered on Position in effect space.
	InfinityRange bool
	Shape         Shape
	BoxSize       r3.Vec // full extents
	Radius        float64
	Position      r3.Vec

	Timing    Timing
	Power     r3.Vec
	PowerLine *VectorLine
}

func (c *Common) common() *Common { return c }

// CommonOf returns the shared fields of f for inspection and editing.
func CommonOf(f Force) *Common {
	return f.common()
}

// HalfBoxSize returns half the box extents.
func (c *Common) HalfBoxSize() r3.Vec {
	return r3.Scale(0.5, c.BoxSize)
}

// SquareRadius returns the squared sphere radius.
func (c *Common) SquareRadius() float64 {
	return c.Radius * c.Radius
}

// Force is one of Drag, Lorentz, Gravity, Wind, PointGravity or
// PlaneCollision. The set is closed: only this package can add variants.
type Force interface {
	Kind() Kind
	common() *Common
}

// Drag damps velocity per axis.
type Drag struct {
	Common
}

func (*Drag) Kind() Kind { return KindDrag }

// Lorentz pushes particles perpendicular to both their offset from
// Position and Direction.
type Lorentz struct {
	Common
	Direction r3.Vec
}

func (*Lorentz) Kind() Kind { return KindLorentz }

// Gravity accelerates along the caller supplied down axis. Only Power.X is used.
type Gravity struct {
	Common
}

func (*Gravity) Kind() Kind { return KindGravity }

// Wind pushes along Direction and perturbs position with noise turbulence.
type Wind struct {
	Common
	Direction                     r3.Vec
	Frequency                     float64
	Bias                          float64
	Turbulence                    float64
	TurbulenceLine                *Line
	TurbulenceFrequency           float64
	BackwardTurbulenceProbability uint32 // percent
	GustFromTable                 bool
}

func (*Wind) Kind() Kind { return KindWind }

// PointGravity attracts particles to Position and handles the ones that
// reach Radius.
type PointGravity struct {
	Common
	PointRadius             float64
	KillParticles           bool
	UseRandomPointsOnSphere bool
}

func (*PointGravity) Kind() Kind { return KindPointGravity }

// PlaneCollision bounces, stops or kills particles crossing the plane through
// Position with normal Direction.
type PlaneCollision struct {
	Common
	Direction                r3.Vec
	VelocityThreshold        float64
	ReflectionPercent        uint32
	ReflectionChaos          float64 // degrees
	RandomizeReflectionForce bool
	ReflectionForceMin       float64
	ReflectionForceMax       float64
	KillParticles            bool
	NormalAsReflectionVector bool
}

func (*PlaneCollision) Kind() Kind { return KindPlaneCollision }
