package forces

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// Curve construction errors.
var (
	ErrEmptyCurve   = errors.New("curve has no keys")
	ErrUnsortedKeys = errors.New("curve keys not strictly increasing in t")
)

// Key is one scalar keyframe.
type Key struct {
	T     float64 `yaml:"t"`
	Value float64 `yaml:"value"`
}

// VectorKey is one vector keyframe.
type VectorKey struct {
	T     float64 `yaml:"t"`
	Value r3.Vec  `yaml:"value"`
}

// Line is a piecewise linear scalar curve. Sampling outside the key range
// returns the nearest end value.
type Line struct {
	single bool
	value  float64
	pl     interp.PiecewiseLinear
}

// NewLine fits a curve through keys, which must have strictly increasing,
// finite T.
func NewLine(keys []Key) (*Line, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyCurve
	}
	if err := checkKeyOrder(keys); err != nil {
		return nil, err
	}
	if len(keys) == 1 {
		return &Line{single: true, value: keys[0].Value}, nil
	}
	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		xs[i] = k.T
		ys[i] = k.Value
	}
	l := &Line{}
	// Fit panics on unsorted xs; checkKeyOrder has ruled that out.
	if err := l.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting curve: %w", err)
	}
	return l, nil
}

func checkKeyOrder(keys []Key) error {
	for i, k := range keys {
		if math.IsNaN(k.T) || math.IsInf(k.T, 0) {
			return fmt.Errorf("%w: key %d has t = %v", ErrUnsortedKeys, i, k.T)
		}
		if i > 0 && k.T <= keys[i-1].T {
			return fmt.Errorf("%w: key %d t = %v after %v", ErrUnsortedKeys, i, k.T, keys[i-1].T)
		}
	}
	return nil
}

// Value samples the curve at t.
func (l *Line) Value(t float64) float64 {
	if l.single {
		return l.value
	}
	return l.pl.Predict(t)
}

// VectorLine is a piecewise linear curve over r3.Vec, one scalar curve per
// component.
type VectorLine struct {
	x, y, z Line
}

// NewVectorLine fits a vector curve through keys.
func NewVectorLine(keys []VectorKey) (*VectorLine, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyCurve
	}
	xs := make([]Key, len(keys))
	ys := make([]Key, len(keys))
	zs := make([]Key, len(keys))
	for i, k := range keys {
		xs[i] = Key{T: k.T, Value: k.Value.X}
		ys[i] = Key{T: k.T, Value: k.Value.Y}
		zs[i] = Key{T: k.T, Value: k.Value.Z}
	}
	vl := &VectorLine{}
	for _, c := range []struct {
		dst  *Line
		keys []Key
	}{{&vl.x, xs}, {&vl.y, ys}, {&vl.z, zs}} {
		l, err := NewLine(c.keys)
		if err != nil {
			return nil, err
		}
		*c.dst = *l
	}
	return vl, nil
}

// Value samples the curve at t.
func (vl *VectorLine) Value(t float64) r3.Vec {
	return r3.Vec{X: vl.x.Value(t), Y: vl.y.Value(t), Z: vl.z.Value(t)}
}
