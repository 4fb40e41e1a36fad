package forces

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	NoiseWidth     = 256
	NoiseHeight    = 256
	SphereRandSize = 1024
	WindTableSize  = 64

	windPeriod = 2 * math.Pi
)

// Tables holds the precomputed noise, sphere and wind tables shared by all
// kernels. It is immutable once NewTables returns and safe for concurrent
// reads.
type Tables struct {
	seed   uint64
	noise  [NoiseWidth][NoiseHeight]r3.Vec
	sphere [SphereRandSize]r3.Vec
	wind   [WindTableSize]float64
}

// NewTables builds all tables from seed. The same seed always yields the
// same tables.
func NewTables(seed uint64) *Tables {
	t := &Tables{seed: seed}
	t.generateWindTable()
	t.generateNoise()
	t.generateSphereRandomVectors()
	return t
}

// Seed returns the seed the tables were built from.
func (t *Tables) Seed() uint64 {
	return t.seed
}

// generateNoise fills the grid with 4-octave Perlin noise over [0,2]x[0,2].
func (t *Tables) generateNoise() {
	p := newPerlin(t.seed)
	xFactor := 2.0 / (NoiseWidth - 1.0)
	yFactor := 2.0 / (NoiseHeight - 1.0)
	for i := 0; i < NoiseWidth; i++ {
		qx := float64(i) * xFactor
		for j := 0; j < NoiseHeight; j++ {
			t.noise[i][j] = p.octaves4(qx, float64(j)*yFactor)
		}
	}
}

// generateSphereRandomVectors draws unit vectors uniformly on the sphere:
// azimuth uniform in [0, 2π), polar angle acos(1-2u).
func (t *Tables) generateSphereRandomVectors() {
	rng := rand.New(rand.NewPCG(t.seed, ^t.seed))
	for i := range t.sphere {
		theta := 2 * math.Pi * rng.Float64()
		phi := math.Acos(1 - 2*rng.Float64())
		sinPhi := math.Sin(phi)
		t.sphere[i] = r3.Vec{
			X: sinPhi * math.Cos(theta),
			Y: sinPhi * math.Sin(theta),
			Z: math.Cos(phi),
		}
	}
}

func (t *Tables) generateWindTable() {
	for i := range t.wind {
		x := windPeriod * float64(i) / WindTableSize
		t.wind[i] = (2 + math.Sin(x)*0.7 + math.Cos(x*10)*0.3) * 0.5
	}
}

// Noise returns the noise grid cell (i, j), both wrapped into range.
func (t *Tables) Noise(i, j int) r3.Vec {
	return t.noise[wrapIndex(i, NoiseWidth)][wrapIndex(j, NoiseHeight)]
}

// SphereVector returns the sphere table entry for a particle id.
func (t *Tables) SphereVector(id uint32) r3.Vec {
	return t.sphere[id%SphereRandSize]
}

// WindValue returns the wind table value at phase, taken modulo one period.
func (t *Tables) WindValue(phase float64) float64 {
	m := math.Mod(phase, windPeriod)
	if m < 0 {
		m += windPeriod
	}
	i := int(m / windPeriod * WindTableSize)
	if i >= WindTableSize {
		i = WindTableSize - 1
	}
	return t.wind[i]
}

func wrapIndex(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}
