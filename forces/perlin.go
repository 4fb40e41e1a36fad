package forces

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// perlin generates coherent gradient noise.
type perlin struct {
	perm [512]int
}

func newPerlin(seed uint64) *perlin {
	p := &perlin{}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}
	return p
}

// noise3 returns a value in roughly [-1, 1].
func (p *perlin) noise3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	return lerp(w, lerp(v, lerp(u, grad3(p.perm[AA], x, y, z),
		grad3(p.perm[BA], x-1, y, z)),
		lerp(u, grad3(p.perm[AB], x, y-1, z),
			grad3(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3(p.perm[AA+1], x, y, z-1),
			grad3(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3(p.perm[AB+1], x, y-1, z-1),
				grad3(p.perm[BB+1], x-1, y-1, z-1))))
}

// Channel planes keep the three output components decorrelated.
var octaveChannels = [3]float64{0.5, 11.5, 23.5}

// octaves4 samples four octaves of noise at (x, y), one independent channel
// per vector component.
func (p *perlin) octaves4(x, y float64) r3.Vec {
	var out [3]float64
	for c, z := range octaveChannels {
		freq, amp := 1.0, 1.0
		var sum float64
		for o := 0; o < 4; o++ {
			sum += amp * p.noise3(x*freq, y*freq, z)
			freq *= 2
			amp *= 0.5
		}
		out[c] = sum
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
