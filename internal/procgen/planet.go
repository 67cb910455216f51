// Package procgen supplies the procedural height field for the terrain
// quadtree: seeded, deterministic fractal value noise sampled by direction on
// the unit sphere. Sampling is seam-safe because lattice values come from
// hashing world coordinates, never from walking an RNG.
package procgen

import (
	gomath "math"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Planet generates elevation for one world seed. It implements
// terrain.HeightField and is safe for concurrent reads (it holds no
// mutable state).
type Planet struct {
	seed int64

	// baseFrequency is the lattice frequency of the first octave, in
	// cells per unit-sphere radius.
	baseFrequency float64

	// amplitude is the peak elevation of the first octave in world units.
	amplitude float64

	persistence float64
	lacunarity  float64
	maxOctaves  int
}

// NewPlanet creates a planet height field with the given seed.
func NewPlanet(seed int64) *Planet {
	return &Planet{
		seed:          seed,
		baseFrequency: 2,
		amplitude:     8000,
		persistence:   0.5,
		lacunarity:    2,
		maxOctaves:    12,
	}
}

// Height returns the elevation in the given unit direction. maxLOD bounds
// the octave count: coarse tiles skip fine octaves they could never resolve,
// while the large-scale shape stays identical across LODs.
func (p *Planet) Height(dir math.Vec3, maxLOD uint32) float64 {
	octaves := int(maxLOD) + 2
	if octaves > p.maxOctaves {
		octaves = p.maxOctaves
	}

	freq := p.baseFrequency
	amp := p.amplitude
	var sum float64
	for o := 0; o < octaves; o++ {
		n := valueNoise3(dir.Scale(freq), p.seed+int64(o))
		sum += (2*n - 1) * amp
		freq *= p.lacunarity
		amp *= p.persistence
	}
	return sum
}

// fade is the smoothstep-like 6t^5 - 15t^4 + 10t^3 interpolation spline.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash3 is a SplitMix64-style integer hash, stable across runs for the same
// inputs.
func hash3(x, y, z, seed int64) uint64 {
	v := uint64(x) + uint64(y)<<20 + uint64(z)<<40 + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// latticeValue maps a lattice point to [0,1].
func latticeValue(x, y, z, seed int64) float64 {
	h := hash3(x, y, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise3 is trilinearly interpolated lattice value noise in [0,1].
func valueNoise3(p math.Vec3, seed int64) float64 {
	x0 := gomath.Floor(p.X)
	y0 := gomath.Floor(p.Y)
	z0 := gomath.Floor(p.Z)

	fx := fade(p.X - x0)
	fy := fade(p.Y - y0)
	fz := fade(p.Z - z0)

	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	v000 := latticeValue(ix, iy, iz, seed)
	v100 := latticeValue(ix+1, iy, iz, seed)
	v010 := latticeValue(ix, iy+1, iz, seed)
	v110 := latticeValue(ix+1, iy+1, iz, seed)
	v001 := latticeValue(ix, iy, iz+1, seed)
	v101 := latticeValue(ix+1, iy, iz+1, seed)
	v011 := latticeValue(ix, iy+1, iz+1, seed)
	v111 := latticeValue(ix+1, iy+1, iz+1, seed)

	return lerp(
		lerp(lerp(v000, v100, fx), lerp(v010, v110, fx), fy),
		lerp(lerp(v001, v101, fx), lerp(v011, v111, fx), fy),
		fz,
	)
}
