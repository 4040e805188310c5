// Package noise implements seeded multi-octave value noise and the texture
// functions built on top of it.
package noise

import (
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FieldConfig controls how a Field is generated
type FieldConfig struct {
	Octaves  int     // Number of layers summed by the fractal noise
	Dilation float64 // Frequency multiplier between octaves
	Min      float64 // Smallest lattice value
	Max      float64 // Largest lattice value
	Values   int     // Size of the value and permutation tables
	Seed     int64
}

// DefaultFieldConfig returns the standard five-octave configuration
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Octaves:  5,
		Dilation: 2,
		Min:      0,
		Max:      1,
		Values:   256,
		Seed:     1234,
	}
}

// Field is a deterministic value-noise generator. It is immutable after
// construction and safe for concurrent use.
type Field struct {
	octaves      int
	dilation     float64
	values       []float64
	permutations []int
}

// NewField builds the lattice tables for a seed. Zero-valued config fields
// fall back to DefaultFieldConfig, except Seed.
func NewField(config FieldConfig) *Field {
	defaults := DefaultFieldConfig()
	if config.Octaves <= 0 {
		config.Octaves = defaults.Octaves
	}
	if config.Dilation <= 0 {
		config.Dilation = defaults.Dilation
	}
	if config.Values <= 1 {
		config.Values = defaults.Values
	}
	if config.Min == 0 && config.Max == 0 {
		config.Min, config.Max = defaults.Min, defaults.Max
	}

	n := config.Values
	values := make([]float64, n)
	permutations := make([]int, n)
	step := (config.Max - config.Min) / float64(n-1)
	for i := range values {
		values[i] = config.Min + float64(i)*step
		permutations[i] = i
	}

	random := rand.New(rand.NewSource(config.Seed))
	random.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })
	random.Shuffle(n, func(i, j int) { permutations[i], permutations[j] = permutations[j], permutations[i] })

	return &Field{
		octaves:      config.Octaves,
		dilation:     config.Dilation,
		values:       values,
		permutations: permutations,
	}
}

func (f *Field) wrap(i int) int {
	n := len(f.values)
	return ((i % n) + n) % n
}

func (f *Field) lattice1D(i int) float64 {
	return f.values[f.wrap(i)]
}

func (f *Field) lattice2D(i, j int) float64 {
	a := f.permutations[f.wrap(j)]
	b := f.permutations[f.wrap(i+a)]
	return f.values[f.wrap(b)]
}

func (f *Field) lattice3D(i, j, k int) float64 {
	a := f.permutations[f.wrap(k)]
	b := f.permutations[f.wrap(j+a)]
	c := f.permutations[f.wrap(i+b)]
	return f.values[f.wrap(c)]
}

func (f *Field) smooth1D(x float64) float64 {
	a := f.lattice1D(int(math.Floor(x)))
	b := f.lattice1D(int(math.Ceil(x)))
	return core.Smerp(a, b, x-math.Floor(x))
}

func (f *Field) smooth2D(x, y float64, period func(i, j int) (int, int)) float64 {
	i, j := int(math.Floor(x)), int(math.Floor(y))
	xFrac, yFrac := x-float64(i), y-float64(j)

	corner := func(di, dj int) float64 {
		ci, cj := i+di, j+dj
		if period != nil {
			ci, cj = period(ci, cj)
		}
		return f.lattice2D(ci, cj)
	}

	nx0 := core.Smerp(corner(0, 0), corner(1, 0), xFrac)
	nx1 := core.Smerp(corner(0, 1), corner(1, 1), xFrac)
	return core.Smerp(nx0, nx1, yFrac)
}

func (f *Field) smooth3D(x, y, z float64) float64 {
	i, j, k := int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(z))
	xFrac, yFrac, zFrac := x-float64(i), y-float64(j), z-float64(k)

	// along x, for each of the four (y, z) edges
	nx00 := core.Smerp(f.lattice3D(i, j, k), f.lattice3D(i+1, j, k), xFrac)
	nx10 := core.Smerp(f.lattice3D(i, j+1, k), f.lattice3D(i+1, j+1, k), xFrac)
	nx01 := core.Smerp(f.lattice3D(i, j, k+1), f.lattice3D(i+1, j, k+1), xFrac)
	nx11 := core.Smerp(f.lattice3D(i, j+1, k+1), f.lattice3D(i+1, j+1, k+1), xFrac)

	nxy0 := core.Smerp(nx00, nx10, yFrac)
	nxy1 := core.Smerp(nx01, nx11, yFrac)
	return core.Smerp(nxy0, nxy1, zFrac)
}

// fractal sums the octaves of a base noise, halving amplitude as frequency
// grows by the dilation factor
func (f *Field) fractal(base func(scale float64) float64) float64 {
	sum := 0.0
	for i := 0; i < f.octaves; i++ {
		sum += base(math.Pow(f.dilation, float64(i))) / math.Pow(2, float64(i))
	}
	return sum * 0.5
}

// Noise1D returns fractal value noise at x
func (f *Field) Noise1D(x float64) float64 {
	return f.fractal(func(s float64) float64 { return f.smooth1D(x * s) })
}

// Noise2D returns fractal value noise at (x, y)
func (f *Field) Noise2D(x, y float64) float64 {
	return f.fractal(func(s float64) float64 { return f.smooth2D(x*s, y*s, nil) })
}

// Noise3D returns fractal value noise at (x, y, z)
func (f *Field) Noise3D(x, y, z float64) float64 {
	return f.fractal(func(s float64) float64 { return f.smooth3D(x*s, y*s, z*s) })
}

// Noise2DTiled returns fractal noise that repeats every xPeriod along x and
// yPeriod along y. Periods are scaled with each octave, so they should be
// positive integers for a seamless wrap.
func (f *Field) Noise2DTiled(x, y float64, xPeriod, yPeriod int) float64 {
	return f.fractal(func(s float64) float64 {
		px := max(1, int(float64(xPeriod)*s))
		py := max(1, int(float64(yPeriod)*s))
		return f.smooth2D(x*s, y*s, func(i, j int) (int, int) {
			return ((i % px) + px) % px, ((j % py) + py) % py
		})
	})
}
