package noise

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Func maps a point in space to an RGB color
type Func func(point core.Vec3) core.Vec3

// DefaultScale multiplies noise strength inside the sine-based patterns
const DefaultScale = 50.0

var (
	// ErrUnknownPattern is returned by Lookup for names not in the catalogue
	ErrUnknownPattern = errors.New("unknown noise pattern")
	// ErrEmptySet is returned by Lookup on a set without fields
	ErrEmptySet = errors.New("noise set is empty")
)

// Set is an explicitly constructed collection of noise fields, one per seed.
// Materials receive a pattern bound to a specific field instead of consulting
// a global "current" field.
type Set struct {
	fields []*Field
	Scale  float64
}

// NewSet creates one field per seed using the default field configuration
func NewSet(seeds ...int64) *Set {
	fields := make([]*Field, len(seeds))
	for i, seed := range seeds {
		config := DefaultFieldConfig()
		config.Seed = seed
		fields[i] = NewField(config)
	}
	return &Set{fields: fields, Scale: DefaultScale}
}

// DefaultSeeds returns the seeds of the default set, 0..4
func DefaultSeeds() []int64 {
	return []int64{0, 1, 2, 3, 4}
}

// NewDefaultSet returns the five fields seeded 0..4
func NewDefaultSet() *Set {
	return NewSet(DefaultSeeds()...)
}

// Len returns the number of fields
func (s *Set) Len() int {
	return len(s.fields)
}

// Field returns the field at index i, wrapping around the set. It returns
// nil for an empty set.
func (s *Set) Field(i int) *Field {
	n := len(s.fields)
	if n == 0 {
		return nil
	}
	return s.fields[((i%n)+n)%n]
}

// Pattern names a texture function and the field it samples. Nil colors
// select the pattern's defaults.
type Pattern struct {
	Name   string
	Field  int
	Color1 *core.Vec3
	Color2 *core.Vec3
	// Strength scales the noise perturbation in marble, wood and fire.
	// Zero selects the pattern default.
	Strength float64
}

// X11 colors blended by each pattern family when none are given
var defaultColors = map[string][2]core.Vec3{
	"clouds": {rgb(0, 0, 255), rgb(255, 255, 255)},  // blue, white
	"marble": {rgb(84, 255, 159), rgb(46, 139, 87)}, // seagreen1, seagreen4
	"wood":   {rgb(255, 130, 71), rgb(139, 71, 38)}, // sienna1, sienna4
	"fire":   {rgb(255, 0, 0), rgb(255, 255, 0)},    // red, yellow
}

// patternFamilies maps every accepted pattern name to its color family
var patternFamilies = map[string]string{
	"clouds":       "clouds",
	"tiledclouds":  "clouds",
	"tiled-clouds": "clouds",
	"clouds3d":     "clouds",
	"marble":       "marble",
	"marble3d":     "marble",
	"wood":         "wood",
	"wood3d":       "wood",
	"fire":         "fire",
}

func rgb(r, g, b float64) core.Vec3 {
	return core.NewVec3(r/255, g/255, b/255)
}

// DefaultColors returns the two colors a pattern blends when a Pattern
// leaves them nil
func DefaultColors(name string) (core.Vec3, core.Vec3, error) {
	family, ok := patternFamilies[strings.ToLower(name)]
	if !ok {
		return core.Vec3{}, core.Vec3{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	colors := defaultColors[family]
	return colors[0], colors[1], nil
}

// unit remaps a sine wave from [-1, 1] to [0, 1]
func unit(value float64) float64 {
	return (value + 1) / 2
}

// Clouds blends two colors by 2D noise over the point's x and y
func (s *Set) Clouds(field *Field, c1, c2 core.Vec3) Func {
	return func(p core.Vec3) core.Vec3 {
		return core.Lerp(c1, c2, field.Noise2D(p.X, p.Y))
	}
}

// TiledClouds is Clouds repeating every xPeriod by yPeriod units
func (s *Set) TiledClouds(field *Field, xPeriod, yPeriod int, c1, c2 core.Vec3) Func {
	return func(p core.Vec3) core.Vec3 {
		return core.Lerp(c1, c2, field.Noise2DTiled(p.X, p.Y, xPeriod, yPeriod))
	}
}

// Marble produces diagonal veins perturbed by 2D noise
func (s *Set) Marble(field *Field, c1, c2 core.Vec3, strength float64) Func {
	return func(p core.Vec3) core.Vec3 {
		n := field.Noise2D(p.X, p.Y)
		return core.Lerp(c1, c2, unit(math.Sin(p.X+p.Y+n*strength*s.Scale)))
	}
}

// Wood produces concentric rings around the z axis perturbed by 2D noise
func (s *Set) Wood(field *Field, c1, c2 core.Vec3, strength float64) Func {
	return func(p core.Vec3) core.Vec3 {
		n := field.Noise2D(p.X, p.Y)
		radius := math.Sqrt(p.X*p.X+p.Y*p.Y) * 10
		return core.Lerp(c1, c2, unit(math.Sin(radius+n*strength*s.Scale)))
	}
}

// Fire produces a flame-shaped blob centred at (4, 3) that fades out with
// noisy distance from the centre
func (s *Set) Fire(field *Field, c1, c2 core.Vec3, strength float64) Func {
	const xMiddle, yMiddle = 4.0, 3.0
	return func(p core.Vec3) core.Vec3 {
		x, y := p.X, p.Y/2
		color := core.Lerp(c1, c2, field.Noise2D(x*2, y*2))
		radius := math.Hypot(x-xMiddle, y-yMiddle) / 4
		radius += (field.Noise2D(x+math.Sin(y*2)*0.5, y) - 0.5) * strength
		return color.Multiply(1 - core.Smerp(0.1, 1.0, radius))
	}
}

// Clouds3D blends two colors by 3D noise
func (s *Set) Clouds3D(field *Field, c1, c2 core.Vec3) Func {
	return func(p core.Vec3) core.Vec3 {
		return core.Lerp(c1, c2, field.Noise3D(p.X, p.Y, p.Z))
	}
}

// Marble3D is Marble driven by 3D noise and all three coordinates
func (s *Set) Marble3D(field *Field, c1, c2 core.Vec3, strength float64) Func {
	return func(p core.Vec3) core.Vec3 {
		n := field.Noise3D(p.X, p.Y, p.Z)
		return core.Lerp(c1, c2, unit(math.Sin(p.X+p.Y+p.Z+n*strength*s.Scale)))
	}
}

// Wood3D is Wood driven by 3D noise; rings stay centred on the z axis
func (s *Set) Wood3D(field *Field, c1, c2 core.Vec3, strength float64) Func {
	return func(p core.Vec3) core.Vec3 {
		n := field.Noise3D(p.X, p.Y, p.Z)
		radius := math.Sqrt(p.X*p.X+p.Y*p.Y) * 10
		return core.Lerp(c1, c2, unit(math.Sin(radius+n*strength*s.Scale)))
	}
}

// Lookup resolves a pattern description into a texture function
func (s *Set) Lookup(pattern Pattern) (Func, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySet
	}
	c1, c2, err := DefaultColors(pattern.Name)
	if err != nil {
		return nil, err
	}
	if pattern.Color1 != nil {
		c1 = *pattern.Color1
	}
	if pattern.Color2 != nil {
		c2 = *pattern.Color2
	}

	field := s.Field(pattern.Field)
	strength := func(def float64) float64 {
		if pattern.Strength != 0 {
			return pattern.Strength
		}
		return def
	}

	switch strings.ToLower(pattern.Name) {
	case "clouds":
		return s.Clouds(field, c1, c2), nil
	case "tiledclouds", "tiled-clouds":
		return s.TiledClouds(field, 2, 2, c1, c2), nil
	case "marble":
		return s.Marble(field, c1, c2, strength(0.2)), nil
	case "wood":
		return s.Wood(field, c1, c2, strength(0.2)), nil
	case "fire":
		return s.Fire(field, c1, c2, strength(0.6)), nil
	case "clouds3d":
		return s.Clouds3D(field, c1, c2), nil
	case "marble3d":
		return s.Marble3D(field, c1, c2, strength(0.2)), nil
	case "wood3d":
		return s.Wood3D(field, c1, c2, strength(0.2)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, pattern.Name)
}
