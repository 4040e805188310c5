package material

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Palette entries that are X11-only and missing from the SVG name table
var x11Colors = map[string]color.RGBA{
	"gray":      {190, 190, 190, 255},
	"seagreen1": {84, 255, 159, 255},
	"seagreen4": {46, 139, 87, 255},
	"sienna1":   {255, 130, 71, 255},
	"sienna4":   {139, 71, 38, 255},
}

// Aliases used by the noise textures
var colorAliases = map[string]string{
	"marble1": "seagreen1",
	"marble2": "seagreen4",
	"wood1":   "sienna1",
	"wood2":   "sienna4",
	"green":   "lime", // pure (0,1,0), as in the X11 table
}

// FromRGBA converts an 8-bit color to a [0, 1] Vec3, dropping alpha
func FromRGBA(c color.RGBA) core.Vec3 {
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// NamedColor resolves a color name (case-insensitive) to RGB in [0, 1]
func NamedColor(name string) (core.Vec3, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := colorAliases[key]; ok {
		key = alias
	}
	if c, ok := x11Colors[key]; ok {
		return FromRGBA(c), nil
	}
	if c, ok := colornames.Map[key]; ok {
		return FromRGBA(c), nil
	}
	return core.Vec3{}, fmt.Errorf("unknown color name %q", name)
}

// MustColor is NamedColor for names known at compile time
func MustColor(name string) core.Vec3 {
	c, err := NamedColor(name)
	if err != nil {
		panic(err)
	}
	return c
}
