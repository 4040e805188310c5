package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// Material holds the optical properties of a scene object.
//
// Colors are RGB in [0, 1]. RefractiveIndex 0 marks an opaque surface; 1 is
// index-matched to air and values above 1 bend light like glass.
type Material struct {
	BaseColor           core.Vec3
	Ambient             core.Vec3
	Diffuse             core.Vec3
	Specular            core.Vec3
	Shininess           float64
	SpecularCoefficient float64
	Reflectivity        float64
	RefractiveIndex     float64

	// Texture overrides the shaded base color when set. It takes precedence
	// over Noise.
	Texture ColorSource
	// Noise is evaluated at the hit point when no Texture is set.
	Noise noise.Func
	// TextureScale is the world-space size of one texture repeat on planar
	// surfaces. Zero means 1.
	TextureScale float64
}

// IsOpaque reports whether light cannot pass through the material
func (m *Material) IsOpaque() bool {
	return m.RefractiveIndex == 0
}

// HasTexture reports whether either an image texture or a noise function is attached
func (m *Material) HasTexture() bool {
	return m.Texture != nil || m.Noise != nil
}

// PlanarScale returns the effective planar texture scale
func (m *Material) PlanarScale() float64 {
	if m.TextureScale <= 0 {
		return 1
	}
	return m.TextureScale
}

// NewSolid creates an untextured material. Ambient, diffuse and specular
// default to the values used throughout the built-in scenes.
func NewSolid(baseColor core.Vec3) *Material {
	return &Material{
		BaseColor:           baseColor,
		Ambient:             baseColor.Multiply(0.3),
		Diffuse:             baseColor.Multiply(0.7),
		Specular:            core.NewVec3(1, 1, 1),
		Shininess:           50,
		SpecularCoefficient: 0.5,
	}
}
