package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultMaxDepth bounds reflection and refraction recursion
const DefaultMaxDepth = 5

var (
	black = core.NewVec3(0, 0, 0)
	white = core.NewVec3(1, 1, 1)
)

// WhittedConfig controls the recursive shader
type WhittedConfig struct {
	MaxDepth   int
	ShadowMode ShadowMode
}

// WhittedIntegrator implements recursive Whitted-style ray tracing: Phong
// direct lighting with hard shadows plus mirror reflection and refraction
// blended by a Schlick Fresnel term
type WhittedIntegrator struct {
	config WhittedConfig
}

// NewWhittedIntegrator creates a new Whitted integrator
func NewWhittedIntegrator(config WhittedConfig) *WhittedIntegrator {
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	return &WhittedIntegrator{config: config}
}

// Config returns the integrator configuration
func (w *WhittedIntegrator) Config() WhittedConfig {
	return w.config
}

// RayColor implements Integrator. The ray direction is normalized before
// tracing.
func (w *WhittedIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	ray.Direction = ray.Direction.Normalize()
	return w.Trace(ray, s, 0, nil)
}

// Trace returns the color along a ray with a unit direction. exclude is never
// hit, which keeps secondary rays from re-hitting the surface they leave.
func (w *WhittedIntegrator) Trace(ray core.Ray, s *scene.Scene, depth int, exclude geometry.Object) core.Vec3 {
	obj, distance := s.NearestIntersection(ray, exclude)
	if obj == nil {
		return s.Fog
	}

	mat := obj.Material()
	hit := ray.At(distance)
	normal := obj.NormalAt(hit)
	reflectDir := core.Reflect(ray.Direction, normal).Normalize()

	reflected := black
	if depth < w.config.MaxDepth && mat.Reflectivity != 0 {
		reflected = w.Trace(core.NewRay(hit, reflectDir), s, depth+1, obj).Multiply(mat.Reflectivity)
	}

	refracted := w.refractedColor(ray, s, depth, obj, hit, normal)

	cosTheta := min(1, math.Abs(ray.Direction.Dot(normal)))
	r := Schlick(cosTheta, mat.RefractiveIndex)
	blend := reflected.Multiply(r).Add(refracted.Multiply(1 - r)).Normalize()

	var color core.Vec3
	switch {
	case mat.Texture != nil:
		uv := obj.TextureUV(hit, s.Camera.Forward())
		color = mat.Texture.Evaluate(uv, hit)
	case mat.Noise != nil:
		color = mat.Noise(hit)
	default:
		color = blend.Add(mat.BaseColor).Subtract(mat.Ambient)
	}

	return w.shade(ray, s, obj, mat, hit, normal, color)
}

// refractedColor returns the light transmitted through obj, or white for
// opaque surfaces and rays grazing the surface
func (w *WhittedIntegrator) refractedColor(ray core.Ray, s *scene.Scene, depth int, obj geometry.Object, hit, normal core.Vec3) core.Vec3 {
	mat := obj.Material()
	if mat.IsOpaque() {
		return white
	}

	var facing core.Vec3
	var ratio float64
	switch cos := ray.Direction.Dot(normal); {
	case cos < 0:
		// entering from air
		facing, ratio = normal, RefractionRatio(mat, nil)
	case cos > 0:
		// leaving into air
		facing, ratio = normal.Negate(), RefractionRatio(nil, mat)
	default:
		return white
	}

	if depth >= w.config.MaxDepth {
		return black
	}

	inner := bend(ray.Direction, facing, ratio)
	exit := hit.Add(inner.Multiply(obj.Extent()))
	exitNormal := obj.NormalAt(exit)
	if inner.Dot(exitNormal) > 0 {
		exitNormal = exitNormal.Negate()
	}
	out := bend(inner, exitNormal, 1/ratio)

	return w.Trace(core.NewRay(exit, out), s, depth+1, obj).Multiply(mat.RefractiveIndex)
}

// shade applies Phong direct lighting with hard shadows to the base color
func (w *WhittedIntegrator) shade(ray core.Ray, s *scene.Scene, obj geometry.Object, mat *material.Material, hit, normal, color core.Vec3) core.Vec3 {
	base := color
	if w.config.ShadowMode == ShadowPerLight {
		color = mat.Ambient
	}

	for _, light := range s.Lights {
		toLight := light.VectorToLight(hit)
		if w.occluded(s, hit, toLight, light.Distance(hit), obj) {
			if w.config.ShadowMode == ShadowFirstOccluder {
				return mat.Ambient
			}
			continue
		}

		diffuse := max(0, toLight.Dot(normal))
		specular := black
		halfway := toLight.Subtract(ray.Direction).Normalize()
		if nh := normal.Dot(halfway); nh > 0 {
			specular = mat.Specular.Multiply(math.Pow(nh, mat.Shininess) * mat.SpecularCoefficient)
		}

		lightColor := light.Color()
		lit := specular.MultiplyVec(lightColor)
		switch w.config.ShadowMode {
		case ShadowPerLight:
			color = color.Add(base.Multiply(diffuse).MultiplyVec(lightColor)).Add(lit)
		default:
			color = color.Multiply(diffuse).MultiplyVec(lightColor).Add(mat.Ambient).Add(lit)
		}
	}
	return color
}

// occluded reports whether anything other than self lies between point and a
// light distance away along toLight
func (w *WhittedIntegrator) occluded(s *scene.Scene, point, toLight core.Vec3, distance float64, self geometry.Object) bool {
	blocker, t := s.NearestIntersection(core.NewRay(point, toLight), self)
	return blocker != nil && t < distance
}

// bend refracts d through a surface whose normal faces against d, falling
// back to mirror reflection on total internal reflection
func bend(d, facing core.Vec3, ratio float64) core.Vec3 {
	if out, ok := core.Refract(d, facing, ratio); ok {
		return out.Normalize()
	}
	return core.Reflect(d, facing).Normalize()
}

// RefractionRatio returns the Snell ratio n_external/n_transmitting for light
// passing from external into transmitting. A nil material is air. Leaving an
// object into air (transmitting nil) is treated as index-matched and returns 1.
func RefractionRatio(transmitting, external *material.Material) float64 {
	switch {
	case transmitting != nil && external != nil:
		return external.RefractiveIndex / transmitting.RefractiveIndex
	case transmitting != nil:
		return 1 / transmitting.RefractiveIndex
	default:
		return 1
	}
}

// Schlick approximates Fresnel reflectance at a surface of index eta seen from
// air. cosTheta is the cosine of the angle between the ray and the normal.
// An opaque surface (eta 0) reflects fully.
func Schlick(cosTheta, eta float64) float64 {
	r0 := (eta - 1) / (eta + 1)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}
