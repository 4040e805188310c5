package scene

import (
	"fmt"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// MaxTextureSize bounds the larger side of textures loaded for scene files
const MaxTextureSize = 2048

// NewYAMLScene creates a scene from a YAML scene file. Relative texture paths
// are resolved against the file's directory. If the file lists noise seeds
// they replace noiseSet.
func NewYAMLScene(path string, noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	file, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}
	if len(file.Noise) > 0 {
		noiseSet = noise.NewSet(file.Noise...)
	}

	sampling := DefaultSamplingConfig()
	if file.Width > 0 && file.Height > 0 {
		sampling.Width, sampling.Height = file.Width, file.Height
	}
	if file.Samples > 0 {
		sampling.SamplesPerPixel = file.Samples
	}

	cameraConfig := MergeCameraConfig(DefaultCameraConfig(), geometry.CameraConfig{
		Focus:         vec(file.Camera.Focus),
		Forward:       vec(file.Camera.Forward),
		Up:            vec(file.Camera.Up),
		FieldOfView:   file.Camera.Fov,
		FocusDistance: file.Camera.Distance,
	})
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig, sampling)
	if file.Fog != nil {
		if s.Fog, err = resolveColor(*file.Fog); err != nil {
			return nil, fmt.Errorf("fog: %w", err)
		}
	}

	dir := filepath.Dir(path)
	materials := make(map[string]*material.Material, len(file.Materials))
	for name, spec := range file.Materials {
		m, err := convertMaterial(spec, dir, noiseSet)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	for i, obj := range file.Objects {
		if err := addObject(s, obj, materials[obj.Material]); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	for i, light := range file.Lights {
		color := core.NewVec3(1, 1, 1)
		if light.Color != nil {
			if color, err = resolveColor(*light.Color); err != nil {
				return nil, fmt.Errorf("light %d: %w", i, err)
			}
		}
		switch light.Type {
		case "point":
			s.AddPointLight(vec(light.Position), color)
		case "directional":
			s.AddDirectionalLight(vec(light.Direction), color)
		}
	}

	return s, nil
}

func vec(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func resolveColor(c loaders.Color) (core.Vec3, error) {
	if c.IsNamed() {
		return material.NamedColor(c.Name)
	}
	return vec(c.RGB), nil
}

func convertMaterial(spec loaders.MaterialSpec, dir string, noiseSet *noise.Set) (*material.Material, error) {
	base, err := resolveColor(spec.Color)
	if err != nil {
		return nil, err
	}
	m := material.NewSolid(base)

	for _, field := range []struct {
		src *loaders.Color
		dst *core.Vec3
	}{
		{spec.Ambient, &m.Ambient},
		{spec.Diffuse, &m.Diffuse},
		{spec.Specular, &m.Specular},
	} {
		if field.src == nil {
			continue
		}
		if *field.dst, err = resolveColor(*field.src); err != nil {
			return nil, err
		}
	}

	if spec.Shininess != nil {
		m.Shininess = *spec.Shininess
	}
	if spec.SpecularCoefficient != nil {
		m.SpecularCoefficient = *spec.SpecularCoefficient
	}
	m.Reflectivity = spec.Reflectivity
	m.RefractiveIndex = spec.RefractiveIndex
	m.TextureScale = spec.TextureScale

	if spec.Texture != "" {
		path := spec.Texture
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		texture, err := loaders.LoadTexture(path, MaxTextureSize)
		if err != nil {
			return nil, err
		}
		m.Texture = texture
	}

	if spec.Noise != nil {
		pattern := noise.Pattern{
			Name:     spec.Noise.Pattern,
			Field:    spec.Noise.Field,
			Strength: spec.Noise.Strength,
		}
		for _, color := range []struct {
			src *loaders.Color
			dst **core.Vec3
		}{
			{spec.Noise.Color1, &pattern.Color1},
			{spec.Noise.Color2, &pattern.Color2},
		} {
			if color.src == nil {
				continue
			}
			c, err := resolveColor(*color.src)
			if err != nil {
				return nil, err
			}
			*color.dst = &c
		}
		fn, err := noiseSet.Lookup(pattern)
		if err != nil {
			return nil, err
		}
		m.Noise = fn
	}

	return m, nil
}

func addObject(s *Scene, obj loaders.ObjectSpec, mat *material.Material) error {
	position := vec(obj.Position)
	switch obj.Type {
	case "sphere":
		s.AddSphere(position, obj.Radius, mat)
	case "ellipsoid":
		s.AddEllipsoid(position, vec(obj.Radii), mat)
	case "plane":
		s.AddPlane(position, vec(obj.Normal), mat)
	case "cube":
		if _, err := s.AddCube(position, vec(obj.Top), vec(obj.Forward), obj.Length, mat); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown object type %q", obj.Type)
	}
	return nil
}
