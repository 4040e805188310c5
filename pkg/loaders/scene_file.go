package loaders

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSceneFile wraps every validation failure in a scene file
var ErrInvalidSceneFile = errors.New("invalid scene file")

// SceneFile is the YAML description of a scene. Header comments of the form
// "# Scene: ..." are metadata and are read separately by scene discovery.
type SceneFile struct {
	Width     int                     `yaml:"width"`
	Height    int                     `yaml:"height"`
	Samples   int                     `yaml:"samples"`
	Fog       *Color                  `yaml:"fog"`
	Camera    CameraSpec              `yaml:"camera"`
	Noise     []int64                 `yaml:"noiseSeeds"`
	Materials map[string]MaterialSpec `yaml:"materials"`
	Objects   []ObjectSpec            `yaml:"objects"`
	Lights    []LightSpec             `yaml:"lights"`
}

// CameraSpec mirrors geometry.CameraConfig; the aspect ratio comes from the
// image size
type CameraSpec struct {
	Focus    [3]float64 `yaml:"focus"`
	Forward  [3]float64 `yaml:"forward"`
	Up       [3]float64 `yaml:"up"`
	Fov      float64    `yaml:"fov"`
	Distance float64    `yaml:"distance"`
}

// MaterialSpec describes a named material. Unset numeric fields take the
// solid-material defaults.
type MaterialSpec struct {
	Color               Color      `yaml:"color"`
	Ambient             *Color     `yaml:"ambient"`
	Diffuse             *Color     `yaml:"diffuse"`
	Specular            *Color     `yaml:"specular"`
	Shininess           *float64   `yaml:"shininess"`
	SpecularCoefficient *float64   `yaml:"specularCoefficient"`
	Reflectivity        float64    `yaml:"reflectivity"`
	RefractiveIndex     float64    `yaml:"refractiveIndex"`
	Texture             string     `yaml:"texture"`
	TextureScale        float64    `yaml:"textureScale"`
	Noise               *NoiseSpec `yaml:"noise"`
}

// NoiseSpec selects a procedural texture. Omitted colors take the
// pattern's defaults.
type NoiseSpec struct {
	Pattern  string  `yaml:"pattern"`
	Field    int     `yaml:"field"`
	Color1   *Color  `yaml:"color1"`
	Color2   *Color  `yaml:"color2"`
	Strength float64 `yaml:"strength"`
}

// ObjectSpec describes one primitive. Which fields apply depends on Type:
// sphere (radius), ellipsoid (radii), plane (normal), cube (length, top,
// forward).
type ObjectSpec struct {
	Type     string     `yaml:"type"`
	Material string     `yaml:"material"`
	Position [3]float64 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
	Radii    [3]float64 `yaml:"radii"`
	Normal   [3]float64 `yaml:"normal"`
	Length   float64    `yaml:"length"`
	Top      [3]float64 `yaml:"top"`
	Forward  [3]float64 `yaml:"forward"`
}

// LightSpec describes a point or directional light
type LightSpec struct {
	Type      string     `yaml:"type"`
	Position  [3]float64 `yaml:"position"`
	Direction [3]float64 `yaml:"direction"`
	Color     *Color     `yaml:"color"`
}

// Color is either a color name or an [r, g, b] triple in [0, 1]
type Color struct {
	Name string
	RGB  [3]float64
}

// IsNamed reports whether the color was given by name
func (c Color) IsNamed() bool {
	return c.Name != ""
}

// UnmarshalYAML accepts a scalar name or a three element sequence
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c.Name = value.Value
		return nil
	case yaml.SequenceNode:
		var rgb [3]float64
		if err := value.Decode(&rgb); err != nil {
			return fmt.Errorf("line %d: color: %w", value.Line, err)
		}
		c.RGB = rgb
		return nil
	}
	return fmt.Errorf("line %d: color must be a name or [r, g, b]", value.Line)
}

// LoadSceneFile reads and validates a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var scene SceneFile
	if err := decoder.Decode(&scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", filename, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &scene, nil
}

// Validate checks the references and per-type fields of the description
func (s *SceneFile) Validate() error {
	if s.Width < 0 || s.Height < 0 || s.Samples < 0 {
		return fmt.Errorf("%w: negative image size or sample count", ErrInvalidSceneFile)
	}
	if s.Camera.Fov < 0 || s.Camera.Fov >= 180 {
		return fmt.Errorf("%w: camera fov %g must be in [0, 180)", ErrInvalidSceneFile, s.Camera.Fov)
	}

	for i, obj := range s.Objects {
		if _, ok := s.Materials[obj.Material]; !ok {
			return fmt.Errorf("%w: object %d references unknown material %q", ErrInvalidSceneFile, i, obj.Material)
		}
		switch obj.Type {
		case "sphere":
			if obj.Radius <= 0 {
				return fmt.Errorf("%w: sphere %d needs a positive radius", ErrInvalidSceneFile, i)
			}
		case "ellipsoid":
			if obj.Radii[0] <= 0 || obj.Radii[1] <= 0 || obj.Radii[2] <= 0 {
				return fmt.Errorf("%w: ellipsoid %d needs three positive radii", ErrInvalidSceneFile, i)
			}
		case "plane":
			if obj.Normal == [3]float64{} {
				return fmt.Errorf("%w: plane %d needs a normal", ErrInvalidSceneFile, i)
			}
		case "cube":
			if obj.Length <= 0 || obj.Top == [3]float64{} || obj.Forward == [3]float64{} {
				return fmt.Errorf("%w: cube %d needs length, top and forward", ErrInvalidSceneFile, i)
			}
		default:
			return fmt.Errorf("%w: object %d has unknown type %q", ErrInvalidSceneFile, i, obj.Type)
		}
	}

	for i, light := range s.Lights {
		switch light.Type {
		case "point":
		case "directional":
			if light.Direction == [3]float64{} {
				return fmt.Errorf("%w: directional light %d needs a direction", ErrInvalidSceneFile, i)
			}
		default:
			return fmt.Errorf("%w: light %d has unknown type %q", ErrInvalidSceneFile, i, light.Type)
		}
	}
	return nil
}
