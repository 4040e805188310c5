package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glassScene = `# Scene: Glass
# Description: A glass sphere over a plane
width: 160
height: 120
samples: 2
fog: [0.7, 0.9, 1.0]
camera:
  focus: [0, 0.2, 0]
  forward: [0, 0, -1]
  up: [0, 1, 0]
  fov: 45
  distance: 2.5
noiseSeeds: [3, 4]
materials:
  floor:
    color: gray
    ambient: [0.3, 0.3, 0.3]
    shininess: 5
    specularCoefficient: 0.1
    textureScale: 0.5
  glass:
    color: blue
    refractiveIndex: 1.53
    reflectivity: 0.2
  marble:
    color: white
    noise:
      pattern: marble
      field: 1
      color1: marble1
      color2: [0.1, 0.2, 0.3]
objects:
  - type: plane
    material: floor
    position: [0, -1, 0]
    normal: [0, 1, 0]
  - type: sphere
    material: glass
    position: [0, 0, -2]
    radius: 0.5
  - type: cube
    material: marble
    position: [1, 0, -2]
    length: 0.5
    top: [0, 1, 0]
    forward: [0, 0, 1]
lights:
  - type: point
    position: [-1, 2, 2]
  - type: directional
    direction: [0, 1, 1]
    color: white
`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSceneFile(t *testing.T) {
	scene, err := LoadSceneFile(writeScene(t, glassScene))
	require.NoError(t, err)

	assert.Equal(t, 160, scene.Width)
	assert.Equal(t, 2, scene.Samples)
	require.NotNil(t, scene.Fog)
	assert.Equal(t, [3]float64{0.7, 0.9, 1.0}, scene.Fog.RGB)
	assert.Equal(t, 45.0, scene.Camera.Fov)
	assert.Equal(t, []int64{3, 4}, scene.Noise)

	floor := scene.Materials["floor"]
	assert.Equal(t, "gray", floor.Color.Name)
	assert.True(t, floor.Color.IsNamed())
	require.NotNil(t, floor.Ambient)
	assert.False(t, floor.Ambient.IsNamed())
	require.NotNil(t, floor.Shininess)
	assert.Equal(t, 5.0, *floor.Shininess)
	assert.Nil(t, floor.Diffuse)

	marble := scene.Materials["marble"]
	require.NotNil(t, marble.Noise)
	require.NotNil(t, marble.Noise.Color1)
	require.NotNil(t, marble.Noise.Color2)
	assert.Equal(t, "marble1", marble.Noise.Color1.Name)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, marble.Noise.Color2.RGB)

	require.Len(t, scene.Objects, 3)
	assert.Equal(t, "cube", scene.Objects[2].Type)
	require.Len(t, scene.Lights, 2)
	assert.Nil(t, scene.Lights[0].Color)
}

func TestLoadSceneFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"unknown field", "widht: 10\n", false},
		{"bad color", "fog: {r: 1}\n", false},
		{"short vector", "camera:\n  focus: [0, 1]\n", false},
		{"unknown material", "objects:\n  - type: sphere\n    material: missing\n    radius: 1\n", true},
		{"unknown object type", "materials:\n  m: {color: red}\nobjects:\n  - type: torus\n    material: m\n", true},
		{"sphere without radius", "materials:\n  m: {color: red}\nobjects:\n  - type: sphere\n    material: m\n", true},
		{"cube without axes", "materials:\n  m: {color: red}\nobjects:\n  - type: cube\n    material: m\n    length: 1\n", true},
		{"unknown light", "lights:\n  - type: area\n", true},
		{"directional without direction", "lights:\n  - type: directional\n", true},
		{"fov out of range", "camera:\n  fov: 190\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSceneFile(writeScene(t, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidSceneFile)
			}
		})
	}
}

func TestLoadSceneFileMissing(t *testing.T) {
	_, err := LoadSceneFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
