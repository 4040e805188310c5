package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"glass-spheres", "Glass Spheres"},
		{"noise_floor", "Noise Floor"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleCase(tc.input))
		})
	}
}

const miniScene = `# Scene: Mini
# Variant: Red
# Description: One red sphere
# Group: Tests
width: 20
height: 10
materials:
  red:
    color: red
    ambient: [0.3, 0, 0]
objects:
  - type: sphere
    material: red
    position: [0, 0, -2]
    radius: 0.5
lights:
  - type: point
    position: [0, 2, 0]
`

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "complete.yaml",
			content: miniScene,
			expected: SceneInfo{
				ID:          "yaml:complete",
				Name:        "Mini",
				DisplayName: "Mini - Red",
				Description: "One red sphere",
				Group:       "Tests",
				Type:        "yaml",
				Variant:     "Red",
			},
		},
		{
			name:    "no_metadata.yml",
			content: "width: 10\n",
			expected: SceneInfo{
				ID:          "yaml:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tt.name, tt.content)
			tt.expected.FilePath = path

			info, err := ParseSceneMetadata(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info)
		})
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "mini.yaml", miniScene)
	writeSceneFile(t, dir, "notes.txt", "ignored")

	groups, err := ListAllScenes(dir, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Built-in Scenes", groups[0].Name)
	ids := []string{}
	for _, info := range groups[0].Scenes {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"default", "plane", "noise"}, ids)

	assert.Equal(t, "Tests", groups[1].Name)
	require.Len(t, groups[1].Scenes, 1)
	assert.Equal(t, "yaml:mini", groups[1].Scenes[0].ID)
}

func TestListSceneFilesWithoutDirectory(t *testing.T) {
	scenes, err := ListSceneFiles("", nil)
	require.NoError(t, err)
	assert.NotNil(t, scenes)
	assert.Empty(t, scenes)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeSceneFile(t, dir, "mini.yaml", miniScene)
	set := noise.NewDefaultSet()

	for _, id := range []string{"default", "plane", "noise"} {
		s, err := Load(id, dir, set)
		require.NoError(t, err, id)
		assert.NotEmpty(t, s.Objects, id)
	}

	for _, id := range []string{"yaml:mini", path} {
		s, err := Load(id, dir, set)
		require.NoError(t, err, id)
		require.Len(t, s.Objects, 1)
		assert.Equal(t, 20, s.SamplingConfig.Width)
		assert.Equal(t, core.NewVec3(1, 0, 0), s.Objects[0].Material().BaseColor)
		assert.Equal(t, core.NewVec3(0.3, 0, 0), s.Objects[0].Material().Ambient)
	}

	_, err := Load("yaml:missing", dir, set)
	assert.ErrorIs(t, err, ErrUnknownScene)
	_, err = Load("cornell", dir, set)
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSceneFile(t, dir, "mini.yml", miniScene)

	got, ok := ResolveFile("yaml:mini", dir)
	require.True(t, ok)
	assert.Equal(t, path, got)

	got, ok = ResolveFile("elsewhere/room.yaml", dir)
	assert.True(t, ok)
	assert.Equal(t, "elsewhere/room.yaml", got)

	_, ok = ResolveFile("default", dir)
	assert.False(t, ok)
	_, ok = ResolveFile("yaml:missing", dir)
	assert.False(t, ok)
}

func TestBundledScenesLoad(t *testing.T) {
	dir := filepath.Join("..", "..", "scenes")
	files, err := ListSceneFiles(dir, nil)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, info := range files {
		s, err := Load(info.ID, dir, noise.NewDefaultSet())
		require.NoError(t, err, info.ID)
		assert.NotEmpty(t, s.Objects, info.ID)
		assert.NotEmpty(t, s.Lights, info.ID)
	}
}
