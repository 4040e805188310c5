package scene

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// ErrUnknownScene is returned when a scene ID matches no built-in or file scene
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtInGroup  = "Built-in Scenes"
	yamlGroup     = "Scene Files"
	yamlIDPrefix  = "yaml:"
	typeBuiltIn   = "builtin"
	typeSceneFile = "yaml"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier
	Name        string // Scene name
	DisplayName string // Display name
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "yaml"
	FilePath    string // Path to the scene file (yaml type only)
	Variant     string // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

// Builder constructs a built-in scene
type Builder func(noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error)

type builtIn struct {
	info  SceneInfo
	build Builder
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Glass, mirror, textured and noise objects over a gray floor",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "plane",
			Name:        "Plane",
			Description: "Single gray floor under a point light",
		},
		build: NewPlaneScene,
	},
	{
		info: SceneInfo{
			ID:          "noise",
			Name:        "Noise Gallery",
			Description: "One sphere per procedural noise pattern",
		},
		build: NewNoiseScene,
	},
}

// ScenesDir locates the scenes directory relative to the working directory.
// It returns "" if none exists.
func ScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListSceneFiles scans dir for *.yaml and *.yml scene files. A missing dir
// yields an empty list.
func ListSceneFiles(dir string, logger *slog.Logger) ([]SceneInfo, error) {
	scenes := []SceneInfo{}
	if dir == "" {
		return scenes, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			if logger != nil {
				logger.Warn("failed to parse scene metadata", "file", filePath, "error", err)
			}
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the header comments of a scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          yamlIDPrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       yamlGroup,
		Type:        typeSceneFile,
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// BuiltInScenes returns the metadata of every built-in scene
func BuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtIns))
	for i, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = typeBuiltIn
		scenes[i] = info
	}
	return scenes
}

// ListAllScenes returns built-in scenes first, then scene files grouped by
// their Group header
func ListAllScenes(dir string, logger *slog.Logger) ([]SceneGroup, error) {
	files, err := ListSceneFiles(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range append(BuiltInScenes(), files...) {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtInGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtInGroup, Scenes: groupMap[builtInGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// Load builds a scene by ID. IDs are built-in names, "yaml:<name>" for a file
// in dir, or a path to a .yaml/.yml file.
func Load(id, dir string, noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == id {
			return b.build(noiseSet, cameraOverrides...)
		}
	}

	path, ok := ResolveFile(id, dir)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return NewYAMLScene(path, noiseSet, cameraOverrides...)
}

// ResolveFile returns the scene file a non-built-in ID refers to. ok is
// false for built-in IDs and for "yaml:" names with no file in dir.
func ResolveFile(id, dir string) (path string, ok bool) {
	switch {
	case strings.HasPrefix(id, yamlIDPrefix):
		name := strings.TrimPrefix(id, yamlIDPrefix)
		for _, ext := range []string{".yaml", ".yml"} {
			candidate := filepath.Join(dir, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}
	case strings.HasSuffix(id, ".yaml") || strings.HasSuffix(id, ".yml"):
		return id, true
	}
	return "", false
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
