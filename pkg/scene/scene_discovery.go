package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppsrender/pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned by Lookup for names with no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

// JSONScenePrefix starts the ID of every scene discovered from a JSON file
const JSONScenePrefix = "json:"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// Builder constructs a built-in scene
type Builder func(cameraOverrides ...geometry.CameraConfig) *Scene

type builtIn struct {
	info  SceneInfo
	build Builder
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "checkerboard",
			Name:        "Checkerboard",
			Description: "Glass sphere over an 8x8 checkerboard floor with two point lights",
			Type:        "builtin",
		},
		build: NewCheckerboardScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere",
			Name:        "Sphere",
			Description: "Single white sphere under a point light",
			Type:        "builtin",
		},
		build: NewSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "mirror-box",
			Name:        "Mirror Box",
			Description: "Open box with a mirror wall, emissive panel and directional light",
			Type:        "builtin",
		},
		build: NewMirrorBoxScene,
	},
}

// Names returns the IDs of the built-in scenes in registration order
func Names() []string {
	names := make([]string, len(builtIns))
	for i, b := range builtIns {
		names[i] = b.info.ID
	}
	return names
}

// Lookup returns the builder for a built-in scene
func Lookup(name string) (Builder, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.build, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}

// ListBuiltInScenes returns the metadata of every built-in scene
func ListBuiltInScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtIns))
	for i, b := range builtIns {
		infos[i] = b.info
	}
	return infos
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields
// an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, ParseSceneFileMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneFileMetadata reads the top-level name and description of a JSON
// scene file. Unreadable files keep the values derived from the file name.
func ParseSceneFileMetadata(filePath string) SceneInfo {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:       JSONScenePrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "json",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info
	}
	if header.Name != "" {
		info.Name = header.Name
	}
	info.Description = header.Description

	return info
}

// titleCase converts a filename-style string to title case
// e.g., "mirror-box" -> "Mirror Box"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
