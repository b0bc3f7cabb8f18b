package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppsrender/pathtracer/pkg/scene"
)

// ResolveScene builds a scene from a name. Names ending in .json are loaded
// as files; other names are first looked up as <scenesDir>/<name>.json and
// then as built-in scenes.
func ResolveScene(name, scenesDir string) (*scene.Scene, error) {
	if strings.HasSuffix(name, ".json") {
		if _, err := os.Stat(name); err != nil {
			return nil, fmt.Errorf("scene file %s: %w", name, err)
		}
		return LoadScene(name)
	}

	if name != "" && scenesDir != "" {
		path := filepath.Join(scenesDir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return LoadScene(path)
		}
	}

	build, err := scene.Lookup(name)
	if err != nil {
		return nil, err
	}
	return build(), nil
}

// SceneOutputName returns a short name for a scene reference, suitable for
// directory names: the file name without extension for JSON paths, the name
// itself otherwise.
func SceneOutputName(name string) string {
	if strings.HasSuffix(name, ".json") {
		name = strings.TrimSuffix(filepath.Base(name), ".json")
	}
	if name == "" {
		return "scene"
	}
	return name
}
