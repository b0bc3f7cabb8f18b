package loaders

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/ppsrender/pathtracer/pkg/renderer"
)

// SavePNG writes the framebuffer as an 8-bit PNG, creating parent directories
func SavePNG(path string, fb *renderer.Framebuffer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := gg.SavePNG(path, fb.ToImage()); err != nil {
		return fmt.Errorf("failed to save PNG: %w", err)
	}
	return nil
}

// LoadImage loads a PNG or JPEG image into a framebuffer with channels in [0, 1]
func LoadImage(filename string) (*renderer.Framebuffer, error) {
	img, err := gg.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return renderer.FromImage(img), nil
}

// MaxDifference returns the largest per-channel difference between two
// framebuffers of the same size
func MaxDifference(a, b *renderer.Framebuffer) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return 0, fmt.Errorf("size mismatch: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	maxDiff := 0.0
	for i := range a.Pixels {
		d := a.Pixels[i].Subtract(b.Pixels[i])
		maxDiff = max(maxDiff, math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z))
	}
	return maxDiff, nil
}
