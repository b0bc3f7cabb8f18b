package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/renderer"
)

func TestSavePNG_RoundTrip(t *testing.T) {
	fb := renderer.NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 1, 1))
	fb.Set(1, 0, core.NewVec3(1, 0, 0))
	fb.Set(0, 1, core.NewVec3(0, 1, 0))
	fb.Set(1, 1, core.NewVec3(0, 0, 1))

	// Nested directories are created on demand
	path := filepath.Join(t.TempDir(), "output", "test", "render.png")
	if err := SavePNG(path, fb); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if loaded.Width != 2 || loaded.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", loaded.Width, loaded.Height)
	}
	for i := range fb.Pixels {
		if loaded.Pixels[i] != fb.Pixels[i] {
			t.Errorf("Pixel %d: expected %v, got %v", i, fb.Pixels[i], loaded.Pixels[i])
		}
	}
}

func TestSavePNG_QuantizesChannels(t *testing.T) {
	fb := renderer.NewFramebuffer(1, 1)
	fb.Set(0, 0, core.NewVec3(0.5, 0.25, 0.999))

	path := filepath.Join(t.TempDir(), "q.png")
	if err := SavePNG(path, fb); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	expected := color.RGBA{R: 128, G: 64, B: 255, A: 255}
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestLoadImage_ExternalPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "external.png")
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	fb, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if fb.At(0, 0) != core.NewVec3(1, 0, 0) || fb.At(1, 0) != core.NewVec3(0, 0, 1) {
		t.Errorf("Unexpected pixels %v", fb.Pixels)
	}
}

func TestLoadImage_Errors(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Error("Expected error for invalid image data")
	}
}

func TestMaxDifference(t *testing.T) {
	a := renderer.NewFramebuffer(2, 1)
	b := renderer.NewFramebuffer(2, 1)
	a.Set(1, 0, core.NewVec3(0.5, 0.2, 0))
	b.Set(1, 0, core.NewVec3(0.25, 0.2, 0.1))

	diff, err := MaxDifference(a, b)
	if err != nil {
		t.Fatalf("MaxDifference failed: %v", err)
	}
	if diff != 0.25 {
		t.Errorf("Expected 0.25, got %f", diff)
	}

	if _, err := MaxDifference(a, renderer.NewFramebuffer(1, 2)); err == nil {
		t.Error("Expected size mismatch error")
	}
}
