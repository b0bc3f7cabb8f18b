package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/integrator"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// MockIntegrator returns whatever colorFn computes for each ray
type MockIntegrator struct {
	colorFn func(ray core.Ray) core.Vec3
}

func (m MockIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	return m.colorFn(ray)
}

// captureLogger records every formatted line
type captureLogger struct {
	lines []string
}

var _ core.Logger = (*captureLogger)(nil)

func (cl *captureLogger) Printf(format string, args ...interface{}) {
	cl.lines = append(cl.lines, fmt.Sprintf(format, args...))
}

func emptyScene() *scene.Scene {
	s := scene.New()
	s.CameraConfig = geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		VFov:        45,
		AspectRatio: 2,
	}
	s.Camera = geometry.NewCamera(s.CameraConfig)
	return s
}

func renderSphereScene(t *testing.T) (*Framebuffer, RenderStats) {
	t.Helper()
	s := scene.NewSphereScene()
	config := integrator.DefaultConfig()
	config.MaxDepth = s.SamplingConfig.MaxDepth

	rt := NewRaytracer(s, 48, 27, integrator.NewPathTracingIntegrator(config), NewSilentLogger())
	fb, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return fb, stats
}

func TestRaytracer_RenderDimensions(t *testing.T) {
	fb, stats := renderSphereScene(t)

	if fb.Width != 48 || fb.Height != 27 || len(fb.Pixels) != 48*27 {
		t.Fatalf("Unexpected framebuffer %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	if stats.TotalPixels != 48*27 || stats.RowsCompleted != 27 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.NaNPixels != 0 || stats.InfPixels != 0 {
		t.Errorf("Expected no NaN or Inf pixels, got %+v", stats)
	}

	for i, p := range fb.Pixels {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 || p.Z < 0 || p.Z > 1 {
			t.Fatalf("Pixel %d out of [0,1]: %v", i, p)
		}
	}
}

func TestRaytracer_CenterPixelHitsSphere(t *testing.T) {
	fb, _ := renderSphereScene(t)

	center := fb.At(24, 13)
	corner := fb.At(0, 0)
	if center == corner {
		t.Errorf("Expected sphere at the center to differ from the background corner, both %v", center)
	}
	if corner != scene.DefaultBackground {
		t.Errorf("Expected corner to show the background, got %v", corner)
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	first, _ := renderSphereScene(t)
	second, _ := renderSphereScene(t)

	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Pixel %d differs between renders: %v vs %v", i, first.Pixels[i], second.Pixels[i])
		}
	}
	if !bytes.Equal(first.ToImage().Pix, second.ToImage().Pix) {
		t.Error("Encoded images differ between renders")
	}
}

func TestRaytracer_RowMajorTopFirst(t *testing.T) {
	s := emptyScene()
	// Color encodes the vertical ray direction so rows can be told apart
	mock := MockIntegrator{colorFn: func(ray core.Ray) core.Vec3 {
		return core.NewVec3(0.5+ray.Direction.Y, 0, 0)
	}}

	fb, _, err := NewRaytracer(s, 4, 3, mock, nil).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !(fb.At(0, 0).X > fb.At(0, 2).X) {
		t.Errorf("Expected top row to look further up than the bottom row: %v vs %v", fb.At(0, 0), fb.At(0, 2))
	}
	if fb.Pixels[1*4+2] != fb.At(2, 1) {
		t.Error("Expected pixel (2,1) at index y*W+x")
	}
}

func TestRaytracer_ClampsAndCountsNaN(t *testing.T) {
	s := emptyScene()
	calls := 0
	mock := MockIntegrator{colorFn: func(ray core.Ray) core.Vec3 {
		calls++
		switch calls % 3 {
		case 0:
			return core.NewVec3(math.NaN(), 0.5, 0.5)
		case 1:
			return core.NewVec3(2, -1, 0.25)
		default:
			return core.NewVec3(math.Inf(1), 0, 0)
		}
	}}

	fb, stats, err := NewRaytracer(s, 3, 2, mock, NewSilentLogger()).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.NaNPixels != 2 || stats.InfPixels != 2 {
		t.Errorf("Expected 2 NaN and 2 Inf pixels, got %+v", stats)
	}
	if got := fb.At(0, 0); got != core.NewVec3(1, 0, 0.25) {
		t.Errorf("Expected clamped (1, 0, 0.25), got %v", got)
	}
	if got := fb.At(1, 0); got != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected +Inf to clamp to 1, got %v", got)
	}
	img := fb.ToImage()
	if r := img.RGBAAt(2, 0).R; r != 0 {
		t.Errorf("Expected NaN channel to encode as 0, got %d", r)
	}
}

func TestRaytracer_Errors(t *testing.T) {
	mock := MockIntegrator{colorFn: func(core.Ray) core.Vec3 { return core.Vec3{} }}

	_, _, err := NewRaytracer(emptyScene(), 0, 10, mock, nil).Render(context.Background())
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}

	_, _, err = NewRaytracer(scene.New(), 10, 10, mock, nil).Render(context.Background())
	if !errors.Is(err, ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera, got %v", err)
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := MockIntegrator{colorFn: func(core.Ray) core.Vec3 { return core.NewVec3(1, 1, 1) }}
	fb, stats, err := NewRaytracer(emptyScene(), 8, 8, mock, nil).Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if fb == nil || stats.RowsCompleted != 0 {
		t.Errorf("Expected an untouched partial framebuffer, got rows=%d", stats.RowsCompleted)
	}
}

func TestRaytracer_ProgressLogging(t *testing.T) {
	logger := &captureLogger{}
	mock := MockIntegrator{colorFn: func(core.Ray) core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }}

	_, _, err := NewRaytracer(emptyScene(), 4, 20, mock, logger).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	progress := 0
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "Progress:") {
			progress++
		}
	}
	if progress != progressSteps {
		t.Errorf("Expected %d progress lines, got %d: %q", progressSteps, progress, logger.lines)
	}
	if last := logger.lines[len(logger.lines)-1]; !strings.HasPrefix(last, "Render completed") {
		t.Errorf("Expected completion line last, got %q", last)
	}
}
