package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/integrator"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

var (
	// ErrNoCamera is returned when rendering a scene without a camera
	ErrNoCamera = errors.New("scene has no camera")
	// ErrInvalidSize is returned for non-positive image dimensions
	ErrInvalidSize = errors.New("invalid image size")
)

// progressSteps is how many progress lines a full render prints
const progressSteps = 10

// Raytracer renders a scene one pixel at a time, top row first
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene *scene.Scene, width, height int, integrator integrator.Integrator, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		integrator: integrator,
		logger:     logger,
	}
}

// Render traces one primary ray per pixel and stores the clamped color.
// The context is checked between rows; a cancelled render returns the
// partial framebuffer along with the context's error.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, RenderStats, error) {
	var stats RenderStats

	if rt.width <= 0 || rt.height <= 0 {
		return nil, stats, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rt.width, rt.height)
	}
	if rt.scene == nil || rt.scene.Camera == nil {
		return nil, stats, ErrNoCamera
	}

	fb := NewFramebuffer(rt.width, rt.height)
	camera := rt.scene.Camera
	startTime := time.Now()

	rt.logger.Printf("Rendering %dx%d with %d primitives and %d lights...\n",
		rt.width, rt.height, rt.scene.GetPrimitiveCount(), len(rt.scene.GetLights()))

	nextReport := 1
	for y := 0; y < rt.height; y++ {
		select {
		case <-ctx.Done():
			stats.finish(time.Since(startTime))
			rt.logger.Printf("Rendering cancelled at row %d/%d\n", y, rt.height)
			return fb, stats, ctx.Err()
		default:
		}

		for x := 0; x < rt.width; x++ {
			ray := camera.GetRay(float64(x), float64(y), rt.width, rt.height)
			traced := rt.integrator.RayColor(ray, rt.scene)
			stored := traced.ClampUnit()
			fb.Set(x, y, stored)
			stats.addPixel(traced, stored)
		}
		stats.RowsCompleted++

		// Report every tenth of the image with an ETA based on rows so far
		if stats.RowsCompleted*progressSteps >= nextReport*rt.height {
			elapsed := time.Since(startTime)
			perRow := elapsed / time.Duration(stats.RowsCompleted)
			eta := perRow * time.Duration(rt.height-stats.RowsCompleted)
			rt.logger.Printf("Progress: %3d%% (row %d/%d), elapsed %v, ETA %v\n",
				stats.RowsCompleted*100/rt.height, stats.RowsCompleted, rt.height,
				elapsed.Round(time.Millisecond), eta.Round(time.Millisecond))
			for stats.RowsCompleted*progressSteps >= nextReport*rt.height {
				nextReport++
			}
		}
	}

	stats.finish(time.Since(startTime))
	rt.logger.Printf("Render completed in %v (%.0f pixels/s)\n", stats.Duration, stats.PixelsPerSecond())
	if stats.NaNPixels > 0 {
		rt.logger.Printf("Warning: %d pixels produced NaN and were written as black\n", stats.NaNPixels)
	}

	return fb, stats, nil
}
