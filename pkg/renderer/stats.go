package renderer

import (
	"time"

	"github.com/ppsrender/pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Total number of pixels rendered
	RowsCompleted int           // Rows finished before the render ended
	NaNPixels     int           // Pixels whose traced color had a NaN channel
	InfPixels     int           // Pixels whose traced color had an infinite channel
	BlackPixels   int           // Pixels that came out exactly black
	Luminance     float64       // Average luminance of the clamped image
	Duration      time.Duration // Wall-clock render time
}

// addPixel records one traced color before clamping
func (rs *RenderStats) addPixel(traced, stored core.Vec3) {
	rs.TotalPixels++
	if traced.IsNaN() {
		rs.NaNPixels++
	} else if traced.IsInf() {
		rs.InfPixels++
	}
	if stored.IsZero() {
		rs.BlackPixels++
	}
	if !stored.IsNaN() {
		rs.Luminance += stored.Luminance()
	}
}

// finish turns accumulated sums into averages
func (rs *RenderStats) finish(duration time.Duration) {
	rs.Duration = duration
	if rs.TotalPixels > 0 {
		rs.Luminance /= float64(rs.TotalPixels)
	}
}

// PixelsPerSecond returns the render throughput
func (rs RenderStats) PixelsPerSecond() float64 {
	if rs.Duration <= 0 {
		return 0
	}
	return float64(rs.TotalPixels) / rs.Duration.Seconds()
}
