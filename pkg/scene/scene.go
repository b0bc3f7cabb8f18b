package scene

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/lights"
)

// DefaultBackground is the flat sky color returned for rays that escape the scene
var DefaultBackground = core.NewVec3(0.2, 0.6, 0.95)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene, indexed by ShapeHandle
	Lights         []lights.Light   // Lights in the scene
	SamplingConfig SamplingConfig
	Background     core.Vec3
}

// SamplingConfig contains the recommended rendering configuration for a scene
type SamplingConfig struct {
	Width    int // Image width
	Height   int // Image height
	MaxDepth int // Maximum ray bounce depth
}

// ShapeHandle identifies a shape by its insertion index
type ShapeHandle int

// New creates an empty scene with the default background
func New() *Scene {
	return &Scene{
		Shapes:     make([]geometry.Shape, 0),
		Lights:     make([]lights.Light, 0),
		Background: DefaultBackground,
	}
}

// AddShape appends a shape and returns its handle
func (s *Scene) AddShape(shape geometry.Shape) ShapeHandle {
	s.Shapes = append(s.Shapes, shape)
	return ShapeHandle(len(s.Shapes) - 1)
}

// AddLight appends a copy of the light
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// Shape returns the shape for a handle
func (s *Scene) Shape(h ShapeHandle) geometry.Shape {
	return s.Shapes[h]
}

// GetLights returns the scene's lights
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// GetPrimitiveCount returns the number of primitives tested per query
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// Hit finds the nearest intersection with tMin < t < tMax by testing every
// shape. When two shapes report the same t the earlier inserted one wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
	_, ok := s.HitShape(ray, tMin, tMax, rec)
	return ok
}

// HitShape is Hit that also returns the handle of the shape that was hit
func (s *Scene) HitShape(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) (ShapeHandle, bool) {
	closestSoFar := tMax
	closest := ShapeHandle(-1)

	var candidate geometry.HitRecord
	for i, shape := range s.Shapes {
		// Shapes only report t strictly below closestSoFar, so ties keep the first hit
		if shape.Hit(ray, tMin, closestSoFar, &candidate) {
			closest = ShapeHandle(i)
			closestSoFar = candidate.T
			*rec = candidate
		}
	}

	return closest, closest >= 0
}

// Intersect finds the nearest hit along the whole ray
func (s *Scene) Intersect(ray core.Ray, rec *geometry.HitRecord) bool {
	return s.Hit(ray, geometry.HitEpsilon, math.Inf(1), rec)
}
