package scene

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/lights"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// NewMirrorBoxScene creates an open box with a mirror back wall, a glowing
// ceiling panel, a triangle prism and a sun-like directional light
func NewMirrorBoxScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.5, 3),
		LookAt:      core.NewVec3(0, 0, -2),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        50.0,
		AspectRatio: 16.0 / 9.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New()
	s.CameraConfig = cameraConfig
	s.Camera = geometry.NewCamera(cameraConfig)
	s.SamplingConfig = SamplingConfig{
		Width:    640,
		Height:   360,
		MaxDepth: 10,
	}

	floor := material.Material{Roughness: 0.2, Albedo: core.NewVec3(0.75, 0.7, 0.6)}
	sideRed := material.Material{Roughness: 0.3, WiggleRoughness: true, Albedo: core.NewVec3(0.7, 0.15, 0.1)}
	sideGreen := material.Material{Roughness: 0.3, WiggleRoughness: true, Albedo: core.NewVec3(0.15, 0.6, 0.2)}
	mirror := material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))
	panel := material.NewEmissive(core.NewVec3(4, 3.8, 3.5), core.NewVec3(0, -1, 0))
	tinted := material.NewGlass(core.NewVec3(0.6, 0.8, 1.0), 1.33)
	tinted.Absorption = 0.5
	tinted.Thickness = 0.2

	// Box walls; quad normals follow u x v and face into the box
	s.AddShape(geometry.NewQuadFromEdges(core.NewVec3(-2, -1, -4), core.NewVec3(0, 0, 6), core.NewVec3(4, 0, 0), floor))
	s.AddShape(geometry.NewQuadFromEdges(core.NewVec3(-2, -1, -4), core.NewVec3(4, 0, 0), core.NewVec3(0, 3, 0), mirror))
	s.AddShape(geometry.NewQuadFromEdges(core.NewVec3(-2, -1, -4), core.NewVec3(0, 3, 0), core.NewVec3(0, 0, 6), sideRed))
	s.AddShape(geometry.NewQuadFromEdges(core.NewVec3(2, -1, -4), core.NewVec3(0, 0, 6), core.NewVec3(0, 3, 0), sideGreen))

	// Ceiling panel facing down
	s.AddShape(geometry.NewQuadFromEdges(core.NewVec3(-0.5, 1.99, -2.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), panel))

	// Prism front and sides
	apex := core.NewVec3(-1, 0.2, -2.8)
	s.AddShape(geometry.NewTriangle(core.NewVec3(-1.5, -1, -2.5), core.NewVec3(-0.5, -1, -2.5), apex, tinted))
	s.AddShape(geometry.NewTriangle(core.NewVec3(-0.5, -1, -2.5), core.NewVec3(-1, -1, -3.1), apex, tinted))
	s.AddShape(geometry.NewTriangle(core.NewVec3(-1, -1, -3.1), core.NewVec3(-1.5, -1, -2.5), apex, tinted))

	s.AddShape(geometry.NewSphere(core.NewVec3(0.9, -0.4, -2.2), 0.6, mirror))

	s.AddLight(lights.NewDirectionalLight(core.NewVec3(-0.3, -1, -0.5), core.NewVec3(1, 0.95, 0.85), 1.5))
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 1.5, 0), core.NewVec3(1, 1, 1), 4.0))

	return s
}
