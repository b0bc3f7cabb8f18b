package scene

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/lights"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// NewCheckerboardScene creates a glass sphere floating over an 8x8 checkerboard
// of plane patches, lit by two point lights
func NewCheckerboardScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, 4.5),
		LookAt:      core.NewVec3(0, 0.5, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45.0,
		AspectRatio: 1024.0 / 576.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New()
	s.CameraConfig = cameraConfig
	s.Camera = geometry.NewCamera(cameraConfig)
	s.SamplingConfig = SamplingConfig{
		Width:    1024,
		Height:   576,
		MaxDepth: 20,
	}

	checkWhite := material.Material{
		Roughness: 0.05,
		IOR:       1.0,
		Albedo:    core.NewVec3(0.95, 0.95, 0.95),
	}
	checkDark := material.Material{
		Roughness: 0.05,
		IOR:       1.0,
		Albedo:    core.NewVec3(0.4, 0.4, 0.4),
	}
	glass := material.NewGlass(core.NewVec3(0.99, 0.99, 0.99), 1.5)

	// Floor tiles at y=-1, each a unit square centered on a half-integer grid
	for x := -4; x < 4; x++ {
		for z := -4; z < 4; z++ {
			mat := checkWhite
			if (x+z)&1 != 0 {
				mat = checkDark
			}
			center := core.NewVec3(float64(x)+0.5, -1.0, float64(z)+0.5)
			s.AddShape(geometry.NewPlaneWithSize(center, core.NewVec3(0, 1, 0), 0.5, mat))
		}
	}

	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0.8, -1.5), 0.9, glass))

	s.AddLight(lights.NewPointLight(core.NewVec3(-3, 5, 2), core.NewVec3(1, 1, 1), 10.0))
	s.AddLight(lights.NewPointLight(core.NewVec3(3, 4, 1), core.NewVec3(0.8, 0.9, 1.0), 5.0))

	return s
}

// mergeCameraConfig overlays the non-zero fields of override onto base
func mergeCameraConfig(base, override geometry.CameraConfig) geometry.CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio > 0 {
		result.AspectRatio = override.AspectRatio
	}
	return result
}
