package scene

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/lights"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// NewSphereScene creates a single white sphere under a point light
func NewSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45.0,
		AspectRatio: 16.0 / 9.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New()
	s.CameraConfig = cameraConfig
	s.Camera = geometry.NewCamera(cameraConfig)
	s.SamplingConfig = SamplingConfig{
		Width:    400,
		Height:   225,
		MaxDepth: 8,
	}

	white := material.New(core.NewVec3(1, 1, 1))
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, -3), 1.0, white))
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 3, -1), core.NewVec3(1, 1, 1), 10.0))

	return s
}
