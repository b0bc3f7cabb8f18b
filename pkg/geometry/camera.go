package geometry

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // World up; zero means (0,1,0)
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// Camera generates primary rays for pixel coordinates
type Camera struct {
	position core.Vec3
	forward  core.Vec3
	right    core.Vec3
	up       core.Vec3
	alpha    float64 // tan(vfov/2)
	aspect   float64
}

// NewCamera creates a camera from its configuration
func NewCamera(config CameraConfig) *Camera {
	worldUp := config.Up
	if worldUp.IsZero() {
		worldUp = core.NewVec3(0, 1, 0)
	}
	aspect := config.AspectRatio
	if aspect <= 0 {
		aspect = 1.0
	}

	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward).Normalize()

	return &Camera{
		position: config.Center,
		forward:  forward,
		right:    right,
		up:       up,
		alpha:    math.Tan(config.VFov * 0.5 * math.Pi / 180.0),
		aspect:   aspect,
	}
}

// GetRay returns the primary ray through pixel (x, y) of a width x height image.
// (0, 0) is the top-left corner; (width/2, height/2) is the image center.
func (c *Camera) GetRay(x, y float64, width, height int) core.Ray {
	u := x / float64(width)
	v := y / float64(height)

	direction := c.forward.
		Add(c.right.Multiply((2*u - 1) * c.alpha * c.aspect)).
		Add(c.up.Multiply((1 - 2*v) * c.alpha))

	return core.NewRay(c.position, direction)
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}
