package integrator

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along a primary ray
	RayColor(ray core.Ray, scene *scene.Scene) core.Vec3
}

// RefractionPolicy selects how transmissive surfaces bend rays
type RefractionPolicy int

const (
	// RefractSnell applies Snell's law in both directions and reflects on
	// total internal reflection
	RefractSnell RefractionPolicy = iota
	// RefractEntryOnly refracts entering rays and reflects exiting ones
	RefractEntryOnly
)

func (p RefractionPolicy) String() string {
	switch p {
	case RefractSnell:
		return "snell"
	case RefractEntryOnly:
		return "entry-only"
	default:
		return "unknown"
	}
}

// ParseRefractionPolicy converts a policy name back into a RefractionPolicy
func ParseRefractionPolicy(name string) (RefractionPolicy, bool) {
	switch name {
	case "snell", "":
		return RefractSnell, true
	case "entry-only":
		return RefractEntryOnly, true
	default:
		return RefractSnell, false
	}
}

// Config controls a single render's light transport
type Config struct {
	MaxDepth   int              // Rays at this depth or deeper contribute black
	Background core.Vec3        // Radiance of rays that escape the scene
	Policy     RefractionPolicy // Refraction model for transmissive materials
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		MaxDepth:   20,
		Background: scene.DefaultBackground,
		Policy:     RefractSnell,
	}
}
