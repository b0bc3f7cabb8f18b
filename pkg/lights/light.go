package lights

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
)

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a point light when Direction is the zero vector and a directional
// light otherwise. Direction points the way the light travels.
type Light struct {
	Position  core.Vec3
	Direction core.Vec3
	Color     core.Vec3
	Energy    float64
}

// LightSample describes how a light reaches a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from the shading point toward the light
	Distance  float64   // Distance to the light; +Inf for directional lights
	Falloff   float64   // Inverse-square falloff for point lights, 1 otherwise
}

// NewPointLight creates a light radiating from a position with inverse-square falloff
func NewPointLight(position, color core.Vec3, energy float64) Light {
	return Light{Position: position, Color: color, Energy: energy}
}

// NewDirectionalLight creates a light arriving from infinitely far away along direction
func NewDirectionalLight(direction, color core.Vec3, energy float64) Light {
	return Light{Direction: direction, Color: color, Energy: energy}
}

// Default returns a white point light at the origin with unit energy
func Default() Light {
	return NewPointLight(core.Vec3{}, core.NewVec3(1, 1, 1), 1.0)
}

// Type returns the kind of light
func (l Light) Type() LightType {
	if l.Direction.IsZero() {
		return LightTypePoint
	}
	return LightTypeDirectional
}

// Sample computes the direction, distance and falloff of the light as seen from point
func (l Light) Sample(point core.Vec3) LightSample {
	if l.Type() == LightTypeDirectional {
		return LightSample{
			Direction: l.Direction.Negate().Normalize(),
			Distance:  math.Inf(1),
			Falloff:   1.0,
		}
	}

	toLight := l.Position.Subtract(point)
	dist := toLight.Length()
	return LightSample{
		Direction: toLight.Divide(max(dist, 1e-6)),
		Distance:  dist,
		Falloff:   1.0 / max(1e-6, dist*dist),
	}
}

// Radiance returns the light's color scaled by its energy
func (l Light) Radiance() core.Vec3 {
	return l.Color.Multiply(l.Energy)
}
