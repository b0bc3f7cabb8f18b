package material

import "github.com/ppsrender/pathtracer/pkg/core"

// DefaultRoughness is the roughness of a material built with New. Anything
// at or above 1 collapses the scalar roughness blend to the zero direction.
const DefaultRoughness = 1.1

// Emissive describes light emitted by a surface
type Emissive struct {
	Albedo    core.Vec3 // Emitted color; all-zero means not emissive
	Direction core.Vec3 // Preferred emission direction; zero means isotropic
}

// Material holds the physical parameters of a surface. It is a plain value:
// shapes keep their own copy and every hit record receives a snapshot.
type Material struct {
	Roughness       float64 // Scales the incoming direction toward the normal on reflection
	WiggleRoughness bool    // Use the additive (I + N*r) blend instead of the scalar one

	// Subsurface parameters are carried for scene files but not interpreted.
	SSS       float64
	SSSLayers float64

	Transmissive bool    // Rays refract through the surface instead of reflecting
	IOR          float64 // Index of refraction; <= 1e-6 disables refraction
	Absorption   float64 // Per-bounce energy loss from the material
	Thickness    float64 // Per-bounce energy loss from surface thickness

	Albedo   core.Vec3
	Emissive Emissive
}

// New creates a material with the given albedo and default roughness
func New(albedo core.Vec3) Material {
	return Material{
		Roughness: DefaultRoughness,
		Albedo:    albedo,
	}
}

// NewMirror creates a perfectly smooth reflective material
func NewMirror(albedo core.Vec3) Material {
	return Material{Albedo: albedo}
}

// NewGlass creates a smooth transmissive material
func NewGlass(albedo core.Vec3, ior float64) Material {
	return Material{
		Albedo:       albedo,
		Transmissive: true,
		IOR:          ior,
	}
}

// NewEmissive creates a material that emits the given color.
// A zero direction makes the emission isotropic.
func NewEmissive(emission, direction core.Vec3) Material {
	m := New(core.Vec3{})
	m.Emissive = Emissive{Albedo: emission, Direction: direction}
	return m
}

// Attenuation returns the per-bounce energy factor for the material.
// It is 1 unless absorption or thickness is set, in which case each
// contributes a factor whose reduction is capped at 0.9.
func (m Material) Attenuation() float64 {
	absorption := max(0, m.Absorption)
	thickness := max(0, m.Thickness)
	if absorption <= 0 && thickness <= 0 {
		return 1.0
	}
	return (0.85 - min(0.9, absorption*0.2)) * (0.85 - min(0.9, thickness*0.3))
}
