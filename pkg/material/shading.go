package material

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
)

// MinIOR is the smallest index of refraction treated as valid
const MinIOR = 1e-6

// ScalarRoughness shrinks the incoming direction by max(0, 1-r) and renormalizes.
// For r >= 1 the result is the zero vector.
func ScalarRoughness(incoming core.Vec3, roughness float64) core.Vec3 {
	s := max(0.0, 1.0-roughness)
	return incoming.Multiply(s).Normalize()
}

// WiggleRoughness bends the incoming direction toward the normal by adding N*r
func WiggleRoughness(incoming, normal core.Vec3, roughness float64) core.Vec3 {
	return incoming.Add(normal.Multiply(roughness)).Normalize()
}

// roughen applies the material's roughness blend to a direction
func roughen(incoming, normal core.Vec3, m *Material) core.Vec3 {
	if m.Roughness == 0 {
		return incoming
	}
	if m.WiggleRoughness {
		return WiggleRoughness(incoming, normal, m.Roughness)
	}
	return ScalarRoughness(incoming, m.Roughness)
}

// Reflect mirrors the (roughened) incoming direction about the normal
func Reflect(incoming, normal core.Vec3, m *Material) core.Vec3 {
	i := roughen(incoming, normal, m)
	return i.Subtract(normal.Multiply(2.0 * i.Dot(normal))).Normalize()
}

// Refract bends the incoming direction through the surface using Snell's law.
// The medium outside the surface has index 1. An invalid IOR or total internal
// reflection falls back to Reflect.
func Refract(incoming, normal core.Vec3, m *Material) core.Vec3 {
	if m.IOR <= MinIOR {
		return Reflect(incoming, normal, m)
	}

	i := incoming.Normalize()
	n := normal.Normalize()
	i = roughen(i, n, m)

	// A negative cosine means the ray is entering through the front face
	c := i.Dot(n)
	entering := c < 0
	nFace := n
	n1, n2 := 1.0, m.IOR
	if !entering {
		nFace = n.Negate()
		n1, n2 = m.IOR, 1.0
	}
	eta := n1 / n2

	cosi := -i.Dot(nFace)
	k := 1.0 - eta*eta*(1.0-cosi*cosi)
	if k < 0 {
		return Reflect(i, n, m)
	}

	return i.Multiply(eta).Add(nFace.Multiply(eta*cosi - math.Sqrt(k))).Normalize()
}

// RefractEntryOnly refracts rays entering the surface and always reflects rays
// leaving it. It skips total internal reflection handling.
func RefractEntryOnly(incoming, normal core.Vec3, m *Material) core.Vec3 {
	if m.IOR <= MinIOR {
		return Reflect(incoming, normal, m)
	}

	i := incoming.Normalize()
	n := normal.Normalize()
	if m.Roughness != 0 {
		i = ScalarRoughness(i, m.Roughness)
	}

	c := i.Dot(n)
	if c > 0 {
		return Reflect(i, n, m)
	}
	eta := m.IOR
	if c < 0 {
		eta = 1.0 / m.IOR
	}
	if eta*c >= 0 {
		return Reflect(i, n, m)
	}

	parallel := n.Multiply(c)
	perp := i.Subtract(parallel)
	return perp.Add(parallel.Multiply(eta)).Normalize()
}

// IsEmissive reports whether the material emits any light
func IsEmissive(m *Material) bool {
	e := m.Emissive.Albedo
	return e.X > 0 || e.Y > 0 || e.Z > 0
}

// HasEmissiveDirection reports whether emission is directional.
// Near-zero direction vectors count as isotropic.
func HasEmissiveDirection(m *Material) bool {
	return m.Emissive.Direction.Length() > 1e-6
}

// Emission returns the light emitted by a surface with the given normal
func Emission(normal core.Vec3, m *Material) core.Vec3 {
	if !IsEmissive(m) {
		return core.Vec3{}
	}
	if !HasEmissiveDirection(m) {
		return m.Emissive.Albedo
	}
	cos := max(0.0, normal.Dot(m.Emissive.Direction.Normalize()))
	return m.Emissive.Albedo.Multiply(cos)
}
