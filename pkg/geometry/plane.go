package geometry

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// DefaultPlaneSize is the half-size of a plane patch built with NewPlane
const DefaultPlaneSize = 0.5

// Plane represents a square patch of a plane centered on Point.
// A Size of zero or less makes the plane unbounded.
type Plane struct {
	Point    core.Vec3 // Center of the patch
	Normal   core.Vec3 // Unit normal
	Size     float64   // Half-size of the square
	Material material.Material

	tangent   core.Vec3
	bitangent core.Vec3
}

// NewPlane creates a 1x1 plane patch
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return NewPlaneWithSize(point, normal, DefaultPlaneSize, mat)
}

// NewPlaneWithSize creates a plane patch with the given half-size
func NewPlaneWithSize(point, normal core.Vec3, size float64, mat material.Material) *Plane {
	n := normal.Normalize()
	tangent, bitangent := planeBasis(n)
	return &Plane{
		Point:     point,
		Normal:    n,
		Size:      size,
		Material:  mat,
		tangent:   tangent,
		bitangent: bitangent,
	}
}

// NewInfinitePlane creates an unbounded plane
func NewInfinitePlane(point, normal core.Vec3, mat material.Material) *Plane {
	return NewPlaneWithSize(point, normal, 0, mat)
}

// planeBasis returns two unit vectors spanning the plane. For a Y-facing
// normal they are the X and Z axes.
func planeBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	helper := core.NewVec3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	}
	tangent := helper.Subtract(n.Multiply(helper.Dot(n))).Normalize()
	return tangent, n.Cross(tangent)
}

// Hit tests if a ray intersects with the plane patch
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays (and zero-length directions) never hit
	if math.Abs(denominator) < 1e-8 {
		return false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if outsideRange(t, tMin, tMax) {
		return false
	}

	hitPoint := ray.At(t)

	var u, v float64
	if p.Size > 0 {
		delta := hitPoint.Subtract(p.Point)
		du := delta.Dot(p.tangent)
		dv := delta.Dot(p.bitangent)
		if math.Abs(du) > p.Size || math.Abs(dv) > p.Size {
			return false
		}
		u = 0.5 * (du/p.Size + 1)
		v = 0.5 * (dv/p.Size + 1)
	}

	rec.T = t
	rec.Point = hitPoint
	rec.U, rec.V = u, v
	rec.UV = core.NewVec2(u, v)
	rec.Material = p.Material

	// Normal always faces the incoming ray
	rec.SetFaceNormal(ray, p.Normal)

	return true
}

// Type returns TypePlane
func (p *Plane) Type() ShapeType {
	return TypePlane
}
