package geometry

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// HitEpsilon is the default minimum ray parameter accepted as a hit
const HitEpsilon = 1e-8

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Unit surface normal at intersection
	T         float64           // Parameter t along the ray
	FrontFace bool              // Whether the ray arrived from outside the surface
	U, V      float64           // Barycentric (or patch-local) coordinates
	UV        core.Vec2         // Interpolated texture coordinate
	Material  material.Material // Snapshot of the shape's material
}

// SetFaceNormal records front/back face and flips the normal to face the ray
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ShapeType identifies a primitive variant
type ShapeType int

const (
	TypeTriangle ShapeType = iota
	TypeQuad
	TypePlane
	TypeSphere
)

func (s ShapeType) String() string {
	switch s {
	case TypeTriangle:
		return "triangle"
	case TypeQuad:
		return "quad"
	case TypePlane:
		return "plane"
	case TypeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Shape is a primitive that can be hit by rays.
// Hit reports the nearest intersection with tMin < t < tMax. On a miss the
// record is left untouched; on a hit every field is overwritten.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool
	Type() ShapeType
}

// Intersect tests a shape against an unbounded ray using HitEpsilon
func Intersect(s Shape, ray core.Ray, rec *HitRecord) bool {
	return s.Hit(ray, HitEpsilon, math.Inf(1), rec)
}

// outsideRange reports whether t falls outside the open interval (tMin, tMax).
// NaN is always outside.
func outsideRange(t, tMin, tMax float64) bool {
	return !(t > tMin && t < tMax)
}
