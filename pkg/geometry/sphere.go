package geometry

import (
	"math"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere.
// The recorded normal always points outward so refraction can tell entry from exit.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Closer root first, farther root when the closer one is behind tMin
	root := (-halfB - sqrtD) / a
	if !(root > tMin) {
		root = (-halfB + sqrtD) / a
	}
	if outsideRange(root, tMin, tMax) {
		return false
	}

	hitPoint := ray.At(root)
	outwardNormal := hitPoint.Subtract(s.Center).Normalize()

	rec.T = root
	rec.Point = hitPoint
	rec.Normal = outwardNormal
	rec.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	rec.U, rec.V = 0, 0
	rec.UV = core.Vec2{}
	rec.Material = s.Material

	return true
}

// Type returns TypeSphere
func (s *Sphere) Type() ShapeType {
	return TypeSphere
}
