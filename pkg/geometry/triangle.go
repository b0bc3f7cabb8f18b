package geometry

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// Triangle represents a single-sided triangle. The front face is the one
// from which V0, V1, V2 appear counter-clockwise; rays hitting the back are ignored.
type Triangle struct {
	V0, V1, V2    core.Vec3 // The three vertices
	UV0, UV1, UV2 core.Vec2 // Vertex texture coordinates
	Material      material.Material
	normal        core.Vec3 // Cached unit normal
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	return NewTriangleWithUV(v0, v1, v2, core.Vec2{}, core.Vec2{}, core.Vec2{}, mat)
}

// NewTriangleWithUV creates a triangle with per-vertex texture coordinates
func NewTriangleWithUV(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		UV0:      uv0,
		UV1:      uv1,
		UV2:      uv2,
		Material: mat,
	}
	t.computeNormal()
	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// The determinant is positive only for rays hitting the front face.
	// Near zero means the ray lies in the triangle's plane.
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tParam := f * edge2.Dot(q)
	if outsideRange(tParam, tMin, tMax) {
		return false
	}

	w := 1.0 - u - v

	rec.T = tParam
	rec.Point = ray.At(tParam)
	rec.Normal = t.normal
	rec.FrontFace = true
	rec.U, rec.V = u, v
	rec.UV = t.UV0.Multiply(w).Add(t.UV1.Multiply(u)).Add(t.UV2.Multiply(v))
	rec.Material = t.Material

	return true
}

// Type returns TypeTriangle
func (t *Triangle) Type() ShapeType {
	return TypeTriangle
}

// GetNormal returns the triangle's normal vector
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}
