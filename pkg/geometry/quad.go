package geometry

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/material"
)

// Quad is a planar quadrilateral with vertices in order bottom-left,
// bottom-right, top-right, top-left. It is intersected as the two
// triangles (V0,V1,V3) and (V1,V2,V3) sharing the V1-V3 diagonal.
type Quad struct {
	V0, V1, V2, V3     core.Vec3
	UV0, UV1, UV2, UV3 core.Vec2
	Material           material.Material

	first, second Triangle
}

// NewQuad creates a quad from four vertices
func NewQuad(v0, v1, v2, v3 core.Vec3, mat material.Material) *Quad {
	return NewQuadWithUV(v0, v1, v2, v3,
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), core.NewVec2(0, 1), mat)
}

// NewQuadWithUV creates a quad with per-vertex texture coordinates
func NewQuadWithUV(v0, v1, v2, v3 core.Vec3, uv0, uv1, uv2, uv3 core.Vec2, mat material.Material) *Quad {
	return &Quad{
		V0: v0, V1: v1, V2: v2, V3: v3,
		UV0: uv0, UV1: uv1, UV2: uv2, UV3: uv3,
		Material: mat,
		first:    *NewTriangleWithUV(v0, v1, v3, uv0, uv1, uv3, mat),
		second:   *NewTriangleWithUV(v1, v2, v3, uv1, uv2, uv3, mat),
	}
}

// NewQuadFromEdges creates a parallelogram from a corner and two edge vectors
func NewQuadFromEdges(corner, u, v core.Vec3, mat material.Material) *Quad {
	return NewQuad(corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v), mat)
}

// Hit tests both halves in turn and returns the first hit.
// For a planar convex quad at most one half can be hit.
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool {
	if q.first.Hit(ray, tMin, tMax, rec) {
		return true
	}
	return q.second.Hit(ray, tMin, tMax, rec)
}

// Type returns TypeQuad
func (q *Quad) Type() ShapeType {
	return TypeQuad
}
