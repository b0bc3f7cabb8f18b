package integrator

import (
	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/material"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// ShadowEpsilon offsets shadow and bounce rays off the surface they leave
const ShadowEpsilon = 2e-4

// PathTracingIntegrator follows a single deterministic path per pixel: at every
// hit it adds emission and direct light, then continues along the reflected or
// refracted direction.
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// Config returns the integrator's configuration
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor computes the color for a primary ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene) core.Vec3 {
	return pt.Trace(ray, scene, 0)
}

// Trace computes the radiance arriving along ray at the given bounce depth
func (pt *PathTracingIntegrator) Trace(ray core.Ray, scene *scene.Scene, depth int) core.Vec3 {
	if depth >= pt.config.MaxDepth {
		return core.Vec3{}
	}

	var hit geometry.HitRecord
	if !scene.Intersect(ray, &hit) {
		return pt.config.Background
	}

	mat := &hit.Material
	color := pt.getEmittedLight(&hit)
	color = color.Add(pt.calculateDirectLighting(scene, &hit))

	next := pt.nextDirection(ray.Direction, hit.Normal, mat)
	nextRay := core.NewRayWithDepth(hit.Point.Add(next.Multiply(ShadowEpsilon)), next, depth+1)

	throughput := mat.Albedo.Multiply(mat.Attenuation())
	indirect := pt.Trace(nextRay, scene, depth+1)

	return color.Add(throughput.MultiplyVec(indirect))
}

// getEmittedLight returns the emission of the surface at the hit point
func (pt *PathTracingIntegrator) getEmittedLight(hit *geometry.HitRecord) core.Vec3 {
	return material.Emission(hit.Normal, &hit.Material)
}

// calculateDirectLighting sums the unoccluded contribution of every light
func (pt *PathTracingIntegrator) calculateDirectLighting(scene *scene.Scene, hit *geometry.HitRecord) core.Vec3 {
	total := core.Vec3{}
	albedo := hit.Material.Albedo

	for _, light := range scene.GetLights() {
		sample := light.Sample(hit.Point)

		// Also rejects NaN from a degenerate normal
		cosine := hit.Normal.Dot(sample.Direction)
		if !(cosine > 0) {
			continue
		}

		// Lights behind an occluder contribute nothing
		shadowRay := core.NewRay(hit.Point.Add(sample.Direction.Multiply(ShadowEpsilon)), sample.Direction)
		var blocker geometry.HitRecord
		if scene.Hit(shadowRay, 1e-4, sample.Distance-1e-4, &blocker) {
			continue
		}

		total = total.Add(albedo.MultiplyVec(light.Radiance()).Multiply(sample.Falloff * cosine))
	}

	return total
}

// nextDirection picks the continuation direction for the path
func (pt *PathTracingIntegrator) nextDirection(incoming, normal core.Vec3, mat *material.Material) core.Vec3 {
	if !mat.Transmissive {
		return material.Reflect(incoming, normal, mat)
	}
	if pt.config.Policy == RefractEntryOnly {
		return material.RefractEntryOnly(incoming, normal, mat)
	}
	return material.Refract(incoming, normal, mat)
}
