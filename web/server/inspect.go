package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/ppsrender/pathtracer/pkg/core"
	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/material"
	"github.com/ppsrender/pathtracer/pkg/renderer"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Incidence    float64                `json:"incidenceAngle"` // Degrees between the view ray and the normal
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo classifies a material and lists its parameters
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"albedo":      vecArray(mat.Albedo),
		"color":       fmt.Sprintf("#%02x%02x%02x", renderer.ToByte(mat.Albedo.X), renderer.ToByte(mat.Albedo.Y), renderer.ToByte(mat.Albedo.Z)),
		"roughness":   mat.Roughness,
		"attenuation": mat.Attenuation(),
	}

	switch {
	case !mat.Emissive.Albedo.IsZero():
		properties["emission"] = vecArray(mat.Emissive.Albedo)
		properties["direction"] = vecArray(mat.Emissive.Direction)
		return "emissive", properties
	case mat.Transmissive:
		properties["ior"] = mat.IOR
		properties["absorption"] = mat.Absorption
		properties["thickness"] = mat.Thickness
		return "transmissive", properties
	case mat.WiggleRoughness:
		return "wiggle", properties
	case mat.Roughness == 0:
		return "mirror", properties
	default:
		return "rough", properties
	}
}

// extractGeometryInfo lists the defining parameters of a shape
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		properties["size"] = geom.Size
	case *geometry.Triangle:
		properties["vertices"] = [][3]float64{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2)}
	case *geometry.Quad:
		properties["vertices"] = [][3]float64{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2), vecArray(geom.V3)}
	}
	return shape.Type().String(), properties
}

// inspectPixel casts the camera ray through a pixel and returns the nearest
// hit, the handle of the shape hit and the angle between the reversed ray
// and the surface normal.
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (geometry.HitRecord, scene.ShapeHandle, float64, bool) {
	ray := sceneObj.Camera.GetRay(float64(pixelX), float64(pixelY), sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height)

	var hit geometry.HitRecord
	handle, ok := sceneObj.HitShape(ray, geometry.HitEpsilon, math.Inf(1), &hit)
	if !ok {
		return hit, handle, 0, false
	}
	return hit, handle, ray.Direction.Negate().Angle(hit.Normal), true
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeSceneError(w, req.Scene, err)
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= sceneObj.SamplingConfig.Width || pixelY < 0 || pixelY >= sceneObj.SamplingConfig.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	hit, handle, incidence, ok := inspectPixel(sceneObj, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ShapeIndex: -1})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType, geometryProps := extractGeometryInfo(sceneObj.Shape(handle))

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		ShapeIndex:   int(handle),
		Incidence:    incidence * 180 / math.Pi,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
