package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the object hit by an inspection ray
type InspectResult struct {
	Hit      bool
	Object   geometry.Object
	Ray      core.Ray
	Distance float64
}

// inspectPixel casts a ray through the centre of a pixel and returns the
// nearest object it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	width := sceneObj.SamplingConfig.Width
	height := sceneObj.SamplingConfig.Height
	ray := sceneObj.Camera.GetRay((float64(pixelX)+0.5)/float64(width), (float64(pixelY)+0.5)/float64(height))

	obj, t := sceneObj.NearestIntersection(ray, nil)
	if obj == nil {
		return InspectResult{Ray: ray, Distance: t}
	}
	return InspectResult{Hit: true, Object: obj, Ray: ray, Distance: t}
}

func vecJSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts the shading parameters of a material
func extractMaterialInfo(mat *material.Material) map[string]interface{} {
	properties := make(map[string]interface{})
	if mat == nil {
		return properties
	}

	properties["color"] = hexColor(mat.BaseColor)
	properties["baseColor"] = vecJSON(mat.BaseColor)
	properties["ambient"] = vecJSON(mat.Ambient)
	properties["diffuse"] = vecJSON(mat.Diffuse)
	properties["specular"] = vecJSON(mat.Specular)
	properties["shininess"] = mat.Shininess
	properties["specularCoefficient"] = mat.SpecularCoefficient
	properties["reflectivity"] = mat.Reflectivity
	properties["refractiveIndex"] = mat.RefractiveIndex
	properties["opaque"] = mat.IsOpaque()

	switch {
	case mat.Texture != nil:
		properties["texture"] = "image"
	case mat.Noise != nil:
		properties["texture"] = "noise"
	}
	return properties
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(obj geometry.Object, ray core.Ray) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = vecJSON(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Ellipsoid:
		properties["center"] = vecJSON(geom.Center)
		properties["radii"] = vecJSON(geom.Radii)
		return "ellipsoid", properties

	case *geometry.Plane:
		properties["point"] = vecJSON(geom.Point)
		properties["normal"] = vecJSON(geom.Normal)
		return "plane", properties

	case *geometry.Cube:
		properties["center"] = vecJSON(geom.Center)
		properties["top"] = vecJSON(geom.Top)
		properties["forward"] = vecJSON(geom.Forward)
		properties["length"] = geom.Length
		if side, ok := geom.EntryFace(ray); ok {
			properties["face"] = side.String()
		}
		return "cube", properties

	default:
		properties["position"] = vecJSON(obj.Position())
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.loadScene(inspectReq.Scene)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if inspectReq.Width > 0 && inspectReq.Height > 0 {
		sceneObj.SetResolution(inspectReq.Width, inspectReq.Height)
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	point := result.Ray.At(result.Distance)
	geometryType, geometryProps := extractGeometryInfo(result.Object, result.Ray)

	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vecJSON(point),
		Normal:       vecJSON(result.Object.NormalAt(point)),
		Distance:     result.Distance,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(result.Object.Material()),
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
