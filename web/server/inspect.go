package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// pixelCenterSampler aims inspection rays through pixel centers and the lens center
type pixelCenterSampler struct{}

func (pixelCenterSampler) Get1D() float64   { return 0.5 }
func (pixelCenterSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (pixelCenterSampler) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		if solid, ok := m.Albedo.(*material.SolidColor); ok {
			properties["albedo"] = vec3Array(solid.Color)
			properties["color"] = hexColor(solid.Color)
		} else {
			properties["texture"] = fmt.Sprintf("%T", m.Albedo)
		}
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vec3Array(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.DiffuseLight:
		properties["emission"] = vec3Array(m.Emission)
		properties["color"] = hexColor(m.Emission)
		return "diffuse_light", properties

	case material.Empty:
		return "empty", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information, unwrapping transforms
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Quad:
		properties["corner"] = vec3Array(geom.Corner)
		properties["u"] = vec3Array(geom.U)
		properties["v"] = vec3Array(geom.V)
		properties["area"] = geom.Area()
		return "quad", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vec3Array(geom.V0), vec3Array(geom.V1), vec3Array(geom.V2)}
		return "triangle", properties

	case *geometry.ShapeList:
		properties["count"] = geom.Len()
		return "shape_list", properties

	case *geometry.Translate:
		innerType, innerProps := extractGeometryInfo(geom.Inner)
		properties["offset"] = vec3Array(geom.Offset)
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "translate", properties

	case *geometry.RotateY:
		innerType, innerProps := extractGeometryInfo(geom.Inner)
		properties["degrees"] = geom.Degrees
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "rotate_y", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains information about an object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Shape     geometry.Shape // The top-level scene shape that was hit
}

// inspectPixel casts a ray through the center of a pixel of a preprocessed
// scene and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	ray := sceneObj.Camera.GetRay(pixelX, pixelY, pixelCenterSampler{})
	rayT := core.NewInterval(0.001, math.Inf(1))

	hit, isHit := sceneObj.BVH.Hit(ray, rayT)
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The BVH doesn't report which shape it hit, so find the one with the same t
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, rayT.WithMax(hit.T+0.001)); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	inspectReq := &RenderRequest{}
	if err := parseCommonSceneParams(c.QueryParams(), inspectReq); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid y coordinate")
	}

	sceneObj, err := createScene(inspectReq)
	if err != nil {
		return jsonError(c, sceneErrorStatus(err), err.Error())
	}

	width, height := sceneObj.ImageSize()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		return jsonError(c, http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := "unknown", map[string]interface{}{}
	if result.Shape != nil {
		geometryType, geometryProps = extractGeometryInfo(result.Shape)
	}

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3Array(result.HitRecord.Point),
		Normal:       vec3Array(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
