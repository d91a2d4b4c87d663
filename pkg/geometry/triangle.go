package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   material.Material

	normal core.Vec3
	area   float64
	bbox   AABB
}

// NewTriangle creates a new triangle
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	n := v1.Subtract(v0).Cross(v2.Subtract(v0))
	length := n.Length()

	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		area:     0.5 * length,
		bbox:     NewAABBFromPoints(v0, v1, v2),
	}
	if length > 0 {
		t.normal = n.Divide(length)
	}
	return t
}

// intersect uses the Möller-Trumbore algorithm
func (t *Triangle) intersect(ray core.Ray, rayT core.Interval) (material.HitGeometry, bool) {
	if t.area == 0 {
		return material.HitGeometry{}, false
	}

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < parallelEpsilon {
		return material.HitGeometry{}, false // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return material.HitGeometry{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return material.HitGeometry{}, false
	}

	dist := f * edge2.Dot(q)
	if !rayT.Contains(dist) {
		return material.HitGeometry{}, false
	}

	hit := material.HitGeometry{T: dist, Point: ray.At(dist), UV: core.NewVec2(u, v)}
	hit.SetFaceNormal(ray, t.normal)
	return hit, true
}

// Hit tests if a ray intersects with the triangle
func (t *Triangle) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	hit, ok := t.intersect(ray, rayT)
	if !ok {
		return nil, false
	}
	return &material.HitRecord{HitGeometry: hit, Material: t.Material}, true
}

// BoundingBox returns the padded bounding box of the triangle
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}

// PDFValue converts the uniform area density to solid angle
func (t *Triangle) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := t.intersect(core.NewRay(origin, direction), lightSampleInterval)
	if !ok {
		return 0
	}

	directionLength := direction.Length()
	distanceSquared := hit.T * hit.T * directionLength * directionLength
	cosine := math.Abs(direction.Dot(t.normal)) / directionLength
	if cosine < parallelEpsilon {
		return 0
	}

	return distanceSquared / (cosine * t.area)
}

// Random returns the direction from origin to a uniformly chosen point on the triangle
func (t *Triangle) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	sample := sampler.Get2D()
	su := math.Sqrt(sample.X)
	b0 := 1 - su
	b1 := sample.Y * su

	point := t.V0.Multiply(b0).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(1 - b0 - b1))
	return point.Subtract(origin)
}
