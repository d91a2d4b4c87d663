package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// parallelEpsilon rejects rays nearly parallel to a planar shape
const parallelEpsilon = 1e-8

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Material material.Material // Material of the quad

	normal core.Vec3 // Unit normal (U × V), zero for degenerate quads
	d      float64   // Plane equation constant: normal · p = d
	w      core.Vec3 // Cached n / (n · n) for planar coordinates
	area   float64
	bbox   AABB
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	n := u.Cross(v)
	q := &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: mat,
		area:     n.Length(),
	}

	// Degenerate (zero-area) quads keep a zero normal and never report hits
	if q.area > 0 {
		q.normal = n.Divide(q.area)
		q.d = q.normal.Dot(corner)
		q.w = n.Divide(n.LengthSquared())
	}

	// Bounding box of both diagonals
	q.bbox = NewAABB(corner, corner.Add(u).Add(v)).Union(NewAABB(corner.Add(u), corner.Add(v)))
	return q
}

// intersect finds the plane hit and checks it lies inside the parallelogram
func (q *Quad) intersect(ray core.Ray, rayT core.Interval) (material.HitGeometry, bool) {
	if q.area == 0 {
		return material.HitGeometry{}, false
	}

	denominator := q.normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return material.HitGeometry{}, false
	}

	t := (q.d - q.normal.Dot(ray.Origin)) / denominator
	if !rayT.Contains(t) {
		return material.HitGeometry{}, false
	}

	// Planar coordinates of the hit in the (U, V) basis
	hitPoint := ray.At(t)
	planar := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(planar.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(planar))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return material.HitGeometry{}, false
	}

	hit := material.HitGeometry{T: t, Point: hitPoint, UV: core.NewVec2(alpha, beta)}
	hit.SetFaceNormal(ray, q.normal)
	return hit, true
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	hit, ok := q.intersect(ray, rayT)
	if !ok {
		return nil, false
	}
	return &material.HitRecord{HitGeometry: hit, Material: q.Material}, true
}

// BoundingBox returns the padded bounding box of the quad
func (q *Quad) BoundingBox() AABB {
	return q.bbox
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.area
}

// PDFValue converts the uniform area density 1/A to solid angle: dist² / (cos θ · A)
func (q *Quad) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := q.intersect(core.NewRay(origin, direction), lightSampleInterval)
	if !ok {
		return 0
	}

	directionLength := direction.Length()
	distanceSquared := hit.T * hit.T * directionLength * directionLength
	cosine := math.Abs(direction.Dot(q.normal)) / directionLength
	if cosine < parallelEpsilon {
		return 0
	}

	return distanceSquared / (cosine * q.area)
}

// Random returns the direction from origin to a uniformly chosen point on the quad
func (q *Quad) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	sample := sampler.Get2D()
	point := q.Corner.Add(q.U.Multiply(sample.X)).Add(q.V.Multiply(sample.Y))
	return point.Subtract(origin)
}
