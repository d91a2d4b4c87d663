package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"gonum.org/v1/gonum/spatial/r3"
)

// RotateY rotates an inner shape about the world Y axis
type RotateY struct {
	Inner   Shape
	Degrees float64

	toWorld r3.Rotation
	toLocal r3.Rotation
	bbox    AABB
}

// NewRotateY wraps inner so that it appears rotated by the given angle in degrees
func NewRotateY(inner Shape, degrees float64) *RotateY {
	radians := degrees * math.Pi / 180
	yAxis := r3.Vec{Y: 1}

	r := &RotateY{
		Inner:   inner,
		Degrees: degrees,
		toWorld: r3.NewRotation(radians, yAxis),
		toLocal: r3.NewRotation(-radians, yAxis),
	}

	// Rotate every corner of the inner box and take their bounds
	corners := inner.BoundingBox().Corners()
	rotated := make([]core.Vec3, len(corners))
	for i, corner := range corners {
		rotated[i] = r.rotate(r.toWorld, corner)
	}
	r.bbox = NewAABBFromPoints(rotated...)

	return r
}

func (r *RotateY) rotate(rotation r3.Rotation, v core.Vec3) core.Vec3 {
	p := rotation.Rotate(r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return core.NewVec3(p.X, p.Y, p.Z)
}

// Hit rotates the ray into the inner frame, then the hit point and normal back
func (r *RotateY) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	local := core.NewRayAtTime(
		r.rotate(r.toLocal, ray.Origin),
		r.rotate(r.toLocal, ray.Direction),
		ray.Time,
	)

	hit, ok := r.Inner.Hit(local, rayT)
	if !ok {
		return nil, false
	}

	// Rotation preserves orientation, so the front-face flag carries over
	hit.Point = r.rotate(r.toWorld, hit.Point)
	hit.Normal = r.rotate(r.toWorld, hit.Normal)
	return hit, true
}

// BoundingBox returns the bounds of the rotated inner box
func (r *RotateY) BoundingBox() AABB {
	return r.bbox
}

// PDFValue evaluates the inner density in the inner frame
func (r *RotateY) PDFValue(origin, direction core.Vec3) float64 {
	return r.Inner.PDFValue(r.rotate(r.toLocal, origin), r.rotate(r.toLocal, direction))
}

// Random samples the inner shape and rotates the direction back to world space
func (r *RotateY) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return r.rotate(r.toWorld, r.Inner.Random(r.rotate(r.toLocal, origin), sampler))
}
