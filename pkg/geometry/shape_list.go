package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ShapeList is a flat collection of shapes tested linearly. As a light target it
// picks a member uniformly and reports the average member density.
type ShapeList struct {
	Shapes []Shape
	bbox   AABB
}

// NewShapeList creates a list from the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	list := &ShapeList{bbox: EmptyAABB}
	for _, shape := range shapes {
		list.Add(shape)
	}
	return list
}

// Add appends a shape and grows the bounding box
func (l *ShapeList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
	l.bbox = l.bbox.Union(shape.BoundingBox())
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest hit among all members
func (l *ShapeList) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := rayT.Max

	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, rayT.WithMax(closestSoFar)); ok {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all member boxes
func (l *ShapeList) BoundingBox() AABB {
	return l.bbox
}

// PDFValue returns the average of the member densities
func (l *ShapeList) PDFValue(origin, direction core.Vec3) float64 {
	if len(l.Shapes) == 0 {
		return 0
	}

	weight := 1.0 / float64(len(l.Shapes))
	sum := 0.0
	for _, shape := range l.Shapes {
		sum += weight * shape.PDFValue(origin, direction)
	}
	return sum
}

// Random samples a direction toward a uniformly chosen member
func (l *ShapeList) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(l.Shapes) == 0 {
		return core.NewVec3(1, 0, 0)
	}

	index := int(sampler.Get1D() * float64(len(l.Shapes)))
	if index >= len(l.Shapes) {
		index = len(l.Shapes) - 1
	}
	return l.Shapes[index].Random(origin, sampler)
}
