package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Translate moves an inner shape by a fixed offset
type Translate struct {
	Inner  Shape
	Offset core.Vec3
	bbox   AABB
}

// NewTranslate wraps inner so that it appears moved by offset
func NewTranslate(inner Shape, offset core.Vec3) *Translate {
	return &Translate{
		Inner:  inner,
		Offset: offset,
		bbox:   inner.BoundingBox().Translate(offset),
	}
}

// Hit moves the ray into the inner shape's frame and the hit point back out
func (t *Translate) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	local := core.NewRayAtTime(ray.Origin.Subtract(t.Offset), ray.Direction, ray.Time)

	hit, ok := t.Inner.Hit(local, rayT)
	if !ok {
		return nil, false
	}

	hit.Point = hit.Point.Add(t.Offset)
	return hit, true
}

// BoundingBox returns the inner box moved by the offset
func (t *Translate) BoundingBox() AABB {
	return t.bbox
}

// PDFValue evaluates the inner density from the origin expressed in the inner frame
func (t *Translate) PDFValue(origin, direction core.Vec3) float64 {
	return t.Inner.PDFValue(origin.Subtract(t.Offset), direction)
}

// Random samples the inner shape from the origin expressed in the inner frame
func (t *Translate) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return t.Inner.Random(origin.Subtract(t.Offset), sampler)
}
