package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// minBoxSize is the thinnest extent an AABB built from points is allowed to have
const minBoxSize = 0.0001

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z core.Interval
}

// EmptyAABB contains no points; it is the identity for Union
var EmptyAABB = AABB{X: core.EmptyInterval, Y: core.EmptyInterval, Z: core.EmptyInterval}

// NewAABB creates a bounding box spanning two extreme points given in any order.
// The box is padded so that no axis is thinner than minBoxSize.
func NewAABB(a, b core.Vec3) AABB {
	box := AABB{
		X: core.NewInterval(math.Min(a.X, b.X), math.Max(a.X, b.X)),
		Y: core.NewInterval(math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)),
		Z: core.NewInterval(math.Min(a.Z, b.Z), math.Max(a.Z, b.Z)),
	}
	return box.Pad()
}

// NewAABBFromPoints creates the padded bounding box enclosing all given points
func NewAABBFromPoints(points ...core.Vec3) AABB {
	if len(points) == 0 {
		return EmptyAABB
	}

	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = core.NewVec3(math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z))
		max = core.NewVec3(math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z))
	}
	return NewAABB(min, max)
}

// Axis returns the interval of the given axis (0=X, 1=Y, 2=Z)
func (box AABB) Axis(axis int) core.Interval {
	switch axis {
	case 1:
		return box.Y
	case 2:
		return box.Z
	default:
		return box.X
	}
}

// Union returns the smallest box enclosing both boxes
func (box AABB) Union(other AABB) AABB {
	return AABB{
		X: core.IntervalUnion(box.X, other.X),
		Y: core.IntervalUnion(box.Y, other.Y),
		Z: core.IntervalUnion(box.Z, other.Z),
	}
}

// Pad widens any axis thinner than minBoxSize
func (box AABB) Pad() AABB {
	pad := func(i core.Interval) core.Interval {
		if i.Size() < minBoxSize {
			return i.Expand(minBoxSize)
		}
		return i
	}
	return AABB{X: pad(box.X), Y: pad(box.Y), Z: pad(box.Z)}
}

// Translate returns the box moved by offset
func (box AABB) Translate(offset core.Vec3) AABB {
	return AABB{
		X: box.X.Shift(offset.X),
		Y: box.Y.Shift(offset.Y),
		Z: box.Z.Shift(offset.Z),
	}
}

// Min returns the minimum corner
func (box AABB) Min() core.Vec3 {
	return core.NewVec3(box.X.Min, box.Y.Min, box.Z.Min)
}

// Max returns the maximum corner
func (box AABB) Max() core.Vec3 {
	return core.NewVec3(box.X.Max, box.Y.Max, box.Z.Max)
}

// Center returns the center point of the bounding box
func (box AABB) Center() core.Vec3 {
	return box.Min().Add(box.Max()).Multiply(0.5)
}

// Corners returns the eight corners of the box
func (box AABB) Corners() [8]core.Vec3 {
	var corners [8]core.Vec3
	for i := 0; i < 8; i++ {
		x, y, z := box.X.Min, box.Y.Min, box.Z.Min
		if i&1 != 0 {
			x = box.X.Max
		}
		if i&2 != 0 {
			y = box.Y.Max
		}
		if i&4 != 0 {
			z = box.Z.Max
		}
		corners[i] = core.NewVec3(x, y, z)
	}
	return corners
}

// LongestAxis returns the axis with the largest extent (0=X, 1=Y, 2=Z)
func (box AABB) LongestAxis() int {
	x, y, z := box.X.Size(), box.Y.Size(), box.Z.Size()
	if x > y && x > z {
		return 0
	}
	if y > z {
		return 1
	}
	return 2
}

// Hit tests whether the ray passes through the box within rayT using the slab method
func (box AABB) Hit(ray core.Ray, rayT core.Interval) bool {
	for axis := 0; axis < 3; axis++ {
		slab := box.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// A ray parallel to the slab only hits if its origin is inside it
		if math.Abs(direction) < 1e-12 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		invD := 1.0 / direction
		t0 := (slab.Min - origin) * invD
		t1 := (slab.Max - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}
		if rayT.Max <= rayT.Min {
			return false
		}
	}
	return true
}
