package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is either a leaf holding one shape or an internal node with two children
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shape       Shape // Set for leaf nodes only
}

// IsLeaf reports whether the node holds a shape
func (n *BVHNode) IsLeaf() bool {
	return n.Shape != nil
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// It is built once and read-only afterwards, so it can be shared between workers.
type BVH struct {
	Root *BVHNode
}

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) (*BVH, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("building BVH from empty shape list: %w", core.ErrMalformedScene)
	}

	// Copy so that sorting never reorders the caller's slice
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}, nil
}

// buildBVH recursively splits shapes at the median of the longest centroid axis
func buildBVH(shapes []Shape) *BVHNode {
	switch len(shapes) {
	case 1:
		return newLeaf(shapes[0])
	case 2:
		return newInternal(newLeaf(shapes[0]), newLeaf(shapes[1]))
	}

	axis := centroidBounds(shapes).LongestAxis()
	sortShapesByAxis(shapes, axis)

	mid := len(shapes) / 2
	return newInternal(buildBVH(shapes[:mid]), buildBVH(shapes[mid:]))
}

func newLeaf(shape Shape) *BVHNode {
	return &BVHNode{BoundingBox: shape.BoundingBox(), Shape: shape}
}

func newInternal(left, right *BVHNode) *BVHNode {
	return &BVHNode{
		BoundingBox: left.BoundingBox.Union(right.BoundingBox),
		Left:        left,
		Right:       right,
	}
}

// centroidBounds returns the unpadded box enclosing the shapes' box centers
func centroidBounds(shapes []Shape) AABB {
	bounds := EmptyAABB
	for _, shape := range shapes {
		c := shape.BoundingBox().Center()
		bounds = bounds.Union(AABB{
			X: core.NewInterval(c.X, c.X),
			Y: core.NewInterval(c.Y, c.Y),
			Z: core.NewInterval(c.Z, c.Z),
		})
	}
	return bounds
}

// sortShapesByAxis stably sorts shapes by their bounding box center along axis
func sortShapesByAxis(shapes []Shape, axis int) {
	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].BoundingBox().Center().Axis(axis) < shapes[j].BoundingBox().Center().Axis(axis)
	})
}

// Hit returns the nearest intersection among all shapes in the BVH
func (bvh *BVH) Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	if bvh == nil || bvh.Root == nil {
		return nil, false
	}
	return hitNode(bvh.Root, ray, rayT)
}

// BoundingBox returns the box of the root node
func (bvh *BVH) BoundingBox() AABB {
	if bvh == nil || bvh.Root == nil {
		return EmptyAABB
	}
	return bvh.Root.BoundingBox
}

// hitNode descends the tree, narrowing rayT.Max after every hit
func hitNode(node *BVHNode, ray core.Ray, rayT core.Interval) (*material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, rayT) {
		return nil, false
	}

	if node.IsLeaf() {
		return node.Shape.Hit(ray, rayT)
	}

	leftHit, hitLeft := hitNode(node.Left, ray, rayT)
	if hitLeft {
		rayT = rayT.WithMax(leftHit.T)
	}

	rightHit, hitRight := hitNode(node.Right, ray, rayT)
	if hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BVHStats summarizes the shape of a BVH
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
}

// Stats walks the tree and returns node counts and depth
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	if bvh != nil && bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsLeaf() {
		stats.LeafNodes++
		return
	}
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
