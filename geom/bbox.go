package geom

import "fmt"

// BoundingBox is an axis-aligned box in world space. Construct it with
// NewBoundingBox so the min/max ordering invariant holds; a BoundingBox is
// immutable after that.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// NewBoundingBox validates that min <= max on every axis. A box that fails
// this would test as always-outside, so it is rejected up front instead of
// silently never triggering.
func NewBoundingBox(min, max Vec3) (BoundingBox, error) {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return BoundingBox{}, fmt.Errorf("geom: bounding box min %v exceeds max %v", min, max)
	}
	return BoundingBox{Min: min, Max: max}, nil
}

// Contains reports whether the point is strictly inside the box. Points on a
// face count as outside, so two boxes sharing a face never both contain a
// point on that face.
func (b BoundingBox) Contains(p Vec3) bool {
	return b.Min.X < p.X && p.X < b.Max.X &&
		b.Min.Y < p.Y && p.Y < b.Max.Y &&
		b.Min.Z < p.Z && p.Z < b.Max.Z
}
