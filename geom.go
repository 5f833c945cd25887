package bvh

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector used for points, bounds, and directions throughout the
// API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Min returns the componentwise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }

// Max returns the componentwise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// AABB is an axis-aligned bounding box. Lower must not exceed Upper on either
// axis. Boxes with zero width or height are allowed.
type AABB struct {
	Lower, Upper Vec2
}

// NewAABB returns the box spanning the two corners in any order.
func NewAABB(a, b Vec2) AABB {
	return AABB{Lower: a.Min(b), Upper: a.Max(b)}
}

// AABBFromRect converts an origin + size rectangle (top-left origin, Y down)
// into an AABB.
func AABBFromRect(x, y, width, height float64) AABB {
	return NewAABB(Vec2{x, y}, Vec2{x + width, y + height})
}

// Join returns the smallest box containing both a and b.
func Join(a, b AABB) AABB {
	return AABB{
		Lower: a.Lower.Min(b.Lower),
		Upper: a.Upper.Max(b.Upper),
	}
}

// Join returns the smallest box containing both b and other.
func (b AABB) Join(other AABB) AABB { return Join(b, other) }

// Width returns the extent along X.
func (b AABB) Width() float64 { return b.Upper.X - b.Lower.X }

// Height returns the extent along Y.
func (b AABB) Height() float64 { return b.Upper.Y - b.Lower.Y }

// Center returns the midpoint of the box.
func (b AABB) Center() Vec2 {
	return Vec2{(b.Lower.X + b.Upper.X) / 2, (b.Lower.Y + b.Upper.Y) / 2}
}

// SurfaceArea returns the perimeter 2*(width+height). In 2D the perimeter plays
// the role surface area plays for 3D trees: it is the cost of a volume in the
// insertion heuristic.
func (b AABB) SurfaceArea() float64 {
	return 2 * (b.Width() + b.Height())
}

// IsValid reports whether every bound is finite and Lower <= Upper on both
// axes.
func (b AABB) IsValid() bool {
	return b.Lower.IsFinite() && b.Upper.IsFinite() &&
		b.Lower.X <= b.Upper.X && b.Lower.Y <= b.Upper.Y
}

// Contains reports whether other lies entirely inside b. Shared edges count as
// inside.
func (b AABB) Contains(other AABB) bool {
	return other.Lower.X >= b.Lower.X && other.Upper.X <= b.Upper.X &&
		other.Lower.Y >= b.Lower.Y && other.Upper.Y <= b.Upper.Y
}

// ContainsPoint reports whether p lies inside b. Points on the edge are
// considered inside.
func (b AABB) ContainsPoint(p Vec2) bool {
	return p.X >= b.Lower.X && p.X <= b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Upper.Y
}

// Overlaps reports whether b and other intersect. Boxes sharing only an edge
// are considered overlapping.
func (b AABB) Overlaps(other AABB) bool {
	return b.Lower.X <= other.Upper.X && b.Upper.X >= other.Lower.X &&
		b.Lower.Y <= other.Upper.Y && b.Upper.Y >= other.Lower.Y
}

// RayCast reports whether the directed segment from p1 to p2 touches the box.
// Grazing contact with an edge or corner counts as a hit, and so does a
// segment that starts or ends inside. A segment with a NaN or infinite
// endpoint never hits.
//
// Slab test: each axis clips the segment parameter t in [0, 1] to the
// interval where the segment is between that axis' bounds.
func (b AABB) RayCast(p1, p2 Vec2) bool {
	if !p1.IsFinite() || !p2.IsFinite() {
		return false
	}
	tMin, tMax := 0.0, 1.0
	d := p2.Sub(p1)

	if !clipSlab(p1.X, d.X, b.Lower.X, b.Upper.X, &tMin, &tMax) {
		return false
	}
	return clipSlab(p1.Y, d.Y, b.Lower.Y, b.Upper.Y, &tMin, &tMax)
}

// clipSlab narrows [tMin, tMax] to the part of the segment inside one slab.
func clipSlab(origin, dir, lo, hi float64, tMin, tMax *float64) bool {
	if dir == 0 {
		// Parallel to the slab: either always inside it or never.
		return origin >= lo && origin <= hi
	}
	inv := 1 / dir
	t1 := (lo - origin) * inv
	t2 := (hi - origin) * inv
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > *tMin {
		*tMin = t1
	}
	if t2 < *tMax {
		*tMax = t2
	}
	return *tMin <= *tMax
}

// String implements fmt.Stringer.
func (b AABB) String() string {
	return fmt.Sprintf("[(%g,%g),(%g,%g)]", b.Lower.X, b.Lower.Y, b.Upper.X, b.Upper.Y)
}
