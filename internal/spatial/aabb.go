package spatial

import (
	"errors"
	"math"
)

// ErrUnderspecifiedPoint is returned by BoundPoints when any point has a
// NaN coordinate.
var ErrUnderspecifiedPoint = errors.New("spatial: underspecified point")

// AABB is an axis-aligned bounding box stored as (origin, size), with the
// invariant size >= 0 componentwise, or origin = NaV and size = 0 (the
// unique empty box).
type AABB struct {
	Origin Vec3
	Size   Vec3
}

// Empty is the unique empty box.
var Empty = AABB{Origin: NaV, Size: Vec3{}}

// Full spans every coordinate.
var Full = AABB{
	Origin: Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	Size:   Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
}

// New builds an AABB from an origin and size, canonicalizing any negative
// size component by swapping it so that size ends up >= 0 on every axis.
func New(origin, size Vec3) AABB {
	if size.X < 0 {
		origin.X += size.X
		size.X = -size.X
	}
	if size.Y < 0 {
		origin.Y += size.Y
		size.Y = -size.Y
	}
	if size.Z < 0 {
		origin.Z += size.Z
		size.Z = -size.Z
	}
	return AABB{Origin: origin, Size: size}
}

// IsEmpty reports whether b is the empty box.
func (b AABB) IsEmpty() bool {
	return b.Origin.IsNaV()
}

// IsFull reports whether b spans every coordinate.
func (b AABB) IsFull() bool {
	return b.Origin.X == math.Inf(-1) && b.Origin.Y == math.Inf(-1) && b.Origin.Z == math.Inf(-1) &&
		b.Size.X == math.Inf(1) && b.Size.Y == math.Inf(1) && b.Size.Z == math.Inf(1)
}

// Min returns the box's minimum corner.
func (b AABB) Min() Vec3 {
	return b.Origin
}

// Max returns the box's maximum corner.
func (b AABB) Max() Vec3 {
	return b.Origin.Add(b.Size)
}

// Equal compares b and o structurally; all empty boxes compare equal to
// each other regardless of how they were produced.
func (b AABB) Equal(o AABB) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return b.IsEmpty() == o.IsEmpty()
	}
	return b.Origin.Equal(o.Origin) && b.Size.Equal(o.Size)
}

func (b AABB) String() string {
	if b.IsEmpty() {
		return "AABB{empty}"
	}
	return "AABB{" + b.Origin.String() + ", " + b.Size.String() + "}"
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b AABB) Contains(p Vec3) bool {
	if b.IsEmpty() {
		return false
	}
	mn, mx := b.Min(), b.Max()
	return p.X >= mn.X && p.X <= mx.X &&
		p.Y >= mn.Y && p.Y <= mx.Y &&
		p.Z >= mn.Z && p.Z <= mx.Z
}

// Union returns the smallest box enclosing both a and b.
func Union(a, b AABB) AABB {
	switch {
	case a.IsEmpty():
		return b
	case b.IsEmpty():
		return a
	}
	mn := minComponent(a.Min(), b.Min())
	mx := maxComponent(a.Max(), b.Max())
	return AABB{Origin: mn, Size: mx.Sub(mn)}
}

// Intersect returns the largest box contained in both a and b, or Empty if
// they are separated by a gap. Boxes that only touch along a face, edge or
// corner yield a zero-size box, not Empty.
func Intersect(a, b AABB) AABB {
	if a.IsEmpty() || b.IsEmpty() {
		return Empty
	}
	mn := maxComponent(a.Min(), b.Min())
	mx := minComponent(a.Max(), b.Max())
	if mx.X < mn.X || mx.Y < mn.Y || mx.Z < mn.Z {
		return Empty
	}
	return AABB{Origin: mn, Size: mx.Sub(mn)}
}

// BoundPoints returns the smallest box containing every point in pts. Empty
// iff pts is empty. A NaN-coordinate point is rejected with
// ErrUnderspecifiedPoint since there is then no well-defined bound.
func BoundPoints(pts []Vec3) (AABB, error) {
	if len(pts) == 0 {
		return Empty, nil
	}
	mn, mx := pts[0], pts[0]
	for _, p := range pts {
		if p.IsNaV() {
			return Empty, ErrUnderspecifiedPoint
		}
		mn = minComponent(mn, p)
		mx = maxComponent(mx, p)
	}
	return AABB{Origin: mn, Size: mx.Sub(mn)}, nil
}

// BoundBoxes returns the smallest box containing every non-empty box in bs.
func BoundBoxes(bs []AABB) AABB {
	result := Empty
	for _, b := range bs {
		result = Union(result, b)
	}
	return result
}

// IntersectAll returns the largest box contained in every box in bs, or
// Empty if bs is empty or any two boxes fail to overlap.
func IntersectAll(bs []AABB) AABB {
	if len(bs) == 0 {
		return Empty
	}
	result := bs[0]
	for _, b := range bs[1:] {
		result = Intersect(result, b)
		if result.IsEmpty() {
			return Empty
		}
	}
	return result
}
