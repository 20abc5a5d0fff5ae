package spatial

import (
	"fmt"
	"math"
)

// Validate walks t from its root and panics if any of the structural
// invariants the builder is supposed to maintain do not hold: every
// reachable internal node has arity in [2,8] (the degenerate all-leaves
// path excepted), every node's children partition its leaf range
// contiguously with no gaps or overlaps, every pair of sibling child
// boxes has disjoint interiors, and the union of a node's children's
// boxes equals the node's own box to within floating-point rounding. A
// violation can only mean a builder
// or compactor bug, never bad input, so Validate is a panic rather than
// an error return.
func Validate[T any](t *Tree[T]) {
	n := len(t.leaves)
	if n == 0 {
		return
	}
	root, err := t.Root()
	if err != nil {
		panic(err)
	}
	validateRange(root, 0, n, n)
}

func validateRange[T any](n Node[T], lo, hi, leafCount int) {
	if n.IsLeaf() {
		if hi-lo != 1 {
			panic(fmt.Sprintf("spatial: leaf at range [%d,%d) spans more than one item", lo, hi))
		}
		return
	}

	children := n.Children()
	allLeaves := true
	for _, c := range children {
		if !c.IsLeaf() {
			allLeaves = false
			break
		}
	}
	// The degenerate-range path (every key under this node identical past
	// the quantization resolution) attaches every leaf in the range
	// directly to one internal node, which can exceed 8. Every other
	// internal node comes from an eight-way octant split, so its arity is
	// bounded normally.
	switch {
	case len(children) < 2:
		panic(fmt.Sprintf("spatial: internal node arity %d below minimum of 2", len(children)))
	case !allLeaves && len(children) > 8:
		panic(fmt.Sprintf("spatial: internal node arity %d exceeds 8 for a non-degenerate split", len(children)))
	}

	cursor := lo
	childBounds := make([]AABB, len(children))
	for ci, c := range children {
		var first, last int64
		if c.IsLeaf() {
			first, last = c.idx, c.idx
		} else {
			first = c.firstDescendantLeaf()
			last = c.lastDescendantLeaf()
		}
		cLo := leafCount + int(first)
		cHi := leafCount + int(last) + 1
		if cLo != cursor {
			panic(fmt.Sprintf("spatial: child range starts at %d, expected %d", cLo, cursor))
		}
		validateRange(c, cLo, cHi, leafCount)
		childBounds[ci] = c.Bound()
		cursor = cHi
	}
	if cursor != hi {
		panic(fmt.Sprintf("spatial: children cover up to %d, expected %d", cursor, hi))
	}

	for i := 0; i < len(childBounds); i++ {
		for j := i + 1; j < len(childBounds); j++ {
			if !interiorsDisjoint(childBounds[i], childBounds[j]) {
				panic(fmt.Sprintf("spatial: sibling child boxes %d (%s) and %d (%s) have overlapping interiors",
					i, childBounds[i], j, childBounds[j]))
			}
		}
	}
	// Union rebuilds each box's max corner as origin+size, which can land
	// one rounding step away from the node's own corner, so corners are
	// compared with a relative tolerance rather than bitwise.
	union := BoundBoxes(childBounds)
	own := n.Bound()
	near := func(a, b float64) bool {
		return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	}
	umn, umx, omn, omx := union.Min(), union.Max(), own.Min(), own.Max()
	if !near(umn.X, omn.X) || !near(umn.Y, omn.Y) || !near(umn.Z, omn.Z) ||
		!near(umx.X, omx.X) || !near(umx.Y, omx.Y) || !near(umx.Z, omx.Z) {
		panic(fmt.Sprintf("spatial: union of child boxes %s does not equal node box %s", union, own))
	}
}

// interiorsDisjoint reports whether a and b share no interior volume.
// Boxes that merely touch along a face, edge, or corner intersect to a
// zero-volume box, which still counts as disjoint.
func interiorsDisjoint(a, b AABB) bool {
	x := Intersect(a, b)
	if x.IsEmpty() {
		return true
	}
	return x.Size.X == 0 || x.Size.Y == 0 || x.Size.Z == 0
}
