package spatial

import "sort"

// WithPos pairs a caller item with its position; Build consumes a slice of
// these. The builder treats Value as an opaque payload and never
// dereferences it.
type WithPos[T any] struct {
	Value T
	Pos   Vec3
}

// Build constructs a Tree from items and the bound containing every
// item's position. It sorts items by Morton key (stably, so equal-keyed
// items keep their input order), then runs one data-parallel pass over
// leaf indices filling in the internal-node table using the Karras-style
// parallel octree construction.
//
// Construction itself never fails; Build panics if the invariant checker
// (see Validate) finds the tree malformed, since that can only mean a
// builder bug.
func Build[T any](items []WithPos[T], bound AABB) *Tree[T] {
	L := len(items)
	t := &Tree[T]{bound: bound}
	if L == 0 {
		return t
	}

	order := make([]int, L)
	codes := make([]uint64, L)
	for i, it := range items {
		order[i] = i
		codes[i] = Morton(it.Pos, bound)
	}
	sort.SliceStable(order, func(a, b int) bool { return codes[order[a]] < codes[order[b]] })

	sortedCodes := make([]uint64, L)
	leaves := make([]leafRecord[T], L)
	for pos, srcIdx := range order {
		sortedCodes[pos] = codes[srcIdx]
		leaves[pos] = leafRecord[T]{Item: items[srcIdx].Value, Pos: items[srcIdx].Pos}
	}

	internals := make([]internalRecord, L)
	if L > 1 {
		parallelFor(L, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				buildAt(i, L, sortedCodes, leaves, internals)
			}
		})
		// The last internal slot can only ever be the redundant twin of
		// the global root's right boundary; it is never a useful root
		// itself. Force it unreachable regardless of what the parallel
		// phase wrote there.
		internals[L-1].RightSiblingDelta = unreachable
	}

	t.leaves = leaves
	t.internals = internals
	Validate(t)
	return t
}

// buildAt runs the per-leaf-index construction procedure for leaf index i.
func buildAt[T any](i, L int, codes []uint64, leaves []leafRecord[T], internals []internalRecord) {
	sigLeft := slottedSigma(codes, i, i-1)
	sigRight := slottedSigma(codes, i, i+1)
	s := sign(sigRight - sigLeft)
	if s == 0 {
		// Slot i is not a boundary of any node's range, so no parent ever
		// links to it; mark it so Compress drops it.
		internals[i].RightSiblingDelta = unreachable
		return
	}

	t := slottedSigma(codes, i, i-s)

	lMax := 2
	for slottedSigma(codes, i, i+lMax*s) > t {
		lMax *= 2
	}
	l := 0
	for stride := lMax / 2; stride >= 1; stride /= 2 {
		if slottedSigma(codes, i, i+(l+stride)*s) > t {
			l += stride
		}
	}
	j := i + l*s

	lo, hi := i, j
	if lo > hi {
		lo, hi = hi, lo
	}
	hi++ // half-open

	self := int64(i)

	// t is only the search threshold used to find j; once the range is
	// resolved, the node's actual shared depth must be read back from the
	// range's own boundary keys, since a boundary task (i at either end of
	// the whole array) searched against the out-of-range sentinel and never
	// saw its true neighbor.
	nodeT := slottedSigma(codes, lo, hi-1)

	if nodeT == 21 {
		// Every key in [lo, hi) is bit-identical: a single internal node
		// with every leaf in the range as a direct child.
		firstLeafAddr := int64(lo) - int64(L)
		internals[self].FirstChildDelta = firstLeafAddr - self
		if s > 0 {
			// Only the left-boundary owner chains the leaves, to avoid
			// two tasks racing on the same right_sibling_delta writes.
			for k := lo; k < hi-1; k++ {
				leaves[k].RightSiblingDelta = 1
			}
		}
		return
	}

	p := 64 - (1 + nodeT*3)
	var starts [9]int
	starts[0], starts[8] = lo, hi
	starts[4] = split(codes, p-1, starts[0], starts[8])
	starts[2] = split(codes, p-2, starts[0], starts[4])
	starts[6] = split(codes, p-2, starts[4], starts[8])
	starts[1] = split(codes, p-3, starts[0], starts[2])
	starts[3] = split(codes, p-3, starts[2], starts[4])
	starts[5] = split(codes, p-3, starts[4], starts[6])
	starts[7] = split(codes, p-3, starts[6], starts[8])

	childAddr := func(lo, hi int) (used, twin int64) {
		if hi-lo == 1 {
			addr := int64(lo) - int64(L)
			return addr, addr // leaf, no internal twin to mark
		}
		return int64(hi - 1), int64(lo)
	}
	startAddr := func(lo, hi int) (used, twin int64) {
		if hi-lo == 1 {
			addr := int64(lo) - int64(L)
			return addr, addr
		}
		return int64(lo), int64(hi - 1)
	}

	type childRange struct{ lo, hi int }
	var nonEmpty []childRange
	for k := 0; k < 8; k++ {
		if starts[k] != starts[k+1] {
			nonEmpty = append(nonEmpty, childRange{starts[k], starts[k+1]})
		}
	}

	prevAddr := int64(0)
	for k, cr := range nonEmpty {
		width := cr.hi - cr.lo
		isFirst := k == 0
		isLast := k == len(nonEmpty)-1

		var addr, twin int64
		if isFirst {
			addr, twin = childAddr(cr.lo, cr.hi)
		} else {
			addr, twin = startAddr(cr.lo, cr.hi)
		}

		if isFirst {
			internals[self].FirstChildDelta = addr - self
		} else {
			setRightSiblingDelta(leaves, internals, L, prevAddr, addr-prevAddr)
		}

		// A first child's other boundary slot (lo) belongs to an ancestor
		// and a last child's (hi-1) is owned by the next task up, so only
		// middle children mark their twin.
		if width > 1 && !isFirst && !isLast {
			internals[twin].RightSiblingDelta = unreachable
		}

		prevAddr = addr
	}
}

// setRightSiblingDelta writes delta into the right_sibling_delta field of
// the record at addr, whichever of the two tables it lives in.
func setRightSiblingDelta[T any](leaves []leafRecord[T], internals []internalRecord, L int, addr, delta int64) {
	if addr < 0 {
		leaves[int64(L)+addr].RightSiblingDelta = delta
	} else {
		internals[addr].RightSiblingDelta = delta
	}
}
