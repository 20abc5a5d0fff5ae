package spatial

import (
	"sort"
	"sync"
)

// PrefixSum computes, in place, an exclusive parallel prefix sum over
// buf[start:start+length]: after the call, buf[i] holds the sum of the
// *original* values of buf[start:i), for every i in that range. The
// original value at buf[start+length-1] is never read back; only its
// predecessors contribute to anything.
//
// Below sequentialThreshold elements this runs as a single sequential
// scan. Above it, the range is split into contiguous chunks processed by a
// bounded worker pool: each worker first sums its own chunk (a pure read
// pass), the chunk sums are themselves prefix-summed to find each chunk's
// starting offset, and then each worker re-sweeps its chunk writing the
// exclusive scan in place, starting from that offset. The second sweep is
// safe only because every element is read before it is overwritten.
func PrefixSum(buf []int64, start, length int) {
	if length <= 0 {
		return
	}
	if length <= sequentialThreshold {
		sequentialPrefixSum(buf, start, length)
		return
	}

	p := workerCount(length)
	ranges := chunks(length, p)

	type chunkResult struct {
		end int
		sum int64
	}
	results := make([]chunkResult, len(ranges))

	// accMu guards the chunk-end/offset accumulator: each worker's critical
	// section is just recording its own (end, sum) pair, O(1).
	var accMu sync.Mutex
	parallelForChunks(ranges, func(idx int, lo, hi int) {
		var sum int64
		for i := start + lo; i < start+hi; i++ {
			sum += buf[i]
		}
		accMu.Lock()
		results[idx] = chunkResult{end: start + hi, sum: sum}
		accMu.Unlock()
	})

	sort.Slice(results, func(i, j int) bool { return results[i].end < results[j].end })

	chunkSums := make([]int64, len(results))
	for i, r := range results {
		chunkSums[i] = r.sum
	}
	PrefixSum(chunkSums, 0, len(chunkSums)) // chunkSums[i] is now the offset for chunk i

	parallelForChunks(ranges, func(idx int, lo, hi int) {
		offset := chunkSums[idx]
		acc := offset
		for i := start + lo; i < start+hi; i++ {
			orig := buf[i]
			buf[i] = acc
			acc += orig
		}
	})
}

func sequentialPrefixSum(buf []int64, start, length int) {
	acc := int64(0)
	for i := start; i < start+length; i++ {
		orig := buf[i]
		buf[i] = acc
		acc += orig
	}
}

// PrefixCount returns, for each index i, the number of elements xs[j] with
// j < i satisfying pred. It materializes a 0/1 indicator vector in
// parallel and runs PrefixSum over it.
func PrefixCount[T any](xs []T, pred func(T) bool) []int64 {
	indicator := make([]int64, len(xs))
	parallelFor(len(xs), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if pred(xs[i]) {
				indicator[i] = 1
			}
		}
	})
	PrefixSum(indicator, 0, len(indicator))
	return indicator
}

// parallelForChunks runs fn(chunkIndex, lo, hi) once per precomputed
// chunk, across a bounded worker pool, blocking until all complete.
func parallelForChunks(ranges [][2]int, fn func(idx, lo, hi int)) {
	if len(ranges) == 0 {
		return
	}
	if len(ranges) == 1 {
		fn(0, ranges[0][0], ranges[0][1])
		return
	}
	done := make(chan struct{}, len(ranges))
	for idx, r := range ranges {
		go func(idx, lo, hi int) {
			fn(idx, lo, hi)
			done <- struct{}{}
		}(idx, r[0], r[1])
	}
	for range ranges {
		<-done
	}
}
