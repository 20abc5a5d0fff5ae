package spatial

import (
	"runtime"
	"sync"
)

// sequentialThreshold is the range length below which parallel primitives
// fall back to a plain sequential pass; spinning up workers for a handful
// of elements costs more than it saves.
const sequentialThreshold = 512

// workerCount returns the number of chunks to partition n elements into,
// bounded by the available hardware parallelism.
func workerCount(n int) int {
	p := runtime.NumCPU()
	if p < 1 {
		p = 1
	}
	if p > n {
		p = n
	}
	if p < 1 {
		p = 1
	}
	return p
}

// chunks splits [0, n) into up to p contiguous, roughly-equal ranges.
func chunks(n, p int) [][2]int {
	if p < 1 {
		p = 1
	}
	size := (n + p - 1) / p
	if size < 1 {
		size = 1
	}
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}

// parallelFor runs fn(lo, hi) once per chunk of [0, n), across a bounded
// worker pool, and blocks until every chunk has completed. The builder,
// the compactor and PrefixCount's indicator pass run on it; PrefixSum
// uses its own chunked pass.
func parallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	ranges := chunks(n, workerCount(n))
	if len(ranges) <= 1 {
		fn(0, n)
		return
	}
	wg := sync.WaitGroup{}
	wg.Add(len(ranges))
	for _, r := range ranges {
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(r[0], r[1])
	}
	wg.Wait()
}
