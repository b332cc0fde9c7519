package upscale

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var maxParallelWorkers atomic.Int32

// SetMaxWorkers caps the number of goroutines used by row-parallel loops.
// Zero or a negative value means GOMAXPROCS. Results do not depend on the setting.
func SetMaxWorkers(n int) {
	if n < 0 {
		n = 0
	}
	maxParallelWorkers.Store(int32(n))
}

func workerCount(total int) int {
	workers := runtime.GOMAXPROCS(0)
	if limit := int(maxParallelWorkers.Load()); limit > 0 && workers > limit {
		workers = limit
	}
	if workers > total {
		workers = total
	}
	return max(workers, 1)
}

// parallelFor splits [0,total) into contiguous chunks and runs fn on each.
// fn must only write rows inside its chunk and only read fully built inputs.
func parallelFor(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	workers := workerCount(total)
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < total; start += step {
		end := min(start+step, total)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// scratchPools holds float32 scratch slices keyed by length, so stages working on
// the same (width, height) reuse intermediate planes.
var scratchPools sync.Map // int -> *sync.Pool

func scratchPool(n int) *sync.Pool {
	if p, ok := scratchPools.Load(n); ok {
		return p.(*sync.Pool)
	}
	p, _ := scratchPools.LoadOrStore(n, &sync.Pool{
		New: func() any {
			buf := make([]float32, n)
			return &buf
		},
	})
	return p.(*sync.Pool)
}

// getScratch returns a zeroed slice of length n.
func getScratch(n int) []float32 {
	buf := *(scratchPool(n).Get().(*[]float32))
	clear(buf)
	return buf
}

func putScratch(buf []float32) {
	if buf == nil {
		return
	}
	scratchPool(len(buf)).Put(&buf)
}
