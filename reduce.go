package gust

import (
	"math"
	"runtime"
	"slices"
	"sync"
)

// Reductions and order statistics. Each reduction first drains the
// default stream so it observes every kernel issued before it, then
// folds the array in parallel chunks. Partial accumulators are float64
// regardless of element type to bound error growth over large arrays;
// combination order is unspecified and callers must not depend on strict
// left-to-right floating-point accumulation.

// Sum returns the sum of all elements of x, seeded with 0.
func Sum[T Float](x Array[T]) T {
	return T(foldParallel(x, 0,
		func(acc float64, v T) float64 { return acc + float64(v) },
		func(a, b float64) float64 { return a + b }))
}

// Product returns the product of all elements of x, seeded with 1.
func Product[T Float](x Array[T]) T {
	return T(foldParallel(x, 1,
		func(acc float64, v T) float64 { return acc * float64(v) },
		func(a, b float64) float64 { return a * b }))
}

// Max returns the largest element of x. Precondition: x.Len() >= 1.
func Max[T Float](x Array[T]) T {
	return T(foldParallel(x, math.Inf(-1),
		func(acc float64, v T) float64 { return math.Max(acc, float64(v)) },
		math.Max))
}

// Min returns the smallest element of x. Precondition: x.Len() >= 1.
func Min[T Float](x Array[T]) T {
	return T(foldParallel(x, math.Inf(1),
		func(acc float64, v T) float64 { return math.Min(acc, float64(v)) },
		math.Min))
}

// MapReduceSum applies functor f elementwise and sums the results in one
// fused pass. The mapped array is never materialized.
func MapReduceSum[T Float](f Functor[T], x Array[T]) T {
	eval := f.Evaluate()
	return T(foldParallel(x, 0,
		func(acc float64, v T) float64 { return acc + float64(eval(v)) },
		func(a, b float64) float64 { return a + b }))
}

// LogSum returns the sum of the natural logs of x in one pass.
func LogSum[T Float](x Array[T]) T {
	return MapReduceSum(Log[T](1, 0, 1), x)
}

// SquareSum returns the sum of squares of x in one pass.
func SquareSum[T Float](x Array[T]) T {
	return MapReduceSum(Square[T](1, 0, 1), x)
}

// AbsSum returns the sum of absolute values of x in one pass.
func AbsSum[T Float](x Array[T]) T {
	return MapReduceSum(Abs[T](1, 0, 1), x)
}

// Sort sorts x in place: ascending when dir > 0, descending otherwise.
// The sort is not stable with respect to equal elements' original order.
func Sort[T Float](x Array[T], dir int) {
	defaultContext.defaultStream.Synchronize()
	s := x.Slice()
	if dir > 0 {
		slices.Sort(s)
	} else {
		slices.SortFunc(s, func(a, b T) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		})
	}
}

// foldParallel drains the stream, then folds x in contiguous chunks
// across up to NumCPU goroutines and merges the per-chunk partials.
// Chunk boundaries are aligned to the widest vector width the host
// supports so workers never split a cache-resident vector.
func foldParallel[T Float](x Array[T], seed float64, fold func(float64, T) float64, merge func(float64, float64) float64) float64 {
	defaultContext.defaultStream.Synchronize()

	s := x.Slice()
	n := len(s)
	if n == 0 {
		return seed
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers == 1 {
		acc := seed
		for _, v := range s {
			acc = fold(acc, v)
		}
		return acc
	}

	align := vectorAlign()
	chunk := (n + workers - 1) / workers
	if r := chunk % align; r != 0 {
		chunk += align - r
	}
	nchunks := (n + chunk - 1) / chunk

	partials := make([]float64, nchunks)
	var wg sync.WaitGroup
	wg.Add(nchunks)
	for ci := 0; ci < nchunks; ci++ {
		go func(ci int) {
			defer wg.Done()
			start := ci * chunk
			end := start + chunk
			if end > n {
				end = n
			}
			acc := seed
			for _, v := range s[start:end] {
				acc = fold(acc, v)
			}
			partials[ci] = acc
		}(ci)
	}
	wg.Wait()

	acc := partials[0]
	for _, p := range partials[1:] {
		acc = merge(acc, p)
	}
	return acc
}
