package gust

import "math"

// Per-index random number generation. Every array index owns its own
// position in a single deterministic minstd stream: the generator for
// index i starts where a fresh stream would be after discarding i draws.
// Parallel threads therefore never collide on the same sub-sequence, and
// a fill of the same length is reproducible run to run.

const (
	minstdModulus    = 2147483647 // 2^31 - 1
	minstdMultiplier = 48271
	minstdSeed       = 1
)

// minstdSkip returns the minstd state after discarding n draws from the
// default seed. Skip-ahead is multiplier^n mod M, computed in O(log n).
func minstdSkip(n uint64) uint64 {
	mult := uint64(1)
	base := uint64(minstdMultiplier)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			mult = mult * base % minstdModulus
		}
		base = base * base % minstdModulus
	}
	return mult * minstdSeed % minstdModulus
}

// minstdNext advances the state by one draw.
func minstdNext(state uint64) uint64 {
	return state * minstdMultiplier % minstdModulus
}

// FillRandNormal fills x with independent draws from a normal
// distribution with the given mean and standard deviation. Each element
// samples from its own stream position via skip-ahead, then applies the
// Box-Muller transform to two consecutive uniforms.
func FillRandNormal[T Float](x Array[T], mean, stddev T) error {
	n := x.Len()
	s := x.Slice()
	mu := float64(mean)
	sigma := float64(stddev)

	grid, block := KernelDim1D(n)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < n {
			state := minstdSkip(uint64(idx))
			state = minstdNext(state)
			u1 := float64(state) / minstdModulus
			state = minstdNext(state)
			u2 := float64(state) / minstdModulus
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
			s[idx] = T(mu + sigma*z)
		}
	})
	return Launch(kernel, grid, block)
}
