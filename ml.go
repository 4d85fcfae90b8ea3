package gust

import "math"

// Composite ML kernels. These orchestrate the transform dispatcher and
// the reduction engine; none of them traverses memory itself.

// InfinityThreshold is the magnitude above which CorrectInfinity treats
// a value as exploded.
const InfinityThreshold = 1e5

// Softmax computes the softmax of x in place.
func Softmax[T Float](x Array[T]) error {
	return SoftmaxTo(x, x)
}

// SoftmaxTo computes out = softmax(x) with the numerically stable
// max-subtraction pattern: out = exp(x - max(x)) rescaled so the output
// sums to 1 within floating-point tolerance. The shift rides in the exp
// functor's affine slot, so no separate subtraction pass runs.
func SoftmaxTo[T Float](x, out Array[T]) error {
	mx := Max(x)
	if err := TransformTo(Exp[T](1, -mx, 1), x, out); err != nil {
		return err
	}
	s := Sum(out)
	return Affine(out, out, 1/s, 0)
}

// SoftmaxMinusOneHot computes, in place, the gradient of cross-entropy
// with respect to pre-softmax logits: softmax(x) - I[i == label].
func SoftmaxMinusOneHot[T Float](x Array[T], label int) error {
	return SoftmaxMinusOneHotTo(x, x, label)
}

// SoftmaxMinusOneHotTo computes out = softmax(x) - I[i == label]: the
// softmax vector with exactly the label element decremented by 1.
// Precondition: 0 <= label < x.Len().
func SoftmaxMinusOneHotTo[T Float](x, out Array[T], label int) error {
	if err := SoftmaxTo(x, out); err != nil {
		return err
	}
	AddAt(out, label, -1)
	return nil
}

// SoftmaxLogProbAt returns log(softmax(x)[label]) without mutating x and
// without materializing the softmax vector: the exp-sum is folded in one
// fused pass. The result is also written to outLogProb[0] when a
// non-empty buffer is supplied.
func SoftmaxLogProbAt[T Float](x Array[T], label int, outLogProb Array[T]) T {
	mx := Max(x)
	expSum := MapReduceSum(Exp[T](1, -mx, 1), x)
	logProb := (x.Slice()[label] - mx) - T(math.Log(float64(expSum)))
	if outLogProb.Len() > 0 {
		SetAt(outLogProb, 0, logProb)
	}
	return logProb
}

// CorrectInfinity replaces every element whose magnitude exceeds
// InfinityThreshold with replacement, guarding later arithmetic against
// exploded gradients.
func CorrectInfinity[T Float](x Array[T], replacement T) error {
	n := x.Len()
	s := x.Slice()

	grid, block := KernelDim1D(n)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < n {
			if v := s[idx]; v > InfinityThreshold || v < -InfinityThreshold {
				s[idx] = replacement
			}
		}
	})
	return Launch(kernel, grid, block)
}
