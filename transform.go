package gust

// Elementwise transform dispatcher. Every operation here is a single
// full traversal dispatched as a one-dimensional kernel launch on the
// default stream, so operations against the same array complete in
// program order. Output capacity must be at least the input length;
// partial overlap between distinct input and output arrays is undefined
// behavior — only exact in-place aliasing (out == in) is supported.

// Transform applies functor f to every element of x in place.
func Transform[T Float](f Functor[T], x Array[T]) error {
	return TransformTo(f, x, x)
}

// TransformTo applies functor f to every element of x, writing results
// to out in a single pass.
//
// Example:
//
//	// out = exp(x - mx), fused: no separate shift pass
//	gust.TransformTo(gust.Exp[float32](1, -mx, 1), x, out)
func TransformTo[T Float](f Functor[T], x, out Array[T]) error {
	n := x.Len()
	eval := f.Evaluate()
	src := x.Slice()
	dst := out.Slice()

	grid, block := KernelDim1D(n)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < n {
			dst[idx] = eval(src[idx])
		}
	})
	return Launch(kernel, grid, block)
}

// Affine computes out = a*x + b with no elementary function. The fully
// trivial case a=1, b=0 launches nothing: in place it performs zero
// work, out of place it degrades to a plain copy. Pipelines routinely
// call this with identity parameters as a placeholder stage and must not
// pay a traversal for it.
func Affine[T Float](x, out Array[T], a, b T) error {
	if a == 1 && b == 0 {
		if x.ptr == out.ptr {
			return nil
		}
		return Copy(x, out)
	}

	n := x.Len()
	src := x.Slice()
	dst := out.Slice()

	grid, block := KernelDim1D(n)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < n {
			dst[idx] = a*src[idx] + b
		}
	})
	return Launch(kernel, grid, block)
}

// DotMul computes out = scale * x .* y elementwise. Pass out == y to
// overwrite y in place.
func DotMul[T Float](x, y, out Array[T], scale T) error {
	n := x.Len()
	xs := x.Slice()
	ys := y.Slice()
	dst := out.Slice()

	grid, block := KernelDim1D(n)
	var kernel KernelFunc
	if scale == 1 {
		kernel = func(tid ThreadID, args ...interface{}) {
			idx := tid.Global()
			if idx < n {
				dst[idx] = xs[idx] * ys[idx]
			}
		}
	} else {
		kernel = func(tid ThreadID, args ...interface{}) {
			idx := tid.Global()
			if idx < n {
				dst[idx] = scale * xs[idx] * ys[idx]
			}
		}
	}
	return Launch(kernel, grid, block)
}

// Fill sets every element of x to val.
func Fill[T Float](x Array[T], val T) error {
	n := x.Len()
	dst := x.Slice()

	grid, block := KernelDim1D(n)
	kernel := KernelFunc(func(tid ThreadID, args ...interface{}) {
		idx := tid.Global()
		if idx < n {
			dst[idx] = val
		}
	})
	return Launch(kernel, grid, block)
}

// Copy copies src into dst. Runs on the stream so it keeps program order
// with kernels issued before it.
func Copy[T Float](src, dst Array[T]) error {
	s := src.Slice()
	d := dst.Slice()
	defaultContext.defaultStream.Submit(func() {
		copy(d, s)
	})
	return nil
}

// Swap exchanges the contents of two equal-length arrays elementwise.
func Swap[T Float](x, y Array[T]) error {
	xs := x.Slice()
	ys := y.Slice()
	defaultContext.defaultStream.Submit(func() {
		for i := range xs {
			xs[i], ys[i] = ys[i], xs[i]
		}
	})
	return nil
}

// SetAt sets the single element x[i] = val, ordered after previously
// issued operations on x. Used to perturb one weight at a time when
// gradient checking.
func SetAt[T Float](x Array[T], i int, val T) {
	s := x.Slice()
	defaultContext.defaultStream.Submit(func() {
		s[i] = val
	})
}

// AddAt increments the single element x[i] += delta in stream order.
func AddAt[T Float](x Array[T], i int, delta T) {
	s := x.Slice()
	defaultContext.defaultStream.Submit(func() {
		s[i] += delta
	})
}
