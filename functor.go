package gust

// UnaryFunc is an elementary scalar function y = f(x).
type UnaryFunc[T Float] func(T) T

// Functor is a call-scoped unit evaluating m*f(a*x+b) for one elementary
// function f and captured affine parameters. It is immutable and carries
// no state beyond its scalars: construct it, hand it to a dispatcher for
// one traversal, discard it.
//
// The identity triple a=1, b=0, m=1 means "no transform". Evaluate
// specializes on identity parameters so the common untransformed case
// pays for neither the multiply nor the add per element.
type Functor[T Float] struct {
	fn      UnaryFunc[T]
	a, b, m T
}

// NewFunctor wraps fn with affine parameters: the resulting functor
// computes m*fn(a*x+b).
func NewFunctor[T Float](fn UnaryFunc[T], a, b, m T) Functor[T] {
	return Functor[T]{fn: fn, a: a, b: b, m: m}
}

// Apply evaluates the functor for a single value on the host.
func (f Functor[T]) Apply(x T) T {
	return f.m * f.fn(f.a*x+f.b)
}

// Evaluate returns the per-element evaluator, specialized to the affine
// parameters actually in use. One functor shape serves every affine
// configuration; the switch runs once per traversal, not per element.
func (f Functor[T]) Evaluate() func(T) T {
	fn := f.fn
	a, b, m := f.a, f.b, f.m
	switch {
	case a == 1 && b == 0 && m == 1:
		return fn
	case a == 1 && m == 1:
		return func(x T) T { return fn(x + b) }
	case b == 0 && m == 1:
		return func(x T) T { return fn(a * x) }
	case m == 1:
		return func(x T) T { return fn(a*x + b) }
	case a == 1 && b == 0:
		return func(x T) T { return m * fn(x) }
	default:
		return func(x T) T { return m * fn(a*x+b) }
	}
}
