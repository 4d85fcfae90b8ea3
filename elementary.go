package gust

import "math"

// Named constructors for every supported elementary function, each
// producing a Functor evaluating m*f(a*x+b). Domain errors of the
// underlying function (log of a negative, reciprocal of zero) are not
// validated; they propagate NaN/Inf per floating-point semantics.
//
// The two-argument functions (Pow, Mod) thread a fixed parameter p by
// capturing it in the elementary function itself, so the functor shape
// stays unary: m*f(a*x+b, p).

// lift adapts a float64 math function to any supported element type.
func lift[T Float](f func(float64) float64) UnaryFunc[T] {
	return func(x T) T { return T(f(float64(x))) }
}

// Exp returns a functor computing m*exp(a*x+b).
func Exp[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Exp), a, b, m) }

// Log returns a functor computing m*ln(a*x+b).
func Log[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Log), a, b, m) }

// Log10 returns a functor computing m*log10(a*x+b).
func Log10[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Log10), a, b, m) }

// Sqrt returns a functor computing m*sqrt(a*x+b).
func Sqrt[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Sqrt), a, b, m) }

// Trig family.

func Cos[T Float](a, b, m T) Functor[T]  { return NewFunctor(lift[T](math.Cos), a, b, m) }
func Sin[T Float](a, b, m T) Functor[T]  { return NewFunctor(lift[T](math.Sin), a, b, m) }
func Tan[T Float](a, b, m T) Functor[T]  { return NewFunctor(lift[T](math.Tan), a, b, m) }
func Acos[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Acos), a, b, m) }
func Asin[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Asin), a, b, m) }
func Atan[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Atan), a, b, m) }
func Cosh[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Cosh), a, b, m) }
func Sinh[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Sinh), a, b, m) }
func Tanh[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Tanh), a, b, m) }

// Abs returns a functor computing m*|a*x+b|.
func Abs[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Abs), a, b, m) }

// Floor returns a functor computing m*floor(a*x+b).
func Floor[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Floor), a, b, m) }

// Ceil returns a functor computing m*ceil(a*x+b).
func Ceil[T Float](a, b, m T) Functor[T] { return NewFunctor(lift[T](math.Ceil), a, b, m) }

// Sigmoid returns a functor computing m*sigmoid(a*x+b) where
// sigmoid(x) = 1/(1+exp(-x)).
func Sigmoid[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		return T(1 / (1 + math.Exp(-float64(x))))
	}, a, b, m)
}

// SigmoidDeriv returns a functor computing the sigmoid derivative
// expressed in terms of the sigmoid value: x*(1-x).
func SigmoidDeriv[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T { return x * (1 - x) }, a, b, m)
}

// Square returns a functor computing m*(a*x+b)^2.
func Square[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T { return x * x }, a, b, m)
}

// Cube returns a functor computing m*(a*x+b)^3.
func Cube[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T { return x * x * x }, a, b, m)
}

// Reciprocal returns a functor computing m/(a*x+b).
func Reciprocal[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T { return 1 / x }, a, b, m)
}

// CauchyQuantile maps a uniform variate in (0,1) to a standard Cauchy
// variate: tan(pi*(x-0.5)).
func CauchyQuantile[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		return T(math.Tan(math.Pi * (float64(x) - 0.5)))
	}, a, b, m)
}

// LaplaceQuantile maps a uniform variate in (0,1) to a standard Laplace
// variate: -sgn(x-0.5)*ln(1-2*|x-0.5|).
func LaplaceQuantile[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		u := float64(x) - 0.5
		return T(-sign(u) * math.Log(1-2*math.Abs(u)))
	}, a, b, m)
}

// Signum returns a functor computing m*sgn(a*x+b): -1, 0, or 1.
func Signum[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T { return T(sign(float64(x))) }, a, b, m)
}

// TriangularWave returns a functor for the full triangular wave
// 2*|mod(|x|,2)-1|-1, oscillating in [-1, 1] with period 2.
func TriangularWave[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		return T(2*math.Abs(math.Mod(math.Abs(float64(x)), 2)-1) - 1)
	}, a, b, m)
}

// TriangularWavePositive returns a functor for |mod(|x|,2)-1|, the
// positive-only triangular wave in [0, 1].
func TriangularWavePositive[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		return T(math.Abs(math.Mod(math.Abs(float64(x)), 2) - 1))
	}, a, b, m)
}

// ReLU returns a functor computing m*max(a*x+b, 0).
func ReLU[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		if x > 0 {
			return x
		}
		return 0
	}, a, b, m)
}

// ReLUDeriv returns a functor computing the rectifier derivative:
// 1 where a*x+b > 0, else 0.
func ReLUDeriv[T Float](a, b, m T) Functor[T] {
	return NewFunctor(func(x T) T {
		if x > 0 {
			return 1
		}
		return 0
	}, a, b, m)
}

// Pow returns a functor computing m*pow(a*x+b, p) for a fixed exponent p.
func Pow[T Float](p, a, b, m T) Functor[T] {
	exp := float64(p)
	return NewFunctor(func(x T) T {
		return T(math.Pow(float64(x), exp))
	}, a, b, m)
}

// Mod returns a functor computing m*fmod(a*x+b, p) for a fixed modulus p.
func Mod[T Float](p, a, b, m T) Functor[T] {
	mod := float64(p)
	return NewFunctor(func(x T) T {
		return T(math.Mod(float64(x), mod))
	}, a, b, m)
}

// sign returns -1, 0, or 1 without branching on NaN semantics.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
