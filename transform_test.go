package gust

import (
	"math"
	"testing"
)

func TestTransformExp(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float32{1, 2, 3})
	defer Free(d)

	if err := Transform(Exp[float32](1, 0, 1), x); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	SynchronizeOrFail(t)

	e := float32(math.E)
	want := []float32{e, e * e, e * e * e}
	if res := VerifyArray(want, x.Slice(), Tolerance32()); !res.IsAcceptable(Tolerance32()) {
		t.Errorf("exp([1 2 3]): %v", res)
	}
}

func TestTransformToOutOfPlace(t *testing.T) {
	input := []float64{0.25, 1, 4, 9}
	d, x := DeviceArrayOrFail(t, input)
	defer Free(d)
	dOut := MallocOrFail(t, len(input)*8)
	defer Free(dOut)
	out := View[float64](dOut, len(input))

	if err := TransformTo(Sqrt[float64](1, 0, 2), x, out); err != nil {
		t.Fatalf("TransformTo failed: %v", err)
	}
	SynchronizeOrFail(t)

	tol := Tolerance64()
	for i, v := range input {
		if want := 2 * math.Sqrt(v); !NearEqual(out.Slice()[i], want, tol) {
			t.Errorf("out[%d] = %v, want %v", i, out.Slice()[i], want)
		}
		if x.Slice()[i] != v {
			t.Errorf("input mutated at %d: %v", i, x.Slice()[i])
		}
	}
}

func TestAffine(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float32{1, 2, 3, 4})
	defer Free(d)

	if err := Affine(x, x, 2, 3); err != nil {
		t.Fatalf("Affine failed: %v", err)
	}
	SynchronizeOrFail(t)

	want := []float32{5, 7, 9, 11}
	for i, w := range want {
		if x.Slice()[i] != w {
			t.Errorf("affine result at %d: got %v, want %v", i, x.Slice()[i], w)
		}
	}
}

// The fully trivial affine pass must not mutate anything in place and
// must degrade to an exact copy out of place.
func TestAffineIdentity(t *testing.T) {
	input := []float64{1.5, -2.25, 3.125, math.Pi}
	d, x := DeviceArrayOrFail(t, input)
	defer Free(d)

	if err := Affine(x, x, 1, 0); err != nil {
		t.Fatalf("identity Affine failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i, v := range input {
		if bits, got := math.Float64bits(v), math.Float64bits(x.Slice()[i]); bits != got {
			t.Errorf("identity in-place affine mutated element %d", i)
		}
	}

	dOut := MallocOrFail(t, len(input)*8)
	defer Free(dOut)
	out := View[float64](dOut, len(input))
	if err := Affine(x, out, 1, 0); err != nil {
		t.Fatalf("identity Affine copy failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i, v := range input {
		if out.Slice()[i] != v {
			t.Errorf("identity copy wrong at %d: got %v, want %v", i, out.Slice()[i], v)
		}
	}
}

func TestDotMul(t *testing.T) {
	da, a := DeviceArrayOrFail(t, []float32{1, 2, 3})
	defer Free(da)
	db, b := DeviceArrayOrFail(t, []float32{4, 5, 6})
	defer Free(db)
	dOut := MallocOrFail(t, 3*4)
	defer Free(dOut)
	out := View[float32](dOut, 3)

	if err := DotMul(a, b, out, 1); err != nil {
		t.Fatalf("DotMul failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i, w := range []float32{4, 10, 18} {
		if out.Slice()[i] != w {
			t.Errorf("dot mult at %d: got %v, want %v", i, out.Slice()[i], w)
		}
	}

	// Scaled, overwriting b in place.
	if err := DotMul(a, b, b, 2); err != nil {
		t.Fatalf("scaled DotMul failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i, w := range []float32{8, 20, 36} {
		if b.Slice()[i] != w {
			t.Errorf("scaled in-place dot mult at %d: got %v, want %v", i, b.Slice()[i], w)
		}
	}
}

func TestFillCopySwap(t *testing.T) {
	const n = 100
	da := MallocOrFail(t, n*8)
	db := MallocOrFail(t, n*8)
	defer Free(da)
	defer Free(db)
	a := View[float64](da, n)
	b := View[float64](db, n)

	if err := Fill(a, 7); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := Fill(b, -1); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := Copy(a, b); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i := 0; i < n; i++ {
		if b.Slice()[i] != 7 {
			t.Fatalf("copy missed index %d", i)
		}
	}

	if err := Fill(b, 3); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if err := Swap(a, b); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}
	SynchronizeOrFail(t)
	for i := 0; i < n; i++ {
		if a.Slice()[i] != 3 || b.Slice()[i] != 7 {
			t.Fatalf("swap wrong at %d: a=%v b=%v", i, a.Slice()[i], b.Slice()[i])
		}
	}
}

func TestSetAtAddAt(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float64{0, 0, 0})
	defer Free(d)

	SetAt(x, 1, 2.5)
	AddAt(x, 1, -0.5)
	AddAt(x, 2, 1)
	SynchronizeOrFail(t)

	want := []float64{0, 2, 1}
	for i, w := range want {
		if x.Slice()[i] != w {
			t.Errorf("single-element ops at %d: got %v, want %v", i, x.Slice()[i], w)
		}
	}
}

func TestCorrectInfinity(t *testing.T) {
	d, x := DeviceArrayOrFail(t, []float32{1, 2e5, -3e6, 0.5, float32(math.Inf(1))})
	defer Free(d)

	if err := CorrectInfinity(x, 0); err != nil {
		t.Fatalf("CorrectInfinity failed: %v", err)
	}
	SynchronizeOrFail(t)

	want := []float32{1, 0, 0, 0.5, 0}
	for i, w := range want {
		if x.Slice()[i] != w {
			t.Errorf("infinity guard at %d: got %v, want %v", i, x.Slice()[i], w)
		}
	}
}
