package gust

import "unsafe"

// Float is the element-type constraint for every numeric kernel in this
// package. Algorithms are written once over Float rather than duplicated
// per precision.
type Float interface {
	~float32 | ~float64
}

// Element additionally admits int32 for allocation-only paths (index
// buffers, label arrays). No kernel traverses an int32 array.
type Element interface {
	Float | ~int32
}

// Array is a non-owning view of device memory: a base address and an
// element count. The caller owns the underlying allocation; an Array
// never frees it. All kernels access only [0, Len()) and check no
// bounds — violating the view's extent is undefined behavior by
// contract, not a runtime error.
type Array[T Float] struct {
	ptr unsafe.Pointer
	n   int
}

// View reinterprets device memory as an array of as many T elements as
// the allocation holds.
func View[T Float](d DevicePtr, n int) Array[T] {
	return Array[T]{ptr: d.ptr, n: n}
}

// Len returns the element count of the view.
func (a Array[T]) Len() int {
	return a.n
}

// Slice returns the view's elements as a Go slice sharing the device
// memory. Reading it while a kernel issued earlier on the same array is
// still in flight is a caller sequencing error; Synchronize first.
func (a Array[T]) Slice() []T {
	if a.ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(a.ptr), a.n)
}

// Offset returns a view shifted forward by elems elements, shrinking the
// extent accordingly. This is the offset-by-index addressing helper used
// to address sub-ranges (matrix columns, second halves) of a flat array.
func (a Array[T]) Offset(elems int) Array[T] {
	var zero T
	return Array[T]{
		ptr: unsafe.Pointer(uintptr(a.ptr) + uintptr(elems)*unsafe.Sizeof(zero)),
		n:   a.n - elems,
	}
}

// Range returns the sub-view of n elements starting at element off.
func (a Array[T]) Range(off, n int) Array[T] {
	v := a.Offset(off)
	v.n = n
	return v
}
