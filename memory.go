package gust

import (
	"fmt"
	"sync"
	"unsafe"
)

// MemcpyKind specifies the direction of memory transfer. In the unified
// memory model these are kept for API compatibility and treated
// identically since all memory is host-accessible.
type MemcpyKind int

const (
	MemcpyHostToHost     MemcpyKind = iota // Host to host transfer
	MemcpyHostToDevice                     // Host to device transfer
	MemcpyDeviceToHost                     // Device to host transfer
	MemcpyDeviceToDevice                   // Device to device transfer
	MemcpyDefault                          // Default transfer (infer direction)
)

// MemoryPool manages device memory allocation with efficient reuse.
// It maintains a free list of previously allocated blocks to reduce
// allocation overhead and memory fragmentation. Allocations beyond the
// pool's capacity fail with the distinct ErrOutOfMemory signal.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[uintptr]*allocation
	freeList   []*allocation
	capacity   int64
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	buf  []byte
	ptr  unsafe.Pointer
	size int
	used bool
}

// NewMemoryPool creates a new memory pool holding at most capacity bytes.
func NewMemoryPool(capacity uint64) *MemoryPool {
	return &MemoryPool{
		allocated: make(map[uintptr]*allocation),
		capacity:  int64(capacity),
	}
}

// Malloc allocates device memory of the specified size in bytes.
// The memory is aligned to cache-line boundaries.
func (ctx *Context) Malloc(size int) (DevicePtr, error) {
	return ctx.memory.Allocate(size)
}

// Free releases device memory allocated by Malloc.
// The memory may be retained in the pool for future allocations.
func (ctx *Context) Free(ptr DevicePtr) error {
	return ctx.memory.Free(ptr)
}

// Malloc allocates device memory of the specified size in bytes using
// the default context.
//
// Example:
//
//	d_data, err := gust.Malloc(1024 * 4) // Allocate 1024 float32s
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gust.Free(d_data)
func Malloc(size int) (DevicePtr, error) {
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc or Alloc.
func Free(ptr DevicePtr) error {
	return defaultContext.Free(ptr)
}

// Alloc allocates device memory for n elements of type T. When zeroFill
// is set the returned memory reads as zero even if the pool satisfied
// the request from a recycled block.
//
// Example:
//
//	d_data, err := gust.Alloc[float64](1024, true)
func Alloc[T Element](n int, zeroFill bool) (DevicePtr, error) {
	var zero T
	ptr, err := Malloc(n * int(unsafe.Sizeof(zero)))
	if err != nil {
		return DevicePtr{}, err
	}
	if zeroFill {
		b := ptr.Byte()
		for i := range b {
			b[i] = 0
		}
	}
	return ptr, nil
}

// CopyToDevice allocates device memory for the host slice and copies its
// contents in one step.
func CopyToDevice[T Element](host []T) (DevicePtr, error) {
	var zero T
	size := len(host) * int(unsafe.Sizeof(zero))
	ptr, err := Malloc(size)
	if err != nil {
		return DevicePtr{}, err
	}
	if err := Memcpy(ptr, host, size, MemcpyHostToDevice); err != nil {
		Free(ptr)
		return DevicePtr{}, err
	}
	return ptr, nil
}

// CopyToHost copies n elements of device memory into a freshly allocated
// host slice.
func CopyToHost[T Element](d DevicePtr, n int) ([]T, error) {
	var zero T
	host := make([]T, n)
	size := n * int(unsafe.Sizeof(zero))
	if err := Memcpy(host, d, size, MemcpyDeviceToHost); err != nil {
		return nil, err
	}
	return host, nil
}

// Memcpy copies memory between host and device using the default context.
// Supports various combinations of DevicePtr and Go slices.
func Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	return defaultContext.Memcpy(dst, src, size, kind)
}

// Memcpy copies memory between host and device.
//
// Parameters:
//   - dst: Destination (DevicePtr or Go slice)
//   - src: Source (DevicePtr or Go slice)
//   - size: Number of bytes to copy
//   - kind: Transfer direction (for API compatibility)
//
// Pending kernels on the default stream complete before the copy runs,
// so a copy observes every operation issued before it in program order.
func (ctx *Context) Memcpy(dst, src interface{}, size int, kind MemcpyKind) error {
	dstPtr, err := memcpyPointer("Memcpy", "dst", dst)
	if err != nil {
		return err
	}
	srcPtr, err := memcpyPointer("Memcpy", "src", src)
	if err != nil {
		return err
	}

	ctx.defaultStream.Synchronize()

	if dstPtr != nil && srcPtr != nil && size > 0 {
		copy(unsafe.Slice((*byte)(dstPtr), size), unsafe.Slice((*byte)(srcPtr), size))
	}

	return nil
}

// memcpyPointer extracts the base address of a Memcpy argument.
func memcpyPointer(op, which string, v interface{}) (unsafe.Pointer, error) {
	switch s := v.(type) {
	case DevicePtr:
		return s.ptr, nil
	case unsafe.Pointer:
		return s, nil
	case []byte:
		if len(s) > 0 {
			return unsafe.Pointer(&s[0]), nil
		}
	case []float32:
		if len(s) > 0 {
			return unsafe.Pointer(&s[0]), nil
		}
	case []float64:
		if len(s) > 0 {
			return unsafe.Pointer(&s[0]), nil
		}
	case []int32:
		if len(s) > 0 {
			return unsafe.Pointer(&s[0]), nil
		}
	default:
		return nil, NewInvalidArgError(op, fmt.Sprintf("unsupported %s type: %T", which, v))
	}
	return nil, nil
}

// MemoryPool methods

// Allocate allocates memory from the pool
func (mp *MemoryPool) Allocate(size int) (DevicePtr, error) {
	if size <= 0 {
		return DevicePtr{}, ErrInvalidSize
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	// Round up to alignment
	const alignment = 64 // Cache line size
	alignedSize := (size + alignment - 1) &^ (alignment - 1)

	// Try to reuse from free list
	for i, alloc := range mp.freeList {
		if alloc.size >= alignedSize {
			mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
			alloc.used = true

			mp.totalAlloc += int64(alloc.size)
			if mp.totalAlloc > mp.peakAlloc {
				mp.peakAlloc = mp.totalAlloc
			}

			return DevicePtr{
				ptr:  alloc.ptr,
				size: size,
			}, nil
		}
	}

	if mp.capacity > 0 && mp.totalAlloc+int64(alignedSize) > mp.capacity {
		return DevicePtr{}, ErrOutOfMemory
	}

	// Allocate new memory. The pool keeps a reference to the backing
	// slice so the GC never reclaims an outstanding block.
	buf := make([]byte, alignedSize)
	ptr := unsafe.Pointer(&buf[0])

	alloc := &allocation{
		buf:  buf,
		ptr:  ptr,
		size: alignedSize,
		used: true,
	}

	mp.allocated[uintptr(ptr)] = alloc

	mp.totalAlloc += int64(alignedSize)
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}

	return DevicePtr{
		ptr:  ptr,
		size: size,
	}, nil
}

// Free returns memory to the pool
func (mp *MemoryPool) Free(ptr DevicePtr) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	allocPtr := uintptr(ptr.ptr)
	alloc, ok := mp.allocated[allocPtr]
	if !ok {
		return NewMemoryError("Free", "pointer not found in allocation pool", nil)
	}

	if !alloc.used {
		return ErrDoubleFree
	}

	alloc.used = false
	mp.freeList = append(mp.freeList, alloc)
	mp.totalAlloc -= int64(alloc.size)

	return nil
}

// GetStats returns memory pool statistics
func (mp *MemoryPool) GetStats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// DevicePtr methods for convenience

// Float32 returns a float32 slice view of the device memory.
// The slice can be used directly for reading and writing data.
func (d DevicePtr) Float32() []float32 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*float32)(d.ptr), d.size/4)
}

// Float64 returns a float64 slice view of the device memory.
func (d DevicePtr) Float64() []float64 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*float64)(d.ptr), d.size/8)
}

// Int32 returns an int32 slice view of the device memory.
func (d DevicePtr) Int32() []int32 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*int32)(d.ptr), d.size/4)
}

// Byte returns a byte slice view of the entire memory region.
func (d DevicePtr) Byte() []byte {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(d.ptr), d.size)
}

// Offset returns a new DevicePtr offset by the given number of bytes.
// The returned DevicePtr shares the same underlying memory.
//
// Example:
//
//	d_array, _ := gust.Malloc(1024 * 4) // 1024 float32s
//	d_second_half := d_array.Offset(512 * 4)
func (d DevicePtr) Offset(bytes int) DevicePtr {
	return DevicePtr{
		ptr:    unsafe.Pointer(uintptr(d.ptr) + uintptr(bytes)),
		size:   d.size - bytes,
		offset: d.offset + bytes,
	}
}

// Size returns the size in bytes of the memory region
func (d DevicePtr) Size() int {
	return d.size
}

// getSystemMemory returns total system memory in bytes
func getSystemMemory() uint64 {
	// Simplified; a production build would query the OS.
	return 16 * 1024 * 1024 * 1024 // Default to 16GB
}
