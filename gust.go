// Package gust is a Thrust-style device vector engine: elementwise
// transforms with fused affine parameters, reductions, order statistics,
// and a small set of numerically stable ML kernels over flat arrays held
// in device memory. The "device" is emulated in-process; kernels are
// dispatched across a grid of thread blocks exactly as they would be on
// an accelerator.
//
// Example usage:
//
//	d, _ := gust.Alloc[float32](n, false)
//	defer gust.Free(d)
//
//	x := gust.View[float32](d, n)
//	gust.Transform(gust.Exp[float32](1, 0, 1), x)
//	total := gust.Sum(x)
package gust

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents a compute device. Each device has a unique ID and
// capabilities used for sizing sanity checks.
type Device struct {
	ID         int    // Unique device identifier
	Name       string // Human-readable device name
	TotalMem   uint64 // Total available memory in bytes
	NumCores   int    // Number of CPU cores backing the device
	MaxThreads int    // Maximum concurrent threads
}

// Context represents an execution context. It manages device resources,
// memory allocation, and stream execution. A Context exists before any
// operation runs; the package-level functions use a default context.
type Context struct {
	device        *Device
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
}

// Stream represents an ordered sequence of operations. Operations within
// a stream execute in submission order, which is what gives two kernels
// touching the same array their sequential-consistency guarantee.
// Operations in different streams may execute concurrently.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
}

// Dim3 represents 3D dimensions for grid and block configurations,
// matching CUDA's dim3 for kernel launch parameters.
type Dim3 struct {
	X, Y, Z int
}

// ThreadID identifies a thread's position within the execution hierarchy,
// with the same indexing semantics as CUDA's built-in variables.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Kernel represents a compute kernel executed across a grid of blocks.
// Implementations must be safe for concurrent Execute calls.
type Kernel interface {
	Execute(tid ThreadID, args ...interface{})
}

// KernelFunc is a function that can be launched as a kernel.
type KernelFunc func(tid ThreadID, args ...interface{})

// DevicePtr represents a pointer to device memory. It carries no element
// type; use View to reinterpret it as a typed Array, or the conversion
// methods (Float32, Float64, Int32) for direct slice access.
type DevicePtr struct {
	ptr    unsafe.Pointer
	size   int
	offset int
}

// Block and warp geometry for one-dimensional launches.
const (
	// MaxBlockThreads is the per-block thread cap.
	MaxBlockThreads = 1024
	// WarpSize is the scheduling granularity blocks are rounded up to.
	WarpSize = 32
)

// Global runtime state
var (
	defaultDevice  *Device
	defaultContext *Context
	initOnce       sync.Once
)

func init() {
	initOnce.Do(func() {
		defaultDevice = &Device{
			ID:         0,
			Name:       "CPU",
			TotalMem:   getSystemMemory(),
			NumCores:   runtime.NumCPU(),
			MaxThreads: runtime.NumCPU() * 2,
		}

		defaultContext = &Context{
			device:  defaultDevice,
			streams: make(map[int]*Stream),
			memory:  NewMemoryPool(defaultDevice.TotalMem),
		}

		defaultContext.defaultStream = defaultContext.CreateStream()
	})
}

// KernelDim1D computes the (grid, block) launch shape for a kernel that
// needs the given number of one-dimensional threads. A block cannot hold
// more than MaxBlockThreads threads; beyond that the launch spills into
// full blocks. Below the cap, the block is rounded up to a multiple of
// WarpSize.
func KernelDim1D(threads int) (grid, block Dim3) {
	grid = Dim3{X: 1, Y: 1, Z: 1}
	block = Dim3{X: threads, Y: 1, Z: 1}
	if threads > MaxBlockThreads {
		grid.X = threads/MaxBlockThreads + 1
		block.X = MaxBlockThreads
	} else if threads%WarpSize != 0 {
		block.X = (threads/WarpSize + 1) * WarpSize
	}
	return grid, block
}

// Launch executes a kernel on the default stream.
//
// Parameters:
//   - kernel: The kernel to execute
//   - grid: Grid dimensions (number of blocks)
//   - block: Block dimensions (threads per block)
//   - args: Kernel arguments
func Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return defaultContext.Launch(kernel, grid, block, args...)
}

// LaunchFunc executes a kernel function on the default stream.
func LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return defaultContext.LaunchFunc(fn, grid, block, args...)
}

// Synchronize waits for all operations on all streams to complete.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// GetDevice returns the current device information.
func GetDevice() *Device {
	return defaultDevice
}

// SetDevice sets the active device. Only device 0 exists.
func SetDevice(id int) error {
	if id != 0 {
		return ErrInvalidDevice
	}
	return nil
}

// GetDeviceCount returns the number of available devices.
func GetDeviceCount() int {
	return 1
}

// GetDeviceProperties returns device properties.
func GetDeviceProperties(id int) (*Device, error) {
	if id != 0 {
		return nil, NewInvalidArgError("GetDeviceProperties", fmt.Sprintf("invalid device ID: %d", id))
	}
	return defaultDevice, nil
}

// Context methods

// CreateStream creates a new execution stream.
func (ctx *Context) CreateStream() *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:    id,
		tasks: make(chan func(), 1000),
		done:  make(chan struct{}),
	}

	go stream.worker()

	ctx.streams[id] = stream
	return stream
}

// Launch executes a kernel on the default stream.
func (ctx *Context) Launch(kernel Kernel, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchStream(kernel, grid, block, ctx.defaultStream, args...)
}

// LaunchFunc executes a kernel function on the default stream.
func (ctx *Context) LaunchFunc(fn KernelFunc, grid, block Dim3, args ...interface{}) error {
	return ctx.LaunchFuncStream(fn, grid, block, ctx.defaultStream, args...)
}

// LaunchStream executes a kernel on a specific stream.
func (ctx *Context) LaunchStream(kernel Kernel, grid, block Dim3, stream *Stream, args ...interface{}) error {
	return ctx.launchInternal(kernel.Execute, grid, block, stream, args...)
}

// LaunchFuncStream executes a kernel function on a specific stream.
func (ctx *Context) LaunchFuncStream(fn KernelFunc, grid, block Dim3, stream *Stream, args ...interface{}) error {
	return ctx.launchInternal(fn, grid, block, stream, args...)
}

// Synchronize waits for all streams to complete.
func (ctx *Context) Synchronize() error {
	for _, stream := range ctx.streams {
		stream.Synchronize()
	}
	return nil
}

// Stream methods

// worker processes tasks for a stream in submission order.
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Synchronize waits for all tasks in the stream to complete.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Submit adds a task to the stream.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Helper functions

// Global returns the global thread index.
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalX returns the global X index.
func (tid ThreadID) GlobalX() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalY returns the global Y index.
func (tid ThreadID) GlobalY() int {
	return tid.BlockIdx.Y*tid.BlockDim.Y + tid.ThreadIdx.Y
}

// Size returns the total number of elements.
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// Implement KernelFunc as Kernel
func (fn KernelFunc) Execute(tid ThreadID, args ...interface{}) {
	fn(tid, args...)
}
