package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Device identifies where tensor data lives. The training core is
// single-device; the type exists so backends can report their placement.
type Device int

// CPU is the only supported device.
const CPU Device = iota

// String returns a human-readable device name.
func (d Device) String() string {
	if d == CPU {
		return "CPU"
	}
	return "Unknown"
}

// buffer is a reference-counted byte store shared between tensor views.
// A refcount of 1 lets backends reuse the memory for in-place results.
type buffer struct {
	data     []byte
	refCount atomic.Int32
}

func newBuffer(size int) *buffer {
	b := &buffer{data: make([]byte, size)}
	b.refCount.Store(1)
	return b
}

func (b *buffer) addRef()        { b.refCount.Add(1) }
func (b *buffer) release()       { b.refCount.Add(-1) }
func (b *buffer) isUnique() bool { return b.refCount.Load() == 1 }

// RawTensor is the dtype-erased buffer the graph operates on. Its shape is
// fixed at construction; the value is treated as immutable once an operation
// has consumed it during a forward pass.
type RawTensor struct {
	buf    *buffer
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		buf:    newBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.Strides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape { return r.shape }

// Strides returns the tensor's row-major memory strides.
func (r *RawTensor) Strides() []int { return r.stride }

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType { return r.dtype }

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device { return r.device }

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int { return r.shape.NumElements() }

// IsScalar reports whether the tensor holds exactly one element.
func (r *RawTensor) IsScalar() bool { return r.shape.IsScalar() }

// Data returns the raw byte store. Mutating it mutates the tensor.
func (r *RawTensor) Data() []byte { return r.buf.data }

// AsFloat32 reinterprets the data as []float32.
// Panics if the dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsFloat64 reinterprets the data as []float64.
// Panics if the dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsInt32 reinterprets the data as []int32.
// Panics if the dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsInt64 reinterprets the data as []int64.
// Panics if the dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// Clone returns a view sharing the same buffer with an incremented refcount.
// The buffer is only mutated in place by backends when the refcount is 1, so
// cloned views behave as copy-on-write.
func (r *RawTensor) Clone() *RawTensor {
	r.buf.addRef()
	return &RawTensor{
		buf:    r.buf,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// IsUnique reports whether this tensor is the only reference to its buffer.
// Backends may overwrite unique buffers in place.
func (r *RawTensor) IsUnique() bool { return r.buf.isUnique() }

// Pin temporarily raises the refcount so backends cannot reuse the buffer
// in place. The graph pins operation inputs for the duration of the forward
// call: an in-place result would corrupt the values the backward pass needs.
// The returned func must be deferred to release the pin.
func (r *RawTensor) Pin() func() {
	r.buf.addRef()
	return r.buf.release
}

// String returns a short description of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
