// Package cpu implements the CPU compute backend with gonum-backed kernels.
package cpu

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/parallel"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Backend implements tensor.Backend on the host CPU. Dense linear algebra is
// delegated to gonum (BLAS gemm for matmul, vectorized float64 kernels);
// everything else runs as plain Go loops, parallelized across worker
// goroutines for large tensors.
type Backend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// NewSequential creates a CPU backend with intra-op parallelism disabled.
// Useful for deterministic profiling and tests.
func NewSequential() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *Backend) Name() string { return "CPU" }

// Device returns the compute device.
func (c *Backend) Device() tensor.Device { return c.device }

// binaryKind selects the arithmetic applied by the shared binary-op path.
type binaryKind int

const (
	kindAdd binaryKind = iota
	kindSub
	kindMul
	kindDiv
)

func (k binaryKind) String() string {
	switch k {
	case kindAdd:
		return "add"
	case kindSub:
		return "sub"
	case kindMul:
		return "mul"
	case kindDiv:
		return "div"
	default:
		return "?"
	}
}

// Add performs element-wise addition with broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary(kindAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary(kindSub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary(kindMul, a, b)
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary(kindDiv, a, b)
}

func (c *Backend) binary(kind binaryKind, a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: mixed dtypes %s and %s", kind, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(&tensor.ShapeError{Op: kind.String(), Want: a.Shape().Clone(), Got: b.Shape().Clone()})
	}

	if a.Shape().Equal(b.Shape()) {
		// Fast path: reuse a's buffer when nothing else references it.
		if a.IsUnique() {
			binaryInplace(kind, a, b)
			return a
		}
		result := mustRaw(outShape, a.DType(), c.device)
		binarySameShape(kind, result, a, b, c.par)
		return result
	}

	result := mustRaw(outShape, a.DType(), c.device)
	binaryBroadcast(kind, result, a, b, outShape, c.par)
	return result
}

// Reshape returns a tensor with the same data and a new shape.
func (c *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(&tensor.ShapeError{Op: "reshape", Want: t.Shape().Clone(), Got: newShape.Clone(),
			Msg: "element counts differ"})
	}

	result := mustRaw(newShape, t.DType(), t.Device())
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions. With no axes given, all
// dimensions are reversed.
func (c *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	result := mustRaw(newShape, t.DType(), t.Device())

	// Move whole elements as byte spans so one loop serves every dtype.
	elem := t.DType().Size()
	srcStrides := shape.Strides()
	permStrides := make([]int, ndim)
	for i, ax := range axes {
		permStrides[i] = srcStrides[ax]
	}
	dstStrides := newShape.Strides()

	src, dst := t.Data(), result.Data()
	n := t.NumElements()
	parallel.ForRange(n, c.par, func(start, end int) {
		for i := start; i < end; i++ {
			srcIdx := 0
			rem := i
			for d := 0; d < ndim; d++ {
				coord := rem / dstStrides[d]
				rem %= dstStrides[d]
				srcIdx += coord * permStrides[d]
			}
			copy(dst[i*elem:(i+1)*elem], src[srcIdx*elem:(srcIdx+1)*elem])
		}
	})

	return result
}

// mustRaw allocates a RawTensor or panics; shape validity is established by
// the callers before allocation.
func mustRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	r, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("cpu: allocation failed: %v", err))
	}
	return r
}
