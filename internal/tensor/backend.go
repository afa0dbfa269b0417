package tensor

// Backend is the compute interface the training core runs on. A backend owns
// the numeric kernels; it does not know about gradients. The autodiff package
// wraps a Backend with a recording decorator that adds graph construction.
//
// Binary operations follow NumPy broadcasting rules and panic with a
// *ShapeError when operand shapes are incompatible, before any result is
// allocated.
type Backend interface {
	// Element-wise binary operations (broadcasting).
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix multiplication for 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Element-wise unary math.
	Pow(x *RawTensor, exponent float64) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Mean(x *RawTensor) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

// GradientRecorder is the capability interface implemented by graph-building
// backends. Watching a tensor marks it as a differentiable leaf: the backward
// pass stores a gradient for watched leaves and discards contributions to
// unwatched ones (inputs, labels).
type GradientRecorder interface {
	Watch(*RawTensor)
}
