package nn

import (
	"math"
	"math/rand"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// Xavier creates a tensor initialized with Xavier/Glorot uniform values:
// U(-limit, limit) with limit = sqrt(6 / (fanIn + fanOut)). Keeps activation
// variance roughly constant across layers at the start of training.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	limit := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	data := t.Data()
	for i := range data {
		data[i] = (rand.Float32()*2 - 1) * limit
	}
	return t
}

// Zeros creates a zero-initialized tensor, the conventional bias init.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a one-initialized tensor.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
