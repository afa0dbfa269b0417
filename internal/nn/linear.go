package nn

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ W.T + b.
//
// The weight matrix has shape [out_features, in_features] and is initialized
// with Xavier uniform values; the bias has shape [out_features] and starts
// at zero.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
	backend     B
}

// NewLinear creates a fully connected layer with bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, backend))
	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b for input [batch, in_features],
// returning [batch, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B], _ autodiff.Mode) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}

	output := input.MatMul(l.weight.Tensor().T())
	// Bias broadcasts as [1, out_features] over the batch.
	output = output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
	return output
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// StateDict exports the layer's parameters by name.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict copies parameter values from an exported state dict.
func (l *Linear[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for name, param := range map[string]*Parameter[B]{"weight": l.weight, "bias": l.bias} {
		raw, ok := state[name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", name)
		}
		want := param.Tensor().Shape()
		if !raw.Shape().Equal(want) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, want, raw.Shape())
		}
		if raw.DType() != tensor.Float32 {
			return fmt.Errorf("%s dtype mismatch: expected float32, got %s", name, raw.DType())
		}
		copy(param.Tensor().Data(), raw.AsFloat32())
	}
	return nil
}
