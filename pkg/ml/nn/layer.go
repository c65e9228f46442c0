/*
 *	Copyright 2026 The nnframework Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package nn holds the fully-connected layer used by the models.
//
// A Layer owns all of its buffers (weights, bias, pre-activations, activations and gradients).
// Buffers are column vectors of shape (width, 1), and weights have shape (width, prevWidth).
package nn

import (
	. "github.com/gomlx/exceptions"
	"github.com/nnframework/nnframework/pkg/ml/layers/activations"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// InputLayerID is the id of the input layer: it has no weights and a fixed Identity activation.
const InputLayerID = 0

// WeightInitializer fills a weight matrix in place. See initializer.Initializer.
type WeightInitializer interface {
	Initialize(weights *mat.Dense, kind activations.Type, fanIn, fanOut int)
}

// Layer is one fully-connected stage of the network.
type Layer struct {
	id, width  int
	activation activations.Activation

	weights, bias                *mat.Dense
	z, a                         *mat.Dense
	weightGradient, biasGradient *mat.Dense
	learnableCoeffs              int
	initialized                  bool
}

// NewLayer creates a layer at position id with the given width.
//
// The input layer (id == InputLayerID) always uses the Identity activation, whatever is given.
// It panics if width is not positive.
func NewLayer(id, width int, activation activations.Activation) *Layer {
	if width <= 0 {
		Panicf("nn.NewLayer(id=%d): width must be positive, got %d", id, width)
	}
	if id == InputLayerID && activation.Type() != activations.TypeIdentity {
		klog.Warningf("nn.NewLayer: input layer activation %s replaced by Identity", activation.Name())
		activation = activations.Identity()
	}
	return &Layer{id: id, width: width, activation: activation}
}

// ID is the position of the layer: 0 for the input layer.
func (l *Layer) ID() int { return l.id }

// Width is the number of perceptrons.
func (l *Layer) Width() int { return l.width }

// IsInput returns whether this is the input layer.
func (l *Layer) IsInput() bool { return l.id == InputLayerID }

// Activation of the layer.
func (l *Layer) Activation() activations.Activation { return l.activation }

// LearnableCoeffs is the number of learnable coefficients, computed by Initialize.
func (l *Layer) LearnableCoeffs() int { return l.learnableCoeffs }

// Initialized returns whether Initialize has been called.
func (l *Layer) Initialized() bool { return l.initialized }

// Weights matrix, shape (width, prevWidth). Owned by the layer: it's mutated in place by optimizers.
func (l *Layer) Weights() *mat.Dense { return l.weights }

// Bias column vector, shape (width, 1).
func (l *Layer) Bias() *mat.Dense { return l.bias }

// Z is the pre-activation of the last forward pass, shape (width, 1).
func (l *Layer) Z() *mat.Dense { return l.z }

// A is the activation of the last forward pass, shape (width, 1).
func (l *Layer) A() *mat.Dense { return l.a }

// WeightGradient of the last backward pass, same shape as Weights.
func (l *Layer) WeightGradient() *mat.Dense { return l.weightGradient }

// BiasGradient of the last backward pass, same shape as Bias.
func (l *Layer) BiasGradient() *mat.Dense { return l.biasGradient }

// Initialize allocates all buffers for a previous layer of width prevWidth.
//
// The input layer gets zero weights and bias and no learnable coefficients. Other layers get
// weights from weightInit, a bias of ones, and width*(2*prevWidth)+1 learnable coefficients.
//
// It can be called again: all buffers are reallocated.
func (l *Layer) Initialize(prevWidth int, weightInit WeightInitializer) {
	if prevWidth <= 0 {
		Panicf("nn.Layer(id=%d).Initialize: prevWidth must be positive, got %d", l.id, prevWidth)
	}
	l.weights = mat.NewDense(l.width, prevWidth, nil)
	l.bias = mat.NewDense(l.width, 1, nil)
	l.z = mat.NewDense(l.width, 1, nil)
	l.a = mat.NewDense(l.width, 1, nil)
	l.weightGradient = mat.NewDense(l.width, prevWidth, nil)
	l.biasGradient = mat.NewDense(l.width, 1, nil)

	if l.IsInput() {
		l.learnableCoeffs = 0
	} else {
		weightInit.Initialize(l.weights, l.activation.Type(), prevWidth, l.width)
		for i := range l.width {
			l.bias.Set(i, 0, 1)
		}
		// Counts each weight twice (weight and input), plus one for the bias.
		l.learnableCoeffs = l.width*(2*prevWidth) + 1
	}
	l.initialized = true
}

// ForwardInput sets Z = A = row (as a column vector). Only valid for the input layer.
func (l *Layer) ForwardInput(row []float64) error {
	if !l.IsInput() {
		return errors.Errorf("nn.Layer(id=%d).ForwardInput: only valid for the input layer", l.id)
	}
	if len(row) != l.width {
		return errors.Errorf("nn.Layer(id=%d).ForwardInput: row has %d values, but layer width is %d",
			l.id, len(row), l.width)
	}
	for i, v := range row {
		l.z.Set(i, 0, v)
		l.a.Set(i, 0, v)
	}
	return nil
}

// Forward computes Z = W·prevA + b and A = activation(Z).
func (l *Layer) Forward(prevA *mat.Dense) {
	l.z.Mul(l.weights, prevA)
	l.z.Add(l.z, l.bias)
	activation := l.activation
	l.a.Apply(func(_, _ int, v float64) float64 { return activation.Apply(v) }, l.z)
}

// SetGradients stores the gradients for the error term delta (shape (width, 1)):
// the weight gradient is delta·prevAᵀ and the bias gradient is delta.
func (l *Layer) SetGradients(delta, prevA *mat.Dense) {
	l.weightGradient.Mul(delta, prevA.T())
	l.biasGradient.Copy(delta)
}
