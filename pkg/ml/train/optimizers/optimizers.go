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

// Package optimizers implements the optimizers that update the layers of a model after each
// backward pass. They all implement optimizers.Interface.
package optimizers

import (
	"fmt"
	"strings"

	. "github.com/gomlx/exceptions"
	"github.com/nnframework/nnframework/pkg/ml/nn"
	"gonum.org/v1/gonum/mat"
)

// Interface implemented by optimizer implementations.
type Interface interface {
	// Name of the optimizer, for summaries.
	Name() string

	// LearningRate used by the optimizer.
	LearningRate() float64

	// Apply updates, in place, the weights and bias of every non-input layer, using the gradients
	// stored in the layers by the last backward pass.
	Apply(layers []*nn.Layer)
}

// DefaultLearningRate is the default learning rate used by GradientDescent.
const DefaultLearningRate = 0.1

// GDConfig implements the (per-sample) gradient descent optimizer.
type GDConfig struct {
	learningRate float64
}

// GradientDescent creates an optimizer that performs gradient descent with DefaultLearningRate.
// Use WithLearningRate to change it.
func GradientDescent() *GDConfig {
	return &GDConfig{learningRate: DefaultLearningRate}
}

// NewGradientDescent returns a gradient descent optimizer with the given learning rate.
func NewGradientDescent(learningRate float64) Interface {
	return GradientDescent().WithLearningRate(learningRate).Done()
}

// WithLearningRate sets the learning rate. The default value is DefaultLearningRate.
//
// It returns itself to allow chaining.
func (gd *GDConfig) WithLearningRate(learningRate float64) *GDConfig {
	if learningRate <= 0 {
		Panicf("GradientDescent: learning rate must be positive, got %g", learningRate)
	}
	gd.learningRate = learningRate
	return gd
}

// Done returns an optimizers.Interface.
// It's a no-op since GDConfig itself implements optimizers.Interface, but it keeps it consistent with
// the builder pattern, and the returned Interface is no longer configurable.
func (gd *GDConfig) Done() Interface {
	return gd
}

// Name implements optimizers.Interface.
func (gd *GDConfig) Name() string {
	return "GradientDescent"
}

// String implements fmt.Stringer.
func (gd *GDConfig) String() string {
	return fmt.Sprintf("%s(learning_rate=%g)", gd.Name(), gd.learningRate)
}

// LearningRate implements optimizers.Interface.
func (gd *GDConfig) LearningRate() float64 {
	return gd.learningRate
}

// Apply implements optimizers.Interface. The input layer is skipped.
//
//	weights -= learningRate * weightGradient
//	bias    -= learningRate * RowMeanBroadcast(biasGradient)
func (gd *GDConfig) Apply(layers []*nn.Layer) {
	for _, layer := range layers {
		if layer.IsInput() {
			continue
		}
		weights := layer.Weights()
		var step mat.Dense
		step.Scale(gd.learningRate, layer.WeightGradient())
		weights.Sub(weights, &step)

		bias := layer.Bias()
		biasStep := RowMeanBroadcast(layer.BiasGradient())
		biasStep.Scale(gd.learningRate, biasStep)
		bias.Sub(bias, biasStep)
	}
}

// RowMeanBroadcast returns a matrix shaped as m, where every entry of row i is the mean of the row i of m.
//
// For a column vector it returns a copy of m.
func RowMeanBroadcast(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	result := mat.NewDense(rows, cols, nil)
	for i := range rows {
		var sum float64
		for j := range cols {
			sum += m.At(i, j)
		}
		mean := sum / float64(cols)
		for j := range cols {
			result.Set(i, j, mean)
		}
	}
	return result
}

// FromName returns the optimizer with the given name ("gd", "sgd" or "gradient_descent"), configured with
// learningRate. It panics if the name is invalid.
func FromName(optName string, learningRate float64) Interface {
	switch strings.ToLower(strings.TrimSpace(optName)) {
	case "gd", "sgd", "gradient_descent", "gradientdescent":
		return NewGradientDescent(learningRate)
	}
	Panicf("unknown optimizer %q: options are gd (or sgd)", optName)
	return nil
}
