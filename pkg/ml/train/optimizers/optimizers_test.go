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

package optimizers

import (
	"testing"

	"github.com/nnframework/nnframework/pkg/ml/layers/activations"
	"github.com/nnframework/nnframework/pkg/ml/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type zeroInitializer struct{}

func (zeroInitializer) Initialize(*mat.Dense, activations.Type, int, int) {}

func buildLayers() []*nn.Layer {
	input := nn.NewLayer(0, 2, activations.Identity())
	input.Initialize(2, zeroInitializer{})
	hidden := nn.NewLayer(1, 2, activations.Relu())
	hidden.Initialize(2, zeroInitializer{})
	return []*nn.Layer{input, hidden}
}

func TestGradientDescentApply(t *testing.T) {
	layers := buildLayers()
	hidden := layers[1]
	hidden.Weights().Copy(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	hidden.SetGradients(
		mat.NewDense(2, 1, []float64{1, -1}),
		mat.NewDense(2, 1, []float64{2, 4}))
	layers[0].WeightGradient().Copy(mat.NewDense(2, 2, []float64{100, 100, 100, 100}))

	opt := NewGradientDescent(0.5)
	opt.Apply(layers)

	// weights -= 0.5 * [[2, 4], [-2, -4]]
	assert.InDeltaSlice(t, []float64{0, 0, 4, 6}, hidden.Weights().RawMatrix().Data, 1e-12)
	// bias = ones - 0.5 * [1, -1]
	assert.InDeltaSlice(t, []float64{0.5, 1.5}, hidden.Bias().RawMatrix().Data, 1e-12)
	// Input layer is never updated.
	assert.Equal(t, 0.0, mat.Sum(layers[0].Weights()))
	assert.Equal(t, 0.0, mat.Sum(layers[0].Bias()))
}

func TestRowMeanBroadcast(t *testing.T) {
	column := mat.NewDense(3, 1, []float64{1, 2, 3})
	assert.True(t, mat.Equal(column, RowMeanBroadcast(column)), "no-op for a single column")

	multi := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		0, 0, 6,
	})
	got := RowMeanBroadcast(multi)
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, got.RawMatrix().Data)
	multi.Set(1, 2, 9)
	got = RowMeanBroadcast(multi)
	assert.Equal(t, []float64{2, 2, 2, 3, 3, 3}, got.RawMatrix().Data)
}

func TestBuilder(t *testing.T) {
	opt := GradientDescent().WithLearningRate(0.01).Done()
	assert.Equal(t, 0.01, opt.LearningRate())
	assert.Equal(t, "GradientDescent", opt.Name())
	assert.Equal(t, DefaultLearningRate, GradientDescent().LearningRate())
	assert.Equal(t, 0.2, FromName("sgd", 0.2).LearningRate())
	require.Panics(t, func() { GradientDescent().WithLearningRate(0) })
}
