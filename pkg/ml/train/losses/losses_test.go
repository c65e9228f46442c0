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

package losses

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMeanSquaredError(t *testing.T) {
	expected, predicted := vec(1, 0, 2), vec(0.5, 0, 4)
	loss := TypeMeanSquaredError.Loss(expected, predicted)
	assert.InDeltaSlice(t, []float64{0.125, 0, 2}, loss.RawVector().Data, 1e-12)
	assert.InDelta(t, 2.125, Sum(loss), 1e-12)

	grad := TypeMeanSquaredError.Derivative(expected, predicted)
	assert.InDeltaSlice(t, []float64{-0.5, 0, 2}, grad.RawVector().Data, 1e-12)
}

func TestMeanAbsoluteError(t *testing.T) {
	expected, predicted := vec(1, 0, 2), vec(0.5, 0, 4)
	loss := TypeMeanAbsoluteError.Loss(expected, predicted)
	assert.InDeltaSlice(t, []float64{0.5, 0, 2}, loss.RawVector().Data, 1e-12)

	grad := TypeMeanAbsoluteError.Derivative(expected, predicted)
	assert.Equal(t, -1.0, grad.AtVec(0))
	assert.True(t, math.IsNaN(grad.AtVec(1)), "derivative is undefined where predicted == expected")
	assert.Equal(t, 1.0, grad.AtVec(2))
}

func TestBinaryCrossEntropy(t *testing.T) {
	expected, predicted := vec(1, 0, 1, 1), vec(0.8, 0.7, 0.3, 0.9)
	loss := TypeBinaryCrossEntropy.Loss(expected, predicted)
	want := []float64{-math.Log10(0.8), -math.Log10(0.3), -math.Log10(0.3), -math.Log10(0.9)}
	assert.InDeltaSlice(t, want, loss.RawVector().Data, 1e-12)

	grad := TypeBinaryCrossEntropy.Derivative(expected, predicted)
	assert.InDelta(t, (0.8-1)/(0.8*0.2), grad.AtVec(0), 1e-12)
	assert.InDelta(t, 0.7/(0.7*0.3), grad.AtVec(1), 1e-12)

	// Unclamped at the boundaries.
	edge := TypeBinaryCrossEntropy.Loss(vec(1), vec(0))
	assert.True(t, math.IsInf(edge.AtVec(0), 1))
	edgeGrad := TypeBinaryCrossEntropy.Derivative(vec(1), vec(1))
	assert.True(t, math.IsNaN(edgeGrad.AtVec(0)))
}

func TestFromName(t *testing.T) {
	assert.Equal(t, TypeMeanSquaredError, FromName("mse"))
	assert.Equal(t, TypeBinaryCrossEntropy, FromName("BinaryCrossEntropy"))
	assert.Equal(t, "MeanAbsoluteError", FromName("MAE").Name())
	err := exceptions.TryCatch[error](func() { FromName("hinge") })
	require.Error(t, err)
}

func TestLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() { TypeMeanSquaredError.Loss(vec(1, 2), vec(1)) })
}
