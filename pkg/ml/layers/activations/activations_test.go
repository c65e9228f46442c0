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

package activations

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSigmoidDerivativeIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 42))
	sig := Sigmoid()
	for range 1000 {
		x := (rng.Float64()*2 - 1) * 50
		s := sig.Apply(x)
		d, err := sig.Derivative(x)
		require.NoError(t, err)
		require.InDelta(t, s*(1-s), d, 1e-9, "x=%g", x)
	}
}

func TestSigmoid(t *testing.T) {
	sig := Sigmoid()
	assert.InDelta(t, 0.5, sig.Apply(0), 1e-12)
	assert.InDelta(t, 0.7310585786300049, sig.Apply(1), 1e-12)
	assert.InDelta(t, 0.2689414213699951, sig.Apply(-1), 1e-12)
}

func TestRelu(t *testing.T) {
	relu := Relu()
	got := relu.ApplyMatrix(mat.NewDense(1, 7, []float64{0, -1, 2, -3, 4, -5, 6}))
	assert.Equal(t, []float64{0, 0, 2, 0, 4, 0, 6}, got.RawMatrix().Data)

	d, err := relu.Derivative(2.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)
	d, err = relu.Derivative(-2.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
	_, err = relu.Derivative(0)
	require.ErrorIs(t, err, ErrDerivativeUndefinedAtZero)
}

func TestLeakyRelu(t *testing.T) {
	leaky := LeakyRelu()
	got := leaky.ApplyMatrix(mat.NewDense(1, 7, []float64{0, -1, 2, -3, 4, -5, 6}))
	assert.InDeltaSlice(t, []float64{0, -0.01, 2, -0.03, 4, -0.05, 6}, got.RawMatrix().Data, 1e-12)

	d, err := leaky.Derivative(2.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)
	d, err = leaky.Derivative(-2.5)
	require.NoError(t, err)
	assert.Equal(t, DefaultLeakyReluFactor, d)
	_, err = leaky.Derivative(0)
	require.ErrorIs(t, err, ErrDerivativeUndefinedAtZero)

	custom := LeakyReluWithFactor(0.3)
	assert.InDelta(t, -0.9, custom.Apply(-3), 1e-12)
	d, err = custom.Derivative(-1)
	require.NoError(t, err)
	assert.Equal(t, 0.3, d)
}

func TestIdentity(t *testing.T) {
	id := Identity()
	assert.Equal(t, -7.5, id.Apply(-7.5))
	for _, x := range []float64{-1, 0, 1} {
		d, err := id.Derivative(x)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	}
}

func TestDerivativeMatrix(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{-2, 1, 3})
	d, err := Relu().DerivativeMatrix(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1}, d.RawMatrix().Data)

	x.Set(1, 0, 0)
	_, err = Relu().DerivativeMatrix(x)
	require.ErrorIs(t, err, ErrDerivativeUndefinedAtZero)

	sig, err := Sigmoid().DerivativeMatrix(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, sig.At(1, 0), 1e-12)
	assert.False(t, math.IsNaN(sig.At(0, 0)))
}

func TestFromName(t *testing.T) {
	assert.Equal(t, TypeIdentity, FromName(""))
	assert.Equal(t, TypeLeakyRelu, FromName("leaky_relu"))
	assert.Equal(t, TypeSigmoid, FromName("Sigmoid"))
	for _, kind := range TypeValues() {
		assert.Equal(t, kind, FromName(kind.String()))
	}
	err := exceptions.TryCatch[error](func() { FromName("tanh") })
	require.Error(t, err)

	assert.Equal(t, DefaultLeakyReluFactor, New(TypeLeakyRelu).Factor())
	assert.Equal(t, "LeakyRelu", New(TypeLeakyRelu).Name())
}
