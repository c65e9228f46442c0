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

package data

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNormalizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 7))
	for range 20 {
		rows, cols := 1+rng.IntN(10), 1+rng.IntN(4)
		values := make([]float64, rows*cols)
		for ii := range values {
			values[ii] = (rng.Float64() - 0.5) * 1000
		}
		values[0], values[len(values)-1] = -600, 600 // Never constant.
		m := mat.NewDense(rows, cols, values)
		minValue, maxValue := MinMax(m)
		normalized, err := Normalize(m)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, mat.Min(normalized), 1e-12)
		assert.InDelta(t, 1.0, mat.Max(normalized), 1e-12)
		restored := Denormalize(normalized, minValue, maxValue)
		assert.True(t, mat.EqualApprox(m, restored, 1e-9), "round trip failed for %v", mat.Formatted(m))
	}
}

func TestNormalizeGlobal(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		0, 10,
		5, 20,
	})
	normalized, err := Normalize(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 0.25, 1}, normalized.RawMatrix().Data)
	assert.Equal(t, 0.0, m.At(0, 0), "input must not be changed")
}

func TestNormalizeConstant(t *testing.T) {
	_, err := Normalize(mat.NewDense(2, 2, []float64{3, 3, 3, 3}))
	require.ErrorIs(t, err, ErrConstantMatrix)
	_, err = Normalize(&mat.Dense{})
	require.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestShuffle(t *testing.T) {
	const numRows = 50
	in := mat.NewDense(numRows, 2, nil)
	out := mat.NewDense(numRows, 1, nil)
	for row := range numRows {
		in.Set(row, 0, float64(row))
		in.Set(row, 1, float64(-row))
		out.Set(row, 0, float64(2*row))
	}
	require.NoError(t, Shuffle(in, out, rand.New(rand.NewPCG(1, 2))))

	moved := 0
	seen := make(map[int]bool, numRows)
	for row := range numRows {
		original := int(in.At(row, 0))
		if original != row {
			moved++
		}
		seen[original] = true
		assert.Equal(t, float64(-original), in.At(row, 1))
		assert.Equal(t, float64(2*original), out.At(row, 0), "row %d lost its pairing", row)
	}
	assert.Len(t, seen, numRows)
	assert.Greater(t, moved, 0)

	// Same seed, same permutation.
	in2 := mat.NewDense(numRows, 2, nil)
	out2 := mat.NewDense(numRows, 1, nil)
	for row := range numRows {
		in2.Set(row, 0, float64(row))
		in2.Set(row, 1, float64(-row))
		out2.Set(row, 0, float64(2*row))
	}
	require.NoError(t, Shuffle(in2, out2, rand.New(rand.NewPCG(1, 2))))
	assert.True(t, mat.Equal(in, in2))
	assert.True(t, mat.Equal(out, out2))

	err := Shuffle(in, mat.NewDense(3, 1, nil), rand.New(rand.NewPCG(1, 2)))
	require.ErrorIs(t, err, ErrShapeMismatch)
}
