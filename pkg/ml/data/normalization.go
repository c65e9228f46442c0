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

// Package data holds the stateless utilities used to prepare the training data of a model:
// global min/max normalization, paired shuffling and loading of whitespace-delimited text files.
package data

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrConstantMatrix is returned by Normalize when all entries of the matrix are equal.
	ErrConstantMatrix = errors.New("matrix is constant, it can't be normalized")

	// ErrShapeMismatch is returned when paired matrices don't have the same number of rows.
	ErrShapeMismatch = errors.New("matrices shapes don't match")

	// ErrEmptyMatrix is returned for matrices with no entries.
	ErrEmptyMatrix = errors.New("matrix is empty")
)

// MinMax returns the global minimum and maximum of all entries of m.
func MinMax(m mat.Matrix) (minValue, maxValue float64) {
	return mat.Min(m), mat.Max(m)
}

// Normalize returns a new matrix with every entry mapped to (x - min) / (max - min), where min and max
// are the global (not per-column) minimum and maximum of m.
//
// Use Denormalize with the values from MinMax to revert it.
func Normalize(m mat.Matrix) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.WithStack(ErrEmptyMatrix)
	}
	minValue, maxValue := MinMax(m)
	valueRange := maxValue - minValue
	if valueRange == 0 || math.IsNaN(valueRange) {
		return nil, errors.WithMessagef(ErrConstantMatrix, "Normalize(min=%g, max=%g)", minValue, maxValue)
	}
	result := mat.NewDense(rows, cols, nil)
	result.Apply(func(_, _ int, v float64) float64 {
		return (v - minValue) / valueRange
	}, m)
	return result, nil
}

// Denormalize reverts Normalize: it returns a new matrix with every entry mapped to x * (max - min) + min.
func Denormalize(m mat.Matrix, minValue, maxValue float64) *mat.Dense {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	result := mat.NewDense(rows, cols, nil)
	result.Apply(func(_, _ int, v float64) float64 {
		return v*(maxValue-minValue) + minValue
	}, m)
	return result
}

// Shuffle permutes, in place, the rows of in and out with the same random permutation, so rows that
// were paired (same index) before the call remain paired.
//
// The permutation is drawn from rng: the same seed yields the same permutation.
func Shuffle(in, out *mat.Dense, rng *rand.Rand) error {
	inRows, _ := in.Dims()
	outRows, _ := out.Dims()
	if inRows != outRows {
		return errors.WithMessagef(ErrShapeMismatch, "Shuffle: inputs have %d rows, outputs have %d rows",
			inRows, outRows)
	}
	rng.Shuffle(inRows, func(i, j int) {
		swapRows(in, i, j)
		swapRows(out, i, j)
	})
	return nil
}

func swapRows(m *mat.Dense, i, j int) {
	if i == j {
		return
	}
	rowI, rowJ := m.RawRowView(i), m.RawRowView(j)
	for k := range rowI {
		rowI[k], rowJ[k] = rowJ[k], rowI[k]
	}
}
