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

// Package losses have the standard elementwise losses used to train a model.
//
// Losses are not reduced: Loss returns one value per output unit, and callers reduce as needed
// (see Sum). Derivative returns dLoss/dPredicted, also per unit.
package losses

import (
	"math"
	"strings"

	. "github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Type is an enum for the supported losses.
type Type int

const (
	// TypeMeanSquaredError is 0.5*(expected-predicted)^2.
	TypeMeanSquaredError Type = iota

	// TypeMeanAbsoluteError is |expected-predicted|.
	TypeMeanAbsoluteError

	// TypeBinaryCrossEntropy is -(expected*log10(predicted) + (1-expected)*log10(1-predicted)).
	//
	// It is not clamped: predictions of exactly 0 or 1 yield Inf/NaN.
	TypeBinaryCrossEntropy
)

var (
	typeShortNames = map[Type]string{
		TypeMeanSquaredError:   "mse",
		TypeMeanAbsoluteError:  "mae",
		TypeBinaryCrossEntropy: "bce",
	}
	typeNames = map[Type]string{
		TypeMeanSquaredError:   "MeanSquaredError",
		TypeMeanAbsoluteError:  "MeanAbsoluteError",
		TypeBinaryCrossEntropy: "BinaryCrossEntropy",
	}
)

// String returns the short name of the loss ("mse", "mae" or "bce").
func (t Type) String() string {
	if name, found := typeShortNames[t]; found {
		return name
	}
	return "unknown"
}

// Name returns the display name of the loss.
func (t Type) Name() string {
	if name, found := typeNames[t]; found {
		return name
	}
	return "Unknown"
}

// TypeValues returns all valid losses.
func TypeValues() []Type {
	return []Type{TypeMeanSquaredError, TypeMeanAbsoluteError, TypeBinaryCrossEntropy}
}

// TypeString converts a short or display name (case-insensitive) to the corresponding Type.
func TypeString(name string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, t := range TypeValues() {
		if typeShortNames[t] == normalized || strings.ToLower(typeNames[t]) == normalized {
			return t, nil
		}
	}
	return TypeMeanSquaredError, errors.Errorf("%q does not belong to losses.Type values %v", name, TypeValues())
}

// FromName converts the name of a loss to its type. It panics if the name is invalid.
func FromName(lossName string) Type {
	loss, err := TypeString(lossName)
	if err != nil {
		Panicf("invalid loss name %q: options are %v", lossName, TypeValues())
	}
	return loss
}

// Loss returns the per-unit loss for one sample.
//
// It panics if expected and predicted have different lengths.
func (t Type) Loss(expected, predicted mat.Vector) *mat.VecDense {
	n := checkLengths(expected, predicted)
	loss := mat.NewVecDense(n, nil)
	for i := range n {
		e, p := expected.AtVec(i), predicted.AtVec(i)
		var v float64
		switch t {
		case TypeMeanSquaredError:
			diff := e - p
			v = 0.5 * diff * diff
		case TypeMeanAbsoluteError:
			v = math.Abs(e - p)
		case TypeBinaryCrossEntropy:
			v = -(e*math.Log10(p) + (1-e)*math.Log10(1-p))
		default:
			Panicf("Loss got invalid loss value %d: options are %v", int(t), TypeValues())
		}
		loss.SetVec(i, v)
	}
	return loss
}

// Derivative returns dLoss/dPredicted per unit, for one sample.
//
// MeanAbsoluteError is not differentiable where predicted == expected, and yields NaN there.
// BinaryCrossEntropy yields Inf/NaN for predictions of exactly 0 or 1.
func (t Type) Derivative(expected, predicted mat.Vector) *mat.VecDense {
	n := checkLengths(expected, predicted)
	grad := mat.NewVecDense(n, nil)
	for i := range n {
		e, p := expected.AtVec(i), predicted.AtVec(i)
		var v float64
		switch t {
		case TypeMeanSquaredError:
			v = p - e
		case TypeMeanAbsoluteError:
			switch {
			case p > e:
				v = 1
			case p < e:
				v = -1
			default:
				v = math.NaN()
			}
		case TypeBinaryCrossEntropy:
			v = (p - e) / (p * (1 - p))
		default:
			Panicf("Derivative got invalid loss value %d: options are %v", int(t), TypeValues())
		}
		grad.SetVec(i, v)
	}
	return grad
}

// Sum reduces a per-unit loss to a scalar.
func Sum(perUnit mat.Vector) float64 {
	var total float64
	for i := range perUnit.Len() {
		total += perUnit.AtVec(i)
	}
	return total
}

func checkLengths(expected, predicted mat.Vector) int {
	if expected.Len() != predicted.Len() {
		Panicf("expected has %d units, but predicted has %d", expected.Len(), predicted.Len())
	}
	return expected.Len()
}
