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

// Package activations implements the elementwise activation functions used by the dense layers,
// together with their derivatives.
//
// An Activation is a closed variant selected by Type. Only LeakyRelu carries state (its factor).
package activations

import (
	"fmt"
	"math"
	"strings"

	. "github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrDerivativeUndefinedAtZero is returned by the derivative of Relu and LeakyRelu when evaluated at exactly 0.
//
// Callers must propagate it: there is no default value for the derivative at that point.
var ErrDerivativeUndefinedAtZero = errors.New("activation derivative undefined at zero")

// Type is an enum for the supported activation functions.
//
// It is converted to snake-format strings (e.g.: TypeLeakyRelu -> "leaky_relu"), and can be converted
// from string by using TypeString or FromName.
type Type int

const (
	// TypeIdentity is the pass-through activation, used only by the input layer.
	TypeIdentity Type = iota
	TypeSigmoid
	TypeRelu
	TypeLeakyRelu
)

// DefaultLeakyReluFactor is the slope used by LeakyRelu for negative inputs.
const DefaultLeakyReluFactor = 0.01

var typeNames = map[Type]string{
	TypeIdentity:  "identity",
	TypeSigmoid:   "sigmoid",
	TypeRelu:      "relu",
	TypeLeakyRelu: "leaky_relu",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if name, found := typeNames[t]; found {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// TypeValues returns all valid activation types.
func TypeValues() []Type {
	return []Type{TypeIdentity, TypeSigmoid, TypeRelu, TypeLeakyRelu}
}

// TypeString converts a snake-format name to the corresponding Type.
func TypeString(name string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, t := range TypeValues() {
		if typeNames[t] == normalized {
			return t, nil
		}
	}
	return TypeIdentity, errors.Errorf("%q does not belong to activations.Type values %v", name, TypeValues())
}

// FromName converts the name of an activation to its type.
// It panics with a helpful message if name is invalid.
//
// An empty string is converted to TypeIdentity.
func FromName(activationName string) Type {
	if activationName == "" {
		return TypeIdentity
	}
	activation, err := TypeString(activationName)
	if err != nil {
		Panicf("invalid activation name %q: options are %v", activationName, TypeValues())
	}
	return activation
}

// Activation is one activation function variant.
type Activation struct {
	kind   Type
	factor float64
}

// New returns the activation of the given type, with default parameters.
func New(kind Type) Activation {
	if kind == TypeLeakyRelu {
		return LeakyRelu()
	}
	return Activation{kind: kind}
}

// Identity returns the pass-through activation: f(x) = x, f'(x) = 0.
func Identity() Activation { return Activation{kind: TypeIdentity} }

// Sigmoid returns the logistic activation: f(x) = 1/(1+e^-x).
func Sigmoid() Activation { return Activation{kind: TypeSigmoid} }

// Relu returns the rectified linear activation: f(x) = max(0, x).
func Relu() Activation { return Activation{kind: TypeRelu} }

// LeakyRelu returns the leaky rectified linear activation with DefaultLeakyReluFactor.
func LeakyRelu() Activation { return LeakyReluWithFactor(DefaultLeakyReluFactor) }

// LeakyReluWithFactor returns `x if x >= 0; factor*x if x < 0`.
func LeakyReluWithFactor(factor float64) Activation {
	return Activation{kind: TypeLeakyRelu, factor: factor}
}

// Type of the activation.
func (a Activation) Type() Type { return a.kind }

// Factor is the negative slope of LeakyRelu. It is 0 for other types.
func (a Activation) Factor() float64 { return a.factor }

// Name returns the display name of the activation.
func (a Activation) Name() string {
	switch a.kind {
	case TypeIdentity:
		return "Identity"
	case TypeSigmoid:
		return "Sigmoid"
	case TypeRelu:
		return "Relu"
	case TypeLeakyRelu:
		return "LeakyRelu"
	}
	return a.kind.String()
}

// Apply the activation to a scalar.
func (a Activation) Apply(x float64) float64 {
	switch a.kind {
	case TypeIdentity:
		return x
	case TypeSigmoid:
		return sigmoid(x)
	case TypeRelu:
		return math.Max(0, x)
	case TypeLeakyRelu:
		if x >= 0 {
			return x
		}
		return a.factor * x
	default:
		Panicf("Apply got invalid activation value %d: options are %v", int(a.kind), TypeValues())
	}
	return 0
}

// Derivative of the activation at x.
//
// Relu and LeakyRelu return ErrDerivativeUndefinedAtZero if x == 0.
func (a Activation) Derivative(x float64) (float64, error) {
	switch a.kind {
	case TypeIdentity:
		return 0, nil
	case TypeSigmoid:
		s := sigmoid(x)
		return s * (1 - s), nil
	case TypeRelu:
		switch {
		case x > 0:
			return 1, nil
		case x < 0:
			return 0, nil
		}
		return 0, ErrDerivativeUndefinedAtZero
	case TypeLeakyRelu:
		switch {
		case x > 0:
			return 1, nil
		case x < 0:
			return a.factor, nil
		}
		return 0, ErrDerivativeUndefinedAtZero
	default:
		Panicf("Derivative got invalid activation value %d: options are %v", int(a.kind), TypeValues())
	}
	return 0, nil
}

// ApplyMatrix applies the activation elementwise and returns a new matrix with the results.
func (a Activation) ApplyMatrix(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	result := mat.NewDense(rows, cols, nil)
	result.Apply(func(_, _ int, v float64) float64 { return a.Apply(v) }, x)
	return result
}

// DerivativeMatrix evaluates the derivative elementwise.
//
// The first element where the derivative is undefined aborts the evaluation, and the error
// reports its position.
func (a Activation) DerivativeMatrix(x mat.Matrix) (*mat.Dense, error) {
	rows, cols := x.Dims()
	result := mat.NewDense(rows, cols, nil)
	for i := range rows {
		for j := range cols {
			d, err := a.Derivative(x.At(i, j))
			if err != nil {
				return nil, errors.WithMessagef(err, "%s derivative at element (%d, %d)", a.Name(), i, j)
			}
			result.Set(i, j, d)
		}
	}
	return result, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
