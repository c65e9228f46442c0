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

package model

import (
	"github.com/nnframework/nnframework/pkg/ml/layers/activations"
	"github.com/pkg/errors"
)

var (
	// ErrModelNotCompiled is returned by operations that require Model.Compile to be called first.
	ErrModelNotCompiled = errors.New("model not compiled")

	// ErrAlreadyCompiled is returned by Model.AddLayer after the model has been compiled.
	ErrAlreadyCompiled = errors.New("model already compiled")

	// ErrEmptyData is returned by Fit and Predict when given matrices with no rows or columns.
	ErrEmptyData = errors.New("empty data")

	// ErrRowCountMismatch is returned by Fit when inputs and expected have a different number of rows.
	ErrRowCountMismatch = errors.New("row count mismatch")

	// ErrColumnCountMismatch is returned when the columns of the data don't match the width of the
	// input or output layers.
	ErrColumnCountMismatch = errors.New("column count mismatch")

	// ErrDerivativeUndefinedAtZero is returned by Fit when the backward pass evaluates the
	// derivative of Relu or LeakyRelu at exactly 0.
	ErrDerivativeUndefinedAtZero = activations.ErrDerivativeUndefinedAtZero

	// ErrLossNumericHazard is returned by Fit when the loss of a sample, or its derivative, is NaN or infinite.
	// It happens for instance with binary cross-entropy when a prediction is exactly 0 or 1.
	ErrLossNumericHazard = errors.New("loss is NaN or infinite")

	// ErrInvalidTopology is returned by Compile for models with fewer than 2 layers.
	ErrInvalidTopology = errors.New("invalid model topology")

	// ErrInvalidConfiguration is returned by Compile for an incomplete or inconsistent Configuration.
	ErrInvalidConfiguration = errors.New("invalid model configuration")

	// ErrNotImplemented is returned by the persistence operations.
	ErrNotImplemented = errors.New("not implemented")
)
