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
	"math"

	"github.com/nnframework/nnframework/pkg/ml/data"
	"github.com/nnframework/nnframework/pkg/ml/train/losses"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Fit trains the model for the given number of epochs, one sample (row) at a time: for every row it
// runs the forward pass, the backward pass and the optimizer, so the weights change after every sample.
//
// inputs must have one column per unit of the input layer, and expected one column per unit of the
// output layer, with the same number of rows. The matrices given are not changed: if shuffling is
// configured, copies of them are shuffled.
//
// All preconditions are checked before any change to the model. An error during training (see
// ErrDerivativeUndefinedAtZero and ErrLossNumericHazard) aborts the call, with the layers keeping the
// updates of the samples already processed.
//
// The aggregates of every epoch are appended to the History, and OnEpoch hooks are called.
func (m *Model) Fit(inputs, expected mat.Matrix, epochs int) error {
	if err := m.checkData(inputs, expected); err != nil {
		return errors.WithMessagef(err, "Model(%s).Fit", m.name)
	}
	if epochs < 0 {
		return errors.Errorf("Model(%s).Fit: epochs must be >= 0, got %d", m.name, epochs)
	}
	trainInputs := mat.DenseCopyOf(inputs)
	trainExpected := mat.DenseCopyOf(expected)
	rows, _ := trainInputs.Dims()
	if err := m.start(epochs, rows); err != nil {
		return errors.WithMessagef(err, "Model(%s).Fit", m.name)
	}

	shuffle := m.config.Shuffle()
	for epoch := range epochs {
		if shuffle.Enabled && uint(epoch)%shuffle.Step == 0 {
			if err := data.Shuffle(trainInputs, trainExpected, m.shuffleRng); err != nil {
				return errors.WithMessagef(err, "Model(%s).Fit(epoch=%d)", m.name, epoch)
			}
		}
		var sumLoss, sumMetric float64
		for row := range rows {
			sampleLoss, sampleMetric, err := m.trainSample(trainInputs.RawRowView(row), trainExpected.RowView(row))
			if err != nil {
				return errors.WithMessagef(err, "Model(%s).Fit(epoch=%d, row=%d)", m.name, epoch, row)
			}
			sumLoss += sampleLoss
			sumMetric += sampleMetric
		}
		stats := EpochStats{
			Epoch:  epoch,
			Epochs: epochs,
			Loss:   sumLoss / float64(rows),
			Metric: sumMetric / float64(rows),
		}
		m.history.Loss = append(m.history.Loss, stats.Loss)
		m.history.Metric = append(m.history.Metric, stats.Metric)
		klog.V(1).Infof("Model(%s) epoch %d/%d: loss=%g %s=%s", m.name, epoch+1, epochs,
			stats.Loss, m.config.Metric().ShortName(), m.config.Metric().PrettyPrint(stats.Metric))
		if err := m.epochDone(stats); err != nil {
			return errors.WithMessagef(err, "Model(%s).Fit", m.name)
		}
	}
	if err := m.end(); err != nil {
		return errors.WithMessagef(err, "Model(%s).Fit", m.name)
	}
	return nil
}

// Predict runs the forward pass for each row of inputs and returns a matrix with the output layer
// activations, one row per input row.
func (m *Model) Predict(inputs mat.Matrix) (*mat.Dense, error) {
	if err := m.checkData(inputs, nil); err != nil {
		return nil, errors.WithMessagef(err, "Model(%s).Predict", m.name)
	}
	rows, _ := inputs.Dims()
	output := m.outputLayer()
	predictions := mat.NewDense(rows, output.Width(), nil)
	row := make([]float64, m.inputLayer().Width())
	for r := range rows {
		mat.Row(row, r, inputs)
		if err := m.forward(row); err != nil {
			return nil, errors.WithMessagef(err, "Model(%s).Predict(row=%d)", m.name, r)
		}
		predictions.SetRow(r, output.A().RawMatrix().Data)
	}
	return predictions, nil
}

// checkData checks the preconditions of Fit, in order. expected is nil for Predict.
func (m *Model) checkData(inputs, expected mat.Matrix) error {
	if !m.compiled {
		return errors.WithStack(ErrModelNotCompiled)
	}
	inRows, inCols := dims(inputs)
	if inRows == 0 || inCols == 0 {
		return errors.WithMessagef(ErrEmptyData, "inputs shaped (%d, %d)", inRows, inCols)
	}
	if expected == nil {
		if inCols != m.inputLayer().Width() {
			return errors.WithMessagef(ErrColumnCountMismatch, "inputs have %d columns, input layer has width %d",
				inCols, m.inputLayer().Width())
		}
		return nil
	}
	expRows, expCols := dims(expected)
	if expRows == 0 || expCols == 0 {
		return errors.WithMessagef(ErrEmptyData, "expected shaped (%d, %d)", expRows, expCols)
	}
	if inRows != expRows {
		return errors.WithMessagef(ErrRowCountMismatch, "inputs have %d rows, expected has %d rows", inRows, expRows)
	}
	if inCols != m.inputLayer().Width() {
		return errors.WithMessagef(ErrColumnCountMismatch, "inputs have %d columns, input layer has width %d",
			inCols, m.inputLayer().Width())
	}
	if expCols != m.outputLayer().Width() {
		return errors.WithMessagef(ErrColumnCountMismatch, "expected has %d columns, output layer has width %d",
			expCols, m.outputLayer().Width())
	}
	return nil
}

// dims handles nil and empty matrices, for which gonum's Dims may panic.
func dims(x mat.Matrix) (rows, cols int) {
	if x == nil {
		return 0, 0
	}
	if d, ok := x.(*mat.Dense); ok && d.IsEmpty() {
		return 0, 0
	}
	return x.Dims()
}

// trainSample runs forward, backward and optimizer for one sample and returns its summed loss and metric score.
func (m *Model) trainSample(inputRow []float64, expectedRow mat.Vector) (sampleLoss, sampleMetric float64, err error) {
	if err = m.forward(inputRow); err != nil {
		return
	}
	predicted := m.outputLayer().A().ColView(0)
	loss := m.config.Loss()
	sampleLoss = losses.Sum(loss.Loss(expectedRow, predicted))
	if math.IsNaN(sampleLoss) || math.IsInf(sampleLoss, 0) {
		err = errors.WithMessagef(ErrLossNumericHazard, "%s loss is %g", loss.Name(), sampleLoss)
		return
	}
	sampleMetric = m.config.Metric().Score(expectedRow, predicted)
	if err = m.backward(expectedRow); err != nil {
		return
	}
	m.config.Optimizer().Apply(m.layers)
	return
}

// forward runs the forward pass for one sample, input layer first.
func (m *Model) forward(inputRow []float64) error {
	if err := m.inputLayer().ForwardInput(inputRow); err != nil {
		return err
	}
	for id := 1; id < len(m.layers); id++ {
		m.layers[id].Forward(m.layers[id-1].A())
	}
	return nil
}

// backward computes the gradients of all non-input layers for the sample of the last forward pass,
// from the output layer backwards.
func (m *Model) backward(expectedRow mat.Vector) error {
	output := m.outputLayer()
	lossGrad := m.config.Loss().Derivative(expectedRow, output.A().ColView(0))
	for i := range lossGrad.Len() {
		if v := lossGrad.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.WithMessagef(ErrLossNumericHazard, "%s loss derivative is %g for output unit %d",
				m.config.Loss().Name(), v, i)
		}
	}
	activationGrad, err := output.Activation().DerivativeMatrix(output.Z())
	if err != nil {
		return errors.WithMessagef(err, "backward pass, layer #%d", output.ID())
	}
	delta := mat.NewDense(output.Width(), 1, nil)
	delta.MulElem(lossGrad, activationGrad)
	output.SetGradients(delta, m.layers[output.ID()-1].A())

	for id := len(m.layers) - 2; id >= 1; id-- {
		layer := m.layers[id]
		activationGrad, err = layer.Activation().DerivativeMatrix(layer.Z())
		if err != nil {
			return errors.WithMessagef(err, "backward pass, layer #%d", id)
		}
		// delta' = W_{i+1}ᵀ·delta ⊙ f'(Z_i), the column-vector form of (deltaᵀ·W_{i+1})ᵀ.
		next := mat.NewDense(layer.Width(), 1, nil)
		next.Mul(m.layers[id+1].Weights().T(), delta)
		next.MulElem(next, activationGrad)
		layer.SetGradients(next, m.layers[id-1].A())
		delta = next
	}
	return nil
}
