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

// Package metrics holds the quality scores reported while training a model.
//
// A metric reduces one sample (expected vs. predicted output units) to a scalar. The set of
// metrics is closed: ClassificationAccuracy, MeanSquaredError and MeanAbsoluteError.
package metrics

import (
	"fmt"
	"math"
	"strings"

	. "github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/mat"
)

// Interface for a Metric.
type Interface interface {
	// Name of the metric.
	Name() string

	// ShortName is a shortened version of the name (preferably a few characters) to display in progress bars or
	// similar UIs.
	ShortName() string

	// MetricType is a key for metrics that share the same quantity or semantics, and can be displayed
	// on the same plot, sharing the Y-axis.
	MetricType() string

	// Score returns the metric for one sample.
	Score(expected, predicted mat.Vector) float64

	// PrettyPrint is used to pretty-print a metric value, usually in a short form.
	PrettyPrint(value float64) string

	isMetric()
}

const (
	// LossMetricType is the type of loss metrics.
	// Used to aggregate metrics of the same type in the same plot.
	LossMetricType = "loss"

	// AccuracyMetricType is the type of accuracy metrics.
	AccuracyMetricType = "accuracy"

	// DefaultAccuracyThreshold is the largest |expected-predicted| still counted as a correct unit.
	DefaultAccuracyThreshold = 0.1
)

// baseMetric implements the common parts of metrics.Interface.
type baseMetric struct {
	name, shortName, metricType string
	scoreFn                     func(expected, predicted mat.Vector) float64
	pPrintFn                    func(value float64) string // if nil will display default.
}

func (m *baseMetric) Name() string {
	return m.name
}

func (m *baseMetric) ShortName() string {
	return m.shortName
}

func (m *baseMetric) MetricType() string {
	return m.metricType
}

func (m *baseMetric) Score(expected, predicted mat.Vector) float64 {
	if expected.Len() != predicted.Len() {
		Panicf("metric %q: expected has %d units, but predicted has %d", m.name, expected.Len(), predicted.Len())
	}
	return m.scoreFn(expected, predicted)
}

func (m *baseMetric) PrettyPrint(value float64) string {
	if m.pPrintFn == nil {
		return fmt.Sprintf("%.4g", value)
	}
	return m.pPrintFn(value)
}

func (m *baseMetric) isMetric() {}

// ClassificationAccuracy is the fraction of units whose prediction is within Threshold of the expected value.
type ClassificationAccuracy struct {
	baseMetric
	Threshold float64
}

// NewClassificationAccuracy returns the accuracy metric with DefaultAccuracyThreshold.
func NewClassificationAccuracy() *ClassificationAccuracy {
	return NewClassificationAccuracyWithThreshold(DefaultAccuracyThreshold)
}

// NewClassificationAccuracyWithThreshold returns the accuracy metric with the given threshold.
func NewClassificationAccuracyWithThreshold(threshold float64) *ClassificationAccuracy {
	acc := &ClassificationAccuracy{Threshold: threshold}
	acc.baseMetric = baseMetric{
		name:       "ClassificationAccuracy",
		shortName:  "acc",
		metricType: AccuracyMetricType,
		scoreFn: func(expected, predicted mat.Vector) float64 {
			n := expected.Len()
			if n == 0 {
				return 0
			}
			var correct int
			for i := range n {
				if math.Abs(expected.AtVec(i)-predicted.AtVec(i)) <= acc.Threshold {
					correct++
				}
			}
			return float64(correct) / float64(n)
		},
		pPrintFn: func(value float64) string {
			return fmt.Sprintf("%.2f%%", value*100)
		},
	}
	return acc
}

// MeanSquaredError is the mean over units of (expected-predicted)^2.
type MeanSquaredError struct {
	baseMetric
}

// NewMeanSquaredError returns the mean squared error metric.
func NewMeanSquaredError() *MeanSquaredError {
	return &MeanSquaredError{baseMetric{
		name:       "MeanSquaredError",
		shortName:  "mse",
		metricType: LossMetricType,
		scoreFn: func(expected, predicted mat.Vector) float64 {
			return meanOf(expected, predicted, func(diff float64) float64 { return diff * diff })
		},
	}}
}

// MeanAbsoluteError is the mean over units of |expected-predicted|.
type MeanAbsoluteError struct {
	baseMetric
}

// NewMeanAbsoluteError returns the mean absolute error metric.
func NewMeanAbsoluteError() *MeanAbsoluteError {
	return &MeanAbsoluteError{baseMetric{
		name:       "MeanAbsoluteError",
		shortName:  "mae",
		metricType: LossMetricType,
		scoreFn: func(expected, predicted mat.Vector) float64 {
			return meanOf(expected, predicted, math.Abs)
		},
	}}
}

func meanOf(expected, predicted mat.Vector, fn func(diff float64) float64) float64 {
	n := expected.Len()
	if n == 0 {
		return 0
	}
	var total float64
	for i := range n {
		total += fn(expected.AtVec(i) - predicted.AtVec(i))
	}
	return total / float64(n)
}

// FromName returns a new metric for the given name: "accuracy" (or "acc"), "mse" or "mae".
// It panics with a helpful message if the name is invalid.
func FromName(metricName string) Interface {
	switch strings.ToLower(strings.TrimSpace(metricName)) {
	case "accuracy", "acc", "classificationaccuracy":
		return NewClassificationAccuracy()
	case "mse", "meansquarederror":
		return NewMeanSquaredError()
	case "mae", "meanabsoluteerror":
		return NewMeanAbsoluteError()
	}
	Panicf("invalid metric name %q: options are accuracy, mse or mae", metricName)
	return nil
}
