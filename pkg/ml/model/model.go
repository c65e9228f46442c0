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

// Package model implements the feed-forward neural network: an ordered list of fully-connected layers
// trained one sample at a time.
//
// The life-cycle of a Model is:
//
//	m := model.New()
//	_ = m.AddLayer(1, activations.Identity()) // Input layer.
//	_ = m.AddLayer(20, activations.LeakyRelu())
//	_ = m.AddLayer(1, activations.Sigmoid()) // Output layer.
//	err := m.Compile(model.NewConfiguration(losses.TypeMeanSquaredError, metrics.NewMeanSquaredError(),
//		optimizers.NewGradientDescent(0.1), model.NoShuffle))
//	err = m.Fit(inputs, targets, 50)
//	predictions, err := m.Predict(inputs)
//
// Layers can only be added before Compile. Fit and Predict require a compiled model. Compile can be
// called again, and it re-initializes all the layers.
//
// A Model is not safe for concurrent use.
package model

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/nnframework/nnframework/pkg/ml/initializer"
	"github.com/nnframework/nnframework/pkg/ml/layers/activations"
	"github.com/nnframework/nnframework/pkg/ml/nn"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// History holds the per-epoch aggregates of all Fit calls, one entry per epoch.
// It is append-only.
type History struct {
	// Loss is the sum of the summed per-unit loss of every sample, divided by the number of samples.
	Loss []float64

	// Metric is the mean of the metric score of every sample.
	Metric []float64
}

// Len returns the number of epochs recorded.
func (h History) Len() int { return len(h.Loss) }

// Model is a feed-forward neural network of fully-connected layers.
type Model struct {
	name   string
	layers []*nn.Layer
	config *Configuration

	weightInit      *initializer.Initializer
	shuffleRng      *rand.Rand
	learnableCoeffs int
	compiled        bool
	history         History

	onStart *priorityHooks[*hookWithName[OnStartFn]]
	onEpoch *priorityHooks[*hookWithName[OnEpochFn]]
	onEnd   *priorityHooks[*hookWithName[OnEndFn]]
}

// New creates an empty model, with a randomly seeded random number engine.
func New() *Model {
	return NewWithSeed(rand.Uint64())
}

// NewWithSeed creates an empty model whose weight initialization and data shuffling are drawn from
// random engines seeded with seed: two models with the same seed, layers and configuration train
// the same way.
func NewWithSeed(seed uint64) *Model {
	return &Model{
		name:       uuid.NewString(),
		weightInit: initializer.New(seed),
		shuffleRng: rand.New(rand.NewPCG(seed, seed+1)),
		onStart:    newPriorityHooks[*hookWithName[OnStartFn]](),
		onEpoch:    newPriorityHooks[*hookWithName[OnEpochFn]](),
		onEnd:      newPriorityHooks[*hookWithName[OnEndFn]](),
	}
}

// Name is a unique identifier of the model, used in logs.
func (m *Model) Name() string { return m.name }

// WithName sets the name of the model. It returns itself to allow chaining.
func (m *Model) WithName(name string) *Model {
	m.name = name
	return m
}

// AddLayer appends a fully-connected layer with the given width and activation. The first layer added
// is the input layer, and its activation is always Identity.
//
// It fails with ErrAlreadyCompiled after Compile, and with ErrInvalidTopology for non-positive widths.
func (m *Model) AddLayer(width int, activation activations.Activation) error {
	if m.compiled {
		return errors.WithMessagef(ErrAlreadyCompiled, "Model(%s).AddLayer(width=%d)", m.name, width)
	}
	if width <= 0 {
		return errors.WithMessagef(ErrInvalidTopology, "Model(%s).AddLayer: width must be positive, got %d", m.name, width)
	}
	m.layers = append(m.layers, nn.NewLayer(len(m.layers), width, activation))
	return nil
}

// Compile binds the configuration to the model and initializes the weights of all layers.
//
// It can be called more than once: each call re-initializes all the layers from scratch (drawing new
// weights from the same random engine) and recounts the learnable coefficients. The History is kept.
func (m *Model) Compile(config *Configuration) error {
	if err := config.Validate(); err != nil {
		return errors.WithMessagef(err, "Model(%s).Compile", m.name)
	}
	if len(m.layers) < 2 {
		return errors.WithMessagef(ErrInvalidTopology, "Model(%s).Compile: needs at least an input and an output layer, got %d layer(s)",
			m.name, len(m.layers))
	}
	m.config = config
	m.learnableCoeffs = 0
	for id, layer := range m.layers {
		prevWidth := layer.Width()
		if id > 0 {
			prevWidth = m.layers[id-1].Width()
		}
		layer.Initialize(prevWidth, m.weightInit)
		m.learnableCoeffs += layer.LearnableCoeffs()
		klog.V(2).Infof("Model(%s).Compile: layer #%d width=%d activation=%s coeffs=%d",
			m.name, id, layer.Width(), layer.Activation().Name(), layer.LearnableCoeffs())
	}
	m.compiled = true
	klog.V(1).Infof("Model(%s) compiled: %d layers, %d learnable coefficients, loss=%s, metric=%s, optimizer=%s",
		m.name, len(m.layers), m.learnableCoeffs, config.Loss().Name(), config.Metric().Name(), config.Optimizer().Name())
	return nil
}

// IsCompiled returns whether Compile was called successfully.
func (m *Model) IsCompiled() bool { return m.compiled }

// LearnableCoeffs is the total of learnable coefficients of all layers, computed by Compile.
func (m *Model) LearnableCoeffs() int { return m.learnableCoeffs }

// NumLayers returns the number of layers, including the input layer.
func (m *Model) NumLayers() int { return len(m.layers) }

// Layer returns the layer with the given id (its position), or nil if out of range.
func (m *Model) Layer(id int) *nn.Layer {
	if id < 0 || id >= len(m.layers) {
		return nil
	}
	return m.layers[id]
}

// Layers returns the layers of the model. The slice is owned by the model and shouldn't be changed.
func (m *Model) Layers() []*nn.Layer { return m.layers }

// Configuration bound by Compile, or nil if not compiled.
func (m *Model) Configuration() *Configuration { return m.config }

// History of all Fit calls.
func (m *Model) History() History { return m.history }

// Save is not implemented: it always returns ErrNotImplemented.
func (m *Model) Save(path string) error {
	return errors.WithMessagef(ErrNotImplemented, "Model(%s).Save(%q)", m.name, path)
}

// Load is not implemented: it always returns ErrNotImplemented.
func (m *Model) Load(path string) error {
	return errors.WithMessagef(ErrNotImplemented, "Model(%s).Load(%q)", m.name, path)
}

func (m *Model) inputLayer() *nn.Layer  { return m.layers[0] }
func (m *Model) outputLayer() *nn.Layer { return m.layers[len(m.layers)-1] }
