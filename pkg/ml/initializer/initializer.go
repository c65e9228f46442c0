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

// Package initializer fills the weights of dense layers before training.
//
// The distribution is picked by the activation of the layer: Sigmoid layers use Xavier/Glorot
// uniform, every other activation uses Kaiming/He normal.
package initializer

import (
	"math"
	"math/rand/v2"

	"github.com/nnframework/nnframework/pkg/ml/layers/activations"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"k8s.io/klog/v2"
)

// Initializer owns the random number engine used to initialize all layers of one model.
//
// The engine is seeded once, and it's not reseeded between layers: two models created with the same
// seed and compiled with the same layers get the same weights.
//
// It is not safe for concurrent use.
type Initializer struct {
	src rand.Source
}

// New creates an Initializer with a PCG engine seeded with seed.
func New(seed uint64) *Initializer {
	return NewFromSource(rand.NewPCG(seed, seed))
}

// NewFromSource creates an Initializer using the given engine.
func NewFromSource(src rand.Source) *Initializer {
	return &Initializer{src: src}
}

// Initialize fills weights in place, choosing the distribution by the activation kind of the layer.
//
// fanIn is the width of the previous layer, and fanOut the width of the layer being initialized.
func (ini *Initializer) Initialize(weights *mat.Dense, kind activations.Type, fanIn, fanOut int) {
	if kind == activations.TypeSigmoid {
		ini.XavierUniform(weights, fanIn, fanOut)
		return
	}
	ini.He(weights, fanIn)
}

// XavierUniform fills weights from U(-sqrt(2)/sqrt(fanIn+fanOut), +sqrt(2)/sqrt(fanIn+fanOut)).
func (ini *Initializer) XavierUniform(weights *mat.Dense, fanIn, fanOut int) {
	bound := math.Sqrt2 / math.Sqrt(float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: ini.src}
	klog.V(2).Infof("initializer: Xavier/Glorot uniform in [%g, %g) for fanIn=%d, fanOut=%d", -bound, bound, fanIn, fanOut)
	fill(weights, dist.Rand)
}

// He fills weights from N(0, sqrt(2/fanIn)).
func (ini *Initializer) He(weights *mat.Dense, fanIn int) {
	stddev := math.Sqrt(2.0 / float64(fanIn))
	dist := distuv.Normal{Mu: 0, Sigma: stddev, Src: ini.src}
	klog.V(2).Infof("initializer: Kaiming/He normal with stddev=%g for fanIn=%d", stddev, fanIn)
	fill(weights, dist.Rand)
}

// fill draws the values in row-major order.
func fill(weights *mat.Dense, draw func() float64) {
	rows, cols := weights.Dims()
	for i := range rows {
		for j := range cols {
			weights.Set(i, j, draw())
		}
	}
}
