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
	"fmt"

	"github.com/nnframework/nnframework/pkg/ml/train/losses"
	"github.com/nnframework/nnframework/pkg/ml/train/metrics"
	"github.com/nnframework/nnframework/pkg/ml/train/optimizers"
	"github.com/pkg/errors"
)

// ShuffleData is the shuffling policy used by Model.Fit.
//
// If Enabled, the rows of the training data are shuffled at the start of every epoch that is a
// multiple of Step, starting at epoch 0.
type ShuffleData struct {
	Enabled bool
	Step    uint
}

// NoShuffle disables shuffling.
var NoShuffle = ShuffleData{}

// ShuffleEvery returns a policy that shuffles every step epochs.
func ShuffleEvery(step uint) ShuffleData {
	return ShuffleData{Enabled: true, Step: step}
}

// String implements fmt.Stringer.
func (s ShuffleData) String() string {
	if !s.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("every %d epoch(s)", s.Step)
}

// Configuration of the training of a Model: the loss, the metric, the optimizer and the shuffling policy.
//
// It is immutable once created, and it is bound to a Model by Model.Compile.
type Configuration struct {
	loss      losses.Type
	metric    metrics.Interface
	optimizer optimizers.Interface
	shuffle   ShuffleData
}

// NewConfiguration creates a Configuration. It is validated when passed to Model.Compile.
func NewConfiguration(loss losses.Type, metric metrics.Interface, optimizer optimizers.Interface, shuffle ShuffleData) *Configuration {
	return &Configuration{
		loss:      loss,
		metric:    metric,
		optimizer: optimizer,
		shuffle:   shuffle,
	}
}

// Loss used to train.
func (c *Configuration) Loss() losses.Type { return c.loss }

// Metric reported per epoch.
func (c *Configuration) Metric() metrics.Interface { return c.metric }

// Optimizer that updates the layers after each sample.
func (c *Configuration) Optimizer() optimizers.Interface { return c.optimizer }

// Shuffle policy.
func (c *Configuration) Shuffle() ShuffleData { return c.shuffle }

// Validate returns an error (wrapping ErrInvalidConfiguration) if the configuration can't be used.
func (c *Configuration) Validate() error {
	if c == nil {
		return errors.WithMessage(ErrInvalidConfiguration, "nil configuration")
	}
	validLoss := false
	for _, t := range losses.TypeValues() {
		if t == c.loss {
			validLoss = true
			break
		}
	}
	if !validLoss {
		return errors.WithMessagef(ErrInvalidConfiguration, "invalid loss %s", c.loss)
	}
	if c.metric == nil {
		return errors.WithMessage(ErrInvalidConfiguration, "metric not set")
	}
	if c.optimizer == nil {
		return errors.WithMessage(ErrInvalidConfiguration, "optimizer not set")
	}
	if c.shuffle.Enabled && c.shuffle.Step == 0 {
		return errors.WithMessage(ErrInvalidConfiguration, "shuffle enabled with step 0")
	}
	return nil
}
