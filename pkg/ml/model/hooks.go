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
	"iter"
	"sort"

	"github.com/pkg/errors"
)

// Priority for hooks, the lowest values are run first. Defaults to 0, but negative
// values are ok.
type Priority int

// EpochStats are the aggregates of one epoch passed to OnEpoch hooks.
type EpochStats struct {
	// Epoch that just finished, starting from 0.
	Epoch int

	// Epochs is the total number of epochs of the Fit call.
	Epochs int

	// Loss and Metric aggregates of the epoch, the same values appended to the History.
	Loss, Metric float64
}

// OnStartFn is the type of OnStart hooks. rows is the number of training samples.
type OnStartFn func(m *Model, epochs, rows int) error

// OnEpochFn is the type of OnEpoch hooks.
type OnEpochFn func(m *Model, stats EpochStats) error

// OnEndFn is the type of OnEnd hooks. They are called only if Fit completes all epochs.
type OnEndFn func(m *Model, history History) error

// OnStart adds a hook with given priority and name (for error reporting) called at the start of Fit,
// after the preconditions are checked.
func (m *Model) OnStart(name string, priority Priority, fn OnStartFn) {
	m.onStart.Add(priority, &hookWithName[OnStartFn]{name: name, fn: fn})
}

// OnEpoch adds a hook with given priority and name (for error reporting) called at the end of every epoch,
// after the epoch aggregates are appended to the History.
func (m *Model) OnEpoch(name string, priority Priority, fn OnEpochFn) {
	m.onEpoch.Add(priority, &hookWithName[OnEpochFn]{name: name, fn: fn})
}

// OnEnd adds a hook with given priority and name (for error reporting) called at the end of Fit.
func (m *Model) OnEnd(name string, priority Priority, fn OnEndFn) {
	m.onEnd.Add(priority, &hookWithName[OnEndFn]{name: name, fn: fn})
}

func (m *Model) start(epochs, rows int) error {
	for hook := range m.onStart.All() {
		if err := hook.fn(m, epochs, rows); err != nil {
			return errors.WithMessagef(err, "OnStart(hook %q)", hook.name)
		}
	}
	return nil
}

func (m *Model) epochDone(stats EpochStats) error {
	for hook := range m.onEpoch.All() {
		if err := hook.fn(m, stats); err != nil {
			return errors.WithMessagef(err, "OnEpoch(hook %q, epoch=%d)", hook.name, stats.Epoch)
		}
	}
	return nil
}

func (m *Model) end() error {
	for hook := range m.onEnd.All() {
		if err := hook.fn(m, m.history); err != nil {
			return errors.WithMessagef(err, "OnEnd(hook %q)", hook.name)
		}
	}
	return nil
}

// hookWithName stores a hook name and function.
type hookWithName[F any] struct {
	name string
	fn   F
}

// priorityHooks organizes hooks for type F per priority.
type priorityHooks[H any] struct {
	hooks map[Priority][]H
}

func newPriorityHooks[H any]() *priorityHooks[H] {
	return &priorityHooks[H]{
		hooks: make(map[Priority][]H),
	}
}

// Add hook at the given priority.
func (h *priorityHooks[H]) Add(priority Priority, hook H) {
	h.hooks[priority] = append(h.hooks[priority], hook)
}

// All returns an iterator over all registered hooks in priority order. Hooks with the same
// priority are returned in the order they were added.
func (h *priorityHooks[H]) All() iter.Seq[H] {
	return func(yield func(H) bool) {
		keys := make([]Priority, 0, len(h.hooks))
		for key := range h.hooks {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return keys[i] < keys[j]
		})
		for _, key := range keys {
			for _, hook := range h.hooks[key] {
				if !yield(hook) {
					return
				}
			}
		}
	}
}
