// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrInvalidTransition is returned when from → to was never allowed.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrStateMismatch is returned when the machine is not in the expected source state.
	ErrStateMismatch = errors.New("state mismatch")
)

// TransitionHook runs before a transition is committed. An error aborts it.
type TransitionHook[T comparable] func(from, to T) error

// StateMachine is a small generic finite state machine.
//
// Transition is a compare-and-swap: it only succeeds when the machine is
// currently in the given source state, so two callers racing on the same
// transition cannot both win. The machine is safe for concurrent use.
type StateMachine[T comparable] struct {
	mu      sync.RWMutex
	current T
	allowed map[T][]T
	hooks   []TransitionHook[T]
}

// NewWithState creates a machine sitting in initial.
func NewWithState[T comparable](initial T) *StateMachine[T] {
	return &StateMachine[T]{
		current: initial,
		allowed: make(map[T][]T),
	}
}

// Allow registers valid transitions from a source state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.allowed[from], target) {
			sm.allowed[from] = append(sm.allowed[from], target)
		}
	}
	return sm
}

// OnTransition registers h for every committed transition.
func (sm *StateMachine[T]) OnTransition(h TransitionHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.hooks = append(sm.hooks, h)
	return sm
}

func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.allowed[from], to)
}

func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// Transition moves the machine from → to. It fails without side effects when
// the machine is not currently in from, the transition was never allowed or
// a hook rejects it.
func (sm *StateMachine[T]) Transition(from, to T) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current != from {
		return fmt.Errorf("%w: in %v, expected %v", ErrStateMismatch, sm.current, from)
	}
	if !slices.Contains(sm.allowed[from], to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, from, to)
	}
	for _, h := range sm.hooks {
		if err := h(from, to); err != nil {
			return fmt.Errorf("transition hook failed: %w", err)
		}
	}
	sm.current = to
	return nil
}
