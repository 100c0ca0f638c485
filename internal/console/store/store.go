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

// Package store holds the per-session state of the console: permission
// routes, cached route names, visited tabs and the logged in user.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/bytedance/sonic"
)

// MutationType tells subscribers how the state changed.
type MutationType string

const (
	MutationDirect MutationType = "direct"
	MutationPatch  MutationType = "patch"
	MutationReset  MutationType = "reset"
)

// Mutation describes one state change.
type Mutation struct {
	StoreID string
	Type    MutationType
}

// Subscriber is called after every mutation with a copy of the new state.
type Subscriber[S any] func(ctx context.Context, m Mutation, state S) error

type subscription[S any] struct {
	fn       Subscriber[S]
	detached bool
}

type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	detached bool
}

// Detached keeps the subscription alive across Dispose.
func Detached() SubscribeOption {
	return func(o *subscribeOptions) { o.detached = true }
}

// Store owns a state value of type S and notifies subscribers on change.
// S should be a plain struct whose fields serialize to JSON.
type Store[S any] struct {
	id      string
	initial func() S

	mu    sync.RWMutex
	state S

	subMu sync.RWMutex
	subs  []*subscription[S]
}

// New creates a store with the given id; initial builds the reset state.
func New[S any](id string, initial func() S) *Store[S] {
	return &Store[S]{
		id:      id,
		initial: initial,
		state:   initial(),
	}
}

func (s *Store[S]) ID() string { return s.id }

// State returns the current state. Reference fields are shared and must be
// treated as read-only.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mutate applies fn to the state and notifies subscribers.
func (s *Store[S]) Mutate(ctx context.Context, fn func(*S)) error {
	return s.commit(ctx, MutationDirect, fn)
}

// Patch is Mutate reported as a patch.
func (s *Store[S]) Patch(ctx context.Context, fn func(*S)) error {
	return s.commit(ctx, MutationPatch, fn)
}

// PatchJSON decodes data over the current state: fields present in data
// replace the current ones, absent fields are kept.
func (s *Store[S]) PatchJSON(ctx context.Context, data []byte) error {
	next, err := decodeOver(s.State(), data)
	if err != nil {
		return err
	}
	return s.commit(ctx, MutationPatch, func(st *S) {
		*st = next
	})
}

// decodeOver decodes data onto a deep copy of base so that values handed
// out earlier keep their backing arrays.
func decodeOver[S any](base S, data []byte) (S, error) {
	var next S
	current, err := sonic.Marshal(base)
	if err != nil {
		return next, err
	}
	if err := sonic.Unmarshal(current, &next); err != nil {
		return next, err
	}
	if err := sonic.Unmarshal(data, &next); err != nil {
		return next, err
	}
	return next, nil
}

// Reset restores the initial state.
func (s *Store[S]) Reset(ctx context.Context) error {
	return s.commit(ctx, MutationReset, func(st *S) {
		*st = s.initial()
	})
}

func (s *Store[S]) commit(ctx context.Context, typ MutationType, fn func(*S)) error {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	s.mu.Unlock()

	return s.notify(ctx, Mutation{StoreID: s.id, Type: typ}, snapshot)
}

func (s *Store[S]) notify(ctx context.Context, m Mutation, state S) error {
	s.subMu.RLock()
	subs := make([]*subscription[S], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.fn(ctx, m, state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers fn for every later mutation. The returned func
// removes it.
func (s *Store[S]) Subscribe(fn Subscriber[S], opts ...SubscribeOption) func() {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}
	sub := &subscription[S]{fn: fn, detached: o.detached}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, it := range s.subs {
			if it == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispose drops every subscription that was not registered Detached.
func (s *Store[S]) Dispose() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	kept := make([]*subscription[S], 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.detached {
			kept = append(kept, sub)
		}
	}
	s.subs = kept
}
