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

// Package router is an ordered route table with a navigation guard chain.
// Matching is first-registered-wins, so catch-all records must be added last.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/pkg/log"
)

const defaultMaxRedirects = 10

var (
	ErrNotFound         = errors.New("router: no route matches path")
	ErrTooManyRedirects = errors.New("router: too many redirects")
	ErrAborted          = errors.New("router: navigation aborted")
)

type decisionKind int

const (
	proceed decisionKind = iota
	redirect
	replaceWith
	abort
)

// Decision is what a before guard answers for a navigation.
type Decision struct {
	kind     decisionKind
	location Location
}

// Proceed lets the navigation continue to the next guard.
func Proceed() Decision { return Decision{kind: proceed} }

// Redirect starts a new navigation to loc.
func Redirect(loc Location) Decision { return Decision{kind: redirect, location: loc} }

// ReplaceWith re-enters loc replacing the current history entry.
func ReplaceWith(loc Location) Decision { return Decision{kind: replaceWith, location: loc} }

// Abort cancels the navigation.
func Abort() Decision { return Decision{kind: abort} }

func (d Decision) IsProceed() bool { return d.kind == proceed }

// Location returns the redirect target of a Redirect or ReplaceWith decision.
func (d Decision) Location() (Location, bool) {
	return d.location, d.kind == redirect || d.kind == replaceWith
}

func (d Decision) IsReplace() bool { return d.kind == replaceWith }

// BeforeGuard runs before a navigation is committed. from is nil on the
// first navigation.
type BeforeGuard func(ctx context.Context, to, from *Target) (Decision, error)

// AfterHook runs after a navigation is committed.
type AfterHook func(ctx context.Context, to, from *Target)

type entry struct {
	record  *route.Record
	pattern pattern
	// owner is the name of the top-level record this entry was added with.
	owner string
	// batch identifies the AddRoute call that added the entry.
	batch uint64
}

// Router holds the route table of one session.
type Router struct {
	mu      sync.RWMutex
	entries []*entry
	batches uint64

	hookMu sync.RWMutex
	before []*BeforeGuard
	after  []*AfterHook

	// navMu serializes navigations, like a single event loop
	navMu sync.Mutex

	curMu        sync.RWMutex
	current      *Target
	maxRedirects int
}

type Option func(*Router)

func WithMaxRedirects(n int) Option {
	return func(r *Router) { r.maxRedirects = n }
}

// New creates a router seeded with routes.
func New(routes []*route.Record, opts ...Option) *Router {
	r := &Router{maxRedirects: defaultMaxRedirects}
	for _, opt := range opts {
		opt(r)
	}
	for _, rec := range routes {
		r.AddRoute(rec)
	}
	return r
}

// AddRoute registers rec and its descendants. Child paths are resolved
// against their parent. A named record replaces an earlier one with the
// same name, together with everything registered under it.
//
// The returned func removes exactly what this call added, named or not.
func (r *Router) AddRoute(rec *route.Record) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.Name != "" {
		r.removeLocked(func(e *entry) bool { return e.owner == rec.Name || e.record.Name == rec.Name })
	}
	r.batches++
	batch := r.batches
	r.addLocked(rec, "/", rec.Name, batch)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.removeLocked(func(e *entry) bool { return e.batch == batch })
	}
}

func (r *Router) addLocked(rec *route.Record, parentPath, owner string, batch uint64) {
	n := &route.Record{
		Path:      rec.Path,
		Name:      rec.Name,
		Component: rec.Component,
		Redirect:  rec.Redirect,
		Meta:      rec.Meta.Clone(),
	}
	if !route.IsExternal(rec.Path) {
		n.Path = route.Resolve(parentPath, rec.Path)
	}
	r.entries = append(r.entries, &entry{record: n, pattern: compile(n.Path), owner: owner, batch: batch})
	for _, c := range rec.Children {
		r.addLocked(c, n.Path, owner, batch)
	}
}

// RemoveRoute drops the named record and its descendants.
func (r *Router) RemoveRoute(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(func(e *entry) bool { return e.owner == name || e.record.Name == name })
}

func (r *Router) removeLocked(drop func(*entry) bool) bool {
	kept := r.entries[:0]
	removed := false
	for _, e := range r.entries {
		if drop(e) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	// clear the tail so dropped entries can be collected
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = nil
	}
	r.entries = kept
	return removed
}

// HasRoute reports whether a record with name is registered.
func (r *Router) HasRoute(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.record.Name == name {
			return true
		}
	}
	return false
}

// Routes returns every registered record, parents and children alike, with
// absolute paths and no children, in registration order.
func (r *Router) Routes() []*route.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*route.Record, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.record.Clone()
	}
	return out
}

// Len is the number of registered records.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// BeforeEach appends a guard. Guards run in registration order.
// The returned func unregisters it.
func (r *Router) BeforeEach(g BeforeGuard) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	p := &g
	r.before = append(r.before, p)
	return func() {
		r.hookMu.Lock()
		defer r.hookMu.Unlock()
		for i, h := range r.before {
			if h == p {
				r.before = append(r.before[:i:i], r.before[i+1:]...)
				return
			}
		}
	}
}

// AfterEach appends a hook run after every committed navigation.
func (r *Router) AfterEach(h AfterHook) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	p := &h
	r.after = append(r.after, p)
	return func() {
		r.hookMu.Lock()
		defer r.hookMu.Unlock()
		for i, a := range r.after {
			if a == p {
				r.after = append(r.after[:i:i], r.after[i+1:]...)
				return
			}
		}
	}
}

// Current returns the last committed target, nil before the first navigation.
func (r *Router) Current() *Target {
	r.curMu.RLock()
	defer r.curMu.RUnlock()
	return r.current
}

// Resolve matches loc against the table and follows record redirects.
func (r *Router) Resolve(loc Location) (*Target, error) {
	t, err := r.resolve(loc, 0)
	if err != nil {
		return nil, err
	}
	if t.Matched == nil {
		return t, fmt.Errorf("%w: %s", ErrNotFound, loc.Path)
	}
	return t, nil
}

func (r *Router) resolve(loc Location, hops int) (*Target, error) {
	origin := loc.FullPath()
	for {
		t := r.match(loc)
		if t.Matched == nil || t.Matched.Redirect == "" {
			if hops > 0 {
				t.RedirectedFrom = origin
			}
			return t, nil
		}
		if hops++; hops > r.maxRedirects {
			return nil, fmt.Errorf("%w: %s", ErrTooManyRedirects, origin)
		}
		next, err := ParseLocation(t.Matched.Redirect)
		if err != nil {
			return nil, fmt.Errorf("invalid redirect %q: %w", t.Matched.Redirect, err)
		}
		if len(next.Query) == 0 {
			next.Query = loc.Query
		}
		loc = next
	}
}

func (r *Router) match(loc Location) *Target {
	path := route.Resolve(loc.Path)
	t := &Target{
		Path:     path,
		FullPath: Location{Path: path, Query: loc.Query}.FullPath(),
		Query:    loc.Query,
		Meta:     route.Meta{},
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		params, ok := e.pattern.match(path)
		if !ok {
			continue
		}
		t.Matched = e.record
		t.Params = params
		t.Name = e.record.Name
		t.Meta = e.record.Meta.Clone()
		return t
	}
	return t
}

// Push navigates to raw, a full path.
func (r *Router) Push(ctx context.Context, raw string) (*Target, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	return r.Navigate(ctx, loc, false)
}

// Replace navigates to raw replacing the current entry.
func (r *Router) Replace(ctx context.Context, raw string) (*Target, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	return r.Navigate(ctx, loc, true)
}

// Navigate runs the guard chain for loc and commits the result.
//
// Each guard must answer before the next one runs. A Redirect or
// ReplaceWith restarts the chain at the new location. An unmatched target
// that every guard lets through is still committed, with Matched nil.
func (r *Router) Navigate(ctx context.Context, loc Location, replace bool) (*Target, error) {
	r.navMu.Lock()
	defer r.navMu.Unlock()

	from := r.Current()
	origin := loc.FullPath()
	hops := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		to, err := r.resolve(loc, 0)
		if err != nil {
			return nil, err
		}
		to.Replace = replace
		if hops > 0 {
			to.RedirectedFrom = origin
		}

		d, err := r.runBefore(ctx, to, from)
		if err != nil {
			return nil, err
		}
		switch d.kind {
		case abort:
			return nil, fmt.Errorf("%w: %s", ErrAborted, to.FullPath)
		case redirect, replaceWith:
			if hops++; hops > r.maxRedirects {
				return nil, fmt.Errorf("%w: %s", ErrTooManyRedirects, origin)
			}
			loc = d.location
			replace = replace || d.kind == replaceWith
			continue
		}

		if to.Matched == nil {
			log.Warnw("no route matches location, committing unmatched", "path", to.Path)
		}
		r.curMu.Lock()
		r.current = to
		r.curMu.Unlock()
		r.runAfter(ctx, to, from)
		return to, nil
	}
}

func (r *Router) runBefore(ctx context.Context, to, from *Target) (Decision, error) {
	r.hookMu.RLock()
	guards := make([]*BeforeGuard, len(r.before))
	copy(guards, r.before)
	r.hookMu.RUnlock()

	for _, g := range guards {
		d, err := (*g)(ctx, to, from)
		if err != nil {
			return Decision{}, err
		}
		if d.kind != proceed {
			return d, nil
		}
	}
	return Proceed(), nil
}

func (r *Router) runAfter(ctx context.Context, to, from *Target) {
	r.hookMu.RLock()
	hooks := make([]*AfterHook, len(r.after))
	copy(hooks, r.after)
	r.hookMu.RUnlock()

	for _, h := range hooks {
		(*h)(ctx, to, from)
	}
}
