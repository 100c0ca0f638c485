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

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/pkg/storage"
)

const VisitedRoutesID = "visited-routes"

// VisitedEntry is one tab in the tab bar, and the persisted form of it.
type VisitedEntry struct {
	FullPath string     `json:"fullPath"`
	Meta     route.Meta `json:"meta"`
	Name     string     `json:"name,omitempty"`
	Path     string     `json:"path"`
}

func (e VisitedEntry) GetName() string     { return e.Name }
func (e VisitedEntry) GetMeta() route.Meta { return e.Meta }

// EntryFromRecord projects a route record into a visited entry.
func EntryFromRecord(r *route.Record) VisitedEntry {
	return VisitedEntry{
		FullPath: r.Path,
		Meta:     r.Meta.Clone(),
		Name:     r.Name,
		Path:     r.Path,
	}
}

// VisitedRoutes 已访问过的路由
//
// Entries are unique by path. It keeps CachedRoutes in step with every
// change and writes its own snapshot after each one. A failed write is
// returned to the caller; the in-memory change is kept.
//
// Snapshots are taken under mu and written under saveMu, which is taken
// before mu is released, so the backend sees them in change order.
type VisitedRoutes struct {
	mu          sync.RWMutex
	saveMu      sync.Mutex
	entries     []VisitedEntry
	affixLoaded bool

	cached  *CachedRoutes
	backend storage.Storage
	key     string
}

type VisitedOption func(*VisitedRoutes)

// WithVisitedKey overrides the storage key, which defaults to the store id.
func WithVisitedKey(key string) VisitedOption {
	return func(v *VisitedRoutes) { v.key = key }
}

// NewVisitedRoutes creates the store and loads whatever was persisted
// under its key.
func NewVisitedRoutes(ctx context.Context, cached *CachedRoutes, backend storage.Storage, opts ...VisitedOption) (*VisitedRoutes, error) {
	v := &VisitedRoutes{
		entries: []VisitedEntry{},
		cached:  cached,
		backend: backend,
		key:     VisitedRoutesID,
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := v.Restore(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// Restore replaces the entries with the persisted list and clears the
// affix flag.
func (v *VisitedRoutes) Restore(ctx context.Context) error {
	entries, err := v.load(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.entries = entries
	v.affixLoaded = false
	v.mu.Unlock()
	return nil
}

func (v *VisitedRoutes) load(ctx context.Context) ([]VisitedEntry, error) {
	data, err := v.backend.GetItem(ctx, v.key)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && data == "") {
		return []VisitedEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", v.key, err)
	}
	var entries []VisitedEntry
	if err := sonic.UnmarshalString(data, &entries); err != nil {
		return nil, fmt.Errorf("restore %s: %w", v.key, err)
	}
	for i := range entries {
		if entries[i].Meta == nil {
			entries[i].Meta = route.Meta{}
		}
	}
	return entries, nil
}

// SeedAffixed puts affixed routes at the front, keeping their order, and
// skips any path already present. Calling it twice adds nothing.
func (v *VisitedRoutes) SeedAffixed(ctx context.Context, affixed []VisitedEntry) error {
	v.mu.Lock()
	for i := len(affixed) - 1; i >= 0; i-- {
		if v.indexLocked(affixed[i].Path) < 0 {
			v.entries = slices.Insert(v.entries, 0, affixed[i])
		}
	}
	v.affixLoaded = true
	return v.unlockAndPersist(ctx)
}

// AffixLoaded reports whether SeedAffixed has run since the last Restore.
func (v *VisitedRoutes) AffixLoaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.affixLoaded
}

// AddVisited appends e unless its path is already present. A named
// cacheable entry is also added to the cached routes.
func (v *VisitedRoutes) AddVisited(ctx context.Context, e VisitedEntry) error {
	v.mu.Lock()
	if v.indexLocked(e.Path) >= 0 {
		v.mu.Unlock()
		return nil
	}
	if e.Meta == nil {
		e.Meta = route.Meta{}
	}
	v.entries = append(v.entries, e)
	if e.Name != "" && e.Meta.Cacheable() {
		v.cached.Add(e.Name)
	}
	return v.unlockAndPersist(ctx)
}

// RemoveVisited removes the entry with path and returns the path of the
// new last entry, or "/" when none is left.
func (v *VisitedRoutes) RemoveVisited(ctx context.Context, path string) (string, error) {
	v.mu.Lock()
	i := v.indexLocked(path)
	if i < 0 {
		last := v.lastPathLocked()
		v.mu.Unlock()
		return last, nil
	}
	removed := v.entries[i]
	v.entries = slices.Delete(v.entries, i, i+1)
	last := v.lastPathLocked()
	if removed.Name != "" {
		v.cached.Remove(removed.Name)
	}
	return last, v.unlockAndPersist(ctx)
}

// CloseLeftOf keeps affixed entries and everything from path onwards.
// It reports false and changes nothing when path is not visited.
func (v *VisitedRoutes) CloseLeftOf(ctx context.Context, path string) (bool, error) {
	return v.closeAround(ctx, path, func(i, selected int) bool { return i >= selected })
}

// CloseRightOf keeps affixed entries and everything up to path.
func (v *VisitedRoutes) CloseRightOf(ctx context.Context, path string) (bool, error) {
	return v.closeAround(ctx, path, func(i, selected int) bool { return i <= selected })
}

func (v *VisitedRoutes) closeAround(ctx context.Context, path string, keep func(i, selected int) bool) (bool, error) {
	v.mu.Lock()
	selected := v.indexLocked(path)
	if selected < 0 {
		v.mu.Unlock()
		return false, nil
	}
	kept := make([]VisitedEntry, 0, len(v.entries))
	for i, e := range v.entries {
		if e.Meta.Affix() || keep(i, selected) {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	return true, v.resyncLocked(ctx)
}

// CloseAll 关闭所有非固定的路由
func (v *VisitedRoutes) CloseAll(ctx context.Context) error {
	v.mu.Lock()
	kept := make([]VisitedEntry, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Meta.Affix() {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	return v.resyncLocked(ctx)
}

// resyncLocked recomputes the cached routes from the surviving entries and
// persists. It releases mu.
func (v *VisitedRoutes) resyncLocked(ctx context.Context) error {
	names := route.CacheableNames(v.entries)
	for i, n := range names {
		names[i] = route.ToHump(n)
	}
	v.cached.SetAll(names)
	return v.unlockAndPersist(ctx)
}

// Persist writes {fullPath, meta, name, path} of every entry under the key.
func (v *VisitedRoutes) Persist(ctx context.Context) error {
	v.mu.Lock()
	return v.unlockAndPersist(ctx)
}

// unlockAndPersist must be called with mu held.
func (v *VisitedRoutes) unlockAndPersist(ctx context.Context) error {
	snapshot := slices.Clone(v.entries)
	v.saveMu.Lock()
	v.mu.Unlock()
	defer v.saveMu.Unlock()

	data, err := sonic.MarshalString(snapshot)
	if err != nil {
		return fmt.Errorf("persist %s: %w", v.key, err)
	}
	if err := v.backend.SetItem(ctx, v.key, data); err != nil {
		return fmt.Errorf("persist %s: %w", v.key, err)
	}
	return nil
}

// Entries returns a copy of the visited list.
func (v *VisitedRoutes) Entries() []VisitedEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.entries)
}

// LastPath 找到最后访问的路由
func (v *VisitedRoutes) LastPath() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastPathLocked()
}

func (v *VisitedRoutes) Key() string { return v.key }

func (v *VisitedRoutes) lastPathLocked() string {
	if len(v.entries) == 0 {
		return "/"
	}
	return v.entries[len(v.entries)-1].Path
}

func (v *VisitedRoutes) indexLocked(path string) int {
	return slices.IndexFunc(v.entries, func(e VisitedEntry) bool { return e.Path == path })
}
