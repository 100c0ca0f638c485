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
	"slices"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/pkg/log"
)

const CachedRoutesID = "cached-routes"

// CachedRoutesState 缓存路由数据
type CachedRoutesState struct {
	CachedRoutes []string `json:"cachedRoutes"`
}

// CachedRoutes holds the names of views whose state the shell keeps alive.
// Every operation is in-memory; slices are replaced, never appended to in place.
type CachedRoutes struct {
	store *Store[CachedRoutesState]
}

func NewCachedRoutes() *CachedRoutes {
	return &CachedRoutes{
		store: New(CachedRoutesID, func() CachedRoutesState {
			return CachedRoutesState{CachedRoutes: []string{}}
		}),
	}
}

// Store exposes the underlying store for subscriptions.
func (c *CachedRoutes) Store() *Store[CachedRoutesState] { return c.store }

// Initialize 初始化缓存路由，名称转驼峰
func (c *CachedRoutes) Initialize(names []string) {
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = route.ToHump(n)
	}
	c.set(normalized)
}

// SetAll replaces the list verbatim.
func (c *CachedRoutes) SetAll(names []string) {
	c.set(slices.Clone(names))
}

// Reset 重置缓存路由
func (c *CachedRoutes) Reset() {
	c.logErr(c.store.Reset(context.Background()))
}

// Add appends name unless present. It reports whether the list changed.
func (c *CachedRoutes) Add(name string) bool {
	name = route.ToHump(name)
	if name == "" {
		return false
	}
	added := false
	c.logErr(c.store.Mutate(context.Background(), func(s *CachedRoutesState) {
		if slices.Contains(s.CachedRoutes, name) {
			return
		}
		next := make([]string, len(s.CachedRoutes), len(s.CachedRoutes)+1)
		copy(next, s.CachedRoutes)
		s.CachedRoutes = append(next, name)
		added = true
	}))
	return added
}

// Remove drops name. It reports whether the list changed.
func (c *CachedRoutes) Remove(name string) bool {
	name = route.ToHump(name)
	removed := false
	c.logErr(c.store.Mutate(context.Background(), func(s *CachedRoutesState) {
		i := slices.Index(s.CachedRoutes, name)
		if i < 0 {
			return
		}
		s.CachedRoutes = slices.Delete(slices.Clone(s.CachedRoutes), i, i+1)
		removed = true
	}))
	return removed
}

// Names returns a copy of the cached names.
func (c *CachedRoutes) Names() []string {
	return slices.Clone(c.store.State().CachedRoutes)
}

func (c *CachedRoutes) Len() int {
	return len(c.store.State().CachedRoutes)
}

func (c *CachedRoutes) Contains(name string) bool {
	return slices.Contains(c.store.State().CachedRoutes, name)
}

func (c *CachedRoutes) set(names []string) {
	c.logErr(c.store.Mutate(context.Background(), func(s *CachedRoutesState) {
		s.CachedRoutes = names
	}))
}

func (c *CachedRoutes) logErr(err error) {
	if err != nil {
		log.Warnw("cached routes subscriber failed", "error", err)
	}
}
