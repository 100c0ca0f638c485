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

package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
)

// defaultSessionMaxBytes is the default session storage size (32MB)
const defaultSessionMaxBytes = 32 * 1024 * 1024

// valueMarker prefixes every stored value so an empty string can be told
// apart from an evicted entry.
const valueMarker byte = 1

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int
}

// FastCacheStorage is an in-process Storage backed by VictoriaMetrics fastcache.
// fastcache cannot enumerate entries, so the key set is tracked alongside it.
// Large values go through SetBig/GetBig so they are never silently dropped.
type FastCacheStorage struct {
	cache *fastcache.Cache
	mu    sync.RWMutex
	keys  map[string]struct{}
}

// NewFastCacheStorage creates a new FastCacheStorage instance
func NewFastCacheStorage(conf FastCacheConfig) *FastCacheStorage {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultSessionMaxBytes
	}
	return &FastCacheStorage{
		cache: fastcache.New(maxBytes),
		keys:  make(map[string]struct{}),
	}
}

func (fc *FastCacheStorage) GetItem(_ context.Context, key string) (string, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if _, ok := fc.keys[key]; !ok {
		return "", ErrNotFound
	}
	value := fc.cache.GetBig(nil, []byte(key))
	if len(value) == 0 || value[0] != valueMarker {
		// evicted by fastcache
		return "", ErrNotFound
	}
	return string(value[1:]), nil
}

func (fc *FastCacheStorage) SetItem(_ context.Context, key, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	buf := make([]byte, 0, len(value)+1)
	buf = append(buf, valueMarker)
	buf = append(buf, value...)
	fc.cache.SetBig([]byte(key), buf)
	fc.keys[key] = struct{}{}
	return nil
}

func (fc *FastCacheStorage) RemoveItem(_ context.Context, key string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.cache.Del([]byte(key))
	delete(fc.keys, key)
	return nil
}

func (fc *FastCacheStorage) Keys(_ context.Context) ([]string, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	keys := make([]string, 0, len(fc.keys))
	for k := range fc.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (fc *FastCacheStorage) Clear(_ context.Context) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for k := range fc.keys {
		fc.cache.Del([]byte(k))
	}
	fc.keys = make(map[string]struct{})
	return nil
}

// Stats exposes fastcache counters for metrics.
func (fc *FastCacheStorage) Stats() fastcache.Stats {
	var s fastcache.Stats
	fc.cache.UpdateStats(&s)
	return s
}
