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

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/pkg/storage"
)

// RestoreFunc rehydrates a store in place of the default JSON patch.
type RestoreFunc[S any] func(ctx context.Context, s *Store[S]) error

// PersistConfig 持久化配置
type PersistConfig[S any] struct {
	Enabled bool
	// Key defaults to the store id.
	Key string
	// Storage defaults to storage.Local.
	Storage storage.Kind
	// Include keeps only the listed top-level JSON fields. It wins over Exclude.
	Include []string
	// Exclude drops the listed top-level JSON fields.
	Exclude []string
	// Restore patches the store from the stored snapshot on install.
	Restore bool
	// RestoreFunc is called instead of the default patch when set.
	RestoreFunc RestoreFunc[S]
}

// Persist rehydrates st according to cfg and then writes a filtered
// snapshot to the backend after every mutation. The subscription is
// detached, so it outlives st.Dispose. The returned func removes it.
func Persist[S any](ctx context.Context, st *Store[S], cfg PersistConfig[S], backends storage.Backends) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}
	key := cfg.Key
	if key == "" {
		key = st.ID()
	}
	backend, err := backends.Get(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// 恢复状态
	switch {
	case cfg.RestoreFunc != nil:
		if err := cfg.RestoreFunc(ctx, st); err != nil {
			return nil, fmt.Errorf("restore %s: %w", key, err)
		}
	case cfg.Restore:
		data, err := backend.GetItem(ctx, key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("restore %s: %w", key, err)
		case data != "":
			if err := st.PatchJSON(ctx, []byte(data)); err != nil {
				return nil, fmt.Errorf("restore %s: %w", key, err)
			}
		}
	}

	unsubscribe := st.Subscribe(func(ctx context.Context, _ Mutation, state S) error {
		data, err := Snapshot(state, cfg.Include, cfg.Exclude)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", key, err)
		}
		if err := backend.SetItem(ctx, key, string(data)); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		return nil
	}, Detached())

	return unsubscribe, nil
}

// Snapshot deep-copies state through JSON and applies the field filter.
func Snapshot[S any](state S, include, exclude []string) ([]byte, error) {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return nil, err
	}
	if len(include) == 0 && len(exclude) == 0 {
		return raw, nil
	}

	var fields map[string]any
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k := range fields {
		if len(include) > 0 {
			if !slices.Contains(include, k) {
				delete(fields, k)
			}
			continue
		}
		if slices.Contains(exclude, k) {
			delete(fields, k)
		}
	}
	return sonic.Marshal(fields)
}
