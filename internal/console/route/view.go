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

package route

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// ViewRegistry maps view file paths such as /src/views/system/user.vue to
// their loaders. It is filled once at startup.
type ViewRegistry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{loaders: make(map[string]Loader)}
}

// Register binds file to l, replacing any earlier loader.
func (v *ViewRegistry) Register(file string, l Loader) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loaders[file] = l
}

func (v *ViewRegistry) Lookup(file string) (Loader, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	l, ok := v.loaders[file]
	return l, ok
}

func (v *ViewRegistry) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.loaders)
}

// Files returns every registered file, sorted.
func (v *ViewRegistry) Files() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	files := make([]string, 0, len(v.loaders))
	for f := range v.loaders {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ScanViews walks root inside fsys and registers every file ending in ext
// under prefix + its path relative to root.
//
//	root=dist/views, prefix=/src/views: dist/views/system/user.vue -> /src/views/system/user.vue
func ScanViews(fsys fs.FS, root, prefix, ext string) (*ViewRegistry, error) {
	reg := NewViewRegistry()
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ext) {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		file := path.Join(prefix, rel)
		reg.Register(file, func(context.Context) ([]byte, error) {
			return fs.ReadFile(fsys, p)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Bind attaches loaders to every view component in records that has none.
// Records are modified in place; call it on freshly decoded tables only.
func (v *ViewRegistry) Bind(records []*Record) (missing []string) {
	for _, r := range records {
		if c := r.Component; c != nil && c.Kind == ComponentView && c.Load == nil {
			if l, ok := v.Lookup(c.File); ok {
				r.Component = &Component{Kind: ComponentView, File: c.File, Load: l}
			} else {
				missing = append(missing, c.File)
			}
		}
		missing = append(missing, v.Bind(r.Children)...)
	}
	return missing
}
