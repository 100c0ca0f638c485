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

package remote

import (
	"context"
	_ "embed"
	"os"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/pkg/errors"
)

//go:embed defaults/menus.json
var defaultMenus []byte

// StaticSource 默认菜单，所有用户相同
type StaticSource struct {
	data []byte
}

// NewStaticSource serves the embedded default menu tree.
func NewStaticSource() (*StaticSource, error) {
	return newStaticSource(defaultMenus)
}

// NewStaticSourceFromFile serves the menu tree in a JSON file.
func NewStaticSourceFromFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read menu file")
	}
	return newStaticSource(data)
}

func newStaticSource(data []byte) (*StaticSource, error) {
	// fail at startup rather than on the first login
	if _, err := route.LoadMenus(data); err != nil {
		return nil, err
	}
	return &StaticSource{data: data}, nil
}

// Menus decodes a fresh copy on every call so callers may keep what they get.
func (s *StaticSource) Menus(context.Context, store.MenuQuery) ([]route.MenuNode, error) {
	return route.LoadMenus(s.data)
}
