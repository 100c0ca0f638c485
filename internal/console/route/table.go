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
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
)

//go:embed defaults/local_routes.json
var defaultLocalRoutes []byte

// DefaultLocalRoutes 默认的本地动态路由表
func DefaultLocalRoutes() ([]*Record, error) {
	return LoadRecords(defaultLocalRoutes)
}

// LoadRecords decodes a JSON route table. Every record gets a non-nil meta.
func LoadRecords(data []byte) ([]*Record, error) {
	var records []*Record
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode route table: %w", err)
	}
	ensureMeta(records)
	return records, nil
}

// LoadMenus decodes a JSON menu tree.
func LoadMenus(data []byte) ([]MenuNode, error) {
	var menus []MenuNode
	if err := sonic.Unmarshal(data, &menus); err != nil {
		return nil, fmt.Errorf("decode menu tree: %w", err)
	}
	return menus, nil
}

func ensureMeta(records []*Record) {
	for _, r := range records {
		if r.Meta == nil {
			r.Meta = Meta{}
		}
		ensureMeta(r.Children)
	}
}

// Fixed paths every session can reach without a menu.
const (
	PathLogin     = "/login"
	PathNotFound  = "/404"
	PathForbidden = "/403"
	PathError     = "/500"
	PathRoot      = "/"
	PathCatchAll  = "/:pathMatch(.*)*"
)

// ConstantRoutes 常规路由，不需要权限
func ConstantRoutes(prefix, ext string) []*Record {
	view := func(name string) *Component {
		return &Component{Kind: ComponentView, File: prefix + "/exception/" + name + ext}
	}
	hidden := func(title string) Meta {
		return Meta{MetaHidden: true, MetaTitle: title}
	}
	return []*Record{
		{Path: PathLogin, Name: "login", Component: &Component{Kind: ComponentView, File: prefix + "/login/index" + ext}, Meta: hidden("登录")},
		{Path: PathNotFound, Name: "404", Component: view("404"), Meta: hidden("404")},
		{Path: PathForbidden, Name: "403", Component: view("403"), Meta: hidden("403")},
		{Path: PathError, Name: "500", Component: view("500"), Meta: hidden("500")},
	}
}
