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
	"cmp"
	"context"
	"slices"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/repo"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/log"
	"github.com/pkg/errors"
)

// maxMenuDepth bounds the ancestor lookup.
const maxMenuDepth = 8

// DBSource 从 t_menu / t_role_menu_binding 读取角色菜单
type DBSource struct {
	repos *repo.Repositories
}

func NewDBSource(repos *repo.Repositories) *DBSource {
	return &DBSource{repos: repos}
}

// Menus returns the menus bound to q.RoleID as a tree. Ancestors of a bound
// menu are included even when not bound themselves.
func (s *DBSource) Menus(ctx context.Context, q store.MenuQuery) ([]route.MenuNode, error) {
	bindings, err := s.repos.RoleMenuBinding.ListAccessible(ctx, q.RoleID)
	if err != nil {
		return nil, errors.Wrap(err, "get role menu bindings")
	}

	hidden := make(map[string]bool, len(bindings))
	ids := make([]string, 0, len(bindings))
	for _, b := range bindings {
		ids = append(ids, b.MenuId)
		if b.IsVisible == model.MenuInvisible {
			hidden[b.MenuId] = true
		}
	}

	menus, err := s.repos.Menu.GetMenusByMenuIds(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menus")
	}
	menus, err = s.withAncestors(ctx, menus)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(menus, hidden), nil
}

func (s *DBSource) withAncestors(ctx context.Context, menus []model.Menu) ([]model.Menu, error) {
	known := make(map[string]bool, len(menus))
	for _, m := range menus {
		known[m.MenuId] = true
	}
	batch := menus
	for depth := 0; depth < maxMenuDepth; depth++ {
		var missing []string
		for _, m := range batch {
			if m.ParentId != "" && !known[m.ParentId] && !slices.Contains(missing, m.ParentId) {
				missing = append(missing, m.ParentId)
			}
		}
		if len(missing) == 0 {
			return menus, nil
		}
		parents, err := s.repos.Menu.GetMenusByMenuIds(ctx, missing)
		if err != nil {
			return nil, errors.Wrap(err, "get parent menus")
		}
		if len(parents) == 0 {
			return menus, nil
		}
		for _, p := range parents {
			known[p.MenuId] = true
		}
		menus = append(menus, parents...)
		batch = parents
	}
	return menus, nil
}

// BuildMenuTree 根据 parentId 组装菜单树，同级按 order 排序
//
// Menus whose parent is not in the list are dropped, so a disabled parent
// hides its whole subtree. hidden marks menus bound as invisible.
func BuildMenuTree(menus []model.Menu, hidden map[string]bool) []route.MenuNode {
	sorted := slices.Clone(menus)
	slices.SortStableFunc(sorted, func(a, b model.Menu) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.ID, b.ID))
	})

	present := make(map[string]bool, len(sorted))
	children := make(map[string][]model.Menu)
	for _, m := range sorted {
		present[m.MenuId] = true
	}
	var roots []model.Menu
	for _, m := range sorted {
		switch {
		case m.ParentId == "":
			roots = append(roots, m)
		case present[m.ParentId]:
			children[m.ParentId] = append(children[m.ParentId], m)
		default:
			log.Debugw("menu dropped, parent not available", "menuId", m.MenuId, "parentId", m.ParentId)
		}
	}

	seen := make(map[string]bool, len(sorted))
	var build func(level []model.Menu) []route.MenuNode
	build = func(level []model.Menu) []route.MenuNode {
		nodes := make([]route.MenuNode, 0, len(level))
		for _, m := range level {
			if seen[m.MenuId] {
				continue
			}
			seen[m.MenuId] = true
			n := toMenuNode(m, hidden[m.MenuId])
			if kids := children[m.MenuId]; len(kids) > 0 {
				n.Children = build(kids)
			}
			nodes = append(nodes, n)
		}
		return nodes
	}
	return build(roots)
}

func toMenuNode(m model.Menu, hidden bool) route.MenuNode {
	n := route.MenuNode{
		MenuURL:       m.Path,
		MenuName:      m.Name,
		RouteName:     m.RouteName,
		Icon:          m.Icon,
		IconPrefix:    m.IconPrefix,
		Hidden:        hidden || m.IsVisible == model.MenuInvisible,
		Affix:         m.IsAffix == model.FlagOn,
		Cacheable:     m.IsCacheable == model.FlagOn,
		IsRootPath:    m.IsRootPath == model.FlagOn,
		IsSingle:      m.IsSingle == model.FlagOn,
		OutLink:       m.OutLink,
		LocalFilePath: m.LocalFilePath,
	}
	if m.Meta != "" {
		var extra struct {
			Badge any `json:"badge"`
		}
		if err := sonic.UnmarshalString(m.Meta, &extra); err != nil {
			log.Warnw("invalid menu meta ignored", "menuId", m.MenuId, "error", err)
		} else {
			n.Badge = extra.Badge
		}
	}
	return n
}
