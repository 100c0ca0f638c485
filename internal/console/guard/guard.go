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

// Package guard wires the navigation guards of a console session onto its
// router.
package guard

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"sync"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
)

const DefaultProjectName = "Arcade Console"

// DefaultWhitelist 白名单，无需登录即可访问
var DefaultWhitelist = []string{route.PathLogin, route.PathNotFound, route.PathForbidden, route.PathError}

// Deps are the per-session pieces the guards read and update.
type Deps struct {
	User       *store.UserStore
	Permission *store.Permission
	Cached     *store.CachedRoutes
	Visited    *store.VisitedRoutes
	Recorder   *metrics.ConsoleMetricsRecorder

	ProjectName string
	Whitelist   []string
}

// Guards holds the guards installed on one router.
type Guards struct {
	router *router.Router
	deps   Deps

	mu    sync.RWMutex
	title string
}

// Install registers, in order, the cache guard, the permission guard, the
// title hook and the visited-tab hook. The returned func removes them all.
func Install(r *router.Router, deps Deps) (*Guards, func()) {
	if deps.ProjectName == "" {
		deps.ProjectName = DefaultProjectName
	}
	if deps.Whitelist == nil {
		deps.Whitelist = DefaultWhitelist
	}
	g := &Guards{router: r, deps: deps, title: deps.ProjectName}

	removers := []func(){
		r.BeforeEach(g.Cached),
		r.BeforeEach(g.Permission),
		r.AfterEach(g.PageTitle),
	}
	if deps.Visited != nil {
		removers = append(removers, r.AfterEach(g.VisitedTabs))
	}
	return g, func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// Cached 缓存路由为空时，从所有路由中找到标识有 cacheable 的路由并初始化
func (g *Guards) Cached(_ context.Context, _, _ *router.Target) (router.Decision, error) {
	if g.deps.Cached.Len() == 0 {
		g.deps.Cached.Initialize(route.CacheableNames(g.router.Routes()))
	}
	return router.Proceed(), nil
}

// Permission 权限守卫
//
//  1. 白名单页面直接进入
//  2. token 过期，进入登录页面
//  3. 权限路由为空，初始化权限路由并重新进入该页面
//  4. 允许进入该页面
func (g *Guards) Permission(ctx context.Context, to, _ *router.Target) (router.Decision, error) {
	if g.Whitelisted(to.Path) {
		return router.Proceed(), nil
	}
	if g.deps.User.IsTokenExpired() {
		return router.Redirect(router.Location{
			Path:  route.PathLogin,
			Query: url.Values{"redirect": {to.FullPath}},
		}), nil
	}
	if g.deps.Permission.Loaded() {
		return router.Proceed(), nil
	}

	if err := g.deps.Permission.Init(ctx, g.deps.User.Query()); err != nil {
		if errors.Is(err, store.ErrMenuFetch) {
			// 菜单加载失败时放行，由 404 / 页面自身处理
			return router.Proceed(), nil
		}
		return router.Decision{}, err
	}
	// 重新进入
	return router.ReplaceWith(to.Location()), nil
}

// PageTitle 动态修改页面的标题：项目名 | 标题，没有标题时只显示项目名
func (g *Guards) PageTitle(_ context.Context, to, _ *router.Target) {
	title := g.deps.ProjectName
	if t := to.Meta.Title(); t != "" {
		title = g.deps.ProjectName + " | " + t
	}
	g.mu.Lock()
	g.title = title
	g.mu.Unlock()
}

// Title returns the page title of the last committed navigation.
func (g *Guards) Title() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.title
}

// VisitedTabs pins the affixed routes on first use and records every
// committed navigation as a tab. Whitelisted and unmatched pages are not
// recorded.
func (g *Guards) VisitedTabs(ctx context.Context, to, _ *router.Target) {
	visited := g.deps.Visited
	// 权限路由加载后才固定 affix 路由
	if !visited.AffixLoaded() && g.deps.Permission.Loaded() {
		affixed := route.Affixed(g.router.Routes())
		entries := make([]store.VisitedEntry, 0, len(affixed))
		for _, r := range affixed {
			entries = append(entries, store.EntryFromRecord(r))
		}
		if err := visited.SeedAffixed(ctx, entries); err != nil {
			g.storageError(err, "seed affixed tabs")
		}
	}

	if !to.IsMatched() || g.Whitelisted(to.Path) {
		return
	}
	err := visited.AddVisited(ctx, store.VisitedEntry{
		FullPath: to.FullPath,
		Meta:     to.Meta.Clone(),
		Name:     to.Name,
		Path:     to.Path,
	})
	if err != nil {
		g.storageError(err, "record visited tab")
	}
}

// Whitelisted reports whether path is reachable without a token.
func (g *Guards) Whitelisted(path string) bool {
	return slices.Contains(g.deps.Whitelist, path)
}

func (g *Guards) storageError(err error, what string) {
	log.Warnw("visited routes not persisted", "op", what, "error", err)
	g.deps.Recorder.RecordStorageError(store.VisitedRoutesID)
}
