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

package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type menuSource struct {
	menus []route.MenuNode
	err   error
	calls int
}

func (m *menuSource) Menus(context.Context, store.MenuQuery) ([]route.MenuNode, error) {
	m.calls++
	return m.menus, m.err
}

func dashboardMenus() []route.MenuNode {
	return []route.MenuNode{{
		MenuURL:  "/index",
		MenuName: "Dashboard",
		Children: []route.MenuNode{
			{MenuURL: "/index/home", MenuName: "主控台", Affix: true, Cacheable: true, IsRootPath: true},
			{MenuURL: "/index/work-place", MenuName: "工作台", Cacheable: true},
		},
	}}
}

type session struct {
	router     *router.Router
	guards     *Guards
	user       *store.UserStore
	permission *store.Permission
	cached     *store.CachedRoutes
	visited    *store.VisitedRoutes
	remove     func()
}

func newSession(t *testing.T, src store.MenuSource) *session {
	t.Helper()
	ctx := context.Background()
	backends := storage.Backends{
		Local:   storage.NewFastCacheStorage(storage.FastCacheConfig{}),
		Session: storage.NewFastCacheStorage(storage.FastCacheConfig{}),
	}
	constant := route.ConstantRoutes(route.DefaultViewPrefix, route.DefaultViewExt)
	r := router.New(constant)

	user, err := store.NewUserStore(ctx, backends)
	require.NoError(t, err)
	cached := store.NewCachedRoutes()
	visited, err := store.NewVisitedRoutes(ctx, cached, backends.Local)
	require.NoError(t, err)
	permission := store.NewPermission(src, route.NewGenerator(nil), r, store.WithConstantRoutes(constant))

	g, remove := Install(r, Deps{
		User:        user,
		Permission:  permission,
		Cached:      cached,
		Visited:     visited,
		ProjectName: "Arcade",
	})
	return &session{router: r, guards: g, user: user, permission: permission, cached: cached, visited: visited, remove: remove}
}

func (s *session) login(t *testing.T) {
	t.Helper()
	require.NoError(t, s.user.SaveUser(context.Background(), store.UserState{UserID: 1, RoleID: 1, Token: "opaque-token"}))
}

func visitedPaths(v *store.VisitedRoutes) []string {
	var out []string
	for _, e := range v.Entries() {
		out = append(out, e.Path)
	}
	return out
}

func TestGuards_NoTokenRedirectsToLogin(t *testing.T) {
	s := newSession(t, &menuSource{menus: dashboardMenus()})

	to, err := s.router.Push(context.Background(), "/index/home?tab=1")
	require.NoError(t, err)

	assert.Equal(t, route.PathLogin, to.Path)
	assert.Equal(t, "/index/home?tab=1", to.Query.Get("redirect"))
	assert.Equal(t, "/index/home?tab=1", to.RedirectedFrom)
	assert.Equal(t, "Arcade | 登录", s.guards.Title())
	assert.False(t, s.permission.Loaded())
	assert.Empty(t, s.visited.Entries(), "whitelisted pages are not tabs")
}

func TestGuards_WhitelistWithoutToken(t *testing.T) {
	s := newSession(t, &menuSource{menus: dashboardMenus()})
	for _, p := range DefaultWhitelist {
		to, err := s.router.Push(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, p, to.Path)
	}
}

func TestGuards_LazyPermissionInit(t *testing.T) {
	ctx := context.Background()
	src := &menuSource{menus: dashboardMenus()}
	s := newSession(t, src)
	s.login(t)

	to, err := s.router.Push(ctx, "/")
	require.NoError(t, err)

	assert.Equal(t, "/index/home", to.Path)
	assert.True(t, to.Replace)
	assert.Equal(t, "/", to.RedirectedFrom)
	assert.True(t, s.permission.Loaded())
	assert.Equal(t, "Arcade | 主控台", s.guards.Title())

	// cache seeded from the registered routes once they exist
	assert.ElementsMatch(t, []string{"home", "workPlace"}, s.cached.Names())
	// affixed tab pinned first, the landing page not duplicated
	assert.Equal(t, []string{"/index/home"}, visitedPaths(s.visited))

	to, err = s.router.Push(ctx, "/index/work-place")
	require.NoError(t, err)
	assert.Equal(t, "/index/work-place", to.Path)
	assert.False(t, to.Replace)
	assert.Equal(t, []string{"/index/home", "/index/work-place"}, visitedPaths(s.visited))
	assert.Equal(t, 1, src.calls)
}

func TestGuards_UnknownPathAfterLoadGoesTo404(t *testing.T) {
	s := newSession(t, &menuSource{menus: dashboardMenus()})
	s.login(t)

	to, err := s.router.Push(context.Background(), "/does/not/exist")
	require.NoError(t, err)
	assert.Equal(t, route.PathNotFound, to.Path)
	assert.Equal(t, "Arcade | 404", s.guards.Title())
	assert.Equal(t, []string{"/index/home"}, visitedPaths(s.visited))
}

func TestGuards_FetchFailureProceeds(t *testing.T) {
	s := newSession(t, &menuSource{err: errors.New("menu api down")})
	s.login(t)

	to, err := s.router.Push(context.Background(), "/index/home")
	require.NoError(t, err)
	assert.False(t, to.IsMatched())
	assert.False(t, s.permission.Loaded())
	assert.Equal(t, "Arcade", s.guards.Title())
	assert.Empty(t, s.visited.Entries())
	assert.False(t, s.visited.AffixLoaded())
}

func TestGuards_ContextCancelledFails(t *testing.T) {
	s := newSession(t, &menuSource{menus: dashboardMenus()})
	s.login(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.router.Push(ctx, "/index/home")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuards_Remove(t *testing.T) {
	s := newSession(t, &menuSource{menus: dashboardMenus()})
	s.remove()

	to, err := s.router.Push(context.Background(), "/index/home")
	require.NoError(t, err)
	// no permission guard, so no redirect to login
	assert.Equal(t, "/index/home", to.Path)
	assert.Equal(t, "Arcade", s.guards.Title())
}

func TestGuards_Whitelisted(t *testing.T) {
	g := &Guards{deps: Deps{Whitelist: []string{"/login"}}}
	assert.True(t, g.Whitelisted("/login"))
	assert.False(t, g.Whitelisted("/login/x"))
}
