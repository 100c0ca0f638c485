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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls atomic.Int32
	gate  chan struct{}
	menus []route.MenuNode
	err   error
}

func (f *fakeSource) Menus(ctx context.Context, _ MenuQuery) ([]route.MenuNode, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.menus, f.err
}

func testMenus() []route.MenuNode {
	return []route.MenuNode{
		{
			MenuURL:  "/index",
			MenuName: "Dashboard",
			Children: []route.MenuNode{
				{MenuURL: "/index/home", MenuName: "主控台", Affix: true, Cacheable: true},
				{MenuURL: "/index/work-place", MenuName: "工作台", IsRootPath: true},
			},
		},
		{
			MenuURL:  "/system",
			MenuName: "系统管理",
			Children: []route.MenuNode{
				{MenuURL: "/system/user", MenuName: "用户管理"},
			},
		},
	}
}

func newTestPermission(t *testing.T, src MenuSource) (*Permission, *router.Router) {
	t.Helper()
	local, err := route.DefaultLocalRoutes()
	require.NoError(t, err)
	constant := route.ConstantRoutes(route.DefaultViewPrefix, route.DefaultViewExt)
	r := router.New(constant)
	p := NewPermission(src, route.NewGenerator(local), r, WithConstantRoutes(constant))
	return p, r
}

func routePaths(records []*route.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestPermission_InitRegistersRoutes(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{menus: testMenus()}
	p, r := newTestPermission(t, src)
	assert.Equal(t, statemachine.RouteEmpty, p.State())

	require.NoError(t, p.Init(ctx, MenuQuery{UserID: 1}))
	assert.True(t, p.Loaded())

	paths := routePaths(r.Routes())
	assert.Equal(t, []string{
		route.PathLogin, route.PathNotFound, route.PathForbidden, route.PathError,
		"/index", "/index/home", "/index/work-place",
		"/system", "/system/user",
		route.PathRoot, route.PathCatchAll,
	}, paths)

	// `/` follows isRootPath
	to, err := r.Resolve(router.Location{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "/index/work-place", to.Path)

	// unknown paths land on 404
	to, err = r.Resolve(router.Location{Path: "/nope"})
	require.NoError(t, err)
	assert.Equal(t, route.PathNotFound, to.Path)

	// permission routes are constant + nested tree
	routes := p.Routes()
	require.Len(t, routes, 4+2)
	assert.Equal(t, route.PathLogin, routes[0].Path)
	assert.Equal(t, "/system", routes[5].Path)
	assert.Equal(t, "/system/user", routes[5].Children[0].Path)
	// the local definition wins over the remote title
	assert.Equal(t, "系统管理", routes[5].Meta.Title())
	assert.Equal(t, "systemUser", routes[5].Children[0].Name)

	// second Init is a no-op
	require.NoError(t, p.Init(ctx, MenuQuery{UserID: 1}))
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestPermission_Projections(t *testing.T) {
	p, _ := newTestPermission(t, &fakeSource{menus: testMenus()})
	require.NoError(t, p.Init(context.Background(), MenuQuery{}))

	// constant routes are hidden
	assert.Equal(t, []string{"/index", "/system"}, routePaths(p.SideBar()))

	tabs := p.SplitTabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "Dashboard", tabs[0].Label)

	assert.Len(t, p.MenuTree(), 2)

	found := p.FindByPath("/index/home")
	require.NotNil(t, found)
	assert.Equal(t, "home", found.Name)
	assert.Nil(t, p.FindByPath("/missing"))
}

func TestPermission_ConcurrentInitFetchesOnce(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{menus: testMenus(), gate: make(chan struct{})}
	p, _ := newTestPermission(t, src)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.Init(ctx, MenuQuery{UserID: 1})
		}(i)
	}

	assert.Eventually(t, func() bool { return p.State() == statemachine.RouteLoading }, time.Second, time.Millisecond)
	close(src.gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, p.Loaded())
}

func TestPermission_FetchFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	src := &fakeSource{err: boom}
	p, r := newTestPermission(t, src)
	before := r.Len()

	err := p.Init(ctx, MenuQuery{})
	assert.ErrorIs(t, err, ErrMenuFetch)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, statemachine.RouteEmpty, p.State())
	assert.Equal(t, before, r.Len())
	assert.Empty(t, p.Routes())

	// a later call retries
	src.err = nil
	src.menus = testMenus()
	require.NoError(t, p.Init(ctx, MenuQuery{}))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestPermission_WaiterHonoursContext(t *testing.T) {
	src := &fakeSource{menus: testMenus(), gate: make(chan struct{})}
	p, _ := newTestPermission(t, src)

	done := make(chan error, 1)
	go func() { done <- p.Init(context.Background(), MenuQuery{}) }()
	assert.Eventually(t, func() bool { return p.State() == statemachine.RouteLoading }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Init(ctx, MenuQuery{}), context.Canceled)

	close(src.gate)
	assert.NoError(t, <-done)
}

func TestPermission_ResetUnregisters(t *testing.T) {
	ctx := context.Background()
	p, r := newTestPermission(t, &fakeSource{menus: testMenus()})
	before := r.Len()
	require.NoError(t, p.Init(ctx, MenuQuery{}))
	require.Greater(t, r.Len(), before)

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, statemachine.RouteEmpty, p.State())
	assert.Equal(t, before, r.Len())
	assert.False(t, r.HasRoute(RootRouteName))
	assert.False(t, r.HasRoute(CatchAllRouteName))
	assert.Nil(t, p.Routes())

	// reset when empty is fine
	require.NoError(t, p.Reset(ctx))
}

func TestPermission_ReloadReplacesRoutes(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{menus: testMenus()}
	p, r := newTestPermission(t, src)
	require.NoError(t, p.Init(ctx, MenuQuery{}))
	loaded := r.Len()

	require.NoError(t, p.Reset(ctx))
	require.NoError(t, p.Init(ctx, MenuQuery{}))
	assert.Equal(t, loaded, r.Len())
}

type trackingRegistrar struct {
	mu      sync.Mutex
	live    map[int]*route.Record
	nextKey int
}

func (t *trackingRegistrar) AddRoute(r *route.Record) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		t.live = map[int]*route.Record{}
	}
	key := t.nextKey
	t.nextKey++
	t.live[key] = r
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.live, key)
	}
}

func (t *trackingRegistrar) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

func TestPermission_ResetRemovesEveryAddedRoute(t *testing.T) {
	ctx := context.Background()
	reg := &trackingRegistrar{}
	p := NewPermission(&fakeSource{menus: testMenus()}, route.NewGenerator(nil), reg)

	require.NoError(t, p.Init(ctx, MenuQuery{}))
	require.Positive(t, reg.Len())

	require.NoError(t, p.Reset(ctx))
	assert.Zero(t, reg.Len())

	require.NoError(t, p.Init(ctx, MenuQuery{}))
	loaded := reg.Len()
	require.NoError(t, p.Reset(ctx))
	require.NoError(t, p.Init(ctx, MenuQuery{}))
	assert.Equal(t, loaded, reg.Len(), "a reload does not duplicate routes")
}

func TestPermission_CallerLeavingKeepsSharedLoad(t *testing.T) {
	src := &fakeSource{menus: testMenus(), gate: make(chan struct{})}
	p, _ := newTestPermission(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- p.Init(ctx, MenuQuery{}) }()
	assert.Eventually(t, func() bool { return p.State() == statemachine.RouteLoading }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- p.Init(context.Background(), MenuQuery{}) }()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	assert.Equal(t, statemachine.RouteLoading, p.State())

	close(src.gate)
	assert.NoError(t, <-second)
	assert.True(t, p.Loaded())
	assert.Equal(t, int32(1), src.calls.Load())
}
