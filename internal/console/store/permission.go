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
	"sync"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/statemachine"
	"golang.org/x/sync/singleflight"
)

const (
	PermissionID = "permission-route"

	// RootRouteName and CatchAllRouteName name the two records installed
	// after the dynamic routes, so a reload replaces them.
	RootRouteName     = "__root"
	CatchAllRouteName = "__catchAll"
)

// ErrMenuFetch is returned by Init when the menu tree could not be loaded.
var ErrMenuFetch = errors.New("permission: menu fetch failed")

// MenuQuery identifies whose menus to fetch.
type MenuQuery struct {
	UserID int64  `json:"userId"`
	RoleID int64  `json:"roleId"`
	Token  string `json:"-"`
}

// MenuSource returns the menu tree for a user.
type MenuSource interface {
	Menus(ctx context.Context, q MenuQuery) ([]route.MenuNode, error)
}

// RouteRegistrar is the route table permission routes are added to.
// AddRoute returns a func that removes what it added.
type RouteRegistrar interface {
	AddRoute(r *route.Record) func()
}

// Permission 准许访问路由
//
// Only one load runs at a time: callers arriving while a load is in
// flight wait for it and share its result.
type Permission struct {
	group     singleflight.Group
	sm        *statemachine.StateMachine[statemachine.RouteLoadState]
	source    MenuSource
	generator *route.Generator
	registrar RouteRegistrar
	constant  []*route.Record
	recorder  *metrics.ConsoleMetricsRecorder

	mu      sync.RWMutex
	routes  []*route.Record
	removes []func()
}

type PermissionOption func(*Permission)

// WithConstantRoutes sets the routes every user has, listed before the
// generated ones.
func WithConstantRoutes(records []*route.Record) PermissionOption {
	return func(p *Permission) { p.constant = records }
}

func WithPermissionMetrics(r *metrics.ConsoleMetricsRecorder) PermissionOption {
	return func(p *Permission) { p.recorder = r }
}

func NewPermission(source MenuSource, generator *route.Generator, registrar RouteRegistrar, opts ...PermissionOption) *Permission {
	p := &Permission{
		sm:        statemachine.NewRouteLoadStateMachine(),
		source:    source,
		generator: generator,
		registrar: registrar,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns EMPTY, LOADING or LOADED.
func (p *Permission) State() statemachine.RouteLoadState {
	return p.sm.Current()
}

func (p *Permission) Loaded() bool {
	return p.sm.Is(statemachine.RouteLoaded)
}

// Init loads and registers the permission routes for q. It returns nil at
// once when they are already loaded.
//
// The fetch is detached from ctx, so a caller that gives up does not fail
// the load for the others waiting on it.
func (p *Permission) Init(ctx context.Context, q MenuQuery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loadCtx := context.WithoutCancel(ctx)
	for {
		if p.sm.Is(statemachine.RouteLoaded) {
			return nil
		}
		ch := p.group.DoChan(PermissionID, func() (any, error) {
			if p.sm.Is(statemachine.RouteLoaded) {
				return nil, nil
			}
			if err := p.sm.Transition(statemachine.RouteEmpty, statemachine.RouteLoading); err != nil {
				return nil, err
			}
			return nil, p.load(loadCtx, q)
		})
		if err := p.wait(ctx, ch); err != nil {
			return err
		}
		// a flight joined from Reset loads nothing
	}
}

func (p *Permission) wait(ctx context.Context, ch <-chan singleflight.Result) error {
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Permission) load(ctx context.Context, q MenuQuery) error {
	menus, err := p.source.Menus(ctx, q)
	if err != nil {
		log.Errorw("路由加载失败，请确认菜单接口可用并且返回的数据格式正确",
			"userId", q.UserID, "roleId", q.RoleID, "error", err)
		p.recorder.RecordPermissionLoad(0, err)
		if terr := p.sm.Transition(statemachine.RouteLoading, statemachine.RouteEmpty); terr != nil {
			log.Warnw("permission state transition failed", "error", terr)
		}
		return fmt.Errorf("%w: %w", ErrMenuFetch, err)
	}

	generated := p.generator.Generate(menus)
	// 将多层级的路由拍成2级路由
	flattened := route.FlattenTwoLevel(generated)

	removes := make([]func(), 0, len(flattened)+2)
	for _, r := range flattened {
		removes = append(removes, p.registrar.AddRoute(r))
	}
	// `/` 的默认跳转地址
	removes = append(removes, p.registrar.AddRoute(&route.Record{
		Path:     route.PathRoot,
		Name:     RootRouteName,
		Redirect: route.RootPath(flattened),
		Meta:     route.Meta{route.MetaHidden: true},
	}))
	// 这个路由一定要放在最后
	removes = append(removes, p.registrar.AddRoute(&route.Record{
		Path:     route.PathCatchAll,
		Name:     CatchAllRouteName,
		Redirect: route.PathNotFound,
		Meta:     route.Meta{route.MetaHidden: true},
	}))

	routes := make([]*route.Record, 0, len(p.constant)+len(generated))
	routes = append(routes, route.CloneAll(p.constant)...)
	routes = append(routes, route.ResolvePaths(generated)...)

	p.mu.Lock()
	p.routes = routes
	p.removes = removes
	p.mu.Unlock()

	if err := p.sm.Transition(statemachine.RouteLoading, statemachine.RouteLoaded); err != nil {
		return err
	}
	p.recorder.RecordPermissionLoad(len(flattened), nil)
	log.Infow("permission routes loaded", "userId", q.UserID, "roleId", q.RoleID, "routes", len(flattened))
	return nil
}

// Reset unregisters the permission routes and returns to EMPTY. A load in
// flight is waited for first.
func (p *Permission) Reset(ctx context.Context) error {
	for {
		if p.sm.Is(statemachine.RouteLoading) {
			// joins the load in flight, or returns at once when it just ended
			ch := p.group.DoChan(PermissionID, func() (any, error) { return nil, nil })
			if err := p.wait(ctx, ch); err != nil && ctx.Err() != nil {
				return err
			}
			continue
		}

		p.mu.Lock()
		switch p.sm.Current() {
		case statemachine.RouteEmpty:
			p.mu.Unlock()
			return nil
		case statemachine.RouteLoading:
			p.mu.Unlock()
			continue
		}
		for _, remove := range p.removes {
			remove()
		}
		p.removes = nil
		p.routes = nil
		err := p.sm.Transition(statemachine.RouteLoaded, statemachine.RouteEmpty)
		p.mu.Unlock()
		return err
	}
}

// Routes returns constant routes followed by the generated tree, with
// absolute paths.
func (p *Permission) Routes() []*route.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.routes
}

// SideBar 获取所有 meta.hidden 不为真的路由
func (p *Permission) SideBar() []*route.Record {
	return route.SideBar(p.Routes())
}

// SplitTabs 获取所有不隐藏并且有子页面的路由
func (p *Permission) SplitTabs() []route.SplitTab {
	return route.SplitTabs(p.Routes())
}

// MenuTree projects the permission routes into sidebar items.
func (p *Permission) MenuTree() []route.MenuItem {
	return route.MenuTree(p.Routes())
}

// FindByPath 给出路径从权限路由中找到路由
func (p *Permission) FindByPath(path string) *route.Record {
	return route.FindByPath(p.Routes(), path)
}
