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
package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type menuSource struct {
	calls int
}

func (m *menuSource) Menus(context.Context, store.MenuQuery) ([]route.MenuNode, error) {
	m.calls++
	return []route.MenuNode{{
		MenuURL:  "/index",
		MenuName: "Dashboard",
		Children: []route.MenuNode{
			{MenuURL: "/index/home", MenuName: "主控台", Affix: true, Cacheable: true, IsRootPath: true},
			{MenuURL: "/index/work-place", MenuName: "工作台", Cacheable: true},
		},
	}}, nil
}

func newManager(t *testing.T, conf Config) (*Manager, *menuSource) {
	t.Helper()
	src := &menuSource{}
	m := NewManager(Deps{
		Source: src,
		Backends: storage.Backends{
			Local:   storage.NewFastCacheStorage(storage.FastCacheConfig{}),
			Session: storage.NewFastCacheStorage(storage.FastCacheConfig{}),
		},
	}, conf)
	t.Cleanup(m.Close)
	return m, src
}

func loggedIn(t *testing.T, m *Manager) *Session {
	t.Helper()
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)
	to, err := s.Login(ctx, LoginRequest{UserState: store.UserState{UserID: 7, RoleID: 2, Token: "opaque"}})
	require.NoError(t, err)
	require.Equal(t, "/index/home", to.Path)
	return s
}

func tabPaths(s *Session) []string {
	var out []string
	for _, e := range s.Visited.Entries() {
		out = append(out, e.Path)
	}
	return out
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{})

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "../../etc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_LoginLandsOnRootPath(t *testing.T) {
	ctx := context.Background()
	m, src := newManager(t, Config{ProjectName: "Arcade"})
	s := loggedIn(t, m)

	assert.True(t, s.Permission.Loaded())
	assert.Equal(t, "Arcade | 主控台", s.Guards.Title())
	assert.Equal(t, []string{"/index/home"}, tabPaths(s))

	to, err := s.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)
	assert.Equal(t, "/index/work-place", to.Path)
	assert.Equal(t, []string{"/index/home", "/index/work-place"}, tabPaths(s))
	assert.Equal(t, 1, src.calls)
}

func TestSession_LoginRedirect(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{})
	s, err := m.Create(ctx)
	require.NoError(t, err)

	to, err := s.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)
	require.Equal(t, route.PathLogin, to.Path)

	to, err = s.Login(ctx, LoginRequest{
		UserState: store.UserState{Token: "opaque"},
		Redirect:  to.Query.Get("redirect"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/index/work-place", to.Path)
}

func TestManager_RestoreFromStorage(t *testing.T) {
	ctx := context.Background()
	m, src := newManager(t, Config{})
	s := loggedIn(t, m)
	_, err := s.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)

	require.True(t, m.Remove(s.ID))
	assert.Equal(t, 0, m.Len())

	restored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotSame(t, s, restored)
	assert.Equal(t, "opaque", restored.User.State().Token)
	assert.Equal(t, []string{"/index/home", "/index/work-place"}, tabPaths(restored))
	assert.False(t, restored.Permission.Loaded())

	// permission routes come back on the next navigation
	to, err := restored.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)
	assert.Equal(t, "/index/work-place", to.Path)
	assert.Equal(t, 2, src.calls)
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{})
	s := loggedIn(t, m)

	require.True(t, s.Permission.Loaded())

	fresh, err := m.Logout(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, fresh.ID)

	// the old session gives up its permission routes
	assert.False(t, s.Permission.Loaded())
	assert.False(t, s.Router.HasRoute(store.RootRouteName))
	assert.Zero(t, s.Cached.Len())

	assert.Empty(t, fresh.User.State().Token)
	assert.Empty(t, fresh.Visited.Entries())
	assert.False(t, fresh.Permission.Loaded())

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, fresh, got)

	to, err := fresh.Navigate(ctx, "/index/home", false)
	require.NoError(t, err)
	assert.Equal(t, route.PathLogin, to.Path)
}

func TestSession_CloseTab(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{})
	s := loggedIn(t, m)
	_, err := s.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)

	next, to, err := s.CloseTab(ctx, "/index/work-place")
	require.NoError(t, err)
	assert.Equal(t, "/index/home", next)
	require.NotNil(t, to)
	assert.Equal(t, "/index/home", to.Path)
	assert.Equal(t, []string{"/index/home"}, tabPaths(s))

	_, _, err = s.CloseTab(ctx, "/nope")
	assert.ErrorIs(t, err, ErrTabNotFound)
}

func TestSession_CloseTabs(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{})
	s := loggedIn(t, m)
	_, err := s.Navigate(ctx, "/index/work-place", false)
	require.NoError(t, err)

	// the current page survives closing to its right
	to, err := s.CloseTabs(ctx, CloseRight, "/index/work-place")
	require.NoError(t, err)
	assert.Nil(t, to)

	to, err = s.CloseTabs(ctx, CloseAll, "")
	require.NoError(t, err)
	require.NotNil(t, to)
	assert.Equal(t, "/index/home", to.Path)
	assert.Equal(t, []string{"/index/home"}, tabPaths(s))
	assert.Equal(t, []string{"home"}, s.Cached.Names())

	_, err = s.CloseTabs(ctx, CloseSide("up"), "/index/home")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestManager_Sweep(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{TTL: time.Minute})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	idle, err := m.Create(ctx)
	require.NoError(t, err)
	m.now = func() time.Time { return start.Add(50 * time.Second) }
	active, err := m.Create(ctx)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(90 * time.Second) }
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ctx, active.ID)
	require.NoError(t, err)
	assert.Same(t, active, got)

	// swept sessions are rebuilt on demand
	got, err = m.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.NotSame(t, idle, got)
}

func TestManager_SweepWithoutTTL(t *testing.T) {
	m, _ := newManager(t, Config{})
	_, err := m.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Sweep())
}

func TestManager_MaxSessions(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, Config{MaxSessions: 1})
	_, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Create(ctx)
	assert.ErrorIs(t, err, ErrLimit)
}

func TestManager_UpdateConfig(t *testing.T) {
	m, _ := newManager(t, Config{ProjectName: "Old"})
	m.UpdateConfig(Config{ProjectName: "New"})
	s := loggedIn(t, m)
	assert.Equal(t, "New | 主控台", s.Guards.Title())
}
