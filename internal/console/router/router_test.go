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

package router

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/go-arcade/console/internal/console/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table() []*route.Record {
	return []*route.Record{
		{Path: "/login", Name: "login", Meta: route.Meta{route.MetaTitle: "登录"}},
		{
			Path: "/system", Name: "system", Meta: route.Meta{},
			Children: []*route.Record{
				{Path: "user", Name: "systemUser", Meta: route.Meta{route.MetaCacheable: true}},
				{Path: "user/:id", Name: "systemUserDetail", Meta: route.Meta{}},
			},
		},
	}
}

func TestRouter_AddRouteAndRoutes(t *testing.T) {
	r := New(table())

	var paths []string
	for _, rec := range r.Routes() {
		paths = append(paths, rec.Path)
		assert.Nil(t, rec.Children)
	}
	assert.Equal(t, []string{"/login", "/system", "/system/user", "/system/user/:id"}, paths)
	assert.True(t, r.HasRoute("systemUser"))
}

func TestRouter_AddRouteSameNameReplaces(t *testing.T) {
	r := New(table())
	r.AddRoute(&route.Record{Path: "/sys", Name: "system", Meta: route.Meta{}})

	assert.False(t, r.HasRoute("systemUser"))
	assert.Equal(t, 2, r.Len())

	_, err := r.Resolve(Location{Path: "/system/user"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRouter_AddRouteRemover(t *testing.T) {
	r := New(table())

	remove := r.AddRoute(&route.Record{
		Path: "/tools", Meta: route.Meta{},
		Children: []*route.Record{{Path: "gen", Name: "toolsGen", Meta: route.Meta{}}},
	})
	assert.Equal(t, 6, r.Len())
	assert.True(t, r.HasRoute("toolsGen"))

	remove()
	assert.Equal(t, 4, r.Len())
	assert.False(t, r.HasRoute("toolsGen"))
	_, err := r.Resolve(Location{Path: "/tools"})
	assert.ErrorIs(t, err, ErrNotFound)

	// a second call finds nothing left to drop
	remove()
	assert.Equal(t, 4, r.Len())
}

func TestRouter_Resolve(t *testing.T) {
	r := New(table())
	r.AddRoute(&route.Record{Path: "/", Redirect: "/system/user", Meta: route.Meta{}})
	r.AddRoute(&route.Record{Path: route.PathNotFound, Name: "404", Meta: route.Meta{}})
	r.AddRoute(&route.Record{Path: route.PathCatchAll, Redirect: route.PathNotFound, Meta: route.Meta{}})

	to, err := r.Resolve(Location{Path: "/system/user/42"})
	require.NoError(t, err)
	assert.Equal(t, "systemUserDetail", to.Name)
	assert.Equal(t, "42", to.Params["id"])

	to, err = r.Resolve(Location{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "/system/user", to.Path)
	assert.Equal(t, "/", to.RedirectedFrom)
	assert.True(t, to.Meta.Cacheable())

	to, err = r.Resolve(Location{Path: "/no/such/page"})
	require.NoError(t, err)
	assert.Equal(t, "/404", to.Path)
}

func TestRouter_CatchAllMustBeLast(t *testing.T) {
	r := New(nil)
	r.AddRoute(&route.Record{Path: "/404", Name: "404", Meta: route.Meta{}})
	r.AddRoute(&route.Record{Path: route.PathCatchAll, Name: "catchAll", Redirect: "/404", Meta: route.Meta{}})
	r.AddRoute(&route.Record{Path: "/late", Name: "late", Meta: route.Meta{}})

	// the earlier catch-all shadows /late
	to, err := r.Resolve(Location{Path: "/late"})
	require.NoError(t, err)
	assert.Equal(t, "/404", to.Path)
}

func TestRouter_RedirectLoop(t *testing.T) {
	r := New([]*route.Record{
		{Path: "/a", Redirect: "/b", Meta: route.Meta{}},
		{Path: "/b", Redirect: "/a", Meta: route.Meta{}},
	})
	_, err := r.Resolve(Location{Path: "/a"})
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestRouter_GuardsRunInOrder(t *testing.T) {
	r := New(table())
	var order []string
	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		order = append(order, "first")
		return Proceed(), nil
	})
	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		order = append(order, "second")
		return Proceed(), nil
	})
	r.AfterEach(func(ctx context.Context, to, from *Target) {
		order = append(order, "after:"+to.Path)
	})

	to, err := r.Push(context.Background(), "/system/user")
	require.NoError(t, err)
	assert.Equal(t, "/system/user", to.Path)
	assert.Equal(t, []string{"first", "second", "after:/system/user"}, order)
	assert.Same(t, to, r.Current())
}

func TestRouter_GuardRedirect(t *testing.T) {
	r := New(table())
	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		if to.Path == "/login" {
			return Proceed(), nil
		}
		return Redirect(Location{Path: "/login", Query: url.Values{"redirect": {to.FullPath}}}), nil
	})

	to, err := r.Push(context.Background(), "/system/user?tab=1")
	require.NoError(t, err)
	assert.Equal(t, "/login", to.Path)
	assert.Equal(t, "/system/user?tab=1", to.Query.Get("redirect"))
	assert.Equal(t, "/system/user?tab=1", to.RedirectedFrom)
	assert.False(t, to.Replace)
}

func TestRouter_GuardReplaceAfterAddingRoutes(t *testing.T) {
	r := New(nil)
	loaded := false
	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		if !loaded {
			loaded = true
			r.AddRoute(&route.Record{Path: "/dyn", Name: "dyn", Meta: route.Meta{route.MetaTitle: "Dynamic"}})
			return ReplaceWith(to.Location()), nil
		}
		return Proceed(), nil
	})

	to, err := r.Push(context.Background(), "/dyn")
	require.NoError(t, err)
	assert.True(t, to.IsMatched())
	assert.True(t, to.Replace)
	assert.Equal(t, "Dynamic", to.Meta.Title())
}

func TestRouter_GuardError(t *testing.T) {
	r := New(table())
	boom := errors.New("boom")
	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		return Decision{}, boom
	})
	_, err := r.Push(context.Background(), "/login")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, r.Current())
}

func TestRouter_GuardAbortAndLoop(t *testing.T) {
	r := New(table(), WithMaxRedirects(3))
	remove := r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		return Abort(), nil
	})
	_, err := r.Push(context.Background(), "/login")
	assert.ErrorIs(t, err, ErrAborted)
	remove()

	r.BeforeEach(func(ctx context.Context, to, from *Target) (Decision, error) {
		return Redirect(Location{Path: "/system"}), nil
	})
	_, err = r.Push(context.Background(), "/login")
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestRouter_UnmatchedIsCommitted(t *testing.T) {
	r := New(nil)
	to, err := r.Push(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.False(t, to.IsMatched())
	assert.NotNil(t, to.Meta)
}

func TestLocation(t *testing.T) {
	loc, err := ParseLocation("/login?redirect=%2Fsystem%2Fuser")
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/system/user", loc.Query.Get("redirect"))
	assert.Equal(t, "/login?redirect=%2Fsystem%2Fuser", loc.FullPath())

	loc, err = ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
}

func TestPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/b/", true},
		{"/a/b", "/a", false},
		{"/a/:id", "/a/1", true},
		{"/a/:id", "/a/1/2", false},
		{"/:pathMatch(.*)*", "/", true},
		{"/:pathMatch(.*)*", "/x/y/z", true},
		{"/", "/", true},
		{"/", "/x", false},
	}
	for _, tt := range tests {
		_, ok := compile(tt.pattern).match(tt.path)
		assert.Equal(t, tt.ok, ok, "%s ~ %s", tt.pattern, tt.path)
	}
}
