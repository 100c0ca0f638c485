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
// Package session keeps one route table, guard chain and set of stores per
// console client and owns their lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-arcade/console/internal/console/guard"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/metrics"
)

// CloseSide selects which tabs CloseTabs removes.
type CloseSide string

const (
	CloseLeft  CloseSide = "left"
	CloseRight CloseSide = "right"
	CloseAll   CloseSide = "all"
)

var (
	ErrInvalidSide = errors.New("session: close side must be left, right or all")
	ErrTabNotFound = errors.New("session: tab not found")
)

// Session is the server side of one console client.
type Session struct {
	ID         string
	Router     *router.Router
	Guards     *guard.Guards
	User       *store.UserStore
	Permission *store.Permission
	Cached     *store.CachedRoutes
	Visited    *store.VisitedRoutes

	recorder     *metrics.ConsoleMetricsRecorder
	removeGuards func()
	lastSeen     atomic.Int64
}

// LoginRequest 登录后保存的用户信息，Redirect 为登录后跳转的地址
type LoginRequest struct {
	store.UserState
	Redirect string `json:"redirect"`
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Navigate pushes, or replaces with, raw through the guard chain.
func (s *Session) Navigate(ctx context.Context, raw string, replace bool) (*router.Target, error) {
	var (
		to  *router.Target
		err error
	)
	if replace {
		to, err = s.Router.Replace(ctx, raw)
	} else {
		to, err = s.Router.Push(ctx, raw)
	}
	switch {
	case err != nil:
		s.recorder.RecordNavigation(metrics.NavFailed, false)
	case !to.IsMatched():
		s.recorder.RecordNavigation(metrics.NavUnmatched, to.RedirectedFrom != "")
	default:
		s.recorder.RecordNavigation(metrics.NavCommitted, to.RedirectedFrom != "")
	}
	return to, err
}

// Login stores the user and then navigates to the redirect target, or to
// the root when none was given.
func (s *Session) Login(ctx context.Context, req LoginRequest) (*router.Target, error) {
	if err := s.User.SaveUser(ctx, req.UserState); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	redirect := req.Redirect
	if redirect == "" {
		redirect = route.PathRoot
	}
	return s.Navigate(ctx, redirect, false)
}

// CloseTab removes the tab at path. When it was the current page the
// session moves to the new last tab, which is returned.
func (s *Session) CloseTab(ctx context.Context, path string) (string, *router.Target, error) {
	if !s.hasTab(path) {
		return "", nil, fmt.Errorf("%w: %s", ErrTabNotFound, path)
	}
	next, err := s.Visited.RemoveVisited(ctx, path)
	if err != nil {
		return next, nil, err
	}
	if cur := s.Router.Current(); cur == nil || cur.Path != path {
		return next, nil, nil
	}
	to, err := s.Navigate(ctx, next, false)
	return next, to, err
}

// CloseTabs closes the tabs on one side of path, or every tab that is not
// affixed. If the current page was closed the session moves to the last
// remaining tab.
func (s *Session) CloseTabs(ctx context.Context, side CloseSide, path string) (*router.Target, error) {
	var err error
	switch side {
	case CloseLeft:
		_, err = s.Visited.CloseLeftOf(ctx, path)
	case CloseRight:
		_, err = s.Visited.CloseRightOf(ctx, path)
	case CloseAll:
		err = s.Visited.CloseAll(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if err != nil {
		return nil, err
	}

	cur := s.Router.Current()
	if cur == nil || s.hasTab(cur.Path) {
		return nil, nil
	}
	return s.Navigate(ctx, s.Visited.LastPath(), false)
}

func (s *Session) hasTab(path string) bool {
	for _, e := range s.Visited.Entries() {
		if e.Path == path {
			return true
		}
	}
	return false
}

// close detaches the guards and the persistence subscriptions.
func (s *Session) close() {
	if s.removeGuards != nil {
		s.removeGuards()
	}
	s.User.Close()
}
