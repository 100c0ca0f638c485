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
package server

import (
	"context"
	"errors"

	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/internal/console/store"
	httpx "github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type NavigateRequest struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// NavigateResponse 导航结果以及导航后的页面标题
type NavigateResponse struct {
	Target *router.Target `json:"target"`
	Title  string         `json:"title"`
}

func navigateResponse(s *session.Session, to *router.Target) NavigateResponse {
	return NavigateResponse{Target: to, Title: s.Guards.Title()}
}

func (rt *Router) navigate(c *fiber.Ctx) error {
	var req NavigateRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed, c.Path())
	}
	s := current(c)
	to, err := s.Navigate(c.UserContext(), req.Path, req.Replace)
	if err != nil {
		return navigationError(c, s, err)
	}
	c.Locals(httpx.DetailKey, navigateResponse(s, to))
	return nil
}

// navigationError maps a failed navigation onto the response catalog.
func navigationError(c *fiber.Ctx, s *session.Session, err error) error {
	log.Warnw("navigation failed", "session", s.ID, "path", c.Path(), "error", err)
	switch {
	case errors.Is(err, router.ErrTooManyRedirects):
		return httpx.WithRepErrStatus(c, fiber.StatusConflict, httpx.TooManyRedirects, c.Path())
	case errors.Is(err, store.ErrMenuFetch):
		return httpx.WithRepErrStatus(c, fiber.StatusBadGateway, httpx.MenuFetchFailed, c.Path())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return httpx.WithRepErrStatus(c, fiber.StatusRequestTimeout, httpx.NavigationFailed, c.Path())
	default:
		return httpx.WithRepErrStatus(c, fiber.StatusInternalServerError, httpx.NavigationFailed, c.Path())
	}
}

// storageError reports a state change that was applied in memory but not
// persisted.
func storageError(c *fiber.Ctx, s *session.Session, storeID string, err error) error {
	log.Errorw("failed to persist console state", "session", s.ID, "store", storeID, "error", err)
	return httpx.WithRepErrStatus(c, fiber.StatusInternalServerError, httpx.StorageFailed, c.Path())
}

// routes 权限路由：常量路由 + 动态路由树
func (rt *Router) routes(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, nonNil(current(c).Permission.Routes()))
	return nil
}

// menus 侧边栏菜单
func (rt *Router) menus(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, nonNil(current(c).Permission.MenuTree()))
	return nil
}

// splitTabs 分栏模式下的顶部标签
func (rt *Router) splitTabs(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, nonNil(current(c).Permission.SplitTabs()))
	return nil
}

// cached 需要缓存的页面名称
func (rt *Router) cached(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, nonNil(current(c).Cached.Names()))
	return nil
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
