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
	"errors"

	"github.com/go-arcade/console/internal/console/router"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/internal/console/store"
	httpx "github.com/go-arcade/console/pkg/http"
	"github.com/gofiber/fiber/v2"
)

type CloseTabsRequest struct {
	Side string `json:"side"`
	Path string `json:"path"`
}

// TabsResponse 标签页列表，Navigated 为关闭当前页后跳转到的页面
type TabsResponse struct {
	Tabs      []store.VisitedEntry `json:"tabs"`
	Cached    []string             `json:"cached"`
	Navigated *router.Target       `json:"navigated,omitempty"`
	Title     string               `json:"title"`
}

func (rt *Router) tabsRouter(r fiber.Router, auth fiber.Handler) {
	tabsGroup := r.Group("/tabs", auth)
	{
		tabsGroup.Get("/", rt.listTabs)        // GET /tabs - visited tabs
		tabsGroup.Delete("/", rt.closeTab)     // DELETE /tabs?path= - close one tab
		tabsGroup.Post("/close", rt.closeTabs) // POST /tabs/close - close left, right or all
	}
}

func tabsResponse(s *session.Session, navigated *router.Target) TabsResponse {
	return TabsResponse{
		Tabs:      nonNil(s.Visited.Entries()),
		Cached:    nonNil(s.Cached.Names()),
		Navigated: navigated,
		Title:     s.Guards.Title(),
	}
}

func (rt *Router) listTabs(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, tabsResponse(current(c), nil))
	return nil
}

func (rt *Router) closeTab(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.BadRequest, c.Path())
	}
	s := current(c)
	_, to, err := s.CloseTab(c.UserContext(), path)
	if err != nil {
		return tabsError(c, s, err)
	}
	c.Locals(httpx.DetailKey, tabsResponse(s, to))
	return nil
}

func (rt *Router) closeTabs(c *fiber.Ctx) error {
	var req CloseTabsRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed, c.Path())
	}
	side := session.CloseSide(req.Side)
	if side != session.CloseAll && req.Path == "" {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.BadRequest, c.Path())
	}
	s := current(c)
	to, err := s.CloseTabs(c.UserContext(), side, req.Path)
	if err != nil {
		return tabsError(c, s, err)
	}
	c.Locals(httpx.DetailKey, tabsResponse(s, to))
	return nil
}

func tabsError(c *fiber.Ctx, s *session.Session, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidSide):
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.InvalidCloseSide, c.Path())
	case errors.Is(err, session.ErrTabNotFound):
		return httpx.WithRepErrStatus(c, fiber.StatusNotFound, httpx.TabNotFound, c.Path())
	case errors.Is(err, router.ErrTooManyRedirects), errors.Is(err, store.ErrMenuFetch):
		return navigationError(c, s, err)
	default:
		return storageError(c, s, store.VisitedRoutesID, err)
	}
}
