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
	"github.com/go-arcade/console/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderSessionID = "X-Session-Id"
	sessionKey      = "session"
)

// SessionResponse 会话信息，不包含 token
type SessionResponse struct {
	SessionID string         `json:"sessionId"`
	Title     string         `json:"title"`
	User      *UserResponse  `json:"user,omitempty"`
	Current   *router.Target `json:"current,omitempty"`
	State     string         `json:"permissionState"`
}

type UserResponse struct {
	UserID   int64  `json:"userId"`
	RoleID   int64  `json:"roleId"`
	UserName string `json:"userName,omitempty"`
	NickName string `json:"nickName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (rt *Router) sessionRouter(r fiber.Router) {
	auth := rt.sessionMiddleware()

	sessionGroup := r.Group("/sessions")
	{
		sessionGroup.Post("/", rt.createSession)               // POST /sessions - create a session
		sessionGroup.Get("/", auth, rt.getSession)             // GET /sessions - current session state
		sessionGroup.Post("/login", auth, rt.login)            // POST /sessions/login - save user and enter
		sessionGroup.Post("/logout", auth, rt.logout)          // POST /sessions/logout - clear the session
		sessionGroup.Put("/nickname", auth, rt.changeNickName) // PUT /sessions/nickname - change nick name
	}
}

// sessionMiddleware resolves the X-Session-Id header into a session.
func (rt *Router) sessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderSessionID)
		if id == "" {
			return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.SessionIdIsEmpty, c.Path())
		}
		s, err := rt.Sessions.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return httpx.WithRepErrStatus(c, fiber.StatusNotFound, httpx.SessionNotFound, c.Path())
			}
			log.Errorw("failed to load session", "session", id, "error", err)
			return httpx.WithRepErrStatus(c, fiber.StatusInternalServerError, httpx.StorageFailed, c.Path())
		}
		c.Locals(sessionKey, s)
		c.Set(HeaderSessionID, s.ID)
		return c.Next()
	}
}

func current(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(sessionKey).(*session.Session)
	return s
}

func sessionResponse(s *session.Session) SessionResponse {
	resp := SessionResponse{
		SessionID: s.ID,
		Title:     s.Guards.Title(),
		Current:   s.Router.Current(),
		State:     string(s.Permission.State()),
	}
	if u := s.User.State(); u.Token != "" {
		resp.User = &UserResponse{
			UserID:   u.UserID,
			RoleID:   u.RoleID,
			UserName: u.UserName,
			NickName: u.NickName,
			Avatar:   u.Avatar,
		}
	}
	return resp
}

func (rt *Router) createSession(c *fiber.Ctx) error {
	s, err := rt.Sessions.Create(c.UserContext())
	if err != nil {
		if errors.Is(err, session.ErrLimit) {
			return httpx.WithRepErrStatus(c, fiber.StatusServiceUnavailable, httpx.TooManySessions, c.Path())
		}
		log.Errorw("failed to create session", "error", err)
		return httpx.WithRepErrStatus(c, fiber.StatusInternalServerError, httpx.StorageFailed, c.Path())
	}
	c.Set(HeaderSessionID, s.ID)
	c.Locals(httpx.DetailKey, sessionResponse(s))
	return nil
}

func (rt *Router) getSession(c *fiber.Ctx) error {
	c.Locals(httpx.DetailKey, sessionResponse(current(c)))
	return nil
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req session.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed, c.Path())
	}
	if req.Token == "" {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.TokenBeEmpty, c.Path())
	}
	s := current(c)
	to, err := s.Login(c.UserContext(), req)
	if err != nil {
		return navigationError(c, s, err)
	}
	c.Locals(httpx.DetailKey, navigateResponse(s, to))
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	s, err := rt.Sessions.Logout(c.UserContext(), current(c).ID)
	if s == nil {
		log.Errorw("failed to logout session", "session", current(c).ID, "error", err)
		return httpx.WithRepErrStatus(c, fiber.StatusInternalServerError, httpx.StorageFailed, c.Path())
	}
	if err != nil {
		// 会话已重建，存储清理失败只记录日志
		log.Warnw("session storage not fully cleared", "session", s.ID, "error", err)
	}
	c.Locals(httpx.DetailKey, sessionResponse(s))
	return nil
}

type nickNameRequest struct {
	NickName string `json:"nickName"`
}

func (rt *Router) changeNickName(c *fiber.Ctx) error {
	var req nickNameRequest
	if err := c.BodyParser(&req); err != nil || req.NickName == "" {
		return httpx.WithRepErrStatus(c, fiber.StatusBadRequest, httpx.RequestParameterParsingFailed, c.Path())
	}
	s := current(c)
	if s.User.IsTokenExpired() {
		return httpx.WithRepErrStatus(c, fiber.StatusUnauthorized, httpx.TokenExpired, c.Path())
	}
	if err := s.User.ChangeNickName(c.UserContext(), req.NickName); err != nil {
		return storageError(c, s, store.UserID, err)
	}
	c.Locals(httpx.OperationKey, true)
	return nil
}
