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
// Package server exposes console sessions over HTTP.
package server

import (
	"github.com/go-arcade/console/internal/console/session"
	httpx "github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/http/middleware"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

const appName = "Arcade Console"

type Router struct {
	Http     *httpx.Http
	Sessions *session.Manager
	Metrics  *metrics.Server
}

func NewRouter(httpConf *httpx.Http, sessions *session.Manager, metricsServer *metrics.Server) *Router {
	return &Router{
		Http:     httpConf,
		Sessions: sessions,
		Metrics:  metricsServer,
	}
}

func (rt *Router) Router(log *zap.Logger) *fiber.App {
	app := fiber.New(rt.Http.FiberConfig(appName))

	if rt.Http.AccessLog {
		app.Use(httpx.AccessLogFormat(log))
	}

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.RequestMiddleware(),
		middleware.CorsMiddleware(rt.Http.AllowOrigins),
		middleware.UnifiedResponseMiddleware(),
	)

	// 健康检查
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Http.ExposeMetrics && rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	api := app.Group(rt.Http.ContextPath)
	{
		rt.sessionRouter(api)

		auth := rt.sessionMiddleware()
		api.Post("/navigate", auth, rt.navigate)
		api.Get("/routes", auth, rt.routes)
		api.Get("/menus", auth, rt.menus)
		api.Get("/split-tabs", auth, rt.splitTabs)
		api.Get("/cached", auth, rt.cached)
		rt.tabsRouter(api, auth)
	}

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrStatus(c, fiber.StatusNotFound, httpx.NotFound, c.Path())
	})

	return app
}
