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
	"fmt"
	"os"
	"time"

	"github.com/go-arcade/console/internal/console/config"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet 提供路由生成、会话与 HTTP 路由
var ProviderSet = wire.NewSet(
	ProvideGenerator,
	ProvideSessionManager,
	NewRouter,
	ProvideApp,
)

// ProvideGenerator builds the route generator from the local route table
// and, when a view directory is configured, the views found in it.
func ProvideGenerator(views config.ViewsConfig) (*route.Generator, error) {
	local, err := LoadLocalRoutes(views.LocalRoutes)
	if err != nil {
		return nil, err
	}
	opts := []route.Option{route.WithViewPrefix(views.Prefix), route.WithViewExt(views.Ext)}
	if views.Dir != "" {
		reg, err := route.ScanViews(os.DirFS(views.Dir), ".", views.Prefix, views.Ext)
		if err != nil {
			return nil, fmt.Errorf("scan views in %s: %w", views.Dir, err)
		}
		if missing := reg.Bind(local); len(missing) > 0 {
			log.Warnw("local routes reference missing views", "files", missing)
		}
		opts = append(opts, route.WithViews(reg))
		log.Infow("views registered", "dir", views.Dir, "count", reg.Len())
	}
	return route.NewGenerator(local, opts...), nil
}

// LoadLocalRoutes reads the local route table at file, or the built-in
// table when file is empty.
func LoadLocalRoutes(file string) ([]*route.Record, error) {
	if file == "" {
		return route.DefaultLocalRoutes()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read local routes: %w", err)
	}
	return route.LoadRecords(data)
}

// SessionConfig maps the console and views sections onto a session config.
func SessionConfig(conf config.ConsoleConfig, views config.ViewsConfig) session.Config {
	return session.Config{
		ProjectName: conf.ProjectName,
		Whitelist:   conf.Whitelist,
		TTL:         time.Duration(conf.SessionTTL) * time.Second,
		MaxSessions: conf.MaxSessions,
		ViewPrefix:  views.Prefix,
		ViewExt:     views.Ext,
	}
}

// ProvideSessionManager 提供会话管理
func ProvideSessionManager(
	source store.MenuSource,
	generator *route.Generator,
	backends storage.Backends,
	recorder *metrics.ConsoleMetricsRecorder,
	conf config.ConsoleConfig,
	views config.ViewsConfig,
) (*session.Manager, func()) {
	m := session.NewManager(session.Deps{
		Source:    source,
		Generator: generator,
		Backends:  backends,
		Recorder:  recorder,
	}, SessionConfig(conf, views))
	return m, m.Close
}

// ProvideApp 提供 fiber 应用
func ProvideApp(rt *Router, logger *zap.Logger) *fiber.App {
	return rt.Router(logger)
}
