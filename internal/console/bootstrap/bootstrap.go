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

package bootstrap

import (
	"context"
	"time"

	"github.com/go-arcade/console/internal/console/config"
	"github.com/go-arcade/console/internal/console/server"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// sweepInterval 空闲会话的清理周期
const sweepInterval = time.Minute

type App struct {
	HttpApp       *fiber.App
	HttpConf      *http.Http
	MetricsServer *metrics.Server
	PprofServer   *pprof.Server
	Sessions      *session.Manager
	Logger        *zap.Logger
	AppConf       *config.AppConfig
}

type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	httpApp *fiber.App,
	httpConf *http.Http,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	sessions *session.Manager,
	logger *zap.Logger,
	appConf *config.AppConfig,
) (*App, func(), error) {
	cleanup := func() {
		// stop pprof server
		if pprofServer != nil {
			log.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := pprofServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop pprof server", "error", err)
			}
		}

		// stop metrics server
		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop metrics server", "error", err)
			}
		}
	}

	app := &App{
		HttpApp:       httpApp,
		HttpConf:      httpConf,
		MetricsServer: metricsServer,
		PprofServer:   pprofServer,
		Sessions:      sessions,
		Logger:        logger,
		AppConf:       appConf,
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	// Wire build App (所有依赖都由 wire 自动注入)
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start metrics server
	if app.MetricsServer != nil {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("Metrics server failed", "error", err)
		}
	}

	// start pprof server
	if app.PprofServer != nil {
		if err := app.PprofServer.Start(); err != nil {
			log.Errorw("Pprof server failed", "error", err)
		}
	}

	// 空闲会话清理，TTL 为 0 时 Sweep 不做任何事
	app.Sessions.Run(ctx, sweepInterval)

	// 配置热更新只影响标题、白名单、会话上限和 TTL
	stopWatch := config.Watch(func(next config.AppConfig) {
		app.Sessions.UpdateConfig(server.SessionConfig(next.Console, next.Views))
		log.Infow("console config reloaded", "projectName", next.Console.ProjectName)
	})
	defer stopWatch()

	// start HTTP server (async), block until an exit signal
	wait := http.NewHttp(*app.HttpConf, app.HttpApp)
	wait()

	cancel()
	cleanup()

	log.Info("Server shutdown complete")
}
