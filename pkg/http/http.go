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

package http

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string
	Port            int
	ContextPath     string
	AccessLog       bool
	ExposeMetrics   bool
	AllowOrigins    string
	BodyLimit       int
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// SetDefaults 填充未配置的字段
func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ContextPath == "" {
		h.ContextPath = "/api/v1"
	}
	if h.AllowOrigins == "" {
		h.AllowOrigins = "*"
	}
	if h.BodyLimit <= 0 {
		h.BodyLimit = 4 * 1024 * 1024
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 30
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10
	}
}

// Addr returns host:port.
func (h *Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// FiberConfig maps the timeouts onto a fiber config that encodes JSON with sonic.
func (h *Http) FiberConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(h.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(h.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(h.IdleTimeout) * time.Second,
		BodyLimit:             h.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
	}
}

// NewHttp starts app in the background and returns a hook that blocks
// until a termination signal arrives, then shuts the app down.
func NewHttp(cfg Http, app *fiber.App) func() {
	addr := cfg.Addr()

	go func() {
		log.Infow("http server started", "addr", addr)
		var err error
		if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
			err = app.ListenTLS(addr, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = app.Listen(addr)
		}
		if err != nil {
			log.Errorw("http server error", "addr", addr, "error", err)
			os.Exit(1)
		}
	}()

	sc := make(chan os.Signal, 1)
	return createShutdownHook(app, cfg.ShutdownTimeout, sc)
}

func createShutdownHook(app *fiber.App, shutdownTimeout int, signalChan chan os.Signal) func() {
	signal.Notify(signalChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return func() {
		sig := <-signalChan
		log.Infow("http server shutting down", "signal", sig.String())

		if err := app.ShutdownWithTimeout(time.Duration(shutdownTimeout) * time.Second); err != nil {
			log.Errorw("http server shutdown error", "error", err)
			return
		}
		log.Info("http server shut down gracefully")
	}
}
