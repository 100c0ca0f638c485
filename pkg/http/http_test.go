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
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHttp_SetDefaults(t *testing.T) {
	h := &Http{Port: 9000}
	h.SetDefaults()
	assert.Equal(t, "0.0.0.0:9000", h.Addr())
	assert.Equal(t, "/api/v1", h.ContextPath)
	assert.Equal(t, "*", h.AllowOrigins)
	assert.Equal(t, 10, h.ShutdownTimeout)

	cfg := h.FiberConfig("test")
	assert.Equal(t, "test", cfg.AppName)
	assert.Equal(t, h.BodyLimit, cfg.BodyLimit)
}

func TestAccessLogFormat(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(AccessLogFormat(zap.New(core)))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/v1/tabs", func(c *fiber.Ctx) error { return WithRepNotDetail(c) })

	for _, p := range []string{"/health", "/api/v1/tabs?x=1"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, p, nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/tabs", fields["path"])
	assert.Equal(t, "?x=1", fields["query"])
	assert.EqualValues(t, fiber.StatusOK, fields["status"])
}
