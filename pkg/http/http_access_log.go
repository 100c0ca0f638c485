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
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccessLogFormat logs one line per request through log. Probe and
// scrape endpoints are skipped.
func AccessLogFormat(log *zap.Logger) fiber.Handler {
	sugar := log.Sugar()
	// exclude api path
	// tips: 这里的路径是不需要记录日志的路径，url为端口后的全部路径
	excludedPaths := []string{
		"/health",
		"/metrics",
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, p := range excludedPaths {
			if path == p || strings.HasPrefix(path, p+"/") {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		queryStr := ""
		if query := c.Context().QueryArgs().String(); query != "" {
			queryStr = "?" + query
		}

		sugar.Infow("HTTP request",
			"method", c.Method(),
			"path", path,
			"query", queryStr,
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"request_id", c.Locals(RequestIDKey),
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"latency", latency.String(),
		)

		return err
	}
}
