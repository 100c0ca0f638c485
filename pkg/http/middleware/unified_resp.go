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
package middleware

import (
	"github.com/go-arcade/console/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware 统一响应中间件
// c.Locals(http.DetailKey, value) 用于设置响应数据
// c.Locals(http.OperationKey, true) 表示无数据的成功操作
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			// handler 已经写好了错误响应
			return nil
		}

		if detail := c.Locals(http.DetailKey); detail != nil {
			return http.WithRepJSON(c, detail)
		}
		if c.Locals(http.OperationKey) != nil {
			return http.WithRepNotDetail(c)
		}
		return nil
	}
}
