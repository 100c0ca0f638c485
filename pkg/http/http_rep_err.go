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
	"github.com/gofiber/fiber/v2"
)

// ResponseErr 失败响应，path 指向出错的请求路径
type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// Error makes a ResponseErr usable as a panic value or a returned error.
func (e ResponseErr) Error() string {
	if msg, ok := e.ErrMsg.(string); ok {
		return msg
	}
	return InternalError.Msg
}

// WithRepErrStatus 以 status 返回 rep 对应的错误码
func WithRepErrStatus(c *fiber.Ctx, status int, rep *Response, path string) error {
	return c.Status(status).JSON(ResponseErr{
		ErrCode: rep.Code,
		ErrMsg:  rep.Msg,
		Path:    path,
	})
}
