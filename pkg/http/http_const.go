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

const (
	// HeaderRequestID 请求 ID 头
	HeaderRequestID = "X-Request-Id"
	// RequestIDKey c.Locals 中的请求 ID
	RequestIDKey = "request_id"
	// DetailKey c.Locals(DetailKey, value) 设置响应数据
	DetailKey = "detail"
	// OperationKey 无响应数据的成功操作
	OperationKey = "operation"
)
