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

// 错误码按 HTTP 状态分段：40xx 请求、44xx 鉴权、46xx 会话与标签、50xx/51xx 服务端
var (
	BadRequest                    = failed(4000, "Bad request")
	NotFound                      = failed(4004, "Not found")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")

	TokenBeEmpty = failed(4406, "Token cannot be empty")
	TokenExpired = failed(4407, "Token is expired")

	SessionIdIsEmpty = failed(4601, "Session id is empty")
	SessionNotFound  = failed(4602, "Session not found or expired")
	InvalidCloseSide = failed(4603, "Close side must be left, right or all")
	TabNotFound      = failed(4604, "Tab not found")
	TooManySessions  = failed(4605, "Too many active sessions")

	InternalError    = failed(5000, "Internal error, please contact the administrator")
	MenuFetchFailed  = failed(5101, "Failed to fetch menus")
	NavigationFailed = failed(5102, "Navigation failed")
	StorageFailed    = failed(5103, "Failed to persist console state")
	TooManyRedirects = failed(5104, "Too many redirects")
)

var (
	Success = &Response{Code: 200, Msg: "Request Success"}
)

func failed(code int, msg string) *Response {
	return &Response{Code: code, Msg: msg}
}
