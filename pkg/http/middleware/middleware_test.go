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
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/pkg/http"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, app *fiber.App, path string, header map[string]string) (int, map[string]any, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, sonic.Unmarshal(data, &out))
	}
	return resp.StatusCode, out, resp.Header.Get(http.HeaderRequestID)
}

func TestExceptionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ExceptionMiddleware)
	app.Get("/string", func(*fiber.Ctx) error { panic("boom") })
	app.Get("/expected", func(*fiber.Ctx) error {
		panic(http.ResponseErr{ErrCode: http.BadRequest.Code, ErrMsg: "bad tab"})
	})
	app.Get("/error", func(*fiber.Ctx) error { panic(errors.New("nil map")) })

	tests := []struct {
		path string
		msg  string
	}{
		{"/string", "boom"},
		{"/expected", "bad tab"},
		{"/error", http.InternalError.Msg},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, out, _ := body(t, app, tt.path, nil)
			assert.Equal(t, fiber.StatusInternalServerError, status)
			assert.Equal(t, float64(http.InternalError.Code), out["code"])
			assert.Equal(t, tt.msg, out["errMsg"])
			assert.Equal(t, tt.path, out["path"])
		})
	}
}

func TestRequestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(http.RequestIDKey).(string))
	})

	_, _, id := body(t, app, "/", nil)
	assert.Len(t, id, 36)

	_, _, id = body(t, app, "/", map[string]string{http.HeaderRequestID: "req-1"})
	assert.Equal(t, "req-1", id)
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UnifiedResponseMiddleware())
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(http.DetailKey, []string{"home"})
		return nil
	})
	app.Get("/operation", func(c *fiber.Ctx) error {
		c.Locals(http.OperationKey, true)
		return nil
	})
	app.Get("/failed", func(c *fiber.Ctx) error {
		return http.WithRepErrStatus(c, fiber.StatusNotFound, http.TabNotFound, c.Path())
	})

	status, out, _ := body(t, app, "/detail", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(http.Success.Code), out["code"])
	assert.Equal(t, []any{"home"}, out["detail"])

	_, out, _ = body(t, app, "/operation", nil)
	assert.Equal(t, http.Success.Msg, out["msg"])
	assert.NotContains(t, out, "detail")

	status, out, _ = body(t, app, "/failed", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, float64(http.TabNotFound.Code), out["code"])
}

func TestCorsMiddleware(t *testing.T) {
	assert.NotPanics(t, func() { CorsMiddleware("") })
	assert.NotPanics(t, func() { CorsMiddleware("https://console.example.com") })
}
