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

package remote

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/route"
	"github.com/go-arcade/console/internal/console/store"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultHTTPTimeout = 10 * time.Second

// menuResponse accepts both {code,data,msg} and {code,detail,msg} bodies.
type menuResponse struct {
	Code   int              `json:"code"`
	Msg    string           `json:"msg"`
	Data   []route.MenuNode `json:"data"`
	Detail []route.MenuNode `json:"detail"`
}

func (r *menuResponse) menus() []route.MenuNode {
	if r.Data != nil {
		return r.Data
	}
	return r.Detail
}

// HTTPSource 通过菜单接口按用户和角色获取菜单
type HTTPSource struct {
	client   *resty.Client
	endpoint string
}

func NewHTTPSource(endpoint string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	return &HTTPSource{client: client, endpoint: endpoint}
}

// Menus posts {userId, roleId} to the endpoint. The session token, when
// present, is sent as a bearer token.
func (s *HTTPSource) Menus(ctx context.Context, q store.MenuQuery) ([]route.MenuNode, error) {
	var body menuResponse
	req := s.client.R().
		SetContext(ctx).
		SetBody(q).
		SetResult(&body)
	if q.Token != "" {
		req.SetAuthToken(q.Token)
	}

	resp, err := req.Post(s.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "request menus")
	}
	if resp.IsError() {
		return nil, errors.Errorf("request menus: unexpected status %d", resp.StatusCode())
	}
	if body.Code != 0 && body.Code != 200 {
		return nil, errors.Errorf("request menus: code %d: %s", body.Code, body.Msg)
	}
	menus := body.menus()
	if menus == nil {
		menus = []route.MenuNode{}
	}
	return menus, nil
}
