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

package statemachine

import "github.com/go-arcade/console/pkg/log"

// RouteLoadState tracks whether permission routes are registered.
type RouteLoadState string

const (
	RouteEmpty   RouteLoadState = "EMPTY"
	RouteLoading RouteLoadState = "LOADING"
	RouteLoaded  RouteLoadState = "LOADED"
)

// NewRouteLoadStateMachine 创建权限路由加载状态机
//
//	EMPTY → LOADING → LOADED
//	LOADING → EMPTY   (fetch failed)
//	LOADED  → EMPTY   (reset / logout)
func NewRouteLoadStateMachine() *StateMachine[RouteLoadState] {
	sm := NewWithState(RouteEmpty)
	sm.Allow(RouteEmpty, RouteLoading).
		Allow(RouteLoading, RouteLoaded, RouteEmpty).
		Allow(RouteLoaded, RouteEmpty).
		OnTransition(func(from, to RouteLoadState) error {
			log.Debugw("route load state changed", "from", from, "to", to)
			return nil
		})
	return sm
}
