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
package safe

import (
	"runtime/debug"

	"github.com/go-arcade/console/pkg/log"
)

// Go starts f in a new goroutine, logging instead of crashing on panic.
func Go(f func()) {
	go Do(f)
}

// Do runs f and recovers from any panic, logging it with the stack.
func Do(f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	f()
}
