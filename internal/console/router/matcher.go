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

package router

import (
	"strings"
)

// pattern is a compiled route path.
//
//	/system/user          static
//	/user/:id             named segment
//	/:pathMatch(.*)*      catch-all, matches the rest including nothing
type pattern struct {
	segments []segment
}

type segment struct {
	literal  string
	param    string
	catchAll bool
}

func compile(p string) pattern {
	parts := splitPath(p)
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			segs = append(segs, segment{literal: part})
			continue
		}
		name := part[1:]
		if i := strings.IndexByte(name, '('); i >= 0 {
			if strings.HasPrefix(name[i:], "(.*)") {
				segs = append(segs, segment{param: name[:i], catchAll: true})
				// nothing after a catch-all can match
				break
			}
			name = name[:i]
		}
		segs = append(segs, segment{param: strings.TrimRight(name, "?*+")})
	}
	return pattern{segments: segs}
}

func (p pattern) match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	var params map[string]string
	set := func(k, v string) {
		if params == nil {
			params = make(map[string]string)
		}
		params[k] = v
	}
	for i, seg := range p.segments {
		if seg.catchAll {
			set(seg.param, strings.Join(parts[i:], "/"))
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		if seg.param != "" {
			set(seg.param, parts[i])
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
