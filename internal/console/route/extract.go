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

package route

// RootPath 在所有路由中找到 meta.isRootPath 的子路由，
// 否则为第一个路由的第一个子路由，否则为 /
func RootPath(records []*Record) string {
	for _, r := range records {
		for _, c := range r.Children {
			if c.Meta.IsRootPath() {
				return c.Path
			}
		}
	}
	if len(records) > 0 && len(records[0].Children) > 0 {
		return records[0].Children[0].Path
	}
	return "/"
}

// Affixed returns the top-level records pinned to the tab bar, in order.
// Children are not inspected.
func Affixed(records []*Record) []*Record {
	var out []*Record
	for _, r := range records {
		if r.Meta.Affix() {
			out = append(out, r)
		}
	}
	return out
}

// CacheableNames returns the names of items that have a name and are
// flagged cacheable. Shallow.
func CacheableNames[T Named](items []T) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		if name := it.GetName(); name != "" && it.GetMeta().Cacheable() {
			names = append(names, name)
		}
	}
	return names
}
