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

// FlattenTwoLevel 将多层级路由拍成两级
//
//	[a,[b,[c]]] => [a,[b,c]]
//
// Every descendant is hoisted to a direct child of its top-level record in
// depth-first pre-order. Hoisted paths are resolved against their real
// ancestor chain, external links are left alone, and hoisted records carry
// no children of their own. The input is not modified.
func FlattenTwoLevel(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		top := r.Clone()
		var hoisted []*Record
		if len(r.Children) > 0 {
			hoist(r.Children, r.Path, &hoisted)
		}
		if len(hoisted) > 0 {
			top.Children = hoisted
		}
		out = append(out, top)
	}
	return out
}

func hoist(children []*Record, parentPath string, out *[]*Record) {
	for _, c := range children {
		n := c.cloneNode()
		if !IsExternal(c.Path) {
			n.Path = Resolve(parentPath, c.Path)
		}
		*out = append(*out, n)
		if len(c.Children) > 0 {
			hoist(c.Children, n.Path, out)
		}
	}
}

// ResolvePaths returns a deep copy of records with every non-external path
// made absolute against its ancestors. Nesting is kept.
func ResolvePaths(records []*Record) []*Record {
	return resolveUnder(records, "/")
}

func resolveUnder(records []*Record, parentPath string) []*Record {
	if records == nil {
		return nil
	}
	out := make([]*Record, len(records))
	for i, r := range records {
		n := r.cloneNode()
		if !IsExternal(r.Path) {
			n.Path = Resolve(parentPath, r.Path)
		}
		n.Children = resolveUnder(r.Children, n.Path)
		out[i] = n
	}
	return out
}
