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

const defaultTabIconPrefix = "icon"

// SideBar 所有 meta.hidden 不为真的路由
func SideBar(records []*Record) []*Record {
	var out []*Record
	for _, r := range records {
		if r.Meta != nil && !r.Meta.Hidden() {
			out = append(out, r)
		}
	}
	return out
}

// SplitTab is a top-level section shown in the split-tab header.
type SplitTab struct {
	Label      string    `json:"label"`
	FullPath   string    `json:"fullPath"`
	IconPrefix string    `json:"iconPrefix"`
	Icon       string    `json:"icon,omitempty"`
	Children   []*Record `json:"children"`
}

// SplitTabs 所有不隐藏并且有子页面的路由
func SplitTabs(records []*Record) []SplitTab {
	var tabs []SplitTab
	for _, r := range SideBar(records) {
		if len(r.Children) == 0 {
			continue
		}
		prefix := r.Meta.IconPrefix()
		if prefix == "" {
			prefix = defaultTabIconPrefix
		}
		tabs = append(tabs, SplitTab{
			Label:      r.Meta.Title(),
			FullPath:   r.Path,
			IconPrefix: prefix,
			Icon:       r.Meta.Icon(),
			Children:   r.Children,
		})
	}
	return tabs
}

// MenuItem is the sidebar projection of a record.
type MenuItem struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Href       string     `json:"href,omitempty"`
	IconPrefix string     `json:"iconPrefix,omitempty"`
	Icon       string     `json:"icon,omitempty"`
	Children   []MenuItem `json:"children,omitempty"`
}

// MenuTree projects records into sidebar items. A record flagged isSingle
// with exactly one child collapses into that child.
func MenuTree(records []*Record) []MenuItem {
	var items []MenuItem
	for _, r := range SideBar(records) {
		item := menuItem(r)
		if r.Children != nil {
			if r.Meta.IsSingle() && len(r.Children) == 1 {
				only := r.Children[0]
				item.Key = Resolve(item.Key, only.Path)
				if only.Meta.Title() != "" {
					item.Label = only.Meta.Title()
					item.Href = externalHref(only)
				}
				if only.Meta.Icon() != "" {
					item.Icon = only.Meta.Icon()
					item.IconPrefix = iconPrefix(only.Meta)
				}
			} else {
				item.Children = MenuTree(r.Children)
			}
		}
		items = append(items, item)
	}
	return items
}

func menuItem(r *Record) MenuItem {
	return MenuItem{
		Key:        r.Path,
		Label:      r.Meta.Title(),
		Href:       externalHref(r),
		IconPrefix: iconPrefix(r.Meta),
		Icon:       r.Meta.Icon(),
	}
}

func externalHref(r *Record) string {
	if IsExternal(r.Path) {
		return r.Path
	}
	return ""
}

func iconPrefix(m Meta) string {
	if p := m.IconPrefix(); p != "" {
		return p
	}
	return defaultTabIconPrefix
}

// FindByPath 深度优先查找 path 对应的路由
func FindByPath(records []*Record, p string) *Record {
	if p == "" {
		return nil
	}
	for _, r := range records {
		if r.Path == p {
			return r
		}
		if found := FindByPath(r.Children, p); found != nil {
			return found
		}
	}
	return nil
}
