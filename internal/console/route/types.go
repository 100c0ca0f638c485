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

import (
	"context"
	"maps"
)

// MenuNode 服务端下发的菜单节点
type MenuNode struct {
	MenuURL       string     `json:"menuUrl"`
	MenuName      string     `json:"menuName"`
	RouteName     string     `json:"routeName,omitempty"`
	Icon          string     `json:"icon,omitempty"`
	IconPrefix    string     `json:"iconPrefix,omitempty"`
	Badge         any        `json:"badge,omitempty"`
	Hidden        bool       `json:"hidden,omitempty"`
	Affix         bool       `json:"affix,omitempty"`
	Cacheable     bool       `json:"cacheable,omitempty"`
	IsRootPath    bool       `json:"isRootPath,omitempty"`
	IsSingle      bool       `json:"isSingle,omitempty"`
	OutLink       string     `json:"outLink,omitempty"`
	LocalFilePath string     `json:"localFilePath,omitempty"`
	Children      []MenuNode `json:"children,omitempty"`
}

// IsMenu 是否是菜单，判断依据为是否有 children
func (m MenuNode) IsMenu() bool {
	return len(m.Children) > 0
}

// Meta keys
const (
	MetaTitle      = "title"
	MetaAffix      = "affix"
	MetaCacheable  = "cacheable"
	MetaIcon       = "icon"
	MetaIconPrefix = "iconPrefix"
	MetaBadge      = "badge"
	MetaHidden     = "hidden"
	MetaIsRootPath = "isRootPath"
	MetaIsSingle   = "isSingle"
)

const (
	DefaultIcon       = "menu"
	DefaultIconPrefix = "iconfont"
)

// Meta is the route metadata bag. It is a map so that a missing key can be
// told apart from a key explicitly set to its zero value.
type Meta map[string]any

func (m Meta) Bool(key string) bool {
	v, _ := m[key].(bool)
	return v
}

func (m Meta) String(key string) string {
	v, _ := m[key].(string)
	return v
}

func (m Meta) Title() string      { return m.String(MetaTitle) }
func (m Meta) Icon() string       { return m.String(MetaIcon) }
func (m Meta) IconPrefix() string { return m.String(MetaIconPrefix) }
func (m Meta) Badge() any         { return m[MetaBadge] }
func (m Meta) Affix() bool        { return m.Bool(MetaAffix) }
func (m Meta) Cacheable() bool    { return m.Bool(MetaCacheable) }
func (m Meta) Hidden() bool       { return m.Bool(MetaHidden) }
func (m Meta) IsRootPath() bool   { return m.Bool(MetaIsRootPath) }
func (m Meta) IsSingle() bool     { return m.Bool(MetaIsSingle) }

// Clone returns a shallow copy. A nil Meta clones to an empty one.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	maps.Copy(out, m)
	return out
}

// Fill returns a copy of m with every key of from that m lacks.
// Keys already in m win.
func (m Meta) Fill(from Meta) Meta {
	out := from.Clone()
	maps.Copy(out, m)
	return out
}

// ComponentKind 组件类型
type ComponentKind string

const (
	// ComponentLayout 布局占位，菜单节点只作为分组容器
	ComponentLayout ComponentKind = "layout"
	// ComponentView 按约定从文件路径加载的页面
	ComponentView ComponentKind = "view"
)

// Loader loads the view module bytes for a view component.
type Loader func(ctx context.Context) ([]byte, error)

// Component is what a route renders.
type Component struct {
	Kind ComponentKind `json:"kind"`
	File string        `json:"file,omitempty"`
	Load Loader        `json:"-"`
}

// Resolved reports whether a view component has a loader bound.
func (c *Component) Resolved() bool {
	if c == nil {
		return false
	}
	return c.Kind == ComponentLayout || c.Load != nil
}

// Record 路由记录
type Record struct {
	Path      string     `json:"path"`
	Name      string     `json:"name,omitempty"`
	Component *Component `json:"component,omitempty"`
	Redirect  string     `json:"redirect,omitempty"`
	Meta      Meta       `json:"meta"`
	Children  []*Record  `json:"children,omitempty"`
}

func (r *Record) GetName() string { return r.Name }
func (r *Record) GetMeta() Meta   { return r.Meta }

// Clone deep-copies r and its children. The component is shared since it is
// never mutated after construction.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := r.cloneNode()
	if r.Children != nil {
		out.Children = make([]*Record, len(r.Children))
		for i, c := range r.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// cloneNode copies r without its children.
func (r *Record) cloneNode() *Record {
	return &Record{
		Path:      r.Path,
		Name:      r.Name,
		Component: r.Component,
		Redirect:  r.Redirect,
		Meta:      r.Meta.Clone(),
	}
}

// Named is anything carrying a route name and meta bag.
type Named interface {
	GetName() string
	GetMeta() Meta
}

// CloneAll deep-copies a record slice.
func CloneAll(records []*Record) []*Record {
	out := make([]*Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
