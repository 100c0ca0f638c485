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
	"github.com/go-arcade/console/pkg/log"
)

const (
	DefaultViewPrefix = "/src/views"
	DefaultViewExt    = ".vue"
)

// Generator turns a remote menu tree into route records, reusing local
// route definitions where a menu points at one.
//
// The local table is never modified: matched records are cloned before the
// remote meta is merged in.
type Generator struct {
	local  []*Record
	views  *ViewRegistry
	prefix string
	ext    string
}

type Option func(*Generator)

// WithViews resolves synthesized view components through reg.
func WithViews(reg *ViewRegistry) Option {
	return func(g *Generator) { g.views = reg }
}

func WithViewPrefix(prefix string) Option {
	return func(g *Generator) { g.prefix = prefix }
}

func WithViewExt(ext string) Option {
	return func(g *Generator) { g.ext = ext }
}

func NewGenerator(local []*Record, opts ...Option) *Generator {
	g := &Generator{
		local:  local,
		prefix: DefaultViewPrefix,
		ext:    DefaultViewExt,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 根据菜单生成路由，输出顺序与输入一致
func (g *Generator) Generate(menus []MenuNode) []*Record {
	records := make([]*Record, 0, len(menus))
	for _, m := range menus {
		var r *Record
		// 叶子节点不会在本地预先定义
		if m.IsMenu() {
			r = g.match(m, g.local, "/")
		}
		if r == nil {
			r = g.synthesize(m)
		}
		records = append(records, r)
	}
	return records
}

// match looks for a local record whose resolved path equals m.MenuURL.
// When both sides have children, only local children confirmed by a remote
// child are kept; the rest are dropped.
func (g *Generator) match(m MenuNode, locals []*Record, parentPath string) *Record {
	for _, local := range locals {
		resolved := Resolve(parentPath, local.Path)
		if resolved != m.MenuURL {
			continue
		}

		out := local.Clone()
		out.Meta = local.Meta.Fill(menuMeta(m))

		if len(m.Children) > 0 && len(local.Children) > 0 {
			children := make([]*Record, 0, len(m.Children))
			for _, child := range m.Children {
				if c := g.match(child, local.Children, resolved); c != nil {
					children = append(children, c)
				}
			}
			out.Children = children
		}
		return out
	}
	return nil
}

func (g *Generator) synthesize(m MenuNode) *Record {
	r := &Record{
		Path: m.MenuURL,
		Name: m.RouteName,
		Meta: menuMeta(m),
	}
	if m.OutLink != "" && IsExternal(m.OutLink) {
		r.Path = m.OutLink
	}
	if r.Name == "" {
		r.Name = NameFromURL(m.MenuURL)
	}
	if m.IsMenu() {
		r.Component = &Component{Kind: ComponentLayout}
	} else {
		r.Component = g.view(m)
	}
	if m.Children != nil {
		r.Children = g.Generate(m.Children)
	}
	return r
}

// FilePath 约定的页面文件路径：prefix + resolve('/', localFilePath || menuUrl) + ext
func (g *Generator) FilePath(m MenuNode) string {
	local := m.LocalFilePath
	if local == "" {
		local = m.MenuURL
	}
	return g.prefix + Resolve("/", local) + g.ext
}

func (g *Generator) view(m MenuNode) *Component {
	c := &Component{Kind: ComponentView, File: g.FilePath(m)}
	if g.views == nil {
		return c
	}
	if l, ok := g.views.Lookup(c.File); ok {
		c.Load = l
	} else {
		log.Warnw("view not registered, route kept without loader", "file", c.File, "menuUrl", m.MenuURL)
	}
	return c
}

// menuMeta builds the meta bag from a menu node with defaults applied.
func menuMeta(m MenuNode) Meta {
	meta := Meta{
		MetaTitle:      m.MenuName,
		MetaHidden:     m.Hidden,
		MetaAffix:      m.Affix,
		MetaCacheable:  m.Cacheable,
		MetaIcon:       m.Icon,
		MetaIconPrefix: m.IconPrefix,
		MetaIsRootPath: m.IsRootPath,
		MetaIsSingle:   m.IsSingle,
	}
	if m.Icon == "" {
		meta[MetaIcon] = DefaultIcon
	}
	if m.IconPrefix == "" {
		meta[MetaIconPrefix] = DefaultIconPrefix
	}
	if m.Badge != nil {
		meta[MetaBadge] = m.Badge
	}
	return meta
}
