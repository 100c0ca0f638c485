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

package model

// Menu 菜单表
type Menu struct {
	BaseModel
	MenuId        string `gorm:"column:menu_id;not null;uniqueIndex" json:"menuId"` // 菜单唯一标识
	ParentId      string `gorm:"column:parent_id;index" json:"parentId"`            // 父菜单ID（为空表示顶级菜单）
	Name          string `gorm:"column:name;not null" json:"name"`                  // 菜单名称
	Path          string `gorm:"column:path;not null" json:"path"`                  // 菜单路径（绝对路由路径）
	RouteName     string `gorm:"column:route_name" json:"routeName"`                // 路由名称，为空时由路径生成
	LocalFilePath string `gorm:"column:local_file_path" json:"localFilePath"`       // 页面文件路径，为空时使用 path
	OutLink       string `gorm:"column:out_link" json:"outLink"`                    // 外链地址
	Icon          string `gorm:"column:icon" json:"icon"`                           // 图标名称
	IconPrefix    string `gorm:"column:icon_prefix" json:"iconPrefix"`              // 图标前缀
	Order         int    `gorm:"column:order;default:0" json:"order"`               // 排序（数值越小越靠前）
	IsVisible     int    `gorm:"column:is_visible;default:1" json:"isVisible"`      // 是否可见：0-隐藏，1-显示
	IsEnabled     int    `gorm:"column:is_enabled;default:1" json:"isEnabled"`      // 是否启用：0-禁用，1-启用
	IsAffix       int    `gorm:"column:is_affix;default:0" json:"isAffix"`          // 是否固定在标签栏
	IsCacheable   int    `gorm:"column:is_cacheable;default:0" json:"isCacheable"`  // 是否缓存页面状态
	IsRootPath    int    `gorm:"column:is_root_path;default:0" json:"isRootPath"`   // 是否为 `/` 的默认跳转
	IsSingle      int    `gorm:"column:is_single;default:0" json:"isSingle"`        // 只有一个子菜单时是否折叠
	Description   string `gorm:"column:description" json:"description"`             // 菜单描述
	Meta          string `gorm:"column:meta;type:text" json:"meta"`                 // 扩展元数据（JSON格式），如 badge
}

func (Menu) TableName() string {
	return "t_menu"
}

// 菜单可见性常量
const (
	MenuVisible   = 1 // 可见
	MenuInvisible = 0 // 不可见
)

// 菜单启用状态常量
const (
	MenuEnabled  = 1 // 启用
	MenuDisabled = 0 // 禁用
)

// 开关字段
const (
	FlagOff = 0
	FlagOn  = 1
)
