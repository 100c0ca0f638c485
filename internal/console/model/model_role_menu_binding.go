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

// RoleMenuBinding 角色与菜单的授权关系，菜单对角色是否可见以此为准
type RoleMenuBinding struct {
	BaseModel
	RoleId       int64  `gorm:"column:role_id;not null;uniqueIndex:uk_role_menu,priority:1" json:"roleId"`
	MenuId       string `gorm:"column:menu_id;not null;uniqueIndex:uk_role_menu,priority:2" json:"menuId"` // 引用 t_menu.menu_id
	IsVisible    int    `gorm:"column:is_visible;default:1" json:"isVisible"`                             // 可访问但不出现在侧边栏
	IsAccessible int    `gorm:"column:is_accessible;default:1" json:"isAccessible"`
}

func (RoleMenuBinding) TableName() string {
	return "t_role_menu_binding"
}

const (
	RoleMenuAccessible   = 1
	RoleMenuInaccessible = 0
)
